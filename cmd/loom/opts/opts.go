package opts

import (
	"github.com/loomworks/loom/pkg/log"
	"github.com/loomworks/loom/pkg/options"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is an optional project descriptor (.loom.hcl/.yaml).
	ConfigFile string
	// Pretend suppresses all filesystem mutation.
	Pretend bool
	// Force disables no-overwrite protection.
	Force bool
	// FetchLicenses allows falling back to the GitHub Licenses API for
	// identifiers not embedded in the binary.
	FetchLicenses bool
	// Defaults carries user-level defaults (author, email, license)
	// resolved from ~/.loom/config.yaml and the environment.
	Defaults options.Options
	// UserLogger receives per-file feedback.
	UserLogger *log.UserLogger
}
