package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/loomworks/loom/pkg/log"
	"github.com/loomworks/loom/pkg/options"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Flags
	configFile    string
	debug         bool
	pretend       bool
	force         bool
	fetchLicenses bool
)

// newRootOpts creates a new RootOpts with initialized dependencies
func newRootOpts(ctx context.Context) *opts.RootOpts {
	return &opts.RootOpts{
		ConfigFile:    configFile,
		Pretend:       pretend,
		Force:         force,
		FetchLicenses: fetchLicenses,
		Defaults:      userDefaults(),
		UserLogger:    log.NewUserLogger(ctx),
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "project descriptor file (.loom.hcl or .loom.yaml)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&pretend, "pretend", "P", false, "report what would happen without touching the filesystem")
	cmd.PersistentFlags().BoolVar(&force, "force", false, "overwrite files that would normally be preserved")
	cmd.PersistentFlags().BoolVar(&fetchLicenses, "fetch-licenses", false, "resolve unknown licenses via the GitHub API")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}

// userDefaults reads user-level scaffold defaults from ~/.loom/config.yaml
// and LOOM_* environment variables. A missing config file is fine.
func userDefaults() options.Options {
	v := viper.New()
	if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".loom", "config.yaml"))
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("LOOM")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	defaults := options.New()
	for _, key := range []string{options.KeyAuthor, options.KeyEmail, options.KeyLicense} {
		if value := v.GetString(key); value != "" {
			defaults[key] = value
		}
	}
	return defaults
}
