// Package commands wires the CLI surface onto the scaffolding core.
package commands

import (
	"context"
	"os"
	"time"

	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/loomworks/loom/pkg/config"
	"github.com/loomworks/loom/pkg/extensions"
	"github.com/loomworks/loom/pkg/license"
	"github.com/loomworks/loom/pkg/materialize"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/reconcile"
	"github.com/loomworks/loom/pkg/scaffold"
	"gitlab.com/tozd/go/errors"
)

// buildOptions layers flag-supplied values over user defaults and the
// optional project descriptor. Flags win over the descriptor, which wins
// over ~/.loom/config.yaml.
func buildOptions(ctx context.Context, ro *opts.RootOpts, flagOpts options.Options) (options.Options, []string, error) {
	out := flagOpts.Clone()
	var preserve []string

	if ro.ConfigFile != "" {
		proj, err := config.Load(ctx, ro.ConfigFile)
		if err != nil {
			return nil, nil, errors.Errorf("loading descriptor: %w", err)
		}
		out = proj.ApplyTo(out)
		preserve = proj.Preserve
	}

	for key, value := range ro.Defaults {
		if !out.Has(key) {
			out[key] = value
		}
	}

	if !out.Has(options.KeyYear) {
		out[options.KeyYear] = time.Now().Year()
	}
	out = out.With(options.KeyPretend, ro.Pretend).With(options.KeyForce, ro.Force)
	return out, preserve, nil
}

// buildReconciler assembles the default pipeline, the requested
// extensions, and a materializer rooted at dir.
func buildReconciler(ro *opts.RootOpts, dir string, extNames []string, preserve []string) (*reconcile.Reconciler, error) {
	src := license.Source(license.Embedded())
	if ro.FetchLicenses {
		src = license.Chain(license.Embedded(), license.GitHub(nil))
	}

	var exts []pipeline.Extension
	for _, name := range extNames {
		ext, ok := extensions.Lookup(name)
		if !ok {
			return nil, errors.Errorf("unknown extension %q (available: %v)", name, extensions.Names())
		}
		exts = append(exts, ext)
	}

	mat, err := materialize.New(materialize.Options{
		Root:       dir,
		UserLogger: ro.UserLogger,
	})
	if err != nil {
		return nil, errors.Errorf("creating materializer: %w", err)
	}

	return reconcile.New(reconcile.Options{
		Root:         dir,
		Base:         scaffold.DefaultPipeline(src),
		Extensions:   exts,
		Lookup:       extensions.Lookup,
		Materializer: mat,
		Preserve:     preserve,
	})
}

// flagOptions collects the option flags shared by new and update.
type flagOptions struct {
	name        string
	pkg         string
	author      string
	email       string
	licenseID   string
	description string
	extensions  []string
}

// toOptions converts set flags into an Options map, leaving unset flags
// absent so lower-precedence sources can fill them.
func (f *flagOptions) toOptions() options.Options {
	out := options.New()
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set(options.KeyName, f.name)
	set(options.KeyPackage, f.pkg)
	set(options.KeyAuthor, f.author)
	set(options.KeyEmail, f.email)
	set(options.KeyLicense, f.licenseID)
	set(options.KeyDesc, f.description)
	return out
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
