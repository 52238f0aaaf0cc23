package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/vcs"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewNewCmd creates the "new" command: scaffold a fresh project.
func NewNewCmd(ro *opts.RootOpts) *cobra.Command {
	var flags flagOptions
	var dir string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Scaffold a new project",
		Long: `New generates a fresh project skeleton. The target directory defaults
to ./NAME. Author, email, and license fall back to ~/.loom/config.yaml
and LOOM_* environment variables when not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags.name = args[0]

			runOpts, preserve, err := buildOptions(ctx, ro, flags.toOptions())
			if err != nil {
				return err
			}
			if !runOpts.Has(options.KeyPackage) {
				runOpts[options.KeyPackage] = packageName(runOpts.String(options.KeyName))
			}

			target := dir
			if target == "" {
				target = filepath.Join(".", runOpts.String(options.KeyName))
			}

			rec, err := buildReconciler(ro, target, flags.extensions, preserve)
			if err != nil {
				return err
			}

			ro.UserLogger.LogRun("Creating", target)
			report, err := rec.Create(ctx, runOpts)
			if err != nil {
				return errors.Errorf("creating project: %w", err)
			}

			if ro.Pretend {
				ro.UserLogger.LogValidation(true,
					fmt.Sprintf("Pretend run complete, %d files would be written", report.Count(fileops.ResultWouldWrite)), nil)
				return nil
			}

			if !noGit {
				if err := initRepo(ctx, target); err != nil {
					return err
				}
			}

			ro.UserLogger.LogValidation(true,
				fmt.Sprintf("Project ready, %d files written", report.Count(fileops.ResultWritten)), nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "target directory (default ./NAME)")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "primary package name (default derived from NAME)")
	cmd.Flags().StringVar(&flags.author, "author", "", "author name")
	cmd.Flags().StringVar(&flags.email, "email", "", "author email")
	cmd.Flags().StringVarP(&flags.licenseID, "license", "l", "", "SPDX license identifier (e.g. MIT)")
	cmd.Flags().StringVar(&flags.description, "description", "", "one-line project description")
	cmd.Flags().StringSliceVarP(&flags.extensions, "ext", "x", nil, "extensions to activate")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and initial commit")

	return cmd
}

// initRepo initializes git and commits the generated tree. An existing
// repository only gets the new files staged and committed.
func initRepo(ctx context.Context, target string) error {
	repo := vcs.NewGit(target)
	if !repo.IsRepo(ctx) {
		if err := repo.Init(ctx); err != nil {
			return errors.Errorf("initializing git repository: %w", err)
		}
	}
	if err := repo.Add(ctx); err != nil {
		return errors.Errorf("staging generated files: %w", err)
	}
	if err := repo.Commit(ctx, "Initial scaffold"); err != nil {
		return errors.Errorf("committing generated files: %w", err)
	}
	return nil
}

// packageName derives a Go-friendly package name from a project name.
func packageName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "app"
	}
	return string(out)
}
