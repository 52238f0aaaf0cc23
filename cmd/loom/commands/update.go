package commands

import (
	"fmt"
	"path/filepath"

	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/options"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewUpdateCmd creates the "update" command: reconcile an existing
// project against the current skeleton.
func NewUpdateCmd(ro *opts.RootOpts) *cobra.Command {
	var flags flagOptions

	cmd := &cobra.Command{
		Use:   "update [DIR]",
		Short: "Re-run the scaffold against an existing project",
		Long: `Update re-generates the skeleton inside an existing project. Options
recorded at creation time are read back from the project marker; flags
given here override them per key. Files guarded by no-overwrite or
skip-on-update policies are preserved unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if !dirExists(dir) {
				return errors.Errorf("project directory %s does not exist", dir)
			}

			runOpts, preserve, err := buildOptions(ctx, ro, flags.toOptions())
			if err != nil {
				return err
			}
			// The marker records the package, not the project name; the
			// directory is the authoritative default for the latter.
			if !runOpts.Has(options.KeyName) {
				abs, err := filepath.Abs(dir)
				if err != nil {
					return errors.Errorf("resolving project directory: %w", err)
				}
				runOpts[options.KeyName] = filepath.Base(abs)
			}

			rec, err := buildReconciler(ro, dir, flags.extensions, preserve)
			if err != nil {
				return err
			}

			ro.UserLogger.LogRun("Updating", dir)
			report, err := rec.Update(ctx, runOpts)
			if err != nil {
				return errors.Errorf("updating project: %w", err)
			}

			if ro.Pretend {
				ro.UserLogger.LogValidation(true,
					fmt.Sprintf("Pretend run complete, %d files would be written", report.Count(fileops.ResultWouldWrite)), nil)
				return nil
			}

			ro.UserLogger.LogValidation(true, fmt.Sprintf(
				"Update complete: %d written, %d preserved, %d skipped",
				report.Count(fileops.ResultWritten),
				report.Count(fileops.ResultSkippedExists),
				report.Count(fileops.ResultSkippedPolicy)), nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.pkg, "package", "", "override the recorded package name")
	cmd.Flags().StringVar(&flags.author, "author", "", "override the recorded author")
	cmd.Flags().StringVar(&flags.email, "email", "", "override the recorded email")
	cmd.Flags().StringVarP(&flags.licenseID, "license", "l", "", "override the recorded license")
	cmd.Flags().StringVar(&flags.name, "name", "", "override the recorded project name")
	cmd.Flags().StringVar(&flags.description, "description", "", "override the project description")
	cmd.Flags().StringSliceVarP(&flags.extensions, "ext", "x", nil, "additional extensions to activate")

	return cmd
}
