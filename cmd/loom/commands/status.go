package commands

import (
	"fmt"
	"path/filepath"

	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/status"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates the "status" command: show what an update run
// would touch, without touching anything.
func NewStatusCmd(ro *opts.RootOpts) *cobra.Command {
	var flags flagOptions

	cmd := &cobra.Command{
		Use:   "status [DIR]",
		Short: "Show how an existing project differs from the current skeleton",
		Args:  cobra.MaximumNArgs(1),
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

			entries, err := rec.Status(ctx, runOpts)
			if err != nil {
				return errors.Errorf("computing status: %w", err)
			}

			formatter := status.NewFormatter()
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEntry(e))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(entries))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.extensions, "ext", "x", nil, "additional extensions to include in the comparison")

	return cmd
}
