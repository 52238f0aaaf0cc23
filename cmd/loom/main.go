package main

import (
	"context"
	"os"

	"github.com/loomworks/loom/cmd/loom/commands"
	"github.com/loomworks/loom/cmd/loom/opts"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	// Create root command
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "loom",
		Short: "A project scaffolding generator",
		Long: `loom generates project skeletons from a composable pipeline and can
re-run against an existing project to pull in skeleton changes while
preserving the files you own.`,
		SilenceUsage: true,
		// Dependencies resolve here, after persistent flags are parsed.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
			*ro = *newRootOpts(cmd.Context())
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	setupLogging()
	ctx := log.Logger.WithContext(context.Background())

	rootCmd.AddCommand(
		commands.NewNewCmd(ro),
		commands.NewUpdateCmd(ro),
		commands.NewStatusCmd(ro),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
