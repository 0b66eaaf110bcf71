package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slotter/internal/build"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var outputFlag string
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan, allocate, and materialize the slot tree plus routing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cfg, sourceFlag, outputFlag, modeFlag); err != nil {
				return err
			}

			store := ctx.openCatalog()
			defer store.Close()

			summary, err := build.New(cfg, ctx.loggerValue(), store).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build %s complete in %s\n", summary.RunID, summary.Duration.Round(roundTo))
			fmt.Fprintf(out, "  %d images (%d landscape, %d portrait), width %d (%d slots per group)\n",
				summary.Total, summary.Landscape, summary.Portrait, summary.Width, slotsFor(summary.Width))
			fmt.Fprintf(out, "  %d slot files written, %d skipped, mode %s\n",
				summary.Written, summary.Skipped, summary.Mode)
			fmt.Fprintf(out, "  Rules document: %s\n", rulesPath(cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Override paths.source_dir for this run")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Override paths.output_dir for this run")
	cmd.Flags().StringVar(&modeFlag, "mode", "", "Override publish.mode (direct or indirect) for this run")

	return cmd
}
