package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"slotter/internal/build"
	"slotter/internal/inventory"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Classify the source tree and report group counts without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := ctx.openCatalog()
			defer store.Close()

			plan, err := build.New(cfg, ctx.loggerValue(), store).Plan(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(inventory.Groups))
			for _, group := range inventory.Groups {
				count := plan.Library.Count(group)
				status := "materialized"
				if count == 0 {
					status = "skipped (empty)"
				}
				rows = append(rows, []string{string(group), strconv.Itoa(count), status})
			}

			out := cmd.OutOrStdout()
			writeTable(out,
				[]string{"GROUP", "ITEMS", "STATUS"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft})
			fmt.Fprintf(out, "Keyspace width %d (%d slots per group), mode %s\n",
				plan.Width, slotsFor(plan.Width), cfg.Publish.Mode)
			return nil
		},
	}
}
