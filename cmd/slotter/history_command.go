package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			store := ctx.openCatalog()
			if store == nil {
				return errors.New("build history unavailable: catalog could not be opened")
			}
			defer store.Close()

			records, err := store.ListBuilds(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No builds recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					shortRunID(rec.RunID),
					rec.FinishedAt.Local().Format(time.DateTime),
					rec.Mode,
					strconv.Itoa(rec.Width),
					fmt.Sprintf("%d (%d/%d)", rec.TotalItems, rec.LandscapeItems, rec.PortraitItems),
					strconv.Itoa(rec.SlotsWritten),
					strconv.Itoa(rec.SlotsSkipped),
				})
			}

			writeTable(cmd.OutOrStdout(),
				[]string{"RUN", "FINISHED", "MODE", "WIDTH", "ITEMS (L/P)", "WRITTEN", "SKIPPED"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight})
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of builds to list")

	return cmd
}

// shortRunID abbreviates a UUID for display. Rows written by other tools may
// carry arbitrary run IDs, so short values pass through untruncated.
func shortRunID(runID string) string {
	if len(runID) <= 8 {
		return runID
	}
	return runID[:8]
}
