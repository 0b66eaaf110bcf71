package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slotter/internal/build"
	"slotter/internal/rules"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Render the routing-rule document from a scan without materializing",
		Long: `Scans the source tree, computes the keyspace width the next build would
use, and prints the routing-rule document to stdout. The output matches
what 'slotter build' writes alongside the slot tree, so the width and
naming literals stay in lockstep with a subsequent build of the same
source state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store := ctx.openCatalog()
			defer store.Close()

			pipeline := build.New(cfg, ctx.loggerValue(), store)
			plan, err := pipeline.Plan(cmd.Context())
			if err != nil {
				return err
			}

			text, err := rules.Render(pipeline.RulesSpec(plan))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
