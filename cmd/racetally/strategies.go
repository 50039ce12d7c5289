package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/racetally/internal/race/announce"
)

func newStrategiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy table and its pace effects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range a.table.Strategies() {
				fmt.Fprintf(out, "%s\tfixed %d\t%s / %s / %s\n", s.Name, s.FixedValue, s.Dice.Opening, s.Dice.Mid, s.Dice.Closing)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, announce.Pace(a.table, nil))
			return nil
		},
	}
}
