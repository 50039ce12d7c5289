package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/racetally/internal/race/dice"
)

func newRollCmd(a *app) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "roll [--] NOTATION...",
		Short: "Roll dice such as 3d8, or -1d27 after --",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roller := dice.NewLoggedRoller(a.source(seed), a.logger)
			for _, notation := range args {
				o, err := roller.Roll(notation)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), o.String())
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible rolls (overrides race.seed)")
	return cmd
}
