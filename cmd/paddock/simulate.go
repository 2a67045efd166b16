package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/output"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <race-card-file-or-url>",
	Short: "Re-rank a race field under every pace and track condition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := loadCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		sim, err := app.svc.Simulate(cmd.Context(), card.Race, card.Entrants)
		if err != nil {
			return err
		}
		return output.WriteSimulation(cmd.OutOrStdout(), sim, app.format)
	},
}
