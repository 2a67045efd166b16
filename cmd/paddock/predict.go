package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/output"
)

var predictCmd = &cobra.Command{
	Use:   "predict <race-card-file-or-url>",
	Short: "Rank a race field and propose tickets",
	Long: `Reads a race card (YAML or JSON), ranks the entrants, flags dark horses,
builds the bet plan and stores the prediction in history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := loadCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result, err := app.svc.Predict(cmd.Context(), card.Race, card.Entrants)
		if err != nil {
			return err
		}
		return output.WritePrediction(cmd.OutOrStdout(), result, app.format)
	},
}
