package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/output"
)

var (
	historyLimit  int
	historyLatest bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of records")
	historyCmd.Flags().BoolVar(&historyLatest, "latest", false, "Show only the latest prediction in full")
}

var historyCmd = &cobra.Command{
	Use:   "history <race-id>",
	Short: "List stored predictions for a race, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLatest {
			record, err := app.svc.Latest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.WriteHistory(cmd.OutOrStdout(), []*models.PredictionRecord{record}, app.format)
		}

		records, err := app.svc.History(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		return output.WriteHistory(cmd.OutOrStdout(), records, app.format)
	},
}
