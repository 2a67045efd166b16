package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/ml"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the ML oracle and prediction history store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		w := cmd.OutOrStdout()
		ok := color.New(color.FgGreen, color.Bold).SprintFunc()
		bad := color.New(color.FgRed, color.Bold).SprintFunc()

		fmt.Fprint(w, "ML oracle: ")
		if prober, isProber := ml.AsProber(app.oracle); isProber {
			if err := prober.HealthCheck(ctx); err != nil {
				fmt.Fprintf(w, "%s (%v), fallback weights in use\n", bad("UNAVAILABLE"), err)
			} else {
				fmt.Fprintf(w, "%s at %s\n", ok("ONLINE"), prober.BaseURL())
			}
		} else {
			fmt.Fprintln(w, "disabled, fallback weights in use")
		}
		if cached, isCached := app.oracle.(*ml.CachedOracle); isCached {
			hits, misses, ratio := cached.GetCacheStats()
			fmt.Fprintf(w, "  cache: %d hits, %d misses (%.1f%%)\n", hits, misses, ratio*100)
		}

		fmt.Fprint(w, "History store: ")
		if app.store == nil {
			fmt.Fprintln(w, "disabled")
		} else if err := app.store.Ping(ctx); err != nil {
			fmt.Fprintf(w, "%s (%v)\n", bad("UNREACHABLE"), err)
		} else {
			fmt.Fprintf(w, "%s (%s)\n", ok("OK"), app.store.Driver())
		}

		writeEngineConfig(w)
		return nil
	},
}

func writeEngineConfig(w io.Writer) {
	cfg := app.cfg
	fmt.Fprintln(w, "\nEngine:")
	fmt.Fprintf(w, "  model version: %s\n", cfg.App.ModelVersion)
	fmt.Fprintf(w, "  weights (ml present): %+v\n", cfg.Prediction.Weights.MLPresent)
	fmt.Fprintf(w, "  weights (fallback):   %+v\n", cfg.Prediction.Weights.Fallback)
	fmt.Fprintf(w, "  dark horse margin: %d\n", cfg.Prediction.DarkHorseMargin)
	fmt.Fprintf(w, "  bet format: %s, budget ¥%d\n", cfg.Betting.Format, cfg.Betting.Budget)
	fmt.Fprintf(w, "  oracle timeout: %s\n", cfg.MLOracle.Timeout())
}
