package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/health"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/ml"
	"github.com/yourusername/paddock/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health and metrics server with the oracle probe",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		healthCfg := health.Config{
			Addr:         app.cfg.GetMetricsAddress(),
			ServiceName:  app.cfg.App.Name,
			Version:      Version,
			Commit:       GitCommit,
			ModelVersion: app.cfg.App.ModelVersion,
			Logger:       app.log,
			MetricsPath:  app.cfg.Metrics.Path,
		}
		if app.store != nil {
			healthCfg.Store = app.store
		}
		if app.cfg.Metrics.Enabled {
			healthCfg.Metrics = metrics.Handler()
		}

		sched := scheduler.NewScheduler(app.log)
		if prober, ok := ml.AsProber(app.oracle); ok {
			healthCfg.Oracle = prober
			if app.cfg.Scheduler.OracleProbe != "" {
				if err := sched.ScheduleOracleProbe(app.cfg.Scheduler.OracleProbe, prober); err != nil {
					return err
				}
				sched.ProbeOracle(ctx, prober)
			}
		}
		if flusher, ok := app.oracle.(scheduler.CacheFlusher); ok && app.cfg.Scheduler.CacheFlush != "" {
			if err := sched.ScheduleCacheFlush(app.cfg.Scheduler.CacheFlush, flusher); err != nil {
				return err
			}
		}

		srv := health.NewServer(healthCfg)
		if len(sched.Entries()) > 0 {
			if err := sched.Start(); err != nil {
				return err
			}
			defer func() { _ = sched.Stop() }()
		}

		app.log.WithFields(logrus.Fields{
			"addr":    healthCfg.Addr,
			"version": Version,
			"jobs":    len(sched.Entries()),
		}).Info("paddock server running")

		srv.SetReady(true)
		return srv.Run(ctx)
	},
}
