// Package main provides the paddock command line: race prediction, scenario
// simulation, prediction history and a health/metrics server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/ml"
	"github.com/yourusername/paddock/internal/output"
	"github.com/yourusername/paddock/internal/repository"
	"github.com/yourusername/paddock/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	outputFormat string
	noHistory    bool
	app          *application
)

// application holds the dependencies shared by every subcommand.
type application struct {
	cfg     *config.Config
	log     *logrus.Logger
	oracle  ml.Oracle
	store   database.Store
	records repository.PredictionRecordRepository
	svc     *service.PredictionService
	format  output.Format
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not open the prediction history store")

	rootCmd.AddCommand(predictCmd, simulateCmd, historyCmd, serveCmd, statusCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "paddock",
	Short: "Horse racing prediction and scenario simulation engine",
	Long: `paddock ranks a race field by fusing an optional ML place probability with
pace, closing-speed and form components, flags dark horses, proposes trio and
trifecta tickets, and re-runs the field under alternative pace and ground scenarios.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		var err error
		app, err = bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			return app.close()
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "paddock %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func bootstrap(ctx context.Context) (*application, error) {
	_ = godotenv.Load()

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog := logger.NewLoggerWithOutput(cfg.App.LogLevel, os.Stderr)

	if err := loadSecrets(ctx, cfg, appLog); err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLog.WithFields(logrus.Fields{
		"environment":   cfg.App.Environment,
		"model_version": cfg.App.ModelVersion,
		"ml_oracle":     cfg.MLOracle.Enabled,
	}).Debug("Configuration loaded")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	a := &application{
		cfg:    cfg,
		log:    appLog,
		oracle: ml.NewOracle(&cfg.MLOracle, appLog),
		format: format,
	}

	if !noHistory {
		if err := a.openHistory(ctx); err != nil {
			return nil, err
		}
	}

	a.svc, err = service.NewPredictionService(cfg, a.oracle, a.records, appLog)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

// loadSecrets overlays AWS Secrets Manager values when enabled in the file or
// through AWS_SECRETS_ENABLED.
func loadSecrets(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) error {
	enabled := cfg.Secrets.Enabled || os.Getenv("AWS_SECRETS_ENABLED") == "true"
	if !enabled {
		return nil
	}

	region := firstNonEmpty(cfg.Secrets.Region, os.Getenv("AWS_REGION"))
	secretName := firstNonEmpty(cfg.Secrets.SecretName, os.Getenv("AWS_SECRET_NAME"))
	if region == "" || secretName == "" {
		return fmt.Errorf("secrets region and secret name must be set when AWS secrets are enabled")
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	applied, err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	logger.NewAuditLogger(appLog).LogSecretsOverlay("aws-secrets-manager:"+secretName, applied)
	return nil
}

func (a *application) openHistory(ctx context.Context) error {
	store, err := database.Initialize(ctx, a.cfg, a.log)
	if err != nil {
		return fmt.Errorf("failed to open prediction history: %w", err)
	}

	records, err := repository.NewPredictionRecordRepository(store)
	if err != nil {
		_ = store.Close()
		return err
	}
	if err := records.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to prepare prediction history schema: %w", err)
	}

	a.store = store
	a.records = records
	return nil
}

func (a *application) close() error {
	if c, ok := a.oracle.(interface{ Close() error }); ok {
		_ = c.Close()
	}
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Error("Failed to close prediction history")
		return err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
