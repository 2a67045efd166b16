package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/config"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store is an open prediction history database.
type Store interface {
	Driver() string
	Ping(ctx context.Context) error
	Close() error
}

// Initialize opens the database selected by the configuration.
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (Store, error) {
	switch cfg.Database.Driver {
	case DriverPostgres:
		db, err := NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"driver": DriverPostgres,
			"host":   cfg.Database.Host,
			"name":   cfg.Database.Name,
		}).Info("Connected to prediction history database")
		return db, nil
	case DriverSQLite:
		db, err := NewSQLite(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"driver": DriverSQLite,
			"path":   cfg.Database.Path,
		}).Info("Opened prediction history database")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
