package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
)

func TestInitializeSQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "nested", "paddock.db"),
	}}

	store, err := Initialize(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, DriverSQLite, store.Driver())
	assert.NoError(t, store.Ping(context.Background()))
	assert.FileExists(t, cfg.Database.Path)
}

func TestInitializeUnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}

	_, err := Initialize(context.Background(), cfg, logger.Discard())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewSQLiteRequiresPath(t *testing.T) {
	_, err := NewSQLite(context.Background(), "")
	assert.Error(t, err)
}
