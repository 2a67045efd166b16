package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB is a single-writer SQLite database used for local prediction history.
type SQLiteDB struct {
	conn *sql.DB
	path string
}

// NewSQLite opens (creating if needed) the SQLite database at path in WAL mode.
func NewSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteDB{conn: conn, path: path}, nil
}

// Driver names the backing database.
func (db *SQLiteDB) Driver() string {
	return DriverSQLite
}

// Path returns the database file location.
func (db *SQLiteDB) Path() string {
	return db.path
}

// Ping verifies the database is reachable
func (db *SQLiteDB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database
func (db *SQLiteDB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database handle.
func (db *SQLiteDB) Conn() *sql.DB {
	return db.conn
}
