package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

// Timestamps are stored as Unix nanoseconds so that ORDER BY is chronological.
const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS prediction_records (
		id               TEXT PRIMARY KEY,
		race_id          TEXT NOT NULL,
		model_version    TEXT NOT NULL,
		regime           TEXT NOT NULL,
		predicted_at     INTEGER NOT NULL,
		prediction_data  TEXT NOT NULL,
		confidence_score REAL NOT NULL,
		reasoning        TEXT NOT NULL,
		created_at       INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_records_race
		ON prediction_records (race_id, predicted_at DESC);
`

const sqliteRecordColumns = `id, race_id, model_version, regime, predicted_at, prediction_data,
	confidence_score, reasoning, created_at`

// SQLitePredictionRecordRepository implements PredictionRecordRepository for SQLite
type SQLitePredictionRecordRepository struct {
	db  *database.SQLiteDB
	now func() time.Time
}

// NewSQLitePredictionRecordRepository creates a new SQLite prediction record repository
func NewSQLitePredictionRecordRepository(db *database.SQLiteDB) *SQLitePredictionRecordRepository {
	return &SQLitePredictionRecordRepository{db: db, now: time.Now}
}

// EnsureSchema creates the prediction_records table if it does not exist
func (r *SQLitePredictionRecordRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Conn().ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create prediction_records schema: %w", err)
	}
	return nil
}

// Append inserts a new immutable record
func (r *SQLitePredictionRecordRepository) Append(ctx context.Context, record *models.PredictionRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	defer observeQuery("append", time.Now())

	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}

	query := `INSERT INTO prediction_records (` + sqliteRecordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Conn().ExecContext(ctx, query,
		record.ID.String(), record.RaceID, record.ModelVersion, string(record.Regime),
		record.PredictedAt.UnixNano(), string(record.PredictionData), record.ConfidenceScore,
		record.Reasoning, record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append prediction record: %w", err)
	}
	return nil
}

// LatestByRace returns the most recent record for a race
func (r *SQLitePredictionRecordRepository) LatestByRace(ctx context.Context, raceID string) (*models.PredictionRecord, error) {
	defer observeQuery("latest_by_race", time.Now())

	query := `SELECT ` + sqliteRecordColumns + `
		FROM prediction_records
		WHERE race_id = ?
		ORDER BY predicted_at DESC, created_at DESC
		LIMIT 1`
	record, err := scanSQLiteRecord(r.db.Conn().QueryRowContext(ctx, query, raceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prediction record: %w", err)
	}
	return record, nil
}

// ListByRace returns up to limit records for a race, newest first
func (r *SQLitePredictionRecordRepository) ListByRace(ctx context.Context, raceID string, limit int) ([]*models.PredictionRecord, error) {
	defer observeQuery("list_by_race", time.Now())

	query := `SELECT ` + sqliteRecordColumns + `
		FROM prediction_records
		WHERE race_id = ?
		ORDER BY predicted_at DESC, created_at DESC
		LIMIT ?`
	rows, err := r.db.Conn().QueryContext(ctx, query, raceID, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction records: %w", err)
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		record, err := scanSQLiteRecord(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRecord, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteRecord(row rowScanner) (*models.PredictionRecord, error) {
	var (
		record      models.PredictionRecord
		id, regime  string
		data        string
		predictedAt int64
		createdAt   int64
	)
	err := row.Scan(
		&id, &record.RaceID, &record.ModelVersion, &regime, &predictedAt,
		&data, &record.ConfidenceScore, &record.Reasoning, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	record.ID = parsed
	record.Regime = models.Regime(regime)
	record.PredictionData = []byte(data)
	record.PredictedAt = time.Unix(0, predictedAt).UTC()
	record.CreatedAt = time.Unix(0, createdAt).UTC()
	return &record, nil
}
