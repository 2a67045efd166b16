package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/models"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS prediction_records (
		id               UUID PRIMARY KEY,
		race_id          TEXT NOT NULL,
		model_version    TEXT NOT NULL,
		regime           TEXT NOT NULL,
		predicted_at     TIMESTAMPTZ NOT NULL,
		prediction_data  JSONB NOT NULL,
		confidence_score DOUBLE PRECISION NOT NULL,
		reasoning        TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_records_race
		ON prediction_records (race_id, predicted_at DESC);
`

const postgresRecordColumns = `id, race_id, model_version, regime, predicted_at, prediction_data,
	confidence_score, reasoning, created_at`

// PostgresPredictionRecordRepository implements PredictionRecordRepository for PostgreSQL
type PostgresPredictionRecordRepository struct {
	db *database.DB
}

// NewPostgresPredictionRecordRepository creates a new prediction record repository
func NewPostgresPredictionRecordRepository(db *database.DB) *PostgresPredictionRecordRepository {
	return &PostgresPredictionRecordRepository{db: db}
}

// EnsureSchema creates the prediction_records table if it does not exist
func (r *PostgresPredictionRecordRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create prediction_records schema: %w", err)
	}
	return nil
}

// Append inserts a new immutable record
func (r *PostgresPredictionRecordRepository) Append(ctx context.Context, record *models.PredictionRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	defer observeQuery("append", time.Now())

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO prediction_records (` + postgresRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.RaceID, record.ModelVersion, string(record.Regime), record.PredictedAt,
		string(record.PredictionData), record.ConfidenceScore, record.Reasoning, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append prediction record: %w", err)
	}
	return nil
}

// LatestByRace returns the most recent record for a race
func (r *PostgresPredictionRecordRepository) LatestByRace(ctx context.Context, raceID string) (*models.PredictionRecord, error) {
	defer observeQuery("latest_by_race", time.Now())

	query := `
		SELECT ` + postgresRecordColumns + `
		FROM prediction_records
		WHERE race_id = $1
		ORDER BY predicted_at DESC, created_at DESC
		LIMIT 1
	`
	record, err := scanPostgresRecord(r.db.QueryRow(ctx, query, raceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prediction record: %w", err)
	}
	return record, nil
}

// ListByRace returns up to limit records for a race, newest first
func (r *PostgresPredictionRecordRepository) ListByRace(ctx context.Context, raceID string, limit int) ([]*models.PredictionRecord, error) {
	defer observeQuery("list_by_race", time.Now())

	query := `
		SELECT ` + postgresRecordColumns + `
		FROM prediction_records
		WHERE race_id = $1
		ORDER BY predicted_at DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, raceID, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction records: %w", err)
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		record, err := scanPostgresRecord(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanRecord, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanPostgresRecord(row pgx.Row) (*models.PredictionRecord, error) {
	var (
		record models.PredictionRecord
		regime string
		data   []byte
	)
	err := row.Scan(
		&record.ID, &record.RaceID, &record.ModelVersion, &regime, &record.PredictedAt,
		&data, &record.ConfidenceScore, &record.Reasoning, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Regime = models.Regime(regime)
	record.PredictionData = data
	return &record, nil
}
