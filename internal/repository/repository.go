// Package repository persists prediction history records.
package repository

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/paddock/internal/database"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/models"
)

const (
	defaultListLimit = 20
	errScanRecord    = "failed to scan prediction record: %w"
)

var recordValidator = validator.New()

// NewPredictionRecordRepository returns the repository for an open store.
func NewPredictionRecordRepository(store database.Store) (PredictionRecordRepository, error) {
	switch db := store.(type) {
	case *database.DB:
		return NewPostgresPredictionRecordRepository(db), nil
	case *database.SQLiteDB:
		return NewSQLitePredictionRecordRepository(db), nil
	case nil:
		return nil, fmt.Errorf("database connection is required")
	default:
		return nil, fmt.Errorf("unsupported store %T", store)
	}
}

func validateRecord(record *models.PredictionRecord) error {
	if record == nil {
		return fmt.Errorf("prediction record is required")
	}
	if err := recordValidator.Struct(record); err != nil {
		return fmt.Errorf("invalid prediction record: %w", err)
	}
	if len(record.PredictionData) == 0 {
		return fmt.Errorf("invalid prediction record: empty prediction data")
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

func observeQuery(query string, start time.Time) {
	metrics.RecordHistoryQuery(query, time.Since(start).Seconds())
}
