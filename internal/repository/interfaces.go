package repository

import (
	"context"

	"github.com/yourusername/paddock/internal/models"
)

// PredictionRecordRepository stores composed predictions. Records are
// append-only: there is no update or delete.
type PredictionRecordRepository interface {
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, record *models.PredictionRecord) error
	LatestByRace(ctx context.Context, raceID string) (*models.PredictionRecord, error)
	ListByRace(ctx context.Context, raceID string, limit int) ([]*models.PredictionRecord, error)
}
