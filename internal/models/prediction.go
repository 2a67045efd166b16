package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/paddock/internal/racing"
)

// HorsePrediction is one line of the published ranking.
type HorsePrediction struct {
	Rank             int                 `json:"rank"`
	HorseNumber      int                 `json:"horse_number"`
	HorseName        string              `json:"horse_name,omitempty"`
	RunningStyle     racing.RunningStyle `json:"running_style"`
	Score            float64             `json:"score"`
	WinProbability   float64             `json:"win_probability"`
	PlaceProbability float64             `json:"place_probability"`
	IsDarkHorse      bool                `json:"is_dark_horse"`
	Reason           string              `json:"reason,omitempty"`
	Components       ScoreComponents     `json:"components"`
}

// PacePrediction is the published pace outlook.
type PacePrediction struct {
	Type                racing.Pace           `json:"type"`
	Confidence          float64               `json:"confidence"`
	Reason              string                `json:"reason"`
	AdvantageousStyles  []racing.RunningStyle `json:"advantageous_styles"`
	EscapeCount         int                   `json:"escape_count"`
	FrontCount          int                   `json:"front_count"`
	FrontAdvantageScore float64               `json:"front_advantage_score"`
}

// NewPacePrediction projects a pace context onto its published form.
func NewPacePrediction(p PaceContext) PacePrediction {
	return PacePrediction{
		Type:                p.Pace,
		Confidence:          p.Confidence,
		Reason:              p.Reason,
		AdvantageousStyles:  append([]racing.RunningStyle(nil), p.AdvantageousStyles...),
		EscapeCount:         p.EscapeCount,
		FrontCount:          p.FrontCount,
		FrontAdvantageScore: p.FrontAdvantageScore,
	}
}

// PredictionResult is the composed answer for one prediction request.
type PredictionResult struct {
	RaceID          string            `json:"race_id"`
	Regime          Regime            `json:"regime"`
	Rankings        []HorsePrediction `json:"rankings"`
	Pace            PacePrediction    `json:"pace"`
	Bets            BetPlan           `json:"bets"`
	ConfidenceScore float64           `json:"confidence_score"`
	Reasoning       string            `json:"reasoning"`
	Notes           []string          `json:"notes,omitempty"`
	ModelVersion    string            `json:"model_version"`
	PredictedAt     time.Time         `json:"predicted_at"`
}

// DarkHorses returns the flagged entrants in rank order.
func (r *PredictionResult) DarkHorses() []HorsePrediction {
	var out []HorsePrediction
	for _, h := range r.Rankings {
		if h.IsDarkHorse {
			out = append(out, h)
		}
	}
	return out
}

// PredictionRecord is the append-only persisted form of a PredictionResult.
type PredictionRecord struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required"`
	RaceID          string          `db:"race_id" json:"race_id" validate:"required"`
	ModelVersion    string          `db:"model_version" json:"model_version" validate:"required"`
	Regime          Regime          `db:"regime" json:"regime"`
	PredictedAt     time.Time       `db:"predicted_at" json:"predicted_at" validate:"required"`
	PredictionData  json.RawMessage `db:"prediction_data" json:"prediction_data"`
	ConfidenceScore float64         `db:"confidence_score" json:"confidence_score" validate:"gte=0,lte=1"`
	Reasoning       string          `db:"reasoning" json:"reasoning"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// NewPredictionRecord snapshots a result into a new immutable record.
func NewPredictionRecord(result *PredictionResult) (*PredictionRecord, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &PredictionRecord{
		ID:              uuid.New(),
		RaceID:          result.RaceID,
		ModelVersion:    result.ModelVersion,
		Regime:          result.Regime,
		PredictedAt:     result.PredictedAt,
		PredictionData:  data,
		ConfidenceScore: result.ConfidenceScore,
		Reasoning:       result.Reasoning,
	}, nil
}

// Result decodes the stored prediction payload. Tickets are returned as raw JSON
// in the Bets field of the returned summary.
func (r *PredictionRecord) Result() (*RecordSummary, error) {
	var s RecordSummary
	if err := json.Unmarshal(r.PredictionData, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordSummary is the decoded view of a stored prediction payload.
type RecordSummary struct {
	RaceID   string            `json:"race_id"`
	Regime   Regime            `json:"regime"`
	Rankings []HorsePrediction `json:"rankings"`
	Pace     PacePrediction    `json:"pace"`
	Bets     json.RawMessage   `json:"bets"`
	Notes    []string          `json:"notes,omitempty"`
}
