package ml

import (
	"context"

	"github.com/yourusername/paddock/internal/models"
)

// DefaultModelName is the ML service model that estimates place probability.
const DefaultModelName = "place_predictor"

// PlaceRequest asks for one entrant's probability of finishing in the top three.
type PlaceRequest struct {
	RaceID   string
	Features models.FeatureVector
}

// HorseNumber returns the entrant the request is for.
func (r PlaceRequest) HorseNumber() int {
	return r.Features.HorseNumber
}

// Oracle estimates place probabilities. Implementations report unavailability
// as an error wrapping ErrOracleUnavailable or ErrConnectionFailed; callers
// treat any error as "no probability" for the whole field.
type Oracle interface {
	EstimatePlaceProbability(ctx context.Context, req PlaceRequest) (float64, error)
}

// Prober is implemented by oracles backed by a reachable service.
type Prober interface {
	HealthCheck(ctx context.Context) error
	BaseURL() string
}

// AsProber returns the oracle as a Prober when it can be health checked.
func AsProber(o Oracle) (Prober, bool) {
	p, ok := o.(Prober)
	return p, ok
}

// UnavailableOracle is the oracle used when no ML service is configured.
type UnavailableOracle struct{}

// EstimatePlaceProbability always reports the oracle as unavailable.
func (UnavailableOracle) EstimatePlaceProbability(ctx context.Context, req PlaceRequest) (float64, error) {
	return 0, ErrOracleUnavailable
}

// FeaturePayload is the feature set sent to the ML service.
type FeaturePayload struct {
	HorseNumber      int     `json:"horse_number"`
	RunningStyleCode float64 `json:"running_style_code"`
	Distance         float64 `json:"distance"`
	IsTurf           float64 `json:"is_turf"`
	GradeCode        float64 `json:"grade_code"`
	Weight           float64 `json:"weight"`
	HorseWeight      float64 `json:"horse_weight"`
	Last3F           float64 `json:"last_3f"`
	WinRate          float64 `json:"win_rate"`
	PlaceRate        float64 `json:"place_rate"`
	AvgPositionLast5 float64 `json:"avg_position_last5"`
}

// NewFeaturePayload projects a feature vector onto the ML service's inputs.
func NewFeaturePayload(v models.FeatureVector) FeaturePayload {
	return FeaturePayload{
		HorseNumber:      v.HorseNumber,
		RunningStyleCode: v.Value(models.FeatureRunningStyle),
		Distance:         v.Value(models.FeatureDistance),
		IsTurf:           v.Value(models.FeatureIsTurf),
		GradeCode:        v.Value(models.FeatureGrade),
		Weight:           v.Value(models.FeatureWeight),
		HorseWeight:      v.Value(models.FeatureHorseWeight),
		Last3F:           v.Value(models.FeatureAvgLast3F),
		WinRate:          v.Value(models.FeatureWinRate),
		PlaceRate:        v.Value(models.FeaturePlaceRate),
		AvgPositionLast5: v.Value(models.FeatureAvgPositionLast5),
	}
}
