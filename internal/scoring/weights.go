// Package scoring fuses per-entrant components into one score, orders the field
// and flags dark horses.
package scoring

import (
	"math"

	"github.com/yourusername/paddock/internal/models"
)

const weightTolerance = 1e-9

// Weights are the coefficients of one weighting regime.
type Weights struct {
	ML      float64 `mapstructure:"ml" json:"ml"`
	Odds    float64 `mapstructure:"odds" json:"odds"`
	Pace    float64 `mapstructure:"pace" json:"pace"`
	Closing float64 `mapstructure:"closing" json:"closing"`
	Record  float64 `mapstructure:"record" json:"record"`
}

var (
	// DefaultMLWeights apply when every entrant has an ML place probability.
	DefaultMLWeights = Weights{ML: 0.40, Pace: 0.25, Closing: 0.20, Record: 0.15}
	// DefaultFallbackWeights apply when the ML oracle is unavailable.
	DefaultFallbackWeights = Weights{Odds: 0.20, Pace: 0.35, Closing: 0.25, Record: 0.20}
)

// Sum returns the total of all coefficients.
func (w Weights) Sum() float64 {
	return w.ML + w.Odds + w.Pace + w.Closing + w.Record
}

// Validate checks that the regime's coefficients are non-negative and sum to 1.
func (w Weights) Validate(regime models.Regime) error {
	for _, c := range []float64{w.ML, w.Odds, w.Pace, w.Closing, w.Record} {
		if c < 0 || math.IsNaN(c) {
			return models.NewInconsistentConfigError("weights", "%s regime has a negative coefficient", regime)
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return models.NewInconsistentConfigError("weights", "%s regime sums to %.12f, want 1.0", regime, w.Sum())
	}
	if regime == models.RegimeFallback && w.ML != 0 {
		return models.NewInconsistentConfigError("weights", "fallback regime cannot weight the ML component")
	}
	return nil
}
