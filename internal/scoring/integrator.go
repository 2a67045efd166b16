package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

const (
	recordWinWeight   = 0.4
	recordPlaceWeight = 0.3
	flatComponent     = 0.5
)

// Scoring is the pre-rank outcome for one field.
type Scoring struct {
	Regime  models.Regime
	Weights Weights
	Results []models.ScoreResult
}

// Integrator combines normalized components under the active weighting regime.
type Integrator struct {
	mlWeights       Weights
	fallbackWeights Weights
}

// NewIntegrator validates both regimes and creates an integrator.
func NewIntegrator(mlWeights, fallbackWeights Weights) (*Integrator, error) {
	if err := mlWeights.Validate(models.RegimeMLPresent); err != nil {
		return nil, err
	}
	if err := fallbackWeights.Validate(models.RegimeFallback); err != nil {
		return nil, err
	}
	return &Integrator{mlWeights: mlWeights, fallbackWeights: fallbackWeights}, nil
}

// NewDefaultIntegrator creates an integrator with the default coefficients.
func NewDefaultIntegrator() *Integrator {
	return &Integrator{mlWeights: DefaultMLWeights, fallbackWeights: DefaultFallbackWeights}
}

// WeightsFor returns the coefficients of a regime.
func (i *Integrator) WeightsFor(regime models.Regime) Weights {
	if regime == models.RegimeMLPresent {
		return i.mlWeights
	}
	return i.fallbackWeights
}

// Score computes every entrant's components and integrated score. The ML-present
// regime is used only when mlProbs holds a valid probability for every entrant.
func (i *Integrator) Score(vectors []models.FeatureVector, pc models.PaceContext, mlProbs map[int]float64) (Scoring, error) {
	if len(vectors) < models.MinFieldSize {
		return Scoring{}, models.NewInvalidEntrantCountError(len(vectors))
	}

	regime := models.RegimeFallback
	if CoversField(vectors, mlProbs) {
		regime = models.RegimeMLPresent
	}
	w := i.WeightsFor(regime)

	n := len(vectors)
	mlRaw := make([]float64, n)
	oddsRaw := make([]float64, n)
	paceRaw := make([]float64, n)
	closingRaw := make([]float64, n)
	recordRaw := make([]float64, n)
	affinity := make([]float64, n)

	for k, v := range vectors {
		if regime == models.RegimeMLPresent {
			mlRaw[k] = mlProbs[v.HorseNumber]
		}
		oddsRaw[k] = 1 / v.Value(models.FeatureOdds)
		affinity[k] = racing.PaceAffinity(v.RunningStyle, pc.Pace)
		paceRaw[k] = PaceFitness(v, pc)
		closingRaw[k] = 1 / v.Value(models.FeatureBestLast3F)
		recordRaw[k] = recordWinWeight*v.Value(models.FeatureWinRate) + recordPlaceWeight*v.Value(models.FeaturePlaceRate)
	}

	mlNorm := Normalize(mlRaw)
	oddsNorm := Normalize(oddsRaw)
	paceNorm := Normalize(paceRaw)
	closingNorm := Normalize(closingRaw)
	recordNorm := Normalize(recordRaw)

	results := make([]models.ScoreResult, n)
	for k, v := range vectors {
		comp := models.ScoreComponents{
			Pace:    paceNorm[k],
			Closing: closingNorm[k],
			Record:  recordNorm[k],
		}
		if regime == models.RegimeMLPresent {
			comp.ML = mlNorm[k]
		} else {
			comp.Odds = oddsNorm[k]
		}

		r := models.ScoreResult{
			HorseNumber:     v.HorseNumber,
			HorseName:       v.HorseName,
			RunningStyle:    v.RunningStyle,
			PostPosition:    knownInt(v, models.FeaturePostPosition),
			Odds:            v.Value(models.FeatureOdds),
			Popularity:      knownInt(v, models.FeaturePopularity),
			PaceAdvantage:   affinity[k],
			IntegratedScore: Integrate(w, comp),
			Components:      comp,
		}
		if regime == models.RegimeMLPresent {
			p := mlRaw[k]
			r.MLProbability = &p
		}
		results[k] = r
	}

	return Scoring{Regime: regime, Weights: w, Results: results}, nil
}

// Integrate returns the weighted sum of the components.
func Integrate(w Weights, c models.ScoreComponents) float64 {
	return w.ML*c.ML + w.Odds*c.Odds + w.Pace*c.Pace + w.Closing*c.Closing + w.Record*c.Record
}

// PaceFitness is the raw pace component: style affinity for the pace, scaled by
// the course's front bias and the draw.
func PaceFitness(v models.FeatureVector, pc models.PaceContext) float64 {
	affinity := racing.PaceAffinity(v.RunningStyle, pc.Pace)
	bias := racing.FrontBiasFactor(v.RunningStyle, pc.FrontAdvantageScore)
	post := racing.PostPositionEffect(v.RunningStyle, knownInt(v, models.FeaturePostPosition), pc.CourseShape)
	return affinity * bias * post
}

// CoversField reports whether probs holds a valid probability for every entrant.
func CoversField(vectors []models.FeatureVector, probs map[int]float64) bool {
	if len(probs) == 0 {
		return false
	}
	for _, v := range vectors {
		p, ok := probs[v.HorseNumber]
		if !ok || !ValidProbability(p) {
			return false
		}
	}
	return true
}

// ValidProbability reports whether p is a finite value in [0, 1].
func ValidProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Normalize min-max scales values into [0, 1] across the field. A flat
// component maps every entrant to 0.5.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	for k, v := range values {
		if span == 0 {
			out[k] = flatComponent
			continue
		}
		out[k] = (v - lo) / span
	}
	return out
}

func knownInt(v models.FeatureVector, name string) int {
	if v.IsDefaulted(name) {
		return 0
	}
	return int(v.Value(name))
}
