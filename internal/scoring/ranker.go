package scoring

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/paddock/internal/models"
)

// PlacingSlots is the number of finishing positions that count as a place.
const PlacingSlots = 3

// Ranker orders a scored field and assigns win and place probabilities.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns a copy of the results sorted into a strict total order with
// ranks 1..N. Win probabilities sum to 1; place probabilities sum to min(3, N)
// with no entrant above 1.
func (r *Ranker) Rank(s Scoring) []models.ScoreResult {
	results := append([]models.ScoreResult(nil), s.Results...)
	if len(results) == 0 {
		return results
	}

	weights := make([]float64, len(results))
	for i, res := range results {
		if s.Regime == models.RegimeMLPresent {
			weights[i] = res.IntegratedScore
		} else {
			weights[i] = 1 / res.Odds
		}
	}
	win := Shares(weights, 1)
	place := Shares(weights, math.Min(PlacingSlots, float64(len(results))))
	for i := range results {
		results[i].WinProbability = win[i]
		results[i].PlaceProbability = place[i]
	}

	sort.SliceStable(results, func(i, j int) bool {
		return Before(results[i], results[j])
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Before is the ranking order: higher score, then higher win probability, then
// lower odds, then lower horse number.
func Before(a, b models.ScoreResult) bool {
	if a.IntegratedScore != b.IntegratedScore {
		return a.IntegratedScore > b.IntegratedScore
	}
	if a.WinProbability != b.WinProbability {
		return a.WinProbability > b.WinProbability
	}
	if a.Odds != b.Odds {
		return a.Odds < b.Odds
	}
	return a.HorseNumber < b.HorseNumber
}

// Shares distributes total across entrants in proportion to weights, capping
// each share at 1 and handing any excess to the uncapped entrants.
func Shares(weights []float64, total float64) []float64 {
	n := len(weights)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	w := make([]float64, n)
	for i, v := range weights {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			w[i] = v
		}
	}
	if floats.Sum(w) == 0 {
		floats.AddConst(1, w)
	}

	capped := make([]bool, n)
	remaining := total
	for {
		var free float64
		for i := range w {
			if !capped[i] {
				free += w[i]
			}
		}
		if free == 0 {
			spreadEvenly(out, capped, remaining)
			break
		}

		overflow := false
		for i := range w {
			if capped[i] {
				continue
			}
			out[i] = remaining * w[i] / free
			if out[i] > 1 {
				overflow = true
			}
		}
		if !overflow {
			break
		}
		for i := range w {
			if !capped[i] && out[i] > 1 {
				out[i] = 1
				capped[i] = true
				remaining--
			}
		}
	}
	return out
}

func spreadEvenly(out []float64, capped []bool, remaining float64) {
	open := 0
	for _, c := range capped {
		if !c {
			open++
		}
	}
	if open == 0 {
		return
	}
	for i, c := range capped {
		if !c {
			out[i] = remaining / float64(open)
		}
	}
}
