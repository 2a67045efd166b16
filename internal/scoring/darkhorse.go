package scoring

import (
	"fmt"
	"strings"

	"github.com/yourusername/paddock/internal/models"
)

// DefaultDarkHorseMargin is how many places better than its market rank an
// entrant must be ranked before it is flagged.
const DefaultDarkHorseMargin = 4

// DarkHorseDetector flags entrants the rules rate well above the market.
type DarkHorseDetector struct {
	margin int
}

// NewDarkHorseDetector creates a detector. A non-positive margin uses the default.
func NewDarkHorseDetector(margin int) *DarkHorseDetector {
	if margin <= 0 {
		margin = DefaultDarkHorseMargin
	}
	return &DarkHorseDetector{margin: margin}
}

// Margin returns the configured rank margin.
func (d *DarkHorseDetector) Margin() int {
	return d.margin
}

// Qualifies reports whether a ranked entrant is a dark horse. Entrants with an
// unknown market rank or a pace-incompatible style never qualify.
func (d *DarkHorseDetector) Qualifies(r models.ScoreResult) bool {
	if !r.HasMarketRank() || r.Rank <= 0 {
		return false
	}
	return r.Rank <= r.Popularity-d.margin && r.PaceAdvantage >= 1.0
}

// Detect returns a copy of the ranked results with dark horses flagged and explained.
func (d *DarkHorseDetector) Detect(ranked []models.ScoreResult, w Weights) []models.ScoreResult {
	out := append([]models.ScoreResult(nil), ranked...)
	for i := range out {
		out[i].IsDarkHorse = false
		out[i].DarkHorseReason = ""
		if d.Qualifies(out[i]) {
			out[i].IsDarkHorse = true
			out[i].DarkHorseReason = darkHorseReason(out[i], w)
		}
	}
	return out
}

// KeyEntrants returns the horse numbers of flagged entrants in rank order.
func KeyEntrants(results []models.ScoreResult) []int {
	keys := []int{}
	for _, r := range results {
		if r.IsDarkHorse {
			keys = append(keys, r.HorseNumber)
		}
	}
	return keys
}

func darkHorseReason(r models.ScoreResult, w Weights) string {
	head := fmt.Sprintf("ranked %d against market rank %d", r.Rank, r.Popularity)
	if r.PaceAdvantage > 1 {
		return fmt.Sprintf("%s: %s style suits the pace (affinity %.2f)",
			head, strings.ToLower(string(r.RunningStyle)), r.PaceAdvantage)
	}

	name, _ := dominantComponent(r.Components, w)
	switch name {
	case "ml":
		return fmt.Sprintf("%s: model place probability stands out", head)
	case "closing":
		return fmt.Sprintf("%s: one of the quickest finishers in the field", head)
	case "record":
		return fmt.Sprintf("%s: race record is stronger than the odds suggest", head)
	case "odds":
		return fmt.Sprintf("%s: odds still offer value", head)
	}
	return fmt.Sprintf("%s: draw and course bias suit the running style", head)
}

// dominantComponent picks the component with the largest weighted contribution.
// Ties resolve in declaration order.
func dominantComponent(c models.ScoreComponents, w Weights) (string, float64) {
	contributions := []struct {
		name  string
		value float64
	}{
		{"ml", w.ML * c.ML},
		{"pace", w.Pace * c.Pace},
		{"closing", w.Closing * c.Closing},
		{"record", w.Record * c.Record},
		{"odds", w.Odds * c.Odds},
	}
	best := contributions[0]
	for _, cand := range contributions[1:] {
		if cand.value > best.value {
			best = cand
		}
	}
	return best.name, best.value
}
