package models

import "github.com/yourusername/paddock/internal/racing"

// Regime names the weighting regime used for a race.
type Regime string

const (
	RegimeMLPresent Regime = "ml_present"
	RegimeFallback  Regime = "fallback"
)

// ScoreComponents holds the normalized per-entrant components, each in [0, 1].
// ML is set only in the ML-present regime and Odds only in the fallback regime.
type ScoreComponents struct {
	ML      float64 `json:"ml_component"`
	Odds    float64 `json:"odds_component"`
	Pace    float64 `json:"pace_component"`
	Closing float64 `json:"closing_component"`
	Record  float64 `json:"record_component"`
}

// ScoreResult is the scoring outcome for one entrant.
type ScoreResult struct {
	HorseNumber      int                 `json:"horse_number"`
	HorseName        string              `json:"horse_name,omitempty"`
	RunningStyle     racing.RunningStyle `json:"running_style"`
	PostPosition     int                 `json:"post_position"`
	Odds             float64             `json:"odds"`
	Popularity       int                 `json:"popularity,omitempty"`
	PaceAdvantage    float64             `json:"pace_advantage"`
	MLProbability    *float64            `json:"ml_place_probability,omitempty"`
	IntegratedScore  float64             `json:"integrated_score"`
	Components       ScoreComponents     `json:"components"`
	Rank             int                 `json:"rank"`
	WinProbability   float64             `json:"win_probability"`
	PlaceProbability float64             `json:"place_probability"`
	IsDarkHorse      bool                `json:"is_dark_horse"`
	DarkHorseReason  string              `json:"dark_horse_reason,omitempty"`
}

// HasMarketRank reports whether the popularity rank is known.
func (s ScoreResult) HasMarketRank() bool {
	return s.Popularity > 0
}
