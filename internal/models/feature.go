package models

import (
	"encoding/json"
	"sort"

	"github.com/yourusername/paddock/internal/racing"
)

// Base feature names.
const (
	FeatureHorseNumber        = "horse_number"
	FeaturePostPosition       = "post_position"
	FeatureOdds               = "odds"
	FeaturePopularity         = "popularity"
	FeatureWeight             = "weight"
	FeatureHorseWeight        = "horse_weight"
	FeatureHorseWeightDiff    = "horse_weight_diff"
	FeatureHorseAge           = "horse_age"
	FeatureHorseSex           = "horse_sex"
	FeatureRunningStyle       = "running_style"
	FeatureDistance           = "distance"
	FeatureIsTurf             = "is_turf"
	FeatureVenueBias          = "venue_bias"
	FeatureTrackModifier      = "track_modifier"
	FeatureWeather            = "weather"
	FeatureGrade              = "grade"
	FeatureWinRate            = "win_rate"
	FeaturePlaceRate          = "place_rate"
	FeatureAvgPositionLast5   = "avg_position_last5"
	FeatureAvgLast3F          = "avg_last_3f"
	FeatureBestLast3F         = "best_last_3f"
	FeatureDaysSinceLastRace  = "days_since_last_race"
	FeatureJockeyWinRate      = "jockey_win_rate"
	FeatureJockeyVenueWinRate = "jockey_venue_win_rate"
	FeatureWorkoutEvaluation  = "workout_evaluation"
)

// Derived feature names.
const (
	FeatureLogOdds       = "log_odds"
	FeatureWeightRatio   = "weight_ratio"
	FeatureFormScore     = "form_score"
	FeaturePaceAdvantage = "pace_advantage"
)

// BaseFeatureNames lists the 25 fields every FeatureVector carries.
var BaseFeatureNames = []string{
	FeatureHorseNumber, FeaturePostPosition, FeatureOdds, FeaturePopularity, FeatureWeight,
	FeatureHorseWeight, FeatureHorseWeightDiff, FeatureHorseAge, FeatureHorseSex, FeatureRunningStyle,
	FeatureDistance, FeatureIsTurf, FeatureVenueBias, FeatureTrackModifier, FeatureWeather,
	FeatureGrade, FeatureWinRate, FeaturePlaceRate, FeatureAvgPositionLast5, FeatureAvgLast3F,
	FeatureBestLast3F, FeatureDaysSinceLastRace, FeatureJockeyWinRate, FeatureJockeyVenueWinRate,
	FeatureWorkoutEvaluation,
}

// DerivedFeatureNames lists the derived fields.
var DerivedFeatureNames = []string{FeatureLogOdds, FeatureWeightRatio, FeatureFormScore, FeaturePaceAdvantage}

// FeatureVector is an immutable per-entrant snapshot of named numeric features.
type FeatureVector struct {
	HorseNumber  int
	HorseName    string
	RunningStyle racing.RunningStyle
	values       map[string]float64
	defaulted    map[string]bool
}

// NewFeatureVector copies values and defaulted names into a new vector.
func NewFeatureVector(horseNumber int, horseName string, style racing.RunningStyle, values map[string]float64, defaulted []string) FeatureVector {
	fv := FeatureVector{
		HorseNumber:  horseNumber,
		HorseName:    horseName,
		RunningStyle: style,
		values:       make(map[string]float64, len(values)),
		defaulted:    make(map[string]bool, len(defaulted)),
	}
	for k, v := range values {
		fv.values[k] = v
	}
	for _, name := range defaulted {
		fv.defaulted[name] = true
	}
	return fv
}

// Value returns the named feature, or zero when absent.
func (f FeatureVector) Value(name string) float64 {
	return f.values[name]
}

// Lookup returns the named feature and whether it is present.
func (f FeatureVector) Lookup(name string) (float64, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether the feature is present.
func (f FeatureVector) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// IsDefaulted reports whether the feature was filled from the defaults table.
func (f FeatureVector) IsDefaulted(name string) bool {
	return f.defaulted[name]
}

// DefaultedFields lists the defaulted feature names in sorted order.
func (f FeatureVector) DefaultedFields() []string {
	out := make([]string, 0, len(f.defaulted))
	for k := range f.defaulted {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Names lists the present feature names in sorted order.
func (f FeatureVector) Names() []string {
	out := make([]string, 0, len(f.values))
	for k := range f.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of present features.
func (f FeatureVector) Len() int {
	return len(f.values)
}

// With returns a copy of the vector with the named feature set.
func (f FeatureVector) With(name string, value float64) FeatureVector {
	out := NewFeatureVector(f.HorseNumber, f.HorseName, f.RunningStyle, f.values, f.DefaultedFields())
	out.values[name] = value
	return out
}

// MarshalJSON encodes the vector with its values and defaulted fields.
func (f FeatureVector) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		HorseNumber  int                 `json:"horse_number"`
		HorseName    string              `json:"horse_name,omitempty"`
		RunningStyle racing.RunningStyle `json:"running_style"`
		Values       map[string]float64  `json:"values"`
		Defaulted    []string            `json:"defaulted,omitempty"`
	}{f.HorseNumber, f.HorseName, f.RunningStyle, f.values, f.DefaultedFields()})
}
