package models

import (
	"strconv"

	"github.com/yourusername/paddock/internal/racing"
)

// RaceContext describes the race being predicted.
type RaceContext struct {
	RaceID         string                `json:"race_id" yaml:"race_id" validate:"required"`
	Name           string                `json:"name,omitempty" yaml:"name,omitempty"`
	Venue          string                `json:"venue" yaml:"venue" validate:"required"`
	Distance       int                   `json:"distance" yaml:"distance" validate:"gte=0"`
	CourseType     racing.CourseType     `json:"course_type" yaml:"course_type"`
	TrackCondition racing.TrackCondition `json:"track_condition" yaml:"track_condition"`
	Weather        string                `json:"weather,omitempty" yaml:"weather,omitempty"`
	Grade          string                `json:"grade,omitempty" yaml:"grade,omitempty"`
}

// VenueInfo resolves the venue characteristics, falling back to a neutral course.
func (r RaceContext) VenueInfo() racing.Venue {
	return racing.VenueOrDefault(r.Venue)
}

// IsDirt reports whether the race is run on dirt.
func (r RaceContext) IsDirt() bool {
	return r.CourseType == racing.CourseDirt
}

// Entrant is one runner in the race as supplied by upstream collaborators.
// Pointer fields are optional and resolve to defaults during feature building.
type Entrant struct {
	HorseNumber        int                 `json:"horse_number" yaml:"horse_number" validate:"required,gt=0"`
	HorseName          string              `json:"horse_name,omitempty" yaml:"horse_name,omitempty"`
	PostPosition       *int                `json:"post_position,omitempty" yaml:"post_position,omitempty" validate:"omitempty,gt=0"`
	Odds               *float64            `json:"odds,omitempty" yaml:"odds,omitempty"`
	Popularity         *int                `json:"popularity,omitempty" yaml:"popularity,omitempty" validate:"omitempty,gt=0"`
	Weight             *float64            `json:"weight,omitempty" yaml:"weight,omitempty"`
	HorseWeight        *int                `json:"horse_weight,omitempty" yaml:"horse_weight,omitempty"`
	HorseWeightDiff    *int                `json:"horse_weight_diff,omitempty" yaml:"horse_weight_diff,omitempty"`
	Age                *int                `json:"age,omitempty" yaml:"age,omitempty"`
	Sex                string              `json:"sex,omitempty" yaml:"sex,omitempty"`
	RunningStyle       racing.RunningStyle `json:"running_style,omitempty" yaml:"running_style,omitempty"`
	History            *History            `json:"history,omitempty" yaml:"history,omitempty"`
	Jockey             *JockeyStats        `json:"jockey,omitempty" yaml:"jockey,omitempty"`
	WorkoutEvaluation  racing.WorkoutGrade `json:"workout_evaluation,omitempty" yaml:"workout_evaluation,omitempty"`
	MLPlaceProbability *float64            `json:"ml_place_probability,omitempty" yaml:"ml_place_probability,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Style returns the running style, treating unknown values as VERSATILE.
func (e Entrant) Style() racing.RunningStyle {
	if e.RunningStyle.Valid() {
		return e.RunningStyle
	}
	return racing.StyleVersatile
}

// DisplayName returns the horse name or a numbered placeholder.
func (e Entrant) DisplayName() string {
	if e.HorseName != "" {
		return e.HorseName
	}
	return "No." + strconv.Itoa(e.HorseNumber)
}

// History holds historical per-horse aggregates.
type History struct {
	WinRate           *float64 `json:"win_rate,omitempty" yaml:"win_rate,omitempty"`
	PlaceRate         *float64 `json:"place_rate,omitempty" yaml:"place_rate,omitempty"`
	AvgPositionLast5  *float64 `json:"avg_position_last5,omitempty" yaml:"avg_position_last5,omitempty"`
	AvgLast3F         *float64 `json:"avg_last_3f,omitempty" yaml:"avg_last_3f,omitempty"`
	BestLast3F        *float64 `json:"best_last_3f,omitempty" yaml:"best_last_3f,omitempty"`
	DaysSinceLastRace *int     `json:"days_since_last_race,omitempty" yaml:"days_since_last_race,omitempty"`
}

// JockeyStats holds jockey aggregates.
type JockeyStats struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	WinRate      *float64 `json:"win_rate,omitempty" yaml:"win_rate,omitempty"`
	VenueWinRate *float64 `json:"venue_win_rate,omitempty" yaml:"venue_win_rate,omitempty"`
}
