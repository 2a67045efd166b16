package models

import (
	"time"

	"github.com/yourusername/paddock/internal/racing"
)

// ScenarioAxis names the variable forced in a scenario.
type ScenarioAxis string

const (
	AxisPace           ScenarioAxis = "pace"
	AxisTrackCondition ScenarioAxis = "track_condition"
)

// ScenarioEntry is one line of a scenario ranking.
type ScenarioEntry struct {
	Rank         int                 `json:"rank"`
	HorseNumber  int                 `json:"horse_number"`
	HorseName    string              `json:"horse_name,omitempty"`
	RunningStyle racing.RunningStyle `json:"running_style"`
	Score        float64             `json:"score"`
}

// ScenarioResult is the outcome of re-scoring the field under one forced value.
type ScenarioResult struct {
	Axis               ScenarioAxis          `json:"axis"`
	Pace               racing.Pace           `json:"pace"`
	TrackCondition     racing.TrackCondition `json:"track_condition"`
	PaceContext        PaceContext           `json:"pace_context"`
	FrontAdvantage     float64               `json:"front_advantage"`
	Ranking            []ScenarioEntry       `json:"ranking"`
	KeyEntrants        []int                 `json:"key_entrants"`
	AdvantageousStyles []racing.RunningStyle `json:"advantageous_styles"`
	Probability        *float64              `json:"probability,omitempty"`
	Description        string                `json:"description"`
}

// FormationEntry places one entrant in the start formation.
type FormationEntry struct {
	HorseNumber  int                 `json:"horse_number"`
	HorseName    string              `json:"horse_name,omitempty"`
	PostPosition int                 `json:"post_position"`
	Lane         int                 `json:"lane"`
	RunningStyle racing.RunningStyle `json:"running_style"`
}

// FormationRow is an ordered group of entrants racing together.
type FormationRow struct {
	Label    string           `json:"label"`
	Entrants []FormationEntry `json:"entrants"`
}

// StartFormation is the early-race layout of the field.
type StartFormation struct {
	Rows []FormationRow `json:"rows"`
}

// Corner names a checkpoint in the race.
type Corner string

const (
	CornerFirst       Corner = "first_corner"
	CornerBackstretch Corner = "backstretch"
	CornerFinal       Corner = "final_corner"
	CornerGoal        Corner = "goal"
)

// CornerPosition is one entrant's standing at a corner.
type CornerPosition struct {
	HorseNumber        int     `json:"horse_number"`
	Position           int     `json:"position"`
	DistanceFromLeader float64 `json:"distance_from_leader"`
}

// CornerSnapshot is the field order at a corner, leader first.
type CornerSnapshot struct {
	Corner    Corner           `json:"corner"`
	Progress  float64          `json:"progress"`
	Positions []CornerPosition `json:"positions"`
}

// PositionOf returns the entrant's position at this corner, or 0 when absent.
func (c CornerSnapshot) PositionOf(horseNumber int) int {
	for _, p := range c.Positions {
		if p.HorseNumber == horseNumber {
			return p.Position
		}
	}
	return 0
}

// HorsePosition is an interpolated standing at an arbitrary race progress.
type HorsePosition struct {
	HorseNumber int     `json:"horse_number"`
	Position    float64 `json:"position"`
	Lane        float64 `json:"lane"`
	Progress    float64 `json:"progress"`
}

// AnimationFrame is one discrete frame of the race trace.
type AnimationFrame struct {
	Index    int             `json:"index"`
	Progress float64         `json:"progress"`
	Horses   []HorsePosition `json:"horses"`
}

// SimulationTrace holds the presentation-only positional derivation.
type SimulationTrace struct {
	Formation StartFormation   `json:"start_formation"`
	Corners   []CornerSnapshot `json:"corner_positions"`
	Frames    []AnimationFrame `json:"animation_frames,omitempty"`
}

// RaceSimulation is the comparative scenario view of a race.
type RaceSimulation struct {
	RaceID         string           `json:"race_id"`
	PredictedPace  PaceContext      `json:"predicted_pace"`
	Regime         Regime           `json:"regime"`
	Trace          SimulationTrace  `json:"trace"`
	PaceScenarios  []ScenarioResult `json:"pace_scenarios"`
	TrackScenarios []ScenarioResult `json:"track_scenarios"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
