// Package racing holds the immutable racing vocabulary and lookup tables shared by
// the pace classifier, the score integrator and the scenario simulator.
package racing

import "strings"

// RunningStyle is an entrant's habitual race-position tendency.
type RunningStyle string

const (
	StyleEscape    RunningStyle = "ESCAPE"
	StyleFront     RunningStyle = "FRONT"
	StyleStalker   RunningStyle = "STALKER"
	StyleCloser    RunningStyle = "CLOSER"
	StyleVersatile RunningStyle = "VERSATILE"
)

// Styles lists every running style in field order (leaders first).
var Styles = []RunningStyle{StyleEscape, StyleFront, StyleStalker, StyleCloser, StyleVersatile}

// Valid reports whether s is a known running style.
func (s RunningStyle) Valid() bool {
	switch s {
	case StyleEscape, StyleFront, StyleStalker, StyleCloser, StyleVersatile:
		return true
	}
	return false
}

// IsForward reports whether the style races on or near the lead.
func (s RunningStyle) IsForward() bool {
	return s == StyleEscape || s == StyleFront
}

// ParseRunningStyle resolves a case-insensitive style name. Unknown or empty
// input resolves to VERSATILE and ok=false.
func ParseRunningStyle(raw string) (RunningStyle, bool) {
	s := RunningStyle(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, true
	}
	return StyleVersatile, false
}

// Pace is the aggregate early-race tempo.
type Pace string

const (
	PaceSlow   Pace = "Slow"
	PaceMiddle Pace = "Middle"
	PaceHigh   Pace = "High"
)

// Paces lists the pace labels in scenario order.
var Paces = []Pace{PaceHigh, PaceMiddle, PaceSlow}

// Valid reports whether p is a known pace label.
func (p Pace) Valid() bool {
	return p == PaceSlow || p == PaceMiddle || p == PaceHigh
}

// TrackCondition is the going of the course surface.
type TrackCondition string

const (
	TrackGood     TrackCondition = "good"
	TrackYielding TrackCondition = "yielding"
	TrackSoft     TrackCondition = "soft"
	TrackHeavy    TrackCondition = "heavy"
)

// TrackConditions lists the track conditions from firmest to softest.
var TrackConditions = []TrackCondition{TrackGood, TrackYielding, TrackSoft, TrackHeavy}

// Valid reports whether c is a known track condition.
func (c TrackCondition) Valid() bool {
	_, ok := trackModifiers[c]
	return ok
}

// ParseTrackCondition resolves a case-insensitive condition name, defaulting to good.
func ParseTrackCondition(raw string) (TrackCondition, bool) {
	c := TrackCondition(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c, true
	}
	return TrackGood, false
}

// CourseType is the racing surface.
type CourseType string

const (
	CourseTurf CourseType = "turf"
	CourseDirt CourseType = "dirt"
)

// ParseCourseType resolves a case-insensitive course type, defaulting to turf.
func ParseCourseType(raw string) (CourseType, bool) {
	switch CourseType(strings.ToLower(strings.TrimSpace(raw))) {
	case CourseTurf:
		return CourseTurf, true
	case CourseDirt:
		return CourseDirt, true
	}
	return CourseTurf, false
}

// WorkoutGrade is the trainer's evaluation of the final workout.
type WorkoutGrade string

const (
	WorkoutA WorkoutGrade = "A"
	WorkoutB WorkoutGrade = "B"
	WorkoutC WorkoutGrade = "C"
	WorkoutD WorkoutGrade = "D"
)
