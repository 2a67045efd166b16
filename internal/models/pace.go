package models

import "github.com/yourusername/paddock/internal/racing"

// PaceContext is the pace verdict for one race.
type PaceContext struct {
	Pace                racing.Pace           `json:"pace"`
	Confidence          float64               `json:"confidence"`
	EscapeCount         int                   `json:"escape_count"`
	FrontCount          int                   `json:"front_count"`
	StalkerCount        int                   `json:"stalker_count"`
	CloserCount         int                   `json:"closer_count"`
	AdvantageousStyles  []racing.RunningStyle `json:"advantageous_styles"`
	Venue               string                `json:"venue"`
	CourseShape         racing.CourseShape    `json:"course_shape"`
	TrackCondition      racing.TrackCondition `json:"track_condition"`
	VenueBias           float64               `json:"venue_bias"`
	TrackModifier       float64               `json:"track_modifier"`
	FrontAdvantageScore float64               `json:"front_advantage_score"`
	Notes               []string              `json:"notes,omitempty"`
	Reason              string                `json:"reason"`
	Forced              bool                  `json:"forced,omitempty"`
}

// IsAdvantageous reports whether the style is favoured under this pace.
func (p PaceContext) IsAdvantageous(style racing.RunningStyle) bool {
	return p.AdvantageRank(style) >= 0
}

// AdvantageRank returns the style's index in the advantageous list, or -1.
func (p PaceContext) AdvantageRank(style racing.RunningStyle) int {
	for i, s := range p.AdvantageousStyles {
		if s == style {
			return i
		}
	}
	return -1
}
