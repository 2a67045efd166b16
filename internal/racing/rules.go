package racing

import "strings"

// PaceRule maps escape/front runner counts to a pace verdict. Bounds are
// inclusive; a negative max means unbounded.
type PaceRule struct {
	EscapeMin    int
	EscapeMax    int
	FrontMin     int
	FrontMax     int
	Pace         Pace
	Confidence   float64
	Advantageous []RunningStyle
}

// Matches reports whether the rule applies to the given counts.
func (r PaceRule) Matches(escapeCount, frontCount int) bool {
	return within(escapeCount, r.EscapeMin, r.EscapeMax) && within(frontCount, r.FrontMin, r.FrontMax)
}

func within(n, lo, hi int) bool {
	return n >= lo && (hi < 0 || n <= hi)
}

// Evaluated top to bottom, first match wins. The final row always matches.
var paceRules = []PaceRule{
	{EscapeMin: 3, EscapeMax: -1, FrontMin: 0, FrontMax: -1, Pace: PaceHigh, Confidence: 0.85, Advantageous: []RunningStyle{StyleStalker, StyleCloser}},
	{EscapeMin: 2, EscapeMax: 2, FrontMin: 0, FrontMax: -1, Pace: PaceHigh, Confidence: 0.70, Advantageous: []RunningStyle{StyleStalker, StyleCloser}},
	{EscapeMin: 0, EscapeMax: 0, FrontMin: 0, FrontMax: -1, Pace: PaceSlow, Confidence: 0.80, Advantageous: []RunningStyle{StyleFront, StyleStalker}},
	{EscapeMin: 1, EscapeMax: 1, FrontMin: 0, FrontMax: 2, Pace: PaceSlow, Confidence: 0.75, Advantageous: []RunningStyle{StyleEscape, StyleFront}},
	{EscapeMin: 1, EscapeMax: 1, FrontMin: 5, FrontMax: -1, Pace: PaceMiddle, Confidence: 0.60, Advantageous: []RunningStyle{StyleFront, StyleStalker}},
	{EscapeMin: 0, EscapeMax: -1, FrontMin: 0, FrontMax: -1, Pace: PaceMiddle, Confidence: 0.50, Advantageous: []RunningStyle{StyleFront, StyleStalker}},
}

// Rows used when a pace is forced rather than inferred.
var canonicalRuleIndex = map[Pace]int{
	PaceHigh:   0,
	PaceSlow:   3,
	PaceMiddle: 4,
}

// PaceRules returns a copy of the pace rule table.
func PaceRules() []PaceRule {
	out := make([]PaceRule, len(paceRules))
	for i, r := range paceRules {
		out[i] = r.clone()
	}
	return out
}

// MatchPaceRule returns the first rule matching the counts.
func MatchPaceRule(escapeCount, frontCount int) PaceRule {
	for _, r := range paceRules {
		if r.Matches(escapeCount, frontCount) {
			return r.clone()
		}
	}
	return paceRules[len(paceRules)-1].clone()
}

// CanonicalPaceRule is the representative row for a pace label.
func CanonicalPaceRule(p Pace) PaceRule {
	idx, ok := canonicalRuleIndex[p]
	if !ok {
		idx = canonicalRuleIndex[PaceMiddle]
	}
	return paceRules[idx].clone()
}

func (r PaceRule) clone() PaceRule {
	r.Advantageous = append([]RunningStyle(nil), r.Advantageous...)
	return r
}

var styleCodes = map[RunningStyle]float64{
	StyleEscape:    1,
	StyleFront:     2,
	StyleStalker:   3,
	StyleCloser:    4,
	StyleVersatile: 2.5,
}

// StyleCode is the numeric encoding of a running style used in feature vectors.
func StyleCode(s RunningStyle) float64 {
	if c, ok := styleCodes[s]; ok {
		return c
	}
	return styleCodes[StyleVersatile]
}

var workoutCodes = map[WorkoutGrade]float64{
	WorkoutA: 4,
	WorkoutB: 3,
	WorkoutC: 2,
	WorkoutD: 1,
}

// WorkoutCode encodes a workout grade; ok is false for unknown grades.
func WorkoutCode(g WorkoutGrade) (float64, bool) {
	c, ok := workoutCodes[WorkoutGrade(strings.ToUpper(string(g)))]
	return c, ok
}

var gradeCodes = map[string]float64{
	"G1": 1, "G2": 2, "G3": 3,
	"L": 4, "OP": 4,
	"3WIN": 5, "2WIN": 6, "1WIN": 7,
	"MAIDEN": 8, "NEWCOMER": 8,
}

// GradeCode encodes a race grade, lower is stronger; ok is false when unknown.
func GradeCode(grade string) (float64, bool) {
	c, ok := gradeCodes[strings.ToUpper(strings.TrimSpace(grade))]
	return c, ok
}

var weatherCodes = map[string]float64{
	"sunny": 1, "fine": 1,
	"cloudy":     2,
	"light_rain": 3, "drizzle": 3,
	"rain": 4,
	"snow": 5,
}

// WeatherCode encodes the weather; ok is false when unknown.
func WeatherCode(weather string) (float64, bool) {
	c, ok := weatherCodes[strings.ToLower(strings.TrimSpace(weather))]
	return c, ok
}

var sexCodes = map[string]float64{
	"male": 1, "colt": 1, "horse": 1,
	"female": 2, "filly": 2, "mare": 2,
	"gelding": 3,
}

// SexCode encodes an entrant's sex; ok is false when unknown.
func SexCode(sex string) (float64, bool) {
	c, ok := sexCodes[strings.ToLower(strings.TrimSpace(sex))]
	return c, ok
}
