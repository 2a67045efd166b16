package racing

import "strings"

// CourseShape describes how tight a course's turns are.
type CourseShape string

const (
	ShapeCompact CourseShape = "compact"
	ShapeMedium  CourseShape = "medium"
	ShapeLarge   CourseShape = "large"
)

// Venue carries the fixed characteristics of a racecourse.
type Venue struct {
	Name           string
	FrontAdvantage float64
	Shape          CourseShape
	StraightMeters int
	Uphill         bool
	Description    string
}

var venues = map[string]Venue{
	"hakodate":  {Name: "Hakodate", FrontAdvantage: 0.20, Shape: ShapeCompact, StraightMeters: 262, Description: "shortest straight on the circuit, leaders rarely come back"},
	"kokura":    {Name: "Kokura", FrontAdvantage: 0.20, Shape: ShapeCompact, StraightMeters: 293, Description: "flat tight oval, early position is everything"},
	"nakayama":  {Name: "Nakayama", FrontAdvantage: 0.15, Shape: ShapeCompact, StraightMeters: 310, Uphill: true, Description: "short straight with a steep finishing climb"},
	"fukushima": {Name: "Fukushima", FrontAdvantage: 0.15, Shape: ShapeCompact, StraightMeters: 292, Description: "small track with a short run-in"},
	"sapporo":   {Name: "Sapporo", FrontAdvantage: 0.15, Shape: ShapeCompact, StraightMeters: 266, Description: "round course, sweeping turns favour forward runners"},
	"chukyo":    {Name: "Chukyo", FrontAdvantage: 0.05, Shape: ShapeMedium, StraightMeters: 412, Uphill: true, Description: "medium straight with an uphill section"},
	"hanshin":   {Name: "Hanshin", FrontAdvantage: 0.00, Shape: ShapeMedium, StraightMeters: 473, Uphill: true, Description: "fair course with a late rise"},
	"kyoto":     {Name: "Kyoto", FrontAdvantage: -0.05, Shape: ShapeLarge, StraightMeters: 404, Description: "downhill into the home turn suits momentum"},
	"tokyo":     {Name: "Tokyo", FrontAdvantage: -0.10, Shape: ShapeLarge, StraightMeters: 525, Description: "long straight rewards a sustained finish"},
	"niigata":   {Name: "Niigata", FrontAdvantage: -0.15, Shape: ShapeLarge, StraightMeters: 659, Description: "longest straight in the country, closers thrive"},
}

var defaultVenue = Venue{Name: "Unknown", FrontAdvantage: 0.0, Shape: ShapeMedium, StraightMeters: 400}

// LookupVenue finds a venue by case-insensitive name.
func LookupVenue(name string) (Venue, bool) {
	v, ok := venues[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// VenueOrDefault returns the named venue or a neutral medium-shaped course.
func VenueOrDefault(name string) Venue {
	if v, ok := LookupVenue(name); ok {
		return v
	}
	d := defaultVenue
	if name != "" {
		d.Name = name
	}
	return d
}

// Venues returns every known venue sorted by descending front advantage.
func Venues() []Venue {
	order := []string{"hakodate", "kokura", "nakayama", "fukushima", "sapporo", "chukyo", "hanshin", "kyoto", "tokyo", "niigata"}
	out := make([]Venue, 0, len(order))
	for _, k := range order {
		out = append(out, venues[k])
	}
	return out
}

var trackModifiers = map[TrackCondition]float64{
	TrackGood:     0.00,
	TrackYielding: 0.05,
	TrackSoft:     0.10,
	TrackHeavy:    0.15,
}

// TrackModifier returns the front-advantage modifier for a track condition.
// Unknown conditions contribute nothing.
func TrackModifier(c TrackCondition) float64 {
	return trackModifiers[c]
}

// FrontAdvantageScore combines venue bias and track modifier, clipped to [-1, 1].
func FrontAdvantageScore(venueBias, trackModifier float64) float64 {
	s := venueBias + trackModifier
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

var paceAffinity = map[Pace]map[RunningStyle]float64{
	PaceHigh: {
		StyleStalker: 1.20,
		StyleCloser:  1.15,
		StyleEscape:  0.85,
		StyleFront:   0.85,
	},
	PaceSlow: {
		StyleEscape:  1.20,
		StyleFront:   1.15,
		StyleStalker: 0.85,
		StyleCloser:  0.85,
	},
}

// PaceAffinity returns how well a running style suits a pace.
// Middle pace and VERSATILE runners are always neutral.
func PaceAffinity(style RunningStyle, pace Pace) float64 {
	if a, ok := paceAffinity[pace][style]; ok {
		return a
	}
	return 1.0
}

var earlyPositions = map[RunningStyle]float64{
	StyleEscape:    1.5,
	StyleFront:     4,
	StyleStalker:   7,
	StyleCloser:    12,
	StyleVersatile: 8,
}

// EarlyPosition is the typical position a style holds through the first corner.
func EarlyPosition(style RunningStyle) float64 {
	if p, ok := earlyPositions[style]; ok {
		return p
	}
	return earlyPositions[StyleVersatile]
}

const (
	innerPostMax = 3
	outerPostMin = 6
)

// PostPositionEffect scales pace fitness for the draw, depending on how tight the
// course is. Escape runners suffer most from a wide draw.
func PostPositionEffect(style RunningStyle, post int, shape CourseShape) float64 {
	inner := post > 0 && post <= innerPostMax
	outer := post >= outerPostMin
	compact := shape == ShapeCompact
	effect := 1.0

	switch style {
	case StyleEscape:
		if outer {
			effect *= 0.90
			if compact {
				effect *= 0.95
			}
		} else if inner {
			effect *= 1.05
		}
	case StyleFront:
		if outer && compact {
			effect *= 0.95
		}
	case StyleStalker, StyleCloser:
		if compact {
			if inner {
				effect *= 1.05
			} else if outer {
				effect *= 0.95
			}
		}
	}
	return effect
}

// FrontBiasFactor converts the front-advantage score into a multiplier for a style.
func FrontBiasFactor(style RunningStyle, frontAdvantage float64) float64 {
	switch style {
	case StyleEscape, StyleFront:
		return 1 + 0.3*frontAdvantage
	case StyleStalker, StyleCloser:
		return 1 - 0.2*frontAdvantage
	}
	return 1.0
}
