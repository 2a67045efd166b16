// Package pace infers the early tempo of a race from its running-style mix.
package pace

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

const (
	fanciedEscapeMaxPopularity  = 3
	outsiderEscapeMinPopularity = 8.0
	longTripMeters              = 2400
	sprintTripMeters            = 1400
	strongFrontBias             = 0.15
	strongCloserBias            = -0.10
)

// Classifier applies the pace rule table. It holds no state.
type Classifier struct{}

// NewClassifier creates a pace classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify counts running styles across the field and returns the first matching
// rule's verdict together with the venue and going bias.
func (c *Classifier) Classify(race models.RaceContext, vectors []models.FeatureVector) models.PaceContext {
	counts := CountStyles(vectors)
	rule := racing.MatchPaceRule(counts[racing.StyleEscape], counts[racing.StyleFront])

	pc := models.PaceContext{
		Pace:               rule.Pace,
		Confidence:         rule.Confidence,
		EscapeCount:        counts[racing.StyleEscape],
		FrontCount:         counts[racing.StyleFront],
		StalkerCount:       counts[racing.StyleStalker],
		CloserCount:        counts[racing.StyleCloser],
		AdvantageousStyles: rule.Advantageous,
	}
	applyCourse(&pc, race.VenueInfo(), race.TrackCondition)
	pc.Notes = notes(pc, race, vectors)
	pc.Reason = reason(pc)
	return pc
}

// ForcePace returns the context with the pace fixed to p. When p matches the
// inferred pace the base context is kept; otherwise the canonical rule for p
// supplies confidence and favoured styles.
func (c *Classifier) ForcePace(base models.PaceContext, p racing.Pace) models.PaceContext {
	if base.Pace == p {
		out := clone(base)
		out.Forced = true
		return out
	}
	rule := racing.CanonicalPaceRule(p)
	out := clone(base)
	out.Pace = rule.Pace
	out.Confidence = rule.Confidence
	out.AdvantageousStyles = rule.Advantageous
	out.Forced = true
	out.Notes = nil
	out.Reason = fmt.Sprintf("%s pace assumed; %s", p, favouredPhrase(out.AdvantageousStyles))
	return out
}

// ForceTrack returns the context with the going fixed to tc and the
// front-advantage score recomputed. Pace fields are unchanged.
func (c *Classifier) ForceTrack(base models.PaceContext, tc racing.TrackCondition) models.PaceContext {
	out := clone(base)
	out.TrackCondition = tc
	out.TrackModifier = racing.TrackModifier(tc)
	out.FrontAdvantageScore = racing.FrontAdvantageScore(out.VenueBias, out.TrackModifier)
	out.Forced = true
	out.Reason = fmt.Sprintf("%s going at %s: front advantage %+.2f", tc, out.Venue, out.FrontAdvantageScore)
	return out
}

// ScenarioProbabilities spreads likelihood across the three pace labels. The
// inferred pace keeps its rule confidence; the remainder is shared by the other
// labels in proportion to their canonical rule confidence.
func ScenarioProbabilities(base models.PaceContext) map[racing.Pace]float64 {
	others := make([]racing.Pace, 0, len(racing.Paces)-1)
	canon := make([]float64, 0, len(racing.Paces)-1)
	for _, p := range racing.Paces {
		if p == base.Pace {
			continue
		}
		others = append(others, p)
		canon = append(canon, racing.CanonicalPaceRule(p).Confidence)
	}

	raw := make([]float64, 0, len(racing.Paces))
	labels := make([]racing.Pace, 0, len(racing.Paces))
	raw = append(raw, base.Confidence)
	labels = append(labels, base.Pace)
	rest := 1 - base.Confidence
	sumCanon := floats.Sum(canon)
	for i, p := range others {
		raw = append(raw, rest*canon[i]/sumCanon)
		labels = append(labels, p)
	}

	total := floats.Sum(raw)
	out := make(map[racing.Pace]float64, len(raw))
	for i, p := range labels {
		out[p] = raw[i] / total
	}
	return out
}

// CountStyles tallies running styles across the field.
func CountStyles(vectors []models.FeatureVector) map[racing.RunningStyle]int {
	counts := make(map[racing.RunningStyle]int, len(racing.Styles))
	for _, v := range vectors {
		counts[v.RunningStyle]++
	}
	return counts
}

func applyCourse(pc *models.PaceContext, venue racing.Venue, tc racing.TrackCondition) {
	pc.Venue = venue.Name
	pc.CourseShape = venue.Shape
	pc.TrackCondition = tc
	pc.VenueBias = venue.FrontAdvantage
	pc.TrackModifier = racing.TrackModifier(tc)
	pc.FrontAdvantageScore = racing.FrontAdvantageScore(pc.VenueBias, pc.TrackModifier)
}

// notes explain context around the rule verdict without altering it.
func notes(pc models.PaceContext, race models.RaceContext, vectors []models.FeatureVector) []string {
	var out []string

	var escapes []models.FeatureVector
	for _, v := range vectors {
		if v.RunningStyle == racing.StyleEscape && !v.IsDefaulted(models.FeaturePopularity) {
			escapes = append(escapes, v)
		}
	}
	if len(escapes) > 0 {
		var sum float64
		fancied := 0
		for _, v := range escapes {
			pop := v.Value(models.FeaturePopularity)
			sum += pop
			if fancied == 0 && pop <= fanciedEscapeMaxPopularity {
				fancied = v.HorseNumber
			}
		}
		avg := sum / float64(len(escapes))
		switch {
		case pc.Pace == racing.PaceHigh && fancied != 0:
			out = append(out, fmt.Sprintf("fancied leader No.%d may dictate and steady the tempo", fancied))
		case pc.Pace == racing.PaceSlow && avg >= outsiderEscapeMinPopularity:
			out = append(out, "only outsiders want the lead and may go too fast early")
		}
	}

	switch {
	case race.Distance >= longTripMeters && pc.Pace == racing.PaceHigh:
		out = append(out, fmt.Sprintf("a %dm trip can ease the early fractions", race.Distance))
	case race.Distance > 0 && race.Distance <= sprintTripMeters && pc.Pace == racing.PaceSlow:
		out = append(out, fmt.Sprintf("a %dm sprint rarely stays slow", race.Distance))
	}

	if race.IsDirt() {
		out = append(out, "dirt surface rewards early position")
	}

	switch {
	case pc.VenueBias >= strongFrontBias:
		out = append(out, fmt.Sprintf("%s: %dm straight favours forward runners", pc.Venue, racing.VenueOrDefault(pc.Venue).StraightMeters))
	case pc.VenueBias <= strongCloserBias:
		out = append(out, fmt.Sprintf("%s: %dm straight lets closers recover ground", pc.Venue, racing.VenueOrDefault(pc.Venue).StraightMeters))
	}

	if pc.TrackCondition == racing.TrackSoft || pc.TrackCondition == racing.TrackHeavy {
		out = append(out, fmt.Sprintf("%s going makes it hard to come from behind", pc.TrackCondition))
	}
	return out
}

func reason(pc models.PaceContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d escape and %d front runners point to a %s pace; %s",
		pc.EscapeCount, pc.FrontCount, pc.Pace, favouredPhrase(pc.AdvantageousStyles))
	if len(pc.Notes) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(pc.Notes, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func favouredPhrase(styles []racing.RunningStyle) string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = strings.ToLower(string(s))
	}
	return strings.Join(names, " and ") + " runners favoured"
}

func clone(p models.PaceContext) models.PaceContext {
	p.AdvantageousStyles = append([]racing.RunningStyle(nil), p.AdvantageousStyles...)
	p.Notes = append([]string(nil), p.Notes...)
	return p
}
