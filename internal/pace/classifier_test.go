package pace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

func field(styles ...racing.RunningStyle) []models.FeatureVector {
	out := make([]models.FeatureVector, len(styles))
	for i, s := range styles {
		values := map[string]float64{models.FeaturePopularity: float64(i + 1)}
		out[i] = models.NewFeatureVector(i+1, "", s, values, nil)
	}
	return out
}

func repeat(s racing.RunningStyle, n int) []racing.RunningStyle {
	out := make([]racing.RunningStyle, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func mix(groups ...[]racing.RunningStyle) []racing.RunningStyle {
	var out []racing.RunningStyle
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func TestClassifyRuleTable(t *testing.T) {
	tests := []struct {
		name           string
		styles         []racing.RunningStyle
		wantPace       racing.Pace
		wantConfidence float64
		wantStyles     []racing.RunningStyle
	}{
		{
			name:           "three escapes",
			styles:         mix(repeat(racing.StyleEscape, 3), repeat(racing.StyleCloser, 5)),
			wantPace:       racing.PaceHigh,
			wantConfidence: 0.85,
			wantStyles:     []racing.RunningStyle{racing.StyleStalker, racing.StyleCloser},
		},
		{
			name:           "two escapes",
			styles:         mix(repeat(racing.StyleEscape, 2), repeat(racing.StyleStalker, 4)),
			wantPace:       racing.PaceHigh,
			wantConfidence: 0.70,
			wantStyles:     []racing.RunningStyle{racing.StyleStalker, racing.StyleCloser},
		},
		{
			name:           "no escapes",
			styles:         mix(repeat(racing.StyleFront, 6), repeat(racing.StyleCloser, 2)),
			wantPace:       racing.PaceSlow,
			wantConfidence: 0.80,
			wantStyles:     []racing.RunningStyle{racing.StyleFront, racing.StyleStalker},
		},
		{
			name:           "lone escape few fronts",
			styles:         mix(repeat(racing.StyleEscape, 1), repeat(racing.StyleFront, 2), repeat(racing.StyleCloser, 4)),
			wantPace:       racing.PaceSlow,
			wantConfidence: 0.75,
			wantStyles:     []racing.RunningStyle{racing.StyleEscape, racing.StyleFront},
		},
		{
			name:           "lone escape crowded front",
			styles:         mix(repeat(racing.StyleEscape, 1), repeat(racing.StyleFront, 5)),
			wantPace:       racing.PaceMiddle,
			wantConfidence: 0.60,
			wantStyles:     []racing.RunningStyle{racing.StyleFront, racing.StyleStalker},
		},
		{
			name:           "lone escape three fronts",
			styles:         mix(repeat(racing.StyleEscape, 1), repeat(racing.StyleFront, 3), repeat(racing.StyleVersatile, 3)),
			wantPace:       racing.PaceMiddle,
			wantConfidence: 0.50,
			wantStyles:     []racing.RunningStyle{racing.StyleFront, racing.StyleStalker},
		},
	}

	c := NewClassifier()
	race := models.RaceContext{RaceID: "r1", Venue: "Hanshin", Distance: 2000, CourseType: racing.CourseTurf, TrackCondition: racing.TrackGood}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := c.Classify(race, field(tt.styles...))
			assert.Equal(t, tt.wantPace, pc.Pace)
			assert.Equal(t, tt.wantConfidence, pc.Confidence)
			assert.Equal(t, tt.wantStyles, pc.AdvantageousStyles)
			assert.NotEmpty(t, pc.Reason)
		})
	}
}

func TestClassifyNotesDoNotChangeVerdict(t *testing.T) {
	c := NewClassifier()
	styles := mix(repeat(racing.StyleEscape, 3), repeat(racing.StyleCloser, 3))
	plain := c.Classify(models.RaceContext{Venue: "Hanshin", Distance: 2000, CourseType: racing.CourseTurf, TrackCondition: racing.TrackGood}, field(styles...))
	noisy := c.Classify(models.RaceContext{Venue: "Hakodate", Distance: 2600, CourseType: racing.CourseDirt, TrackCondition: racing.TrackHeavy}, field(styles...))

	assert.Equal(t, plain.Pace, noisy.Pace)
	assert.Equal(t, plain.Confidence, noisy.Confidence)
	assert.Equal(t, plain.AdvantageousStyles, noisy.AdvantageousStyles)
	assert.Len(t, plain.Notes, 1)
	assert.Len(t, noisy.Notes, 5)
	assert.InDelta(t, 0.35, noisy.FrontAdvantageScore, 1e-12)
	assert.Equal(t, racing.ShapeCompact, noisy.CourseShape)
}

func TestClassifyCountsStyles(t *testing.T) {
	pc := NewClassifier().Classify(models.RaceContext{Venue: "Tokyo"}, field(
		racing.StyleEscape, racing.StyleFront, racing.StyleFront, racing.StyleStalker, racing.StyleCloser, racing.StyleCloser, racing.StyleCloser,
	))
	assert.Equal(t, 1, pc.EscapeCount)
	assert.Equal(t, 2, pc.FrontCount)
	assert.Equal(t, 1, pc.StalkerCount)
	assert.Equal(t, 3, pc.CloserCount)
	assert.Equal(t, "Tokyo", pc.Venue)
	assert.Equal(t, -0.10, pc.VenueBias)
}

func TestForcePace(t *testing.T) {
	c := NewClassifier()
	base := c.Classify(models.RaceContext{Venue: "Kyoto"}, field(mix(repeat(racing.StyleEscape, 2), repeat(racing.StyleStalker, 3))...))
	require.Equal(t, racing.PaceHigh, base.Pace)

	same := c.ForcePace(base, racing.PaceHigh)
	assert.Equal(t, 0.70, same.Confidence)
	assert.True(t, same.Forced)

	slow := c.ForcePace(base, racing.PaceSlow)
	assert.Equal(t, racing.PaceSlow, slow.Pace)
	assert.Equal(t, 0.75, slow.Confidence)
	assert.Equal(t, []racing.RunningStyle{racing.StyleEscape, racing.StyleFront}, slow.AdvantageousStyles)
	assert.Equal(t, base.EscapeCount, slow.EscapeCount)

	middle := c.ForcePace(base, racing.PaceMiddle)
	assert.Equal(t, 0.60, middle.Confidence)

	slow.AdvantageousStyles[0] = racing.StyleCloser
	assert.Equal(t, racing.StyleStalker, base.AdvantageousStyles[0])
}

func TestForceTrack(t *testing.T) {
	c := NewClassifier()
	base := c.Classify(models.RaceContext{Venue: "Nakayama", TrackCondition: racing.TrackGood}, field(racing.StyleEscape, racing.StyleFront, racing.StyleCloser))

	heavy := c.ForceTrack(base, racing.TrackHeavy)
	assert.Equal(t, base.Pace, heavy.Pace)
	assert.Equal(t, base.Confidence, heavy.Confidence)
	assert.InDelta(t, 0.30, heavy.FrontAdvantageScore, 1e-12)
	assert.InDelta(t, 0.15, base.FrontAdvantageScore, 1e-12)
	assert.Equal(t, racing.TrackHeavy, heavy.TrackCondition)
}

func TestScenarioProbabilitiesSumToOne(t *testing.T) {
	for _, rule := range racing.PaceRules() {
		base := models.PaceContext{Pace: rule.Pace, Confidence: rule.Confidence}
		probs := ScenarioProbabilities(base)
		require.Len(t, probs, 3)

		var sum float64
		for _, p := range probs {
			assert.Greater(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.InDelta(t, rule.Confidence, probs[rule.Pace], 1e-9)
	}
}

func TestScenarioProbabilitiesSplitsRemainder(t *testing.T) {
	probs := ScenarioProbabilities(models.PaceContext{Pace: racing.PaceHigh, Confidence: 0.85})
	// remainder 0.15 split 0.60 : 0.75 between Middle and Slow
	assert.InDelta(t, 0.15*0.60/1.35, probs[racing.PaceMiddle], 1e-12)
	assert.InDelta(t, 0.15*0.75/1.35, probs[racing.PaceSlow], 1e-12)
}
