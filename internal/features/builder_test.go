package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func testRace() models.RaceContext {
	return models.RaceContext{
		RaceID:         "2024-nakayama-11",
		Venue:          "Nakayama",
		Distance:       2500,
		CourseType:     racing.CourseTurf,
		TrackCondition: racing.TrackYielding,
		Weather:        "cloudy",
		Grade:          "G1",
	}
}

func TestBuildAllBaseFieldsPresentWhenSourceEmpty(t *testing.T) {
	b := NewBuilder()
	vectors := b.Build(models.RaceContext{RaceID: "r", Venue: "Nowhere"}, []models.Entrant{{HorseNumber: 1}})
	require.Len(t, vectors, 1)

	v := vectors[0]
	for _, name := range models.BaseFeatureNames {
		assert.True(t, v.Has(name), name)
	}
	assert.Len(t, models.BaseFeatureNames, 25)

	assert.Equal(t, 10.0, v.Value(models.FeatureOdds))
	assert.Equal(t, 8.0, v.Value(models.FeaturePopularity))
	assert.Equal(t, 5.0, v.Value(models.FeatureAvgPositionLast5))
	assert.Equal(t, 0.1, v.Value(models.FeatureWinRate))
	assert.Equal(t, 2000.0, v.Value(models.FeatureDistance))
	assert.True(t, v.IsDefaulted(models.FeatureOdds))
	assert.False(t, v.IsDefaulted(models.FeatureHorseNumber))
	assert.Equal(t, racing.StyleVersatile, v.RunningStyle)
}

func TestBuildDerivedFeatures(t *testing.T) {
	b := NewBuilder()
	entrant := models.Entrant{
		HorseNumber:  3,
		HorseName:    "Silver Arrow",
		Odds:         ptrF(4.2),
		Weight:       ptrF(57),
		HorseWeight:  ptrI(500),
		RunningStyle: racing.StyleStalker,
		History: &models.History{
			WinRate:          ptrF(0.25),
			AvgPositionLast5: ptrF(2.5),
		},
	}

	v := b.Build(testRace(), []models.Entrant{entrant})[0]

	assert.InDelta(t, math.Log(4.2), v.Value(models.FeatureLogOdds), 1e-12)
	assert.InDelta(t, 57.0/500.0, v.Value(models.FeatureWeightRatio), 1e-12)
	assert.InDelta(t, 0.1, v.Value(models.FeatureFormScore), 1e-12)
	assert.False(t, v.Has(models.FeaturePaceAdvantage))
	assert.Equal(t, 0.15, v.Value(models.FeatureVenueBias))
	assert.Equal(t, 0.05, v.Value(models.FeatureTrackModifier))
	assert.Equal(t, 1.0, v.Value(models.FeatureGrade))
}

func TestBuildDerivedOmittedWithoutInputs(t *testing.T) {
	b := NewBuilder()
	v := b.Build(testRace(), []models.Entrant{{HorseNumber: 2, Odds: ptrF(0)}})[0]

	assert.InDelta(t, math.Log(10.0), v.Value(models.FeatureLogOdds), 1e-12)
	assert.False(t, v.Has(models.FeatureWeightRatio))
	assert.False(t, v.Has(models.FeatureFormScore))
	assert.True(t, v.IsDefaulted(models.FeatureOdds))
}

func TestBuildRejectsOutOfRangeRates(t *testing.T) {
	b := NewBuilder()
	v := b.Build(testRace(), []models.Entrant{{
		HorseNumber: 4,
		History:     &models.History{WinRate: ptrF(1.7)},
		Jockey:      &models.JockeyStats{WinRate: ptrF(0.18)},
	}})[0]

	assert.Equal(t, 0.1, v.Value(models.FeatureWinRate))
	assert.True(t, v.IsDefaulted(models.FeatureWinRate))
	assert.Equal(t, 0.18, v.Value(models.FeatureJockeyWinRate))
}

func TestBuildDerivedSkipsRejectedInputs(t *testing.T) {
	tests := []struct {
		name    string
		history models.History
		want    float64
		present bool
	}{
		{"accepted inputs", models.History{WinRate: ptrF(0.3), AvgPositionLast5: ptrF(2)}, 0.15, true},
		{"win rate above one", models.History{WinRate: ptrF(1.7), AvgPositionLast5: ptrF(2)}, 0, false},
		{"negative win rate", models.History{WinRate: ptrF(-0.2), AvgPositionLast5: ptrF(2)}, 0, false},
		{"zero average position", models.History{WinRate: ptrF(0.3), AvgPositionLast5: ptrF(0)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.history
			v := NewBuilder().Build(testRace(), []models.Entrant{{HorseNumber: 4, History: &h}})[0]

			got, ok := v.Lookup(models.FeatureFormScore)
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestWithPace(t *testing.T) {
	b := NewBuilder()
	vectors := b.Build(testRace(), []models.Entrant{
		{HorseNumber: 1, RunningStyle: racing.StyleEscape},
		{HorseNumber: 2, RunningStyle: racing.StyleStalker},
		{HorseNumber: 3, RunningStyle: racing.StyleVersatile},
	})

	high := WithPace(vectors, racing.PaceHigh)
	assert.Equal(t, 0.85, high[0].Value(models.FeaturePaceAdvantage))
	assert.Equal(t, 1.20, high[1].Value(models.FeaturePaceAdvantage))
	assert.Equal(t, 1.0, high[2].Value(models.FeaturePaceAdvantage))
	assert.False(t, vectors[0].Has(models.FeaturePaceAdvantage))
	assert.Equal(t, 29, high[0].Len()+countMissingDerived(high[0]))
}

func countMissingDerived(v models.FeatureVector) int {
	missing := 0
	for _, name := range models.DerivedFeatureNames {
		if !v.Has(name) {
			missing++
		}
	}
	return missing
}

func TestCompleteness(t *testing.T) {
	b := NewBuilder()
	empty := b.Build(models.RaceContext{}, []models.Entrant{{HorseNumber: 1}})
	assert.Less(t, Completeness(empty), 0.2)
	assert.Zero(t, Completeness(nil))
}
