// Package features assembles canonical per-entrant feature vectors.
package features

import (
	"math"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

// Defaults holds the value used for each base feature whose source is absent.
var Defaults = map[string]float64{
	models.FeatureHorseNumber:        5,
	models.FeaturePostPosition:       5,
	models.FeatureOdds:               10.0,
	models.FeaturePopularity:         8,
	models.FeatureWeight:             55,
	models.FeatureHorseWeight:        480,
	models.FeatureHorseWeightDiff:    0,
	models.FeatureHorseAge:           4,
	models.FeatureHorseSex:           0,
	models.FeatureRunningStyle:       racing.StyleCode(racing.StyleVersatile),
	models.FeatureDistance:           2000,
	models.FeatureIsTurf:             1,
	models.FeatureVenueBias:          0,
	models.FeatureTrackModifier:      0,
	models.FeatureWeather:            0,
	models.FeatureGrade:              4,
	models.FeatureWinRate:            0.1,
	models.FeaturePlaceRate:          0.3,
	models.FeatureAvgPositionLast5:   5.0,
	models.FeatureAvgLast3F:          35.0,
	models.FeatureBestLast3F:         34.0,
	models.FeatureDaysSinceLastRace:  30,
	models.FeatureJockeyWinRate:      0.1,
	models.FeatureJockeyVenueWinRate: 0.1,
	models.FeatureWorkoutEvaluation:  2.5,
}

// Builder turns race and entrant records into feature vectors. It is stateless
// and safe for concurrent use.
type Builder struct{}

// NewBuilder creates a feature builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns one vector per entrant, in input order. Missing optional inputs
// resolve to Defaults and are recorded on the vector; Build never fails.
func (b *Builder) Build(race models.RaceContext, entrants []models.Entrant) []models.FeatureVector {
	out := make([]models.FeatureVector, 0, len(entrants))
	for _, e := range entrants {
		out = append(out, b.buildOne(race, e))
	}
	return out
}

type collector struct {
	values    map[string]float64
	defaulted []string
}

// source is an optional input value.
type source struct {
	v  float64
	ok bool
}

func from(v float64, ok bool) source {
	return source{v: v, ok: ok}
}

func (c *collector) set(name string, s source) {
	if !s.ok || math.IsNaN(s.v) || math.IsInf(s.v, 0) {
		c.values[name] = Defaults[name]
		c.defaulted = append(c.defaulted, name)
		return
	}
	c.values[name] = s.v
}

func (b *Builder) buildOne(race models.RaceContext, e models.Entrant) models.FeatureVector {
	c := &collector{values: make(map[string]float64, len(models.BaseFeatureNames)+len(models.DerivedFeatureNames))}
	venue, venueKnown := racing.LookupVenue(race.Venue)

	c.set(models.FeatureHorseNumber, from(float64(e.HorseNumber), e.HorseNumber > 0))
	c.set(models.FeaturePostPosition, intVal(e.PostPosition))
	c.set(models.FeatureOdds, positive(e.Odds))
	c.set(models.FeaturePopularity, intVal(e.Popularity))
	c.set(models.FeatureWeight, positive(e.Weight))
	c.set(models.FeatureHorseWeight, intVal(e.HorseWeight))
	c.set(models.FeatureHorseWeightDiff, intVal(e.HorseWeightDiff))
	c.set(models.FeatureHorseAge, intVal(e.Age))
	c.set(models.FeatureHorseSex, from(racing.SexCode(e.Sex)))
	c.set(models.FeatureRunningStyle, from(racing.StyleCode(e.RunningStyle), e.RunningStyle.Valid()))
	c.set(models.FeatureDistance, from(float64(race.Distance), race.Distance > 0))
	c.set(models.FeatureIsTurf, turfFlag(race.CourseType))
	c.set(models.FeatureVenueBias, from(venue.FrontAdvantage, venueKnown))
	c.set(models.FeatureTrackModifier, from(racing.TrackModifier(race.TrackCondition), race.TrackCondition.Valid()))
	c.set(models.FeatureWeather, from(racing.WeatherCode(race.Weather)))
	c.set(models.FeatureGrade, from(racing.GradeCode(race.Grade)))

	var h models.History
	if e.History != nil {
		h = *e.History
	}
	c.set(models.FeatureWinRate, rate(h.WinRate))
	c.set(models.FeaturePlaceRate, rate(h.PlaceRate))
	c.set(models.FeatureAvgPositionLast5, positive(h.AvgPositionLast5))
	c.set(models.FeatureAvgLast3F, positive(h.AvgLast3F))
	c.set(models.FeatureBestLast3F, positive(h.BestLast3F))
	c.set(models.FeatureDaysSinceLastRace, intVal(h.DaysSinceLastRace))

	var j models.JockeyStats
	if e.Jockey != nil {
		j = *e.Jockey
	}
	c.set(models.FeatureJockeyWinRate, rate(j.WinRate))
	c.set(models.FeatureJockeyVenueWinRate, rate(j.VenueWinRate))
	c.set(models.FeatureWorkoutEvaluation, from(racing.WorkoutCode(e.WorkoutEvaluation)))

	derive(c, e, h)

	return models.NewFeatureVector(e.HorseNumber, e.DisplayName(), e.Style(), c.values, c.defaulted)
}

// derive fills the derived features whose inputs were accepted from the source.
// A rejected input leaves its derived feature out rather than mixing a raw
// value with a defaulted one.
func derive(c *collector, e models.Entrant, h models.History) {
	if odds := positive(e.Odds); odds.ok {
		c.values[models.FeatureLogOdds] = math.Log(odds.v)
	} else {
		c.values[models.FeatureLogOdds] = math.Log(Defaults[models.FeatureOdds])
	}

	if w := positive(e.Weight); w.ok && e.HorseWeight != nil && *e.HorseWeight > 0 {
		c.values[models.FeatureWeightRatio] = w.v / float64(*e.HorseWeight)
	}

	pos, win := positive(h.AvgPositionLast5), rate(h.WinRate)
	if pos.ok && win.ok {
		c.values[models.FeatureFormScore] = (1 / pos.v) * win.v
	}
}

// WithPace returns copies of the vectors carrying pace_advantage for the given pace.
func WithPace(vectors []models.FeatureVector, pace racing.Pace) []models.FeatureVector {
	out := make([]models.FeatureVector, len(vectors))
	for i, v := range vectors {
		out[i] = v.With(models.FeaturePaceAdvantage, racing.PaceAffinity(v.RunningStyle, pace))
	}
	return out
}

// Completeness is the share of base features taken from source data across the field.
func Completeness(vectors []models.FeatureVector) float64 {
	if len(vectors) == 0 {
		return 0
	}
	total := float64(len(vectors) * len(models.BaseFeatureNames))
	missing := 0
	for _, v := range vectors {
		missing += len(v.DefaultedFields())
	}
	return 1 - float64(missing)/total
}

func intVal(p *int) source {
	if p == nil {
		return source{}
	}
	return from(float64(*p), true)
}

func positive(p *float64) source {
	if p == nil || *p <= 0 {
		return source{}
	}
	return from(*p, true)
}

func rate(p *float64) source {
	if p == nil || *p < 0 || *p > 1 {
		return source{}
	}
	return from(*p, true)
}

func turfFlag(ct racing.CourseType) source {
	switch ct {
	case racing.CourseTurf:
		return from(1, true)
	case racing.CourseDirt:
		return from(0, true)
	}
	return source{}
}
