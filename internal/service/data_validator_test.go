package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

func newTestValidator() *DataValidator {
	return NewDataValidator(logger.Discard())
}

func TestRaceDataValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name       string
		mutate     func(*models.RaceContext)
		wantCount  int
		shouldHave string
	}{
		{
			name:   "valid race",
			mutate: func(r *models.RaceContext) {},
		},
		{
			name:       "missing race id",
			mutate:     func(r *models.RaceContext) { r.RaceID = "" },
			wantCount:  1,
			shouldHave: "race_id is empty",
		},
		{
			name:       "unknown venue",
			mutate:     func(r *models.RaceContext) { r.Venue = "Atlantis" },
			wantCount:  1,
			shouldHave: "unknown venue",
		},
		{
			name:       "missing distance",
			mutate:     func(r *models.RaceContext) { r.Distance = 0 },
			wantCount:  1,
			shouldHave: "distance is missing",
		},
		{
			name:       "distance too long",
			mutate:     func(r *models.RaceContext) { r.Distance = 5000 },
			wantCount:  1,
			shouldHave: "out of range",
		},
		{
			name:       "unknown track condition",
			mutate:     func(r *models.RaceContext) { r.TrackCondition = "muddy" },
			wantCount:  1,
			shouldHave: "treated as good",
		},
		{
			name: "several problems",
			mutate: func(r *models.RaceContext) {
				r.Venue = "Atlantis"
				r.TrackCondition = "muddy"
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			race := testRace()
			tt.mutate(&race)

			warnings := validator.ValidateRace(race)
			assert.Len(t, warnings, tt.wantCount)
			if tt.shouldHave != "" {
				require.NotEmpty(t, warnings)
				assert.Contains(t, warnings[0], tt.shouldHave)
			}
		})
	}
}

func TestEntrantDataValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name       string
		entrant    models.Entrant
		wantCount  int
		shouldHave string
	}{
		{
			name:    "valid entrant",
			entrant: testEntrants()[0],
		},
		{
			name:    "sparse entrant",
			entrant: models.Entrant{HorseNumber: 4},
		},
		{
			name:       "odds below evens",
			entrant:    models.Entrant{HorseNumber: 1, Odds: ptrF(0.5)},
			wantCount:  1,
			shouldHave: "below 1.0",
		},
		{
			name:       "unknown running style",
			entrant:    models.Entrant{HorseNumber: 1, RunningStyle: "SPRINTER"},
			wantCount:  1,
			shouldHave: "treated as VERSATILE",
		},
		{
			name:       "weight out of range",
			entrant:    models.Entrant{HorseNumber: 1, Weight: ptrF(70)},
			wantCount:  1,
			shouldHave: "carried weight",
		},
		{
			name:       "probability out of range",
			entrant:    models.Entrant{HorseNumber: 1, MLPlaceProbability: ptrF(1.5)},
			wantCount:  1,
			shouldHave: "ML probability",
		},
		{
			name:      "several problems",
			entrant:   models.Entrant{HorseNumber: 1, Odds: ptrF(0.5), RunningStyle: "SPRINTER", MLPlaceProbability: ptrF(1.5)},
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := validator.ValidateEntrant(tt.entrant)
			assert.Len(t, warnings, tt.wantCount)
			if tt.shouldHave != "" {
				require.NotEmpty(t, warnings)
				assert.Contains(t, warnings[0], tt.shouldHave)
			}
		})
	}
}

func TestValidateFieldDuplicates(t *testing.T) {
	validator := newTestValidator()

	entrants := testEntrants()
	entrants[3].HorseNumber = entrants[0].HorseNumber

	_, err := validator.ValidateField(testRace(), entrants)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDuplicateEntrant)
}

func TestValidateFieldRejectsNonPositiveHorseNumbers(t *testing.T) {
	validator := newTestValidator()

	for _, n := range []int{0, -3} {
		entrants := testEntrants()
		entrants[1].HorseNumber = n

		_, err := validator.ValidateField(testRace(), entrants)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidHorseNumber)
		assert.NotErrorIs(t, err, models.ErrInconsistentConfig)
	}
}

func TestValidateFieldLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	validator := NewDataValidator(logger.NewLoggerWithOutput("warn", &buf))

	race := testRace()
	race.TrackCondition = racing.TrackCondition("muddy")
	entrants := testEntrants()
	entrants[2].Weight = ptrF(40)

	warnings, err := validator.ValidateField(race, entrants)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
	assert.Contains(t, buf.String(), "muddy")
	assert.Contains(t, buf.String(), "carried weight")
}
