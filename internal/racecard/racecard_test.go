package racecard

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/racing"
)

func TestLoadFileYAML(t *testing.T) {
	card, err := LoadFile("testdata/tokyo_derby.yaml")
	require.NoError(t, err)

	assert.Equal(t, "2024-tokyo-11", card.Race.RaceID)
	assert.Equal(t, "Tokyo", card.Race.Venue)
	assert.Equal(t, 2400, card.Race.Distance)
	assert.Equal(t, racing.CourseTurf, card.Race.CourseType)
	assert.Equal(t, racing.TrackGood, card.Race.TrackCondition)
	require.Len(t, card.Entrants, 5)

	first := card.Entrants[0]
	assert.Equal(t, racing.StyleFront, first.RunningStyle)
	assert.Equal(t, racing.WorkoutA, first.WorkoutEvaluation)
	require.NotNil(t, first.Odds)
	assert.Equal(t, 3.2, *first.Odds)
	require.NotNil(t, first.History)
	require.NotNil(t, first.History.DaysSinceLastRace)
	assert.Equal(t, 35, *first.History.DaysSinceLastRace)
	require.NotNil(t, first.Jockey)
	assert.Equal(t, "K. Sato", first.Jockey.Name)

	assert.Nil(t, card.Entrants[2].History)
	assert.Equal(t, racing.RunningStyle(""), card.Entrants[4].RunningStyle)
	require.NotNil(t, card.Entrants[3].MLPlaceProbability)
	assert.Equal(t, 0.41, *card.Entrants[3].MLPlaceProbability)
}

func TestLoadFileJSON(t *testing.T) {
	card, err := LoadFile("testdata/race.json")
	require.NoError(t, err)

	assert.Equal(t, racing.CourseDirt, card.Race.CourseType)
	assert.Equal(t, racing.TrackHeavy, card.Race.TrackCondition)
	assert.Len(t, card.Entrants, 3)
	assert.Equal(t, racing.StyleEscape, card.Entrants[0].RunningStyle)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yaml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCard))
}

func TestDecodeDefaultsAndUnknownValues(t *testing.T) {
	card, err := Decode(strings.NewReader(`
race:
  race_id: r1
  venue: Nakayama
entrants:
  - horse_number: 1
    running_style: sprinter
`))
	require.NoError(t, err)
	assert.Equal(t, racing.CourseTurf, card.Race.CourseType)
	assert.Equal(t, racing.TrackGood, card.Race.TrackCondition)
	assert.Equal(t, racing.RunningStyle("sprinter"), card.Entrants[0].RunningStyle)
	assert.Equal(t, racing.StyleVersatile, card.Entrants[0].Style())
}

func TestDecodeRejections(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty document",
			input:   "",
			wantErr: "empty document",
		},
		{
			name:    "malformed yaml",
			input:   "race: [",
			wantErr: "invalid race card",
		},
		{
			name:    "unknown field",
			input:   "race:\n  race_id: r1\n  venue: Tokyo\n  purse: 100\nentrants:\n  - horse_number: 1\n",
			wantErr: "purse",
		},
		{
			name:    "missing race id",
			input:   "race:\n  venue: Tokyo\nentrants:\n  - horse_number: 1\n",
			wantErr: "RaceID",
		},
		{
			name:    "no entrants",
			input:   "race:\n  race_id: r1\n  venue: Tokyo\nentrants: []\n",
			wantErr: "Entrants",
		},
		{
			name:    "non-positive horse number",
			input:   "race:\n  race_id: r1\n  venue: Tokyo\nentrants:\n  - horse_number: 0\n",
			wantErr: "HorseNumber",
		},
		{
			name:    "probability out of range",
			input:   "race:\n  race_id: r1\n  venue: Tokyo\nentrants:\n  - horse_number: 1\n    ml_place_probability: 1.5\n",
			wantErr: "MLPlaceProbability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCard)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
