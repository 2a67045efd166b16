package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

func init() {
	color.NoColor = true
}

func testResult(t *testing.T) *models.PredictionResult {
	t.Helper()
	ticket, err := models.NewTrioNagashi([]int{3}, []int{1, 5, 7}, 100)
	require.NoError(t, err)
	plan, err := models.NewBetPlan(models.BetFormatPivot, []models.Ticket{ticket}, "")
	require.NoError(t, err)

	return &models.PredictionResult{
		RaceID: "2024-tokyo-11",
		Regime: models.RegimeFallback,
		Rankings: []models.HorsePrediction{
			{Rank: 1, HorseNumber: 3, HorseName: "Paper Lantern", RunningStyle: racing.StyleEscape, Score: 71.2, WinProbability: 0.31, PlaceProbability: 0.62},
			{Rank: 2, HorseNumber: 5, HorseName: "Quiet Harbour", RunningStyle: racing.StyleCloser, Score: 64.8, WinProbability: 0.22, PlaceProbability: 0.51},
			{Rank: 3, HorseNumber: 7, HorseName: "Long Shot", RunningStyle: racing.StyleStalker, Score: 60.1, WinProbability: 0.12, PlaceProbability: 0.33, IsDarkHorse: true},
		},
		Pace:            models.PacePrediction{Type: racing.PaceSlow, Confidence: 0.7, Reason: "one clear leader"},
		Bets:            plan,
		ConfidenceScore: 0.64,
		Reasoning:       "Pace: Slow pace expected.",
		Notes:           []string{"ML place probabilities unavailable (unavailable); fallback weights applied"},
		ModelVersion:    "paddock-1.0",
		PredictedAt:     time.Date(2024, 5, 26, 6, 40, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWritePredictionTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrediction(&buf, testResult(t), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Race 2024-tokyo-11")
	assert.Contains(t, out, "Paper Lantern")
	assert.Contains(t, out, "top pick")
	assert.Contains(t, out, "dark horse")
	assert.Contains(t, out, "trio_nagashi")
	assert.Contains(t, out, "3 > 1,5,7")
	assert.Contains(t, out, "¥300")
	assert.Contains(t, out, "note: ML place probabilities unavailable")
	assert.Contains(t, out, "Pace: Slow pace expected.")
}

func TestWritePredictionJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrediction(&buf, testResult(t), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-tokyo-11", decoded["race_id"])
	assert.Equal(t, "fallback", decoded["regime"])
	bets := decoded["bets"].(map[string]interface{})
	assert.Equal(t, float64(300), bets["total_investment"])
}

func TestWriteSimulationTable(t *testing.T) {
	prob := 0.55
	sim := &models.RaceSimulation{
		RaceID:        "2024-tokyo-11",
		PredictedPace: models.PaceContext{Pace: racing.PaceSlow, Confidence: 0.7},
		PaceScenarios: []models.ScenarioResult{
			{
				Axis:               models.AxisPace,
				Pace:               racing.PaceSlow,
				FrontAdvantage:     1.2,
				Probability:        &prob,
				Ranking:            []models.ScenarioEntry{{Rank: 1, HorseNumber: 3}, {Rank: 2, HorseNumber: 5}},
				AdvantageousStyles: []racing.RunningStyle{racing.StyleEscape, racing.StyleFront},
				Description:        "slow early fractions suit the leaders",
			},
		},
		TrackScenarios: []models.ScenarioResult{
			{Axis: models.AxisTrackCondition, TrackCondition: racing.TrackHeavy, Ranking: []models.ScenarioEntry{{Rank: 1, HorseNumber: 5}}},
		},
		Trace: models.SimulationTrace{
			Corners: []models.CornerSnapshot{
				{Corner: models.CornerFirst, Positions: []models.CornerPosition{{HorseNumber: 3, Position: 1}, {HorseNumber: 5, Position: 2}}},
				{Corner: models.CornerGoal, Positions: []models.CornerPosition{{HorseNumber: 5, Position: 1}, {HorseNumber: 3, Position: 2}}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSimulation(&buf, sim, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "Pace scenarios")
	assert.Contains(t, out, "Track condition scenarios")
	assert.Contains(t, out, "55.0%")
	assert.Contains(t, out, "3,5")
	assert.Contains(t, out, "ESCAPE,FRONT")
	assert.Contains(t, out, "heavy")
	assert.Contains(t, out, "slow early fractions suit the leaders")
	assert.Contains(t, out, "Running positions")
}

func TestWriteHistory(t *testing.T) {
	rec, err := models.NewPredictionRecord(testResult(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, []*models.PredictionRecord{rec}, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "2024-05-26T06:40:00Z")
	assert.Contains(t, out, rec.ID.String()[:8])
	assert.Contains(t, out, "3,5,7")
	assert.Contains(t, out, "Showing 1 record(s)")

	buf.Reset()
	require.NoError(t, WriteHistory(&buf, []*models.PredictionRecord{rec}, FormatJSON))
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, rec.ID.String(), decoded[0]["id"])
}
