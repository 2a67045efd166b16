package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/ml"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
	"github.com/yourusername/paddock/internal/repository"
	"github.com/yourusername/paddock/internal/scoring"
	"github.com/yourusername/paddock/internal/simulation"
)

var fixedNow = time.Date(2024, 5, 26, 6, 40, 0, 0, time.UTC)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "paddock", Environment: "development", LogLevel: "info", ModelVersion: "paddock-test"},
		MLOracle: config.MLOracleConfig{
			TimeoutMs: 200,
		},
		Prediction: config.PredictionConfig{
			Weights: config.WeightsConfig{
				MLPresent: scoring.DefaultMLWeights,
				Fallback:  scoring.DefaultFallbackWeights,
			},
			DarkHorseMargin: scoring.DefaultDarkHorseMargin,
			MinFieldSize:    3,
		},
		Betting:    betting.DefaultConfig(),
		Simulation: simulation.DefaultOptions(),
	}
}

func testRace() models.RaceContext {
	return models.RaceContext{
		RaceID:         "2024-tokyo-11",
		Name:           "Tokyo Yushun",
		Venue:          "Tokyo",
		Distance:       2400,
		CourseType:     racing.CourseTurf,
		TrackCondition: racing.TrackGood,
	}
}

// testEntrants is a ten-runner field with three escape runners.
func testEntrants() []models.Entrant {
	styles := []racing.RunningStyle{
		racing.StyleEscape, racing.StyleStalker, racing.StyleEscape, racing.StyleCloser, racing.StyleFront,
		racing.StyleEscape, racing.StyleStalker, racing.StyleCloser, racing.StyleVersatile, racing.StyleFront,
	}
	entrants := make([]models.Entrant, len(styles))
	for i, s := range styles {
		n := i + 1
		entrants[i] = models.Entrant{
			HorseNumber:  n,
			PostPosition: ptrI(n),
			Odds:         ptrF(1.8 + float64(i)*2.1),
			Popularity:   ptrI(n),
			Weight:       ptrF(57),
			RunningStyle: s,
			History: &models.History{
				WinRate:    ptrF(0.25 - float64(i)*0.015),
				PlaceRate:  ptrF(0.45 - float64(i)*0.02),
				BestLast3F: ptrF(33.2 + float64(i%3)*0.5),
			},
		}
	}
	return entrants
}

type funcOracle func(ctx context.Context, req ml.PlaceRequest) (float64, error)

func (f funcOracle) EstimatePlaceProbability(ctx context.Context, req ml.PlaceRequest) (float64, error) {
	return f(ctx, req)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) EstimatePlaceProbability(ctx context.Context, req ml.PlaceRequest) (float64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(float64), args.Error(1)
}

type mockRecordRepository struct {
	mock.Mock
}

func (m *mockRecordRepository) EnsureSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRecordRepository) Append(ctx context.Context, record *models.PredictionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockRecordRepository) LatestByRace(ctx context.Context, raceID string) (*models.PredictionRecord, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PredictionRecord), args.Error(1)
}

func (m *mockRecordRepository) ListByRace(ctx context.Context, raceID string, limit int) ([]*models.PredictionRecord, error) {
	args := m.Called(ctx, raceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PredictionRecord), args.Error(1)
}

func newService(t *testing.T, oracle ml.Oracle, records *mockRecordRepository) *PredictionService {
	t.Helper()
	var repo repository.PredictionRecordRepository
	if records != nil {
		repo = records
	}
	svc, err := NewPredictionService(testConfig(), oracle, repo, logger.Discard())
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return fixedNow })
}

func TestPredictFallbackWithoutOracle(t *testing.T) {
	svc := newService(t, ml.UnavailableOracle{}, nil)

	result, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)

	assert.Equal(t, models.RegimeFallback, result.Regime)
	assert.Equal(t, racing.PaceHigh, result.Pace.Type)
	assert.Equal(t, 0.85, result.Pace.Confidence)
	assert.Equal(t, 3, result.Pace.EscapeCount)
	assert.Equal(t, "paddock-test", result.ModelVersion)
	assert.Equal(t, fixedNow, result.PredictedAt)

	require.Len(t, result.Rankings, 10)
	var winSum, placeSum float64
	for i, h := range result.Rankings {
		assert.Equal(t, i+1, h.Rank)
		winSum += h.WinProbability
		placeSum += h.PlaceProbability
	}
	assert.InDelta(t, 1.0, winSum, 1e-9)
	assert.InDelta(t, 3.0, placeSum, 1e-9)

	require.NoError(t, result.Bets.Verify())
	assert.Equal(t, models.BetFormatPivot, result.Bets.Format)

	require.NotEmpty(t, result.Notes)
	assert.Contains(t, result.Notes[len(result.Notes)-1], "fallback weights applied")
	assert.Contains(t, result.Reasoning, "Pace: High pace expected (confidence 85%)")
	assert.Contains(t, result.Reasoning, "Top pick: No.")
	assert.Contains(t, result.Reasoning, "unavailable (unavailable)")
	assert.GreaterOrEqual(t, result.ConfidenceScore, 0.0)
	assert.LessOrEqual(t, result.ConfidenceScore, 1.0)
}

func TestPredictWithOracle(t *testing.T) {
	oracle := funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
		return 0.05 * float64(11-req.HorseNumber()), nil
	})
	svc := newService(t, oracle, nil)

	result, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)

	assert.Equal(t, models.RegimeMLPresent, result.Regime)
	assert.Empty(t, result.Notes)
	assert.Contains(t, result.Reasoning, "ML place probabilities blended")
	for _, h := range result.Rankings {
		assert.Zero(t, h.Components.Odds)
	}
}

func TestPredictUsesSuppliedProbabilities(t *testing.T) {
	oracle := &mockOracle{}
	entrants := testEntrants()
	for i := range entrants {
		entrants[i].MLPlaceProbability = ptrF(0.1 + 0.05*float64(i%4))
	}
	svc := newService(t, oracle, nil)

	result, err := svc.Predict(context.Background(), testRace(), entrants)
	require.NoError(t, err)

	assert.Equal(t, models.RegimeMLPresent, result.Regime)
	oracle.AssertNotCalled(t, "EstimatePlaceProbability", mock.Anything, mock.Anything)
}

func TestPredictOracleFailureFallsBack(t *testing.T) {
	tests := []struct {
		name       string
		oracle     ml.Oracle
		wantReason string
	}{
		{
			name: "one entrant fails",
			oracle: funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
				if req.HorseNumber() == 3 {
					return 0, ml.ErrOracleUnavailable
				}
				return 0.3, nil
			}),
			wantReason: "(unavailable)",
		},
		{
			name: "circuit open",
			oracle: funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
				return 0, ml.ErrCircuitOpen
			}),
			wantReason: "(circuit_open)",
		},
		{
			name: "out of range probability",
			oracle: funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
				return 1.7, nil
			}),
			wantReason: "(invalid_probability)",
		},
		{
			name: "timeout",
			oracle: funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
				<-ctx.Done()
				return 0, ctx.Err()
			}),
			wantReason: "(timeout)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.oracle, nil)

			result, err := svc.Predict(context.Background(), testRace(), testEntrants())
			require.NoError(t, err)

			assert.Equal(t, models.RegimeFallback, result.Regime)
			require.NotEmpty(t, result.Notes)
			assert.Contains(t, result.Notes[len(result.Notes)-1], tt.wantReason)
		})
	}
}

func TestPredictRejectsInvalidFields(t *testing.T) {
	svc := newService(t, ml.UnavailableOracle{}, nil)

	_, err := svc.Predict(context.Background(), testRace(), testEntrants()[:2])
	assert.True(t, errors.Is(err, models.ErrInvalidEntrantCount))

	_, err = svc.Predict(context.Background(), testRace(), nil)
	assert.True(t, errors.Is(err, models.ErrInvalidEntrantCount))

	entrants := testEntrants()
	entrants[4].HorseNumber = 2
	_, err = svc.Predict(context.Background(), testRace(), entrants)
	assert.True(t, errors.Is(err, models.ErrDuplicateEntrant))

	entrants = testEntrants()
	entrants[0].HorseNumber = 0
	_, err = svc.Predict(context.Background(), testRace(), entrants)
	assert.True(t, errors.Is(err, models.ErrInvalidHorseNumber))
}

func TestPredictCancelledContext(t *testing.T) {
	svc := newService(t, funcOracle(func(ctx context.Context, req ml.PlaceRequest) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Predict(ctx, testRace(), testEntrants())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictIsDeterministic(t *testing.T) {
	svc := newService(t, ml.UnavailableOracle{}, nil)

	first, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestPredictPersistsRecord(t *testing.T) {
	records := &mockRecordRepository{}
	records.On("Append", mock.Anything, mock.MatchedBy(func(r *models.PredictionRecord) bool {
		return r.RaceID == "2024-tokyo-11" && r.ModelVersion == "paddock-test" && r.PredictedAt.Equal(fixedNow)
	})).Return(nil).Once()
	svc := newService(t, ml.UnavailableOracle{}, records)

	result, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)
	records.AssertExpectations(t)
	assert.NotContains(t, result.Notes, "prediction was not saved to history")
}

func TestPredictPersistenceFailureIsANote(t *testing.T) {
	records := &mockRecordRepository{}
	records.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	svc := newService(t, ml.UnavailableOracle{}, records)

	result, err := svc.Predict(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)
	assert.Contains(t, result.Notes, "prediction was not saved to history")
}

func TestHistory(t *testing.T) {
	svc := newService(t, ml.UnavailableOracle{}, nil)
	_, err := svc.History(context.Background(), "r", 5)
	assert.Error(t, err)
	_, err = svc.Latest(context.Background(), "r")
	assert.Error(t, err)

	records := &mockRecordRepository{}
	want := []*models.PredictionRecord{{RaceID: "r"}}
	records.On("ListByRace", mock.Anything, "r", 5).Return(want, nil)
	records.On("LatestByRace", mock.Anything, "missing").Return(nil, models.ErrNotFound)
	svc = newService(t, ml.UnavailableOracle{}, records)

	got, err := svc.History(context.Background(), "r", 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Latest(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSimulate(t *testing.T) {
	svc := newService(t, ml.UnavailableOracle{}, nil)

	sim, err := svc.Simulate(context.Background(), testRace(), testEntrants())
	require.NoError(t, err)

	assert.Equal(t, racing.PaceHigh, sim.PredictedPace.Pace)
	assert.Equal(t, fixedNow, sim.GeneratedAt)
	require.Len(t, sim.PaceScenarios, 3)
	require.Len(t, sim.TrackScenarios, 4)

	var total float64
	for _, sc := range sim.PaceScenarios {
		require.NotNil(t, sc.Probability)
		total += *sc.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-6)
	assert.Len(t, sim.Trace.Frames, simulation.DefaultFrameCount)

	_, err = svc.Simulate(context.Background(), testRace(), testEntrants()[:1])
	assert.ErrorIs(t, err, models.ErrInvalidEntrantCount)
}

func TestNewPredictionServiceRejectsUnbalancedWeights(t *testing.T) {
	cfg := testConfig()
	cfg.Prediction.Weights.Fallback.Odds = 0.3

	_, err := NewPredictionService(cfg, ml.UnavailableOracle{}, nil, logger.Discard())
	assert.ErrorIs(t, err, models.ErrInconsistentConfig)
}

func TestConfidenceScore(t *testing.T) {
	ranked := func(s1, s2 float64) []models.ScoreResult {
		return []models.ScoreResult{{IntegratedScore: s1}, {IntegratedScore: s2}}
	}

	tests := []struct {
		name         string
		confidence   float64
		ranked       []models.ScoreResult
		completeness float64
		want         float64
	}{
		{name: "narrow gap", confidence: 0.5, ranked: ranked(0.60, 0.58), completeness: 0.5, want: 0.2 + 0.06 + 0.1 + 0.1},
		{name: "gap capped", confidence: 0.85, ranked: ranked(0.9, 0.4), completeness: 1, want: 0.34 + 0.3 + 0.2 + 0.1},
		{name: "capped at one", confidence: 1, ranked: ranked(1, 0), completeness: 1, want: 1},
		{name: "single entrant", confidence: 0.8, ranked: ranked(0.5, 0.5)[:1], completeness: 0, want: 0.32 + 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceScore(models.PaceContext{Confidence: tt.confidence}, tt.ranked, tt.completeness)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
