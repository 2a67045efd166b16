package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/features"
	"github.com/yourusername/paddock/internal/logger"
	"github.com/yourusername/paddock/internal/metrics"
	"github.com/yourusername/paddock/internal/ml"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/repository"
	"github.com/yourusername/paddock/internal/scoring"
)

// PredictionService runs the full prediction pipeline for one race at a time.
// Independent races may be predicted concurrently.
type PredictionService struct {
	engine       *Engine
	probs        probabilitySource
	validator    *DataValidator
	records      repository.PredictionRecordRepository
	modelVersion string
	logger       *logger.PredictionLogger
	audit        *logger.AuditLogger
	now          func() time.Time
}

// NewPredictionService creates a prediction service. records may be nil, in
// which case predictions are not persisted.
func NewPredictionService(
	cfg *config.Config,
	oracle ml.Oracle,
	records repository.PredictionRecordRepository,
	log *logrus.Logger,
) (*PredictionService, error) {
	audit := logger.NewAuditLogger(log)
	engine, err := NewEngine(cfg)
	if err != nil {
		var inconsistent *models.InconsistentConfigError
		if errors.As(err, &inconsistent) {
			audit.LogConfigRejected(inconsistent.Component, inconsistent.Detail)
		}
		return nil, fmt.Errorf("failed to build prediction engine: %w", err)
	}

	return &PredictionService{
		engine:       engine,
		probs:        probabilitySource{oracle: oracle, timeout: cfg.MLOracle.Timeout()},
		validator:    NewDataValidator(log),
		records:      records,
		modelVersion: cfg.App.ModelVersion,
		logger:       logger.NewPredictionLogger(log),
		audit:        audit,
		now:          time.Now,
	}, nil
}

// WithClock replaces the service's time source.
func (s *PredictionService) WithClock(now func() time.Time) *PredictionService {
	s.now = now
	s.engine.Simulator.WithClock(now)
	return s
}

// Engine exposes the configured pipeline stages.
func (s *PredictionService) Engine() *Engine {
	return s.engine
}

// Predict ranks the field, builds the bet plan and composes the reasoning.
// ML unavailability never fails the request; it selects the fallback regime
// and adds a note.
func (s *PredictionService) Predict(ctx context.Context, race models.RaceContext, entrants []models.Entrant) (*models.PredictionResult, error) {
	start := time.Now()

	prepared, err := s.prepare(ctx, race, entrants)
	if err != nil {
		return nil, err
	}
	vectors := prepared.vectors

	pc := s.engine.Classifier.Classify(race, vectors)
	s.logger.LogPaceClassified(race.RaceID, string(pc.Pace), pc.Confidence, pc.EscapeCount, pc.FrontCount)

	scored, err := s.engine.Integrator.Score(vectors, pc, prepared.probs)
	if err != nil {
		metrics.RecordPredictionError("scoring")
		return nil, err
	}
	s.logger.LogRegimeChosen(race.RaceID, string(scored.Regime), len(prepared.probs), len(vectors))

	ranked := s.engine.Detector.Detect(s.engine.Ranker.Rank(scored), scored.Weights)
	darkHorses := len(scoring.KeyEntrants(ranked))
	s.logger.LogRankingCompleted(race.RaceID, ranked[0].HorseNumber, ranked[0].IntegratedScore, darkHorses)

	plan, err := s.engine.Recommender.Recommend(ranked, pc)
	if err != nil {
		metrics.RecordPredictionError("betting")
		return nil, err
	}
	s.logger.LogBetPlanBuilt(race.RaceID, string(plan.Format), len(plan.Tickets), plan.TotalCombinations(), plan.TotalInvestment)

	notes := append([]string(nil), prepared.warnings...)
	if prepared.mlNote != "" {
		notes = append(notes, prepared.mlNote)
	}

	result := &models.PredictionResult{
		RaceID:          race.RaceID,
		Regime:          scored.Regime,
		Rankings:        horsePredictions(ranked),
		Pace:            models.NewPacePrediction(pc),
		Bets:            plan,
		ConfidenceScore: ConfidenceScore(pc, ranked, features.Completeness(vectors)),
		Reasoning:       BuildReasoning(pc, ranked, plan, scored.Regime, prepared.mlNote),
		Notes:           notes,
		ModelVersion:    s.modelVersion,
		PredictedAt:     s.now().UTC(),
	}

	if note := s.persist(ctx, result); note != "" {
		result.Notes = append(result.Notes, note)
	}

	metrics.RecordPrediction(string(result.Regime), time.Since(start).Seconds(), result.ConfidenceScore, darkHorses)
	metrics.RecordBetPlan(string(plan.Format), plan.TotalInvestment)
	return result, nil
}

// Simulate runs the scenario comparison and race trace for one field.
func (s *PredictionService) Simulate(ctx context.Context, race models.RaceContext, entrants []models.Entrant) (*models.RaceSimulation, error) {
	start := time.Now()

	prepared, err := s.prepare(ctx, race, entrants)
	if err != nil {
		return nil, err
	}

	sim, err := s.engine.Simulator.Simulate(ctx, race, prepared.vectors, prepared.probs)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate race %s: %w", race.RaceID, err)
	}

	elapsed := time.Since(start)
	metrics.RecordSimulation(len(sim.PaceScenarios), len(sim.TrackScenarios), elapsed.Seconds())
	s.logger.LogSimulationCompleted(race.RaceID, len(sim.PaceScenarios), len(sim.TrackScenarios),
		len(sim.Trace.Frames), float64(elapsed.Milliseconds()))
	return &sim, nil
}

// Latest returns the most recent stored prediction for a race.
func (s *PredictionService) Latest(ctx context.Context, raceID string) (*models.PredictionRecord, error) {
	if s.records == nil {
		return nil, errHistoryDisabled
	}
	return s.records.LatestByRace(ctx, raceID)
}

// History returns up to limit stored predictions for a race, newest first.
func (s *PredictionService) History(ctx context.Context, raceID string, limit int) ([]*models.PredictionRecord, error) {
	if s.records == nil {
		return nil, errHistoryDisabled
	}
	return s.records.ListByRace(ctx, raceID, limit)
}

var errHistoryDisabled = errors.New("prediction history is not configured")

type preparedField struct {
	vectors  []models.FeatureVector
	probs    map[int]float64
	warnings []string
	mlNote   string
}

func (s *PredictionService) prepare(ctx context.Context, race models.RaceContext, entrants []models.Entrant) (preparedField, error) {
	if err := s.engine.CheckFieldSize(len(entrants)); err != nil {
		metrics.RecordPredictionError("invalid_entrant_count")
		return preparedField{}, err
	}
	warnings, err := s.validator.ValidateField(race, entrants)
	if err != nil {
		metrics.RecordPredictionError("invalid_field")
		return preparedField{}, err
	}

	vectors := s.engine.Builder.Build(race, entrants)
	out := preparedField{vectors: vectors, warnings: warnings}

	probs, err := s.probs.fetch(ctx, race.RaceID, entrants, vectors)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return preparedField{}, ctxErr
		}
		reason := fallbackUnavailable
		var unavailable *models.MLUnavailableError
		if errors.As(err, &unavailable) {
			reason = unavailable.Reason
		}
		s.logger.LogMLFallback(race.RaceID, reason)
		metrics.RecordMLFallback(reason)
		out.mlNote = fmt.Sprintf("ML place probabilities unavailable (%s); fallback weights applied", reason)
		return out, nil
	}
	out.probs = probs
	return out, nil
}

func (s *PredictionService) persist(ctx context.Context, result *models.PredictionResult) string {
	if s.records == nil {
		return ""
	}

	record, err := models.NewPredictionRecord(result)
	if err == nil {
		err = s.records.Append(ctx, record)
	}
	metrics.RecordHistoryAppend(err)
	if err != nil {
		s.audit.LogRecordFailed(result.RaceID, err)
		return "prediction was not saved to history"
	}

	s.audit.LogRecordAppended(record.ID.String(), record.RaceID, record.ModelVersion, string(record.Regime), record.PredictedAt)
	return ""
}

// ConfidenceScore rates how much the prediction can be trusted:
// 0.4 x pace confidence + the top-two score gap (x3, capped at 0.3)
// + 0.2 x data completeness + 0.1, capped at 1.
func ConfidenceScore(pc models.PaceContext, ranked []models.ScoreResult, completeness float64) float64 {
	gap := 0.0
	if len(ranked) >= 2 {
		gap = math.Min(3*(ranked[0].IntegratedScore-ranked[1].IntegratedScore), 0.3)
	}
	score := 0.4*pc.Confidence + math.Max(gap, 0) + 0.2*completeness + 0.1
	return math.Min(1, score)
}

func horsePredictions(ranked []models.ScoreResult) []models.HorsePrediction {
	out := make([]models.HorsePrediction, len(ranked))
	for i, r := range ranked {
		out[i] = models.HorsePrediction{
			Rank:             r.Rank,
			HorseNumber:      r.HorseNumber,
			HorseName:        r.HorseName,
			RunningStyle:     r.RunningStyle,
			Score:            r.IntegratedScore,
			WinProbability:   r.WinProbability,
			PlaceProbability: r.PlaceProbability,
			IsDarkHorse:      r.IsDarkHorse,
			Reason:           r.DarkHorseReason,
			Components:       r.Components,
		}
	}
	return out
}
