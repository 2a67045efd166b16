// Package logger provides prediction pipeline logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the prediction pipeline.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPaceClassified logs the pace verdict for a race.
func (pl *PredictionLogger) LogPaceClassified(raceID, pace string, confidence float64, escapeCount, frontCount int) {
	pl.WithFields(logrus.Fields{
		"race_id":      raceID,
		"pace":         pace,
		"confidence":   confidence,
		"escape_count": escapeCount,
		"front_count":  frontCount,
	}).Info("Pace classified")
}

// LogRegimeChosen logs which weighting regime scored the race.
func (pl *PredictionLogger) LogRegimeChosen(raceID, regime string, mlCovered, fieldSize int) {
	pl.WithFields(logrus.Fields{
		"race_id":    raceID,
		"regime":     regime,
		"ml_covered": mlCovered,
		"field_size": fieldSize,
	}).Info("Weighting regime chosen")
}

// LogMLFallback logs a fallback to the no-ML regime.
func (pl *PredictionLogger) LogMLFallback(raceID, reason string) {
	pl.WithFields(logrus.Fields{
		"race_id": raceID,
		"reason":  reason,
	}).Warn("ML oracle unavailable, using fallback weights")
}

// LogRankingCompleted logs the outcome of ranking a field.
func (pl *PredictionLogger) LogRankingCompleted(raceID string, topHorse int, topScore float64, darkHorses int) {
	pl.WithFields(logrus.Fields{
		"race_id":     raceID,
		"top_horse":   topHorse,
		"top_score":   topScore,
		"dark_horses": darkHorses,
	}).Info("Field ranked")
}

// LogBetPlanBuilt logs the bet plan emitted for a race.
func (pl *PredictionLogger) LogBetPlanBuilt(raceID, format string, tickets, combinations int, totalInvestment int64) {
	pl.WithFields(logrus.Fields{
		"race_id":          raceID,
		"format":           format,
		"tickets":          tickets,
		"combinations":     combinations,
		"total_investment": totalInvestment,
	}).Info("Bet plan built")
}

// LogSimulationCompleted logs a finished scenario simulation.
func (pl *PredictionLogger) LogSimulationCompleted(raceID string, paceScenarios, trackScenarios, frames int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"race_id":         raceID,
		"pace_scenarios":  paceScenarios,
		"track_scenarios": trackScenarios,
		"frames":          frames,
		"duration_ms":     durationMs,
	}).Info("Scenario simulation completed")
}
