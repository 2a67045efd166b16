// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for place-probability oracle calls.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogOracleRequest logs a completed place-probability request.
func (ml *MLLogger) LogOracleRequest(raceID string, horseNumber int, probability float64, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"race_id":      raceID,
		"horse_number": horseNumber,
		"probability":  probability,
		"cache_hit":    cacheHit,
		"latency_ms":   latencyMs,
	}).Debug("Place probability received")
}

// LogOracleError logs a failed place-probability request.
func (ml *MLLogger) LogOracleError(raceID string, horseNumber int, errorReason string) {
	ml.WithFields(logrus.Fields{
		"race_id":      raceID,
		"horse_number": horseNumber,
		"error_reason": errorReason,
	}).Warn("Place probability request failed")
}

// LogCircuitBreaker logs the oracle circuit breaker opening or closing.
func (ml *MLLogger) LogCircuitBreaker(open bool, consecutiveErrors int, lastError string) {
	entry := ml.WithFields(logrus.Fields{
		"open":               open,
		"consecutive_errors": consecutiveErrors,
		"last_error":         lastError,
	})
	if open {
		entry.Warn("Oracle circuit breaker opened")
		return
	}
	entry.Info("Oracle circuit breaker closed")
}

// LogOracleProbe logs a scheduled availability probe.
func (ml *MLLogger) LogOracleProbe(url string, up bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"url":        url,
		"up":         up,
		"latency_ms": latencyMs,
	}).Info("Oracle availability probed")
}
