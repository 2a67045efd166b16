package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestPredictionLoggerPaceClassified(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogPaceClassified("2024-nakayama-11", "High", 0.85, 3, 2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "prediction", logEntry["component"])
	assert.Equal(t, "High", logEntry["pace"])
	assert.Equal(t, 0.85, logEntry["confidence"])
	assert.Equal(t, float64(3), logEntry["escape_count"])
}

func TestPredictionLoggerFallback(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogMLFallback("r1", "timeout")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "timeout", logEntry["reason"])
}

func TestPredictionLoggerBetPlan(t *testing.T) {
	log, buf := setupTestLogger()
	predictionLogger := NewPredictionLogger(log)

	predictionLogger.LogBetPlanBuilt("r1", "pivot", 2, 24, 8400)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pivot", logEntry["format"])
	assert.Equal(t, float64(8400), logEntry["total_investment"])
}

func TestMLLoggerOracleRequest(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogOracleRequest("r1", 7, 0.42, true, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ml", logEntry["component"])
	assert.Equal(t, true, logEntry["cache_hit"])
	assert.Equal(t, float64(7), logEntry["horse_number"])
}

func TestMLLoggerCircuitBreaker(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogCircuitBreaker(true, 5, "connection refused")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Oracle circuit breaker opened", logEntry["msg"])
	assert.Equal(t, float64(5), logEntry["consecutive_errors"])
}

func TestAuditLoggerRecordAppended(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	predictedAt := time.Date(2024, 12, 22, 15, 0, 0, 0, time.UTC)
	auditLogger.LogRecordAppended("rec-1", "r1", "v1.0.0", "fallback", predictedAt)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "rec-1", logEntry["record_id"])
	assert.Equal(t, float64(predictedAt.Unix()), logEntry["predicted_at"])
}

func TestAuditLoggerRecordFailed(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogRecordFailed("r1", errors.New("disk full"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "disk full", logEntry["error"])
}

func TestAuditLoggerConfigRejected(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogConfigRejected("weights", "ml_present sums to 0.95")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "weights", logEntry["config_component"])
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("loud", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestLoggerJSONFormat(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	buf := &bytes.Buffer{}
	log := NewLoggerWithOutput("debug", buf)

	log.WithField("race_id", "r1").Info("hello")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "r1", logEntry["race_id"])
	assert.Equal(t, "hello", logEntry["msg"])
}
