// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogRecordAppended logs a prediction record written to the history store.
func (al *AuditLogger) LogRecordAppended(recordID, raceID, modelVersion, regime string, predictedAt time.Time) {
	al.WithFields(logrus.Fields{
		"record_id":     recordID,
		"race_id":       raceID,
		"model_version": modelVersion,
		"regime":        regime,
		"predicted_at":  predictedAt.Unix(),
	}).Info("Prediction record appended")
}

// LogRecordFailed logs a prediction that could not be persisted.
func (al *AuditLogger) LogRecordFailed(raceID string, err error) {
	al.WithFields(logrus.Fields{
		"race_id": raceID,
		"error":   err.Error(),
	}).Error("Prediction record not persisted")
}

// LogConfigRejected logs a configuration that failed validation.
func (al *AuditLogger) LogConfigRejected(component, detail string) {
	al.WithFields(logrus.Fields{
		"config_component": component,
		"detail":           detail,
	}).Error("Configuration rejected")
}

// LogSecretsOverlay logs which configuration fields were filled from a secret store.
func (al *AuditLogger) LogSecretsOverlay(source string, fields []string) {
	al.WithFields(logrus.Fields{
		"source": source,
		"fields": fields,
	}).Info("Secrets applied to configuration")
}
