// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated trail of prediction and outcome events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPrediction logs one prediction event.
func (al *AuditLogger) LogPrediction(position, road string, vehicles [3]string, predicted, method string, confidence *float64) {
	fields := logrus.Fields{
		"position":  position,
		"road":      road,
		"vehicle_1": vehicles[0],
		"vehicle_2": vehicles[1],
		"vehicle_3": vehicles[2],
		"predicted": predicted,
		"method":    method,
	}
	if confidence != nil {
		fields["confidence"] = *confidence
	}
	al.WithFields(fields).Info("Prediction recorded")
}

// LogOutcome logs a confirmed race outcome and whether the saved prediction hit.
func (al *AuditLogger) LogOutcome(position, road, winner, predicted string, historySize int) {
	al.WithFields(logrus.Fields{
		"position":     position,
		"road":         road,
		"winner":       winner,
		"predicted":    predicted,
		"hit":          winner == predicted,
		"history_size": historySize,
	}).Info("Outcome recorded")
}

// LogSaveFailure logs a failed persistence attempt. The in-memory history
// is still intact at this point, so the event is a warning, not fatal.
func (al *AuditLogger) LogSaveFailure(backend string, records int, err error) {
	al.WithFields(logrus.Fields{
		"backend": backend,
		"records": records,
		"error":   err.Error(),
	}).Warn("History save failed, in-memory records retained")
}
