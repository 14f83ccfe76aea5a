package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

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
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())

	// invalid levels fall back to info
	log = NewLogger("chatty")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestAuditLoggerPrediction(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	confidence := 0.75
	auditLogger.LogPrediction(
		"C",
		"highway",
		[3]string{"Super", "Car", "Moto"},
		"Super",
		"historical_similar",
		&confidence,
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "Super", logEntry["predicted"])
	assert.Equal(t, "historical_similar", logEntry["method"])
	assert.Equal(t, 0.75, logEntry["confidence"])
}

func TestAuditLoggerPredictionWithoutConfidence(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogPrediction("C", "highway", [3]string{"Super", "Car", "Moto"}, "Super", "time_based", nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	_, present := logEntry["confidence"]
	assert.False(t, present)
}

func TestAuditLoggerOutcome(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogOutcome("C", "highway", "Car", "Super", 42)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Car", logEntry["winner"])
	assert.Equal(t, false, logEntry["hit"])
	assert.Equal(t, float64(42), logEntry["history_size"])
}

func TestAuditLoggerSaveFailure(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSaveFailure("csv", 7, errors.New("disk full"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "csv", logEntry["backend"])
	assert.Equal(t, "disk full", logEntry["error"])
	assert.Equal(t, "warning", logEntry["level"])
}
