package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for the tree-model prediction service.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogMLPredictionRequest logs an ML prediction request.
func (ml *MLLogger) LogMLPredictionRequest(modelName, matchID string, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_name": modelName,
		"match_id":   matchID,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("ML prediction request completed")
}

// LogModelNotTrained logs a model that cannot answer yet.
func (ml *MLLogger) LogModelNotTrained(modelName string) {
	ml.WithField("model_name", modelName).Warn("ML model not trained")
}

// LogModelVersionChanged logs a retrained model replacing the cached one.
func (ml *MLLogger) LogModelVersionChanged(modelName, previous, current string) {
	ml.WithFields(logrus.Fields{
		"model_name":       modelName,
		"previous_version": previous,
		"version":          current,
	}).Info("ML model version changed, prediction cache cleared")
}

// LogMLPredictionError logs ML prediction errors.
func (ml *MLLogger) LogMLPredictionError(modelName, matchID, errorReason string) {
	ml.WithFields(logrus.Fields{
		"model_name":   modelName,
		"match_id":     matchID,
		"error_reason": errorReason,
	}).Error("ML prediction failed")
}
