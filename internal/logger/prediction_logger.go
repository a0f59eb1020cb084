package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for prediction sources and the ensemble.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogSourceForecast logs a source that answered for a match.
func (pl *PredictionLogger) LogSourceForecast(source, matchID string, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"source":     source,
		"match_id":   matchID,
		"latency_ms": latencyMs,
	}).Debug("Prediction source answered")
}

// LogSourceUnavailable logs a source that abstained for a match.
func (pl *PredictionLogger) LogSourceUnavailable(source, matchID, reason string) {
	pl.WithFields(logrus.Fields{
		"source":   source,
		"match_id": matchID,
		"reason":   reason,
	}).Info("Prediction source unavailable")
}

// LogEnsemblePrediction logs a combined prediction.
func (pl *PredictionLogger) LogEnsemblePrediction(matchID, strategy string, sourcesUsed []string, result map[string]float64) {
	pl.WithFields(logrus.Fields{
		"match_id":     matchID,
		"strategy":     strategy,
		"sources_used": sourcesUsed,
		"result":       result,
	}).Info("Ensemble prediction combined")
}

// LogNoSources logs a match for which every configured source abstained.
func (pl *PredictionLogger) LogNoSources(matchID, strategy string, configured int) {
	pl.WithFields(logrus.Fields{
		"match_id":           matchID,
		"strategy":           strategy,
		"configured_sources": configured,
	}).Warn("No prediction sources available")
}
