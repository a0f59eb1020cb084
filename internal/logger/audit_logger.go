package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides the audit trail for value analyses and configuration changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogValueAnalysis logs the outcome of a match value analysis.
func (al *AuditLogger) LogValueAnalysis(matchID string, assessed, goodBets int, topEVPercentage float64) {
	al.WithFields(logrus.Fields{
		"match_id":          matchID,
		"assessed":          assessed,
		"good_bets":         goodBets,
		"top_ev_percentage": topEVPercentage,
	}).Info("Value analysis completed")
}

// LogKellyStake logs a stake recommendation.
func (al *AuditLogger) LogKellyStake(matchID, market, outcome string, probability, odds, adjustedFraction, stake float64) {
	al.WithFields(logrus.Fields{
		"match_id":          matchID,
		"market":            market,
		"outcome":           outcome,
		"probability":       probability,
		"odds":              odds,
		"adjusted_fraction": adjustedFraction,
		"stake":             stake,
	}).Info("Kelly stake recommended")
}

// LogConfigReload logs a configuration snapshot swap.
func (al *AuditLogger) LogConfigReload(strategy string, weights map[string]float64, minEV float64) {
	al.WithFields(logrus.Fields{
		"strategy": strategy,
		"weights":  weights,
		"min_ev":   minEV,
	}).Info("Configuration reloaded")
}

// LogConfigReloadFailed logs a rejected configuration; the previous snapshot stays active.
func (al *AuditLogger) LogConfigReloadFailed(reason string) {
	al.WithField("reason", reason).Warn("Configuration reload rejected")
}
