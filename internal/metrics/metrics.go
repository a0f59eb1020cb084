// Package metrics provides the centralized Prometheus metrics registry for goal-edge.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goal_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesAnalyzedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_analyzed_total",
		Help:      "Total number of match analyses by status",
	}, []string{"status"})
	ConfigReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "config_reloads_total",
		Help:      "Total number of configuration reloads by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	Bankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bankroll",
		Help:      "Bankroll used for Kelly stake sizing",
	})
)

// Histogram metrics
var (
	MatchAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_analysis_duration_seconds",
		Help:      "Duration of a full match analysis in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MatchesAnalyzedTotal)
		registry.MustRegister(ConfigReloadsTotal)
		registry.MustRegister(Bankroll)
		registry.MustRegister(MatchAnalysisDuration)

		// Ensemble metrics
		registry.MustRegister(SourceForecastsTotal)
		registry.MustRegister(SourceForecastDuration)
		registry.MustRegister(EnsembleCombinationsTotal)
		registry.MustRegister(EnsembleWeight)

		// Value metrics
		registry.MustRegister(AssessmentsTotal)
		registry.MustRegister(ValueBetsTotal)
		registry.MustRegister(RecommendedStake)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. It also serves the default
// registry, where the ML client metrics are registered.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordMatchAnalysis records a finished match analysis.
func RecordMatchAnalysis(status string, durationSeconds float64) {
	MatchesAnalyzedTotal.WithLabelValues(status).Inc()
	MatchAnalysisDuration.Observe(durationSeconds)
}

// RecordConfigReload records a configuration reload attempt.
func RecordConfigReload(status string) {
	ConfigReloadsTotal.WithLabelValues(status).Inc()
}

// UpdateBankroll updates the bankroll gauge.
func UpdateBankroll(amount float64) {
	Bankroll.Set(amount)
}
