package metrics

import "github.com/prometheus/client_golang/prometheus"

// Source forecast status labels
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

// Ensemble counter vectors
var (
	SourceForecastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_forecasts_total",
		Help:      "Total number of prediction source forecasts by source and status",
	}, []string{"source", "status"})

	EnsembleCombinationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ensemble_combinations_total",
		Help:      "Total number of ensemble combinations by strategy and outcome",
	}, []string{"strategy", "outcome"})
)

// Ensemble gauges and histograms
var (
	EnsembleWeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ensemble_configured_weight",
		Help:      "Configured ensemble weight per source",
	}, []string{"source"})

	SourceForecastDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "source_forecast_duration_seconds",
		Help:      "Duration of a prediction source forecast in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// RecordSourceForecast records one source forecast.
func RecordSourceForecast(source string, available bool, durationSeconds float64) {
	status := StatusUnavailable
	if available {
		status = StatusAvailable
	}
	SourceForecastsTotal.WithLabelValues(source, status).Inc()
	SourceForecastDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordEnsembleCombination records a combination attempt; outcome is
// "combined" or "no_sources".
func RecordEnsembleCombination(strategy, outcome string) {
	EnsembleCombinationsTotal.WithLabelValues(strategy, outcome).Inc()
}

// UpdateEnsembleWeights publishes the configured weights.
func UpdateEnsembleWeights(weights map[string]float64) {
	EnsembleWeight.Reset()
	for source, w := range weights {
		EnsembleWeight.WithLabelValues(source).Set(w)
	}
}
