package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MLPredictionsTotal tracks answered ML predictions
	MLPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of ML predictions served",
		},
		[]string{"model_name", "cache_hit"},
	)

	// MLPredictionLatency tracks ML call latency per transport
	MLPredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ml_prediction_latency_seconds",
			Help:    "ML service call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)

	// MLCacheHitRatio tracks cache hit ratio
	MLCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ml_cache_hit_ratio",
			Help: "ML prediction cache hit ratio",
		},
	)

	// MLTransportErrorsTotal tracks gRPC and HTTP errors
	MLTransportErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_transport_errors_total",
			Help: "Total number of ML service transport errors",
		},
		[]string{"method", "error_type"},
	)

	// MLModelTrained reports the last known training state per model (1 = trained)
	MLModelTrained = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ml_model_trained",
			Help: "Whether the ML model reported itself as trained",
		},
		[]string{"model_name"},
	)
)
