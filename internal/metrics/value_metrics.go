package metrics

import "github.com/prometheus/client_golang/prometheus"

// Value analysis metrics
var (
	AssessmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_assessments_total",
		Help:      "Total number of value assessments by market",
	}, []string{"market"})

	ValueBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_total",
		Help:      "Total number of recommended value bets by market",
	}, []string{"market"})

	RecommendedStake = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recommended_stake_fraction",
		Help:      "Adjusted Kelly fraction of recommended bets",
		Buckets:   []float64{0.005, 0.01, 0.02, 0.03, 0.05, 0.075, 0.1},
	})
)

// RecordAssessment records an evaluated market outcome.
func RecordAssessment(market string) {
	AssessmentsTotal.WithLabelValues(market).Inc()
}

// RecordValueBet records a recommended bet and its stake fraction.
func RecordValueBet(market string, adjustedFraction float64) {
	ValueBetsTotal.WithLabelValues(market).Inc()
	RecommendedStake.Observe(adjustedFraction)
}
