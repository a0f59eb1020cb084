package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordSourceForecast(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(SourceForecastsTotal.WithLabelValues("poisson", StatusAvailable))
	RecordSourceForecast("poisson", true, 0.001)
	RecordSourceForecast("xgboost", false, 0.2)

	assert.Equal(t, before+1, testutil.ToFloat64(SourceForecastsTotal.WithLabelValues("poisson", StatusAvailable)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(SourceForecastsTotal.WithLabelValues("xgboost", StatusUnavailable)), 1.0)
}

func TestRecordEnsembleCombination(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordEnsembleCombination("weighted_average", "combined")
		RecordEnsembleCombination("voting", "no_sources")
	})
}

func TestUpdateEnsembleWeights(t *testing.T) {
	InitRegistry()

	UpdateEnsembleWeights(map[string]float64{"poisson": 0.6, "xgboost": 0.4})
	assert.Equal(t, 0.6, testutil.ToFloat64(EnsembleWeight.WithLabelValues("poisson")))

	UpdateEnsembleWeights(map[string]float64{"poisson": 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(EnsembleWeight.WithLabelValues("poisson")))
}

func TestValueMetrics(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		market   string
		fraction float64
	}{
		{name: "result market", market: "result", fraction: 0.025},
		{name: "goals market", market: "goals", fraction: 0.1},
		{name: "zero stake", market: "btts", fraction: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(ValueBetsTotal.WithLabelValues(tt.market))
			RecordAssessment(tt.market)
			RecordValueBet(tt.market, tt.fraction)
			assert.Equal(t, before+1, testutil.ToFloat64(ValueBetsTotal.WithLabelValues(tt.market)))
		})
	}
}

func TestUpdateBankroll(t *testing.T) {
	InitRegistry()

	UpdateBankroll(1000)
	assert.Equal(t, 1000.0, testutil.ToFloat64(Bankroll))
}

func TestRecordMatchAnalysis(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(MatchesAnalyzedTotal.WithLabelValues("success"))
	RecordMatchAnalysis("success", 0.01)
	RecordConfigReload("success")
	assert.Equal(t, before+1, testutil.ToFloat64(MatchesAnalyzedTotal.WithLabelValues("success")))
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordMatchAnalysis("success", 0.02)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goal_edge_matches_analyzed_total")
}
