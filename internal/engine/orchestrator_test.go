package engine

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/ensemble"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/service"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadAndValidate(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Metrics.Enabled = false
	return cfg
}

func TestConverters(t *testing.T) {
	cfg := defaultConfig(t)

	params := PoissonParams(cfg.Model)
	assert.Equal(t, 0.15, params.HomeAdvantage)
	assert.Equal(t, 10, params.MaxGoals)
	assert.Equal(t, int32(2), params.ApproxPrecision)
	assert.Equal(t, 20, params.CornerMaxCount)

	ens, err := EnsembleConfig(cfg.Ensemble)
	require.NoError(t, err)
	assert.Equal(t, ensemble.WeightedAverage, ens.Strategy)
	assert.Equal(t, 0.6, ens.Weights.Get("poisson"))
	assert.Equal(t, "poisson", ens.Primary)

	_, err = EnsembleConfig(config.EnsembleConfig{Strategy: "stacking", Weights: map[string]float64{"poisson": 1}})
	assert.Error(t, err)
	_, err = EnsembleConfig(config.EnsembleConfig{Strategy: "voting", Weights: map[string]float64{"poisson": -1}})
	assert.ErrorIs(t, err, models.ErrInvalidConfig)

	v := ValueConfig(cfg.Value)
	assert.Equal(t, 0.05, v.MinEV)
	assert.Equal(t, 1000.0, v.Bankroll)

	assert.Equal(t, 1.5, NewAggregator(cfg.Stats).FallbackRate)
	assert.Equal(t, 1.2, NewAggregator(config.StatsConfig{FallbackRate: 1.2}).FallbackRate)
}

func TestConfigAcceptsEveryEnsembleStrategy(t *testing.T) {
	for _, name := range ensemble.StrategyNames() {
		cfg := defaultConfig(t)
		cfg.Ensemble.Strategy = name
		require.NoError(t, config.Validate(cfg), name)

		ens, err := EnsembleConfig(cfg.Ensemble)
		require.NoError(t, err)
		assert.Equal(t, name, ens.Strategy.String())
	}
}

func TestNewOrchestrator_PoissonOnly(t *testing.T) {
	o, err := NewOrchestrator(context.Background(), defaultConfig(t), quietLogger())
	require.NoError(t, err)
	defer o.Close()

	status := o.GetStatus()
	assert.Equal(t, []string{"poisson"}, status.Sources)
	assert.Equal(t, "weighted_average", status.Strategy)
	assert.False(t, status.Persisting)
	assert.False(t, status.Running)

	analysis, err := o.Service().AnalyzeMatch(context.Background(), service.MatchRequest{
		Match: models.MatchContext{
			MatchID:  uuid.New(),
			HomeTeam: "Arsenal",
			AwayTeam: "Chelsea",
			Home:     models.TeamStats{Rate: models.NewTeamRate(2.1, 1.0)},
			Away:     models.TeamStats{Rate: models.NewTeamRate(1.8, 1.2)},
		},
		Quote: models.OddsQuote{models.MarketResult: {"home_win": 2.2, "draw": 3.6, "away_win": 3.4}},
	})
	require.NoError(t, err)
	require.NotNil(t, analysis.Prediction.Lambdas)
	assert.InDelta(t, 1.80, analysis.Prediction.Lambdas.Home, 1e-9)
	assert.InDelta(t, 1.25, analysis.Prediction.Lambdas.Away, 1e-9)
}

func TestNewOrchestrator_MLSource(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.MLService.Enabled = true
	cfg.MLService.GRPCAddress = "127.0.0.1:50051"
	cfg.MLService.HTTPAddress = "http://127.0.0.1:8000"

	o, err := NewOrchestrator(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"poisson", "xgboost"}, o.GetStatus().Sources)
	assert.NoError(t, o.Close())
}

func TestNewOrchestrator_MLWithoutGRPCIsSkipped(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.MLService.Enabled = true
	cfg.MLService.HTTPAddress = "http://127.0.0.1:8000"

	o, err := NewOrchestrator(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer o.Close()
	assert.Equal(t, []string{"poisson"}, o.GetStatus().Sources)
}

func TestNewOrchestrator_FeedRequiresDatabase(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Feed.Enabled = true

	_, err := NewOrchestrator(context.Background(), cfg, quietLogger())
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	o, err := NewOrchestrator(context.Background(), defaultConfig(t), quietLogger())
	require.NoError(t, err)
	defer o.Close()

	next := defaultConfig(t)
	next.Ensemble.Strategy = "voting"
	next.Value.MinEV = 0.1
	require.NoError(t, o.Apply(next))

	status := o.GetStatus()
	assert.Equal(t, "voting", status.Strategy)
	assert.Equal(t, 0.1, status.MinEV)

	bad := defaultConfig(t)
	bad.Ensemble.Strategy = "confidence_based"
	bad.Value.KellyCap = 0
	assert.Error(t, o.Apply(bad))

	status = o.GetStatus()
	assert.Equal(t, "voting", status.Strategy, "rejected config leaves the ensemble untouched")
	assert.Equal(t, 0.1, status.MinEV)
}

func TestStartStop(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Scheduler.Enabled = true

	o, err := NewOrchestrator(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	load := func() (*config.Config, error) { return defaultConfig(t), nil }
	require.NoError(t, o.Start(context.Background(), "test", load))
	assert.Error(t, o.Start(context.Background(), "test", load))

	status := o.GetStatus()
	assert.True(t, status.Running)
	assert.False(t, status.NextReload.IsZero())

	require.NoError(t, o.Stop())
	assert.False(t, o.GetStatus().Running)
}
