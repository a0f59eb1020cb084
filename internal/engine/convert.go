package engine

import (
	"fmt"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/ensemble"
	"github.com/yourusername/goal-edge/internal/poisson"
	"github.com/yourusername/goal-edge/internal/stats"
	"github.com/yourusername/goal-edge/internal/value"
)

// PoissonParams maps the model section onto model parameters. Count limits
// the configuration does not expose keep their defaults.
func PoissonParams(cfg config.ModelConfig) poisson.Params {
	p := poisson.DefaultParams()
	p.HomeAdvantage = cfg.HomeAdvantage
	p.LambdaFloor = cfg.LambdaFloor
	p.MaxGoals = cfg.MaxGoals
	p.GoalLines = append([]float64(nil), cfg.GoalLines...)
	p.CornerScale = cfg.CornerScale
	p.CornerLines = append([]float64(nil), cfg.CornerLines...)
	p.CardScale = cfg.CardScale
	p.CardLines = append([]float64(nil), cfg.CardLines...)
	p.ApproxPrecision = int32(cfg.ApproxPrecision)
	return p
}

// EnsembleConfig builds a combiner configuration snapshot
func EnsembleConfig(cfg config.EnsembleConfig) (ensemble.Config, error) {
	strategy, err := ensemble.ParseStrategy(cfg.Strategy)
	if err != nil {
		return ensemble.Config{}, fmt.Errorf("ensemble strategy: %w", err)
	}
	weights, err := ensemble.NewWeights(cfg.Weights)
	if err != nil {
		return ensemble.Config{}, fmt.Errorf("ensemble weights: %w", err)
	}
	primary := cfg.Primary
	if primary == "" {
		primary = poisson.SourceName
	}
	return ensemble.Config{Strategy: strategy, Weights: weights, Primary: primary}, nil
}

// ValueConfig maps the value section onto analyzer thresholds
func ValueConfig(cfg config.ValueConfig) value.Config {
	return value.Config{
		MinEV:           cfg.MinEV,
		MinProbability:  cfg.MinProbability,
		FractionalKelly: cfg.FractionalKelly,
		KellyCap:        cfg.KellyCap,
		DefaultStake:    cfg.DefaultStake,
		Bankroll:        cfg.Bankroll,
		TopN:            cfg.TopN,
	}
}

// NewAggregator builds the team statistics aggregator with the configured fallback
func NewAggregator(cfg config.StatsConfig) *stats.Aggregator {
	a := stats.NewAggregator()
	if cfg.FallbackRate > 0 {
		a.FallbackRate = cfg.FallbackRate
	}
	return a
}
