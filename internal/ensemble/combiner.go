package ensemble

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
	"github.com/yourusername/goal-edge/internal/models"
)

// SourceName is the Source recorded on combined predictions
const SourceName = "ensemble"

// Config is the combiner configuration. It is treated as a value: a new
// Config is built and swapped in rather than edited in place.
type Config struct {
	Strategy Strategy
	Weights  Weights
	// Primary is the source whose non-result markets are passed through.
	Primary string
}

// DefaultConfig returns weighted_average over poisson 0.6 / xgboost 0.4
func DefaultConfig() Config {
	return Config{
		Strategy: WeightedAverage,
		Weights:  DefaultWeights(),
		Primary:  "poisson",
	}
}

type snapshot struct {
	config  Config
	combine combineFunc
}

func newSnapshot(cfg Config) (*snapshot, error) {
	fn, err := cfg.Strategy.combineFunc()
	if err != nil {
		return nil, err
	}
	return &snapshot{config: cfg, combine: fn}, nil
}

// Combiner runs every configured source for a match and merges the answers.
// Each Predict call reads one configuration snapshot for its whole duration.
type Combiner struct {
	sources []Source
	current atomic.Pointer[snapshot]
	log     *logger.PredictionLogger
}

// NewCombiner creates a combiner over the given sources
func NewCombiner(cfg Config, sources []Source, log *logrus.Logger) (*Combiner, error) {
	snap, err := newSnapshot(cfg)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if seen[s.Name()] {
			return nil, fmt.Errorf("%w: duplicate prediction source %q", models.ErrInvalidConfig, s.Name())
		}
		seen[s.Name()] = true
	}

	c := &Combiner{
		sources: append([]Source(nil), sources...),
		log:     logger.NewPredictionLogger(log),
	}
	c.current.Store(snap)
	metrics.UpdateEnsembleWeights(cfg.Weights.Map())
	return c, nil
}

// Reconfigure atomically replaces the strategy, weights and primary source.
// In-flight predictions finish with the snapshot they started with.
func (c *Combiner) Reconfigure(cfg Config) error {
	snap, err := newSnapshot(cfg)
	if err != nil {
		return err
	}
	c.current.Store(snap)
	metrics.UpdateEnsembleWeights(cfg.Weights.Map())
	return nil
}

// Config returns the active configuration
func (c *Combiner) Config() Config {
	return c.current.Load().config
}

// SourceNames returns the configured source names in registration order
func (c *Combiner) SourceNames() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Predict asks every source for a forecast concurrently and combines the
// available answers. It fails with ErrNoSourcesAvailable when all abstain.
func (c *Combiner) Predict(ctx context.Context, match models.MatchContext) (models.Prediction, error) {
	snap := c.current.Load()
	matchID := match.MatchID.String()

	answers := c.gather(ctx, match)
	if len(answers) == 0 {
		metrics.RecordEnsembleCombination(snap.config.Strategy.String(), "no_sources")
		c.log.LogNoSources(matchID, snap.config.Strategy.String(), len(c.sources))
		return models.Prediction{}, fmt.Errorf("match %s: %w", matchID, models.ErrNoSourcesAvailable)
	}

	prediction := combineSnapshot(snap, answers)
	metrics.RecordEnsembleCombination(snap.config.Strategy.String(), "combined")
	c.log.LogEnsemblePrediction(matchID, prediction.Strategy, prediction.SourcesUsed, prediction.Result.Map())
	return prediction, nil
}

func (c *Combiner) gather(ctx context.Context, match models.MatchContext) []Answer {
	results := make([]models.SourceResult, len(c.sources))
	var wg sync.WaitGroup
	for i, src := range c.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			start := time.Now()
			results[i] = src.Forecast(ctx, match)
			elapsed := time.Since(start)
			metrics.RecordSourceForecast(src.Name(), results[i].Available, elapsed.Seconds())
			if results[i].Available {
				c.log.LogSourceForecast(src.Name(), match.MatchID.String(), float64(elapsed.Microseconds())/1000)
			} else {
				c.log.LogSourceUnavailable(src.Name(), match.MatchID.String(), results[i].Reason)
			}
		}(i, src)
	}
	wg.Wait()

	answers := make([]Answer, 0, len(results))
	for i, res := range results {
		if res.Available {
			answers = append(answers, Answer{Source: c.sources[i].Name(), Prediction: res.Prediction})
		}
	}
	return answers
}

// Combine merges already-gathered answers under cfg. It is a pure function
// of its inputs.
func Combine(cfg Config, answers []Answer) (models.Prediction, error) {
	if len(answers) == 0 {
		return models.Prediction{}, models.ErrNoSourcesAvailable
	}
	snap, err := newSnapshot(cfg)
	if err != nil {
		return models.Prediction{}, err
	}
	return combineSnapshot(snap, answers), nil
}

func combineSnapshot(snap *snapshot, answers []Answer) models.Prediction {
	b := snap.combine(snap.config.Weights, answers)

	used := make([]string, len(answers))
	for i, a := range answers {
		used[i] = a.Source
	}

	combined := models.Prediction{
		Source:      SourceName,
		Result:      b.result.Normalize(),
		Strategy:    snap.config.Strategy.String(),
		SourcesUsed: used,
		Weights:     b.weights,
		Votes:       b.votes,
		PredictedAt: time.Now().UTC(),
	}

	for _, a := range answers {
		if a.Source != snap.config.Primary {
			continue
		}
		primary := a.Prediction.Clone()
		combined.Goals = primary.Goals
		combined.BothTeamsScore = primary.BothTeamsScore
		combined.Corners = primary.Corners
		combined.Cards = primary.Cards
		combined.MostLikelyScore = primary.MostLikelyScore
		combined.Lambdas = primary.Lambdas
		break
	}
	return combined
}
