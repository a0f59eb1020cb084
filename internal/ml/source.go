package ml

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/models"
)

// SourceName is the default ensemble name of the tree model
const SourceName = "xgboost"

// Predictor answers result probabilities for a match
type Predictor interface {
	Predict(ctx context.Context, match models.MatchContext, modelVersion string) (*ResultForecast, error)
}

// StatusChecker reports the training state of a model
type StatusChecker interface {
	ModelStatus(ctx context.Context, modelName string) (*ModelStatus, error)
}

// Source exposes the tree model as an ensemble prediction source. Every
// transport failure, untrained model or malformed answer becomes an
// Unavailable result.
type Source struct {
	name      string
	predictor Predictor
	status    StatusChecker
	cache     *PredictionCache
	statusTTL time.Duration
	timeout   time.Duration
	log       *logger.MLLogger
	now       func() time.Time

	mu         sync.Mutex
	lastStatus *ModelStatus
	statusAt   time.Time
}

// NewSource builds the source. status and cache are optional.
func NewSource(cfg config.MLServiceConfig, predictor Predictor, status StatusChecker, cache *PredictionCache, log *logrus.Logger) *Source {
	name := cfg.ModelName
	if name == "" {
		name = SourceName
	}
	return &Source{
		name:      name,
		predictor: predictor,
		status:    status,
		cache:     cache,
		statusTTL: cfg.StatusTTL(),
		timeout:   cfg.RequestTimeout(),
		log:       logger.NewMLLogger(log),
		now:       time.Now,
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return s.name
}

// Forecast returns the model's result probabilities for the match
func (s *Source) Forecast(ctx context.Context, match models.MatchContext) models.SourceResult {
	start := time.Now()
	matchID := match.MatchID.String()

	version := ""
	if s.status != nil {
		st, err := s.modelStatus(ctx)
		if err != nil {
			s.log.LogMLPredictionError(s.name, matchID, err.Error())
			return models.Unavailable(fmt.Sprintf("model status: %v", err))
		}
		if !st.Trained {
			s.log.LogModelNotTrained(s.name)
			return models.Unavailable(ErrModelNotTrained.Error())
		}
		version = st.Version
	}

	key := CacheKey{MatchID: match.MatchID, ModelVersion: version}
	cacheable := s.cache != nil && match.MatchID != uuid.Nil

	var forecast *ResultForecast
	cacheHit := false
	if cacheable {
		forecast, cacheHit = s.cache.Get(key)
	}

	if !cacheHit {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		var err error
		forecast, err = s.predictor.Predict(callCtx, match, version)
		if err != nil {
			s.log.LogMLPredictionError(s.name, matchID, err.Error())
			return models.Unavailable(err.Error())
		}
	}

	if forecast == nil {
		return models.Unavailable(ErrInvalidResponse.Error())
	}
	if !forecast.Trained {
		s.log.LogModelNotTrained(s.name)
		return models.Unavailable(ErrModelNotTrained.Error())
	}

	probs, err := forecast.Probabilities()
	if err != nil {
		s.log.LogMLPredictionError(s.name, matchID, err.Error())
		return models.Unavailable(err.Error())
	}

	if cacheable && !cacheHit {
		s.cache.Set(key, forecast)
	}

	MLPredictionsTotal.WithLabelValues(s.name, fmt.Sprint(cacheHit)).Inc()
	s.log.LogMLPredictionRequest(s.name, matchID, cacheHit, float64(time.Since(start).Microseconds())/1000)

	return models.Available(models.Prediction{
		Source:      s.name,
		Result:      probs,
		PredictedAt: s.now().UTC(),
	})
}

// modelStatus returns the cached training state, refreshing it after statusTTL
func (s *Source) modelStatus(ctx context.Context) (*ModelStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastStatus != nil && s.statusTTL > 0 && s.now().Sub(s.statusAt) < s.statusTTL {
		return s.lastStatus, nil
	}

	st, err := s.status.ModelStatus(ctx, s.name)
	if err != nil {
		return nil, err
	}

	trained := 0.0
	if st.Trained {
		trained = 1
	}
	MLModelTrained.WithLabelValues(s.name).Set(trained)

	if s.lastStatus != nil && s.lastStatus.Version != st.Version && s.cache != nil {
		s.cache.Clear()
		s.log.LogModelVersionChanged(s.name, s.lastStatus.Version, st.Version)
	}

	s.lastStatus = st
	s.statusAt = s.now()
	return st, nil
}
