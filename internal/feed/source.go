// Package feed exposes stored third-party match predictions as an ensemble source.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/models"
)

// SourceName is the default provider name
const SourceName = "api-football"

// feedLine is the only goal line providers publish
const feedLine = 2.5

// Repository loads the newest stored prediction of a provider for a match
type Repository interface {
	GetLatest(ctx context.Context, matchID uuid.UUID, provider string) (*models.FeedPrediction, error)
}

// Source turns the provider's percentages into a Prediction. Missing,
// stale or unparsable records make it Unavailable.
type Source struct {
	repo     Repository
	provider string
	maxAge   time.Duration
	log      *logrus.Entry
	now      func() time.Time
}

// NewSource creates a feed source. A zero maxAge accepts records of any age.
func NewSource(repo Repository, provider string, maxAge time.Duration, log *logrus.Logger) *Source {
	if provider == "" {
		provider = SourceName
	}
	return &Source{
		repo:     repo,
		provider: provider,
		maxAge:   maxAge,
		log:      log.WithFields(logrus.Fields{"component": "feed", "provider": provider}),
		now:      time.Now,
	}
}

// Name returns the provider name
func (s *Source) Name() string {
	return s.provider
}

// Forecast reads and converts the provider's latest prediction for the match
func (s *Source) Forecast(ctx context.Context, match models.MatchContext) models.SourceResult {
	if match.MatchID == uuid.Nil {
		return models.Unavailable("match has no id")
	}

	record, err := s.repo.GetLatest(ctx, match.MatchID, s.provider)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Unavailable("no stored prediction")
		}
		s.log.WithError(err).WithField("match_id", match.MatchID).Warn("Failed to load feed prediction")
		return models.Unavailable(err.Error())
	}

	if s.maxAge > 0 && s.now().Sub(record.FetchedAt) > s.maxAge {
		return models.Unavailable(fmt.Sprintf("prediction fetched at %s is stale", record.FetchedAt.Format(time.RFC3339)))
	}

	prediction, err := Convert(record)
	if err != nil {
		s.log.WithError(err).WithField("match_id", match.MatchID).Debug("Unusable feed prediction")
		return models.Unavailable(err.Error())
	}
	prediction.Source = s.provider
	return models.Available(prediction)
}

// Convert parses a stored record into a normalized Prediction with an
// optional over/under 2.5 goals market.
func Convert(record *models.FeedPrediction) (models.Prediction, error) {
	home, err := parseField("home", record.HomePercent)
	if err != nil {
		return models.Prediction{}, err
	}
	draw, err := parseField("draw", record.DrawPercent)
	if err != nil {
		return models.Prediction{}, err
	}
	away, err := parseField("away", record.AwayPercent)
	if err != nil {
		return models.Prediction{}, err
	}

	result := models.ResultProbabilities{HomeWin: home, Draw: draw, AwayWin: away}
	if result.Sum() <= 0 {
		return models.Prediction{}, fmt.Errorf("%w: percentages sum to zero", models.ErrInvalidInput)
	}

	prediction := models.Prediction{
		Result:      result.Normalize(),
		PredictedAt: record.FetchedAt,
	}
	if goals, ok := underOver(record.Extra); ok {
		prediction.Goals = goals
	}
	return prediction, nil
}

// ParsePercent converts a provider percentage such as "45%" into 0.45
func ParsePercent(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty percentage", models.ErrInvalidInput)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: percentage %q: %v", models.ErrInvalidInput, raw, err)
	}
	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: percentage %q outside [0,100]", models.ErrInvalidInput, raw)
	}
	return v / 100, nil
}

func parseField(name string, raw *string) (float64, error) {
	if raw == nil {
		return 0, fmt.Errorf("%w: missing %s percentage", models.ErrInvalidInput, name)
	}
	v, err := ParsePercent(*raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

type extraPayload struct {
	UnderOver *struct {
		Over  string `json:"over"`
		Under string `json:"under"`
	} `json:"under_over"`
}

// underOver reads the optional over/under 2.5 split from the extra payload
func underOver(extra json.RawMessage) (models.LineMarket, bool) {
	if len(extra) == 0 {
		return nil, false
	}
	var payload extraPayload
	if err := json.Unmarshal(extra, &payload); err != nil || payload.UnderOver == nil {
		return nil, false
	}
	over, err := ParsePercent(payload.UnderOver.Over)
	if err != nil {
		return nil, false
	}
	under, err := ParsePercent(payload.UnderOver.Under)
	if err != nil || over+under <= 0 {
		return nil, false
	}
	total := over + under
	return models.LineMarket{
		models.LineKey(models.SideOver, feedLine):  over / total,
		models.LineKey(models.SideUnder, feedLine): under / total,
	}, true
}
