// Package poisson provides the independent-Poisson scoreline model and the
// markets derived from its joint goal distribution.
package poisson

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yourusername/goal-edge/internal/models"
)

// SourceName identifies the model inside an ensemble
const SourceName = "poisson"

// minGridMass is the smallest joint probability mass the grid may hold.
// Below it the markets cannot be normalized.
const minGridMass = 1e-300

// Params configures the model. Zero values are not usable; start from DefaultParams.
type Params struct {
	// HomeAdvantage is added to the home rate and removed from the away rate.
	HomeAdvantage float64
	// LambdaFloor is the minimum expected-goals rate for either side.
	LambdaFloor float64
	// MaxGoals is the number of goal counts per side, 0..MaxGoals-1.
	MaxGoals  int
	GoalLines []float64

	// Corners and cards are not modelled. They are a scaling heuristic:
	// Poisson(scale * (home_lambda + away_lambda)) with no calibration behind it.
	CornerScale    float64
	CornerLines    []float64
	CornerMaxCount int
	CardScale      float64
	CardLines      []float64
	CardMaxCount   int
	// ApproxPrecision is the decimal places kept for corners and cards.
	ApproxPrecision int32
}

// DefaultParams returns the documented defaults
func DefaultParams() Params {
	return Params{
		HomeAdvantage:   0.15,
		LambdaFloor:     0.5,
		MaxGoals:        10,
		GoalLines:       []float64{0.5, 1.5, 2.5, 3.5, 4.5},
		CornerScale:     4.5,
		CornerLines:     []float64{7.5, 8.5, 9.5, 10.5},
		CornerMaxCount:  20,
		CardScale:       1.5,
		CardLines:       []float64{2.5, 3.5, 4.5},
		CardMaxCount:    15,
		ApproxPrecision: 2,
	}
}

// Validate checks the parameters are usable
func (p Params) Validate() error {
	if p.MaxGoals < 1 {
		return fmt.Errorf("%w: max goals must be positive, got %d", models.ErrInvalidConfig, p.MaxGoals)
	}
	if p.LambdaFloor <= 0 {
		return fmt.Errorf("%w: lambda floor must be positive, got %.3f", models.ErrInvalidConfig, p.LambdaFloor)
	}
	if p.HomeAdvantage < 0 || math.IsNaN(p.HomeAdvantage) {
		return fmt.Errorf("%w: home advantage must be non-negative", models.ErrInvalidConfig)
	}
	if p.CornerScale < 0 || p.CardScale < 0 {
		return fmt.Errorf("%w: approximation scales must be non-negative", models.ErrInvalidConfig)
	}
	if p.ApproxPrecision < 0 {
		return fmt.Errorf("%w: approximation precision must be non-negative", models.ErrInvalidConfig)
	}
	return nil
}

// Model is the Poisson scoreline model. It holds only immutable parameters,
// so a single instance is safe for concurrent use.
type Model struct {
	params Params
}

// NewModel creates a model from validated parameters
func NewModel(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.GoalLines = append([]float64(nil), params.GoalLines...)
	params.CornerLines = append([]float64(nil), params.CornerLines...)
	params.CardLines = append([]float64(nil), params.CardLines...)
	return &Model{params: params}, nil
}

// NewDefaultModel creates a model with DefaultParams
func NewDefaultModel() *Model {
	m, _ := NewModel(DefaultParams())
	return m
}

// Params returns a copy of the model parameters
func (m *Model) Params() Params {
	p := m.params
	p.GoalLines = append([]float64(nil), p.GoalLines...)
	p.CornerLines = append([]float64(nil), p.CornerLines...)
	p.CardLines = append([]float64(nil), p.CardLines...)
	return p
}

// Name implements the ensemble source contract
func (m *Model) Name() string {
	return SourceName
}

// Lambdas returns the expected goals for each side.
// Defense rates are used only when both are present.
func (m *Model) Lambdas(home, away models.TeamRate) (float64, float64) {
	var homeLambda, awayLambda float64
	if home.HasDefense() && away.HasDefense() {
		homeLambda = (home.Attack+*away.Defense)/2 + m.params.HomeAdvantage
		awayLambda = (away.Attack+*home.Defense)/2 - m.params.HomeAdvantage
	} else {
		homeLambda = home.Attack + m.params.HomeAdvantage
		awayLambda = away.Attack - m.params.HomeAdvantage
	}
	return math.Max(homeLambda, m.params.LambdaFloor), math.Max(awayLambda, m.params.LambdaFloor)
}

// Predict computes every market for a match from the two team rates
func (m *Model) Predict(home, away models.TeamRate) (models.Prediction, error) {
	if err := home.Validate(); err != nil {
		return models.Prediction{}, fmt.Errorf("home: %w", err)
	}
	if err := away.Validate(); err != nil {
		return models.Prediction{}, fmt.Errorf("away: %w", err)
	}

	homeLambda, awayLambda := m.Lambdas(home, away)
	grid := NewGrid(homeLambda, awayLambda, m.params.MaxGoals)
	if mass := grid.Sum(func(int, int) bool { return true }); !(mass >= minGridMass) {
		return models.Prediction{}, fmt.Errorf("%w: expected goals %.2f/%.2f leave no probability on a %d-goal grid",
			models.ErrInvalidInput, homeLambda, awayLambda, m.params.MaxGoals)
	}

	i, j, p := grid.Mode()
	total := homeLambda + awayLambda
	btts := bothTeamsScore(grid)

	return models.Prediction{
		Source:          SourceName,
		Result:          resultMarket(grid),
		Goals:           goalMarket(grid, m.params.GoalLines),
		BothTeamsScore:  &btts,
		Corners:         approxMarket(total*m.params.CornerScale, m.params.CornerLines, m.params.CornerMaxCount, m.params.ApproxPrecision),
		Cards:           approxMarket(total*m.params.CardScale, m.params.CardLines, m.params.CardMaxCount, m.params.ApproxPrecision),
		MostLikelyScore: &models.Scoreline{Home: i, Away: j, Probability: p},
		Lambdas:         &models.ExpectedGoals{Home: homeLambda, Away: awayLambda},
		PredictedAt:     time.Now().UTC(),
	}, nil
}

// Forecast implements the ensemble source contract. Invalid rates make the
// model abstain; callers that need the error call Predict directly.
func (m *Model) Forecast(_ context.Context, match models.MatchContext) models.SourceResult {
	prediction, err := m.Predict(match.Home.Rate, match.Away.Rate)
	if err != nil {
		return models.Unavailable(err.Error())
	}
	return models.Available(prediction)
}
