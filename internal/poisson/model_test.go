package poisson

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/models"
)

const tolerance = 1e-9

func rate(attack float64) models.TeamRate {
	return models.TeamRate{Attack: attack}
}

func TestLambdas(t *testing.T) {
	m := NewDefaultModel()

	tests := []struct {
		name         string
		home, away   models.TeamRate
		wantH, wantA float64
	}{
		{"with defense", models.NewTeamRate(2.1, 1.0), models.NewTeamRate(1.8, 1.2), 1.80, 1.25},
		{"attack only", rate(2.1), rate(1.8), 2.25, 1.65},
		{"one defense missing uses attack only", models.NewTeamRate(2.1, 1.0), rate(1.8), 2.25, 1.65},
		{"floored", rate(0), rate(0.3), 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, a := m.Lambdas(tt.home, tt.away)
			assert.InDelta(t, tt.wantH, h, tolerance)
			assert.InDelta(t, tt.wantA, a, tolerance)
		})
	}
}

func TestPredict_Invariants(t *testing.T) {
	m := NewDefaultModel()

	for _, h := range []float64{0, 0.4, 1.0, 1.5, 2.3, 3.7} {
		for _, a := range []float64{0, 0.8, 1.4, 2.9} {
			p, err := m.Predict(rate(h), rate(a))
			require.NoError(t, err)

			assert.InDelta(t, 1.0, p.Result.Sum(), tolerance)
			require.NotNil(t, p.BothTeamsScore)
			assert.InDelta(t, 1.0, p.BothTeamsScore.Yes+p.BothTeamsScore.No, tolerance)

			for _, line := range DefaultParams().GoalLines {
				over, ok := p.Goals.Over(line)
				require.True(t, ok)
				under, ok := p.Goals.Under(line)
				require.True(t, ok)
				assert.InDelta(t, 1.0, over+under, tolerance)
			}
		}
	}
}

func TestPredict_GoalLineLabels(t *testing.T) {
	p, err := NewDefaultModel().Predict(rate(1.5), rate(1.2))
	require.NoError(t, err)

	assert.Contains(t, p.Goals, "over_2.5")
	assert.Contains(t, p.Goals, "under_0.5")
	assert.Contains(t, p.Corners, "over_10.5")
	assert.Contains(t, p.Cards, "under_4.5")
	assert.Len(t, p.Goals, 10)
	assert.Len(t, p.Corners, 8)
	assert.Len(t, p.Cards, 6)
}

func TestPredict_HomeWinMonotoneInHomeAttack(t *testing.T) {
	m := NewDefaultModel()
	away := models.NewTeamRate(1.3, 1.1)

	prev := -1.0
	for attack := 0.0; attack <= 4.0; attack += 0.1 {
		p, err := m.Predict(models.NewTeamRate(attack, 1.2), away)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Result.HomeWin, prev-tolerance, "attack=%.1f", attack)
		prev = p.Result.HomeWin
	}
}

func TestPredict_Scenario(t *testing.T) {
	m := NewDefaultModel()
	home := models.NewTeamRate(2.1, 1.0)
	away := models.NewTeamRate(1.8, 1.2)

	first, err := m.Predict(home, away)
	require.NoError(t, err)

	require.NotNil(t, first.Lambdas)
	assert.InDelta(t, 1.80, first.Lambdas.Home, tolerance)
	assert.InDelta(t, 1.25, first.Lambdas.Away, tolerance)

	require.NotNil(t, first.MostLikelyScore)
	assert.Equal(t, "1-1", first.MostLikelyScore.String())
	assert.Greater(t, first.Result.HomeWin, first.Result.AwayWin)

	for i := 0; i < 5; i++ {
		again, err := m.Predict(home, away)
		require.NoError(t, err)
		assert.Equal(t, *first.MostLikelyScore, *again.MostLikelyScore)
		assert.Equal(t, first.Result, again.Result)
	}
}

func TestPredict_MostLikelyScoreIsGridMaximum(t *testing.T) {
	m := NewDefaultModel()
	p, err := m.Predict(rate(2.6), rate(0.9))
	require.NoError(t, err)

	h, a := m.Lambdas(rate(2.6), rate(0.9))
	grid := NewGrid(h, a, DefaultParams().MaxGoals)
	for i := 0; i < grid.Size(); i++ {
		for j := 0; j < grid.Size(); j++ {
			assert.LessOrEqual(t, grid.At(i, j), p.MostLikelyScore.Probability)
		}
	}
}

func TestPredict_BTTSMatchesGrid(t *testing.T) {
	m := NewDefaultModel()
	p, err := m.Predict(rate(1.7), rate(1.1))
	require.NoError(t, err)

	h, a := m.Lambdas(rate(1.7), rate(1.1))
	grid := NewGrid(h, a, 30)
	yes := grid.Sum(func(i, j int) bool { return i > 0 && j > 0 })
	assert.InDelta(t, yes, p.BothTeamsScore.Yes, 1e-6)
}

func TestPredict_ApproximateMarketsAreRounded(t *testing.T) {
	p, err := NewDefaultModel().Predict(rate(1.9), rate(1.4))
	require.NoError(t, err)

	for _, market := range []models.LineMarket{p.Corners, p.Cards} {
		for label, v := range market {
			scaled := v * 100
			assert.InDelta(t, math.Round(scaled), scaled, 1e-6, label)
		}
	}
	over, _ := p.Corners.Over(9.5)
	under, _ := p.Corners.Under(9.5)
	assert.InDelta(t, 1.0, over+under, tolerance)
}

func TestPredict_InvalidInput(t *testing.T) {
	m := NewDefaultModel()
	neg := -0.5

	tests := []struct {
		name       string
		home, away models.TeamRate
	}{
		{"negative home attack", rate(-1), rate(1)},
		{"negative away defense", models.NewTeamRate(1, 1), models.TeamRate{Attack: 1, Defense: &neg}},
		{"NaN attack", rate(math.NaN()), rate(1)},
		{"infinite attack", rate(1), rate(math.Inf(1))},
		{"home attack beyond the grid", rate(800), rate(1)},
		{"away attack beyond the grid", models.NewTeamRate(1, 1), models.NewTeamRate(900, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Predict(tt.home, tt.away)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestForecast(t *testing.T) {
	m := NewDefaultModel()
	match := models.MatchContext{
		MatchID:  uuid.New(),
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Home:     models.TeamStats{Rate: models.NewTeamRate(2.1, 1.0)},
		Away:     models.TeamStats{Rate: models.NewTeamRate(1.8, 1.2)},
	}

	res := m.Forecast(context.Background(), match)
	require.True(t, res.Available)
	assert.Equal(t, SourceName, res.Prediction.Source)

	match.Home.Rate = rate(-2)
	res = m.Forecast(context.Background(), match)
	assert.False(t, res.Available)
	assert.NotEmpty(t, res.Reason)
}

func TestPredict_LargeRatesStillSumToOne(t *testing.T) {
	m := NewDefaultModel()

	for _, attack := range []float64{20, 60, 200} {
		got, err := m.Predict(rate(attack), rate(1))
		require.NoError(t, err, "attack %v", attack)
		assert.InDelta(t, 1.0, got.Result.Sum(), 1e-9, "attack %v", attack)
		assert.Greater(t, got.MostLikelyScore.Probability, 0.0)
	}

	_, err := m.Predict(rate(800), rate(1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestNewModel_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.MaxGoals = 0
	_, err := NewModel(p)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)

	p = DefaultParams()
	p.LambdaFloor = 0
	_, err = NewModel(p)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

func TestPMF(t *testing.T) {
	assert.InDelta(t, math.Exp(-2), PMF(0, 2), tolerance)
	assert.InDelta(t, 2*math.Exp(-2), PMF(1, 2), tolerance)
	assert.InDelta(t, 2*math.Exp(-2), PMF(2, 2), tolerance)
	assert.Equal(t, 0.0, PMF(3, 0))

	total := 0.0
	for _, p := range Masses(3.1, 60) {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
