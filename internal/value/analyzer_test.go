package value

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/models"
)

const tolerance = 1e-9

func TestEvaluate(t *testing.T) {
	a := NewDefaultAnalyzer()

	tests := []struct {
		name        string
		probability float64
		odds        float64
		stake       float64
		wantEV      float64
		wantEVPct   float64
		wantValue   bool
		wantGood    bool
	}{
		{"negative ev", 0.55, 1.8, 100, -1.0, -1.0, false, false},
		{"positive ev", 0.60, 2.0, 100, 20.0, 20.0, true, true},
		{"small edge below threshold", 0.52, 2.0, 100, 4.0, 4.0, true, false},
		{"stake scales ev", 0.60, 2.0, 10, 2.0, 20.0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Evaluate(tt.probability, tt.odds, tt.stake)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantEV, got.EV, tolerance)
			assert.InDelta(t, tt.wantEVPct, got.EVPercentage, tolerance)
			assert.Equal(t, tt.wantValue, got.HasValue)
			assert.Equal(t, tt.wantGood, got.IsGoodBet)
			assert.InDelta(t, 1/tt.odds, got.ImpliedProbability, tolerance)
			assert.InDelta(t, tt.probability-1/tt.odds, got.ValueMargin, tolerance)
			assert.InDelta(t, tt.odds*tt.stake, got.PotentialReturn, tolerance)
			assert.InDelta(t, tt.odds*tt.stake-tt.stake, got.ProfitIfWin, tolerance)
		})
	}
}

func TestEvaluate_KellyFields(t *testing.T) {
	got, err := NewDefaultAnalyzer().Evaluate(0.6, 2.0, 100)
	require.NoError(t, err)

	assert.InDelta(t, 0.2, got.KellyFraction, tolerance)
	assert.InDelta(t, 0.05, got.AdjustedKelly, tolerance)
}

func TestEvaluate_Errors(t *testing.T) {
	a := NewDefaultAnalyzer()

	tests := []struct {
		name        string
		probability float64
		odds        float64
		stake       float64
		wantErr     error
	}{
		{"zero stake", 0.5, 2.0, 0, models.ErrInvalidStake},
		{"negative stake", 0.5, 2.0, -10, models.ErrInvalidStake},
		{"zero odds", 0.5, 0, 100, models.ErrInvalidOdds},
		{"negative odds", 0.5, -1.5, 100, models.ErrInvalidOdds},
		{"stake checked before odds", 0.5, 0, 0, models.ErrInvalidStake},
		{"probability above one", 1.2, 2.0, 100, models.ErrInvalidInput},
		{"NaN probability", math.NaN(), 2.0, 100, models.ErrInvalidInput},
		{"NaN odds", 0.5, math.NaN(), 100, models.ErrInvalidOdds},
		{"infinite odds", 0.5, math.Inf(1), 100, models.ErrInvalidOdds},
		{"NaN stake", 0.5, 2.0, math.NaN(), models.ErrInvalidStake},
		{"infinite stake", 0.5, 2.0, math.Inf(1), models.ErrInvalidStake},
		{"stake times odds overflows", 0.5, 1e300, 1e300, models.ErrInvalidStake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Evaluate(tt.probability, tt.odds, tt.stake)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluate_ConfiguredThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinEV = 0.25
	a, err := NewAnalyzer(cfg)
	require.NoError(t, err)

	got, err := a.Evaluate(0.6, 2.0, 100)
	require.NoError(t, err)
	assert.True(t, got.HasValue)
	assert.False(t, got.IsGoodBet)
}

func matchPrediction() models.Prediction {
	return models.Prediction{
		Result: models.ResultProbabilities{HomeWin: 0.55, Draw: 0.37, AwayWin: 0.08},
		Goals: models.LineMarket{
			"over_2.5":  0.55,
			"under_2.5": 0.45,
		},
		BothTeamsScore: &models.BTTS{Yes: 0.5, No: 0.5},
	}
}

func matchQuote() models.OddsQuote {
	return models.OddsQuote{
		models.MarketResult: {"home_win": 2.0, "draw": 3.0, "away_win": 15.0},
		models.MarketGoals:  {"over_2.5": 1.7},
		models.MarketBTTS:   {"yes": 2.3},
		models.MarketCorners: {
			"over_9.5": 1.8,
		},
	}
}

func TestAnalyzeMatch(t *testing.T) {
	a := NewDefaultAnalyzer()

	got, err := a.AnalyzeMatch(matchPrediction(), matchQuote(), 100)
	require.NoError(t, err)
	require.Len(t, got, 4)

	type pick struct{ market, outcome string }
	var order []pick
	for _, as := range got {
		order = append(order, pick{as.Market, as.Outcome})
	}
	assert.Equal(t, []pick{
		{models.MarketBTTS, "yes"},
		{models.MarketResult, "draw"},
		{models.MarketResult, "home_win"},
		{models.MarketGoals, "over_2.5"},
	}, order)

	assert.InDelta(t, 15.0, got[0].EV, tolerance)
	assert.InDelta(t, -6.5, got[3].EV, tolerance)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].EV, got[i].EV)
	}
}

func TestAnalyzeMatch_SkipsLowProbabilityAndMissingOdds(t *testing.T) {
	got, err := NewDefaultAnalyzer().AnalyzeMatch(matchPrediction(), matchQuote(), 100)
	require.NoError(t, err)

	for _, as := range got {
		assert.NotEqual(t, "away_win", as.Outcome, "below min probability")
		assert.NotEqual(t, "under_2.5", as.Outcome, "no odds quoted")
		assert.NotEqual(t, models.MarketCorners, as.Market, "not predicted")
	}
}

func TestAnalyzeMatch_EmptyQuote(t *testing.T) {
	got, err := NewDefaultAnalyzer().AnalyzeMatch(matchPrediction(), models.OddsQuote{}, 100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalyzeMatch_Errors(t *testing.T) {
	a := NewDefaultAnalyzer()

	_, err := a.AnalyzeMatch(matchPrediction(), matchQuote(), 0)
	assert.ErrorIs(t, err, models.ErrInvalidStake)

	quote := models.OddsQuote{models.MarketResult: {"home_win": 0}}
	_, err = a.AnalyzeMatch(matchPrediction(), quote, 100)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)

	_, err = a.AnalyzeMatch(matchPrediction(), matchQuote(), math.Inf(1))
	assert.ErrorIs(t, err, models.ErrInvalidStake)

	for _, odds := range []float64{math.NaN(), math.Inf(1)} {
		quote := models.OddsQuote{models.MarketResult: {"home_win": odds, "draw": 3.0}}
		got, err := a.AnalyzeMatch(matchPrediction(), quote, 100)
		assert.ErrorIs(t, err, models.ErrInvalidOdds)
		assert.Nil(t, got)
	}
}

func TestBestBets(t *testing.T) {
	a := NewDefaultAnalyzer()
	assessments, err := a.AnalyzeMatch(matchPrediction(), matchQuote(), 100)
	require.NoError(t, err)

	top := BestBets(assessments, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "yes", top[0].Outcome)
	assert.Equal(t, "draw", top[1].Outcome)

	all := BestBets(assessments, 10)
	assert.Len(t, all, 3)
	for i, bet := range all {
		assert.True(t, bet.IsGoodBet)
		if i > 0 {
			assert.GreaterOrEqual(t, all[i-1].EVPercentage, bet.EVPercentage)
		}
	}

	assert.Empty(t, BestBets(assessments, 0))
	assert.Len(t, a.BestBets(assessments), 3)
}

func TestBestBets_NeverReturnsBadBets(t *testing.T) {
	a := NewDefaultAnalyzer()
	var assessments []models.ValueAssessment
	for p := 0.05; p < 1; p += 0.05 {
		for _, odds := range []float64{1.2, 1.8, 2.5, 4.0, 9.0} {
			as, err := a.Evaluate(p, odds, 50)
			require.NoError(t, err)
			assessments = append(assessments, as)
		}
	}

	for _, bet := range BestBets(assessments, len(assessments)) {
		assert.True(t, bet.IsGoodBet)
	}
}

func TestKellyStake(t *testing.T) {
	tests := []struct {
		name         string
		probability  float64
		odds         float64
		bankroll     float64
		wantKelly    float64
		wantAdjusted float64
		wantStake    string
		wantNote     string
	}{
		{"break even", 2.0 / 3.0, 1.5, 1000, 0, 0, "0", NoteNoEdge},
		{"even money at short odds is negative", 0.5, 1.5, 1000, -0.5, 0, "0", NoteNoEdge},
		{"negative edge clamped", 0.3, 1.5, 1000, -1.1, 0, "0", NoteNoEdge},
		{"quarter kelly", 0.6, 2.0, 1000, 0.2, 0.05, "50", ""},
		{"capped at ten percent", 0.9, 3.0, 1000, 0.85, 0.10, "100", ""},
		{"odds of one", 0.9, 1.0, 1000, 0, 0, "0", NoteOddsTooShort},
		{"odds below one", 0.9, 0.5, 1000, 0, 0, "0", NoteOddsTooShort},
		{"no bankroll", 0.6, 2.0, 0, 0.2, 0.05, "0", NoteInvalidBankroll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KellyStake(tt.probability, tt.odds, tt.bankroll, 0.25, 0.10)

			assert.InDelta(t, tt.wantKelly, got.KellyFraction, tolerance)
			assert.InDelta(t, tt.wantAdjusted, got.AdjustedFraction, tolerance)
			assert.True(t, decimal.RequireFromString(tt.wantStake).Equal(got.RecommendedStake),
				"stake %s, want %s", got.RecommendedStake, tt.wantStake)
			assert.Equal(t, tt.wantNote, got.Note)
		})
	}
}

func TestKellyStake_NonFiniteInputs(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		odds        float64
		bankroll    float64
	}{
		{"infinite odds", 0.5, math.Inf(1), 1000},
		{"NaN odds", 0.5, math.NaN(), 1000},
		{"NaN probability", math.NaN(), 2.0, 1000},
		{"infinite bankroll", 0.6, 2.0, math.Inf(1)},
		{"NaN bankroll", 0.6, 2.0, math.NaN()},
	}

	a := NewDefaultAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.KellyResult
			require.NotPanics(t, func() {
				got = a.KellyStake(tt.probability, tt.odds, tt.bankroll, 0)
			})
			assert.True(t, got.RecommendedStake.IsZero())
			assert.Zero(t, got.AdjustedFraction)
			assert.Equal(t, NoteNotFinite, got.Note)
		})
	}
}

func TestAnalyzerKellyStake_UsesConfiguredFraction(t *testing.T) {
	a := NewDefaultAnalyzer()

	got := a.KellyStake(0.6, 2.0, 1000, 0)
	assert.Equal(t, 0.25, got.FractionUsed)
	assert.True(t, decimal.NewFromInt(50).Equal(got.RecommendedStake))

	half := a.KellyStake(0.6, 2.0, 1000, 0.5)
	assert.InDelta(t, 0.1, half.AdjustedFraction, tolerance)
}

func TestNewAnalyzer_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KellyCap = 0
	_, err := NewAnalyzer(cfg)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MinProbability = 1.5
	_, err = NewAnalyzer(cfg)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}
