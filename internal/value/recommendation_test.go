package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/goal-edge/internal/models"
)

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		p    float64
		want models.ConfidenceLevel
	}{
		{0.70, models.ConfidenceHigh},
		{0.56, models.ConfidenceHigh},
		{0.55, models.ConfidenceMedium},
		{0.46, models.ConfidenceMedium},
		{0.45, models.ConfidenceLow},
		{0.10, models.ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyConfidence(tt.p), "p=%.2f", tt.p)
	}
}

func TestRecommend(t *testing.T) {
	picks := Recommend(matchPrediction())
	require.Len(t, picks, 3)

	assert.Equal(t, models.MarketResult, picks[0].Market)
	assert.Equal(t, "home_win", picks[0].Outcome)
	assert.Equal(t, models.ConfidenceMedium, picks[0].Confidence)
	assert.Len(t, picks[0].Probabilities, 3)

	assert.Equal(t, models.MarketGoals, picks[1].Market)
	assert.Equal(t, "over_2.5", picks[1].Outcome)

	// an even BTTS market goes to "no"
	assert.Equal(t, models.MarketBTTS, picks[2].Market)
	assert.Equal(t, models.BTTSNo, picks[2].Outcome)
	assert.Equal(t, models.ConfidenceMedium, picks[2].Confidence)
}

func TestRecommend_ResultOnly(t *testing.T) {
	picks := Recommend(models.Prediction{
		Result: models.ResultProbabilities{HomeWin: 0.2, Draw: 0.2, AwayWin: 0.6},
	})
	require.Len(t, picks, 1)
	assert.Equal(t, "away_win", picks[0].Outcome)
	assert.Equal(t, models.ConfidenceHigh, picks[0].Confidence)
}
