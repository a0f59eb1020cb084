package value

import (
	"github.com/yourusername/goal-edge/internal/models"
)

// Confidence thresholds for market picks
const (
	HighConfidence   = 0.55
	MediumConfidence = 0.45
)

// ClassifyConfidence maps a pick probability to a confidence level
func ClassifyConfidence(probability float64) models.ConfidenceLevel {
	switch {
	case probability > HighConfidence:
		return models.ConfidenceHigh
	case probability > MediumConfidence:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

const recommendationLine = 2.5

// Recommend picks the most probable outcome of the result, goals 2.5 and
// BTTS markets. Markets the prediction does not carry are skipped.
func Recommend(prediction models.Prediction) []models.MarketPick {
	picks := make([]models.MarketPick, 0, 3)

	outcome, p := prediction.Result.ArgMax()
	picks = append(picks, models.MarketPick{
		Market:        models.MarketResult,
		Outcome:       string(outcome),
		Probability:   p,
		Confidence:    ClassifyConfidence(p),
		Probabilities: prediction.Result.Map(),
	})

	over, okOver := prediction.Goals.Over(recommendationLine)
	under, okUnder := prediction.Goals.Under(recommendationLine)
	if okOver && okUnder {
		picks = append(picks, binaryPick(models.MarketGoals,
			models.LineKey(models.SideOver, recommendationLine), over,
			models.LineKey(models.SideUnder, recommendationLine), under))
	}

	if btts := prediction.BothTeamsScore; btts != nil {
		picks = append(picks, binaryPick(models.MarketBTTS, models.BTTSYes, btts.Yes, models.BTTSNo, btts.No))
	}
	return picks
}

// binaryPick prefers the first outcome only when strictly more probable
func binaryPick(market, first string, p1 float64, second string, p2 float64) models.MarketPick {
	outcome, p := second, p2
	if p1 > p2 {
		outcome, p = first, p1
	}
	return models.MarketPick{
		Market:        market,
		Outcome:       outcome,
		Probability:   p,
		Confidence:    ClassifyConfidence(p),
		Probabilities: map[string]float64{first: p1, second: p2},
	}
}
