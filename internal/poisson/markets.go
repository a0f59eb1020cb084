package poisson

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/goal-edge/internal/models"
)

// resultMarket sums the grid below, on and above the diagonal and
// re-normalizes so the three outcomes total exactly one.
func resultMarket(g Grid) models.ResultProbabilities {
	var r models.ResultProbabilities
	for i := 0; i < g.Size(); i++ {
		for j := 0; j < g.Size(); j++ {
			p := g.At(i, j)
			switch {
			case i > j:
				r.HomeWin += p
			case i == j:
				r.Draw += p
			default:
				r.AwayWin += p
			}
		}
	}
	return r.Normalize()
}

// goalMarket returns over/under probabilities on total goals for each line
func goalMarket(g Grid, lines []float64) models.LineMarket {
	market := make(models.LineMarket, 2*len(lines))
	for _, line := range lines {
		over := g.Sum(func(i, j int) bool {
			return float64(i+j) > line
		})
		market[models.LineKey(models.SideOver, line)] = over
		market[models.LineKey(models.SideUnder, line)] = 1 - over
	}
	return market
}

// bothTeamsScore uses inclusion-exclusion on either side failing to score
func bothTeamsScore(g Grid) models.BTTS {
	h0, a0 := g.HomeMass(0), g.AwayMass(0)
	no := h0 + a0 - h0*a0
	return models.BTTS{Yes: 1 - no, No: no}
}

// approxMarket is the corners/cards heuristic: over/under lines of an auxiliary
// Poisson variable. Values are rounded to precision places because the
// approximation does not support more.
func approxMarket(lambda float64, lines []float64, maxCount int, precision int32) models.LineMarket {
	if len(lines) == 0 {
		return nil
	}
	one := decimal.NewFromInt(1)
	market := make(models.LineMarket, 2*len(lines))
	for _, line := range lines {
		over := decimal.NewFromFloat(tailAbove(lambda, line, maxCount)).Round(precision)
		market[models.LineKey(models.SideOver, line)] = over.InexactFloat64()
		market[models.LineKey(models.SideUnder, line)] = one.Sub(over).InexactFloat64()
	}
	return market
}
