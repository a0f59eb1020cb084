package value

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/goal-edge/internal/models"
)

// Notes attached to zero-stake Kelly results
const (
	NoteOddsTooShort    = "odds at or below 1.0 offer no edge"
	NoteNoEdge          = "no positive edge at these odds"
	NoteInvalidBankroll = "bankroll must be positive"
	NoteNotFinite       = "probability, odds and bankroll must be finite numbers"
)

// Kelly: f = (b*p - q) / b with b = odds - 1, which reduces to (odds*p - 1) / (odds - 1).
func kellyFraction(probability, odds float64) float64 {
	return (odds*probability - 1) / (odds - 1)
}

// adjustKelly scales the raw fraction and clamps it to [0, ceiling]
func adjustKelly(kelly, fraction, ceiling float64) float64 {
	return math.Min(math.Max(kelly*fraction, 0), ceiling)
}

// KellyStake sizes a stake with fractional Kelly, never exceeding ceiling of the bankroll.
// Non-finite inputs and odds at or below 1.0 yield a zero stake with a note
// rather than an error.
func KellyStake(probability, odds, bankroll, fractionalKelly, ceiling float64) models.KellyResult {
	result := models.KellyResult{
		FractionUsed:     fractionalKelly,
		Bankroll:         bankroll,
		RecommendedStake: decimal.Zero,
	}
	if !models.IsFinite(probability) || !models.IsFinite(odds) || !models.IsFinite(bankroll) ||
		!models.IsFinite(fractionalKelly) || !models.IsFinite(ceiling) {
		result.Note = NoteNotFinite
		return result
	}
	if odds <= 1 {
		result.Note = NoteOddsTooShort
		return result
	}

	result.KellyFraction = kellyFraction(probability, odds)
	result.AdjustedFraction = adjustKelly(result.KellyFraction, fractionalKelly, ceiling)
	if bankroll <= 0 {
		result.Note = NoteInvalidBankroll
		return result
	}

	result.RecommendedStake = decimal.NewFromFloat(bankroll).
		Mul(decimal.NewFromFloat(result.AdjustedFraction)).
		Round(2)
	if result.RecommendedStake.IsZero() {
		result.Note = NoteNoEdge
	}
	return result
}

// KellyStake sizes a stake with the analyzer's cap. A non-positive
// fractionalKelly uses the configured fraction.
func (a *Analyzer) KellyStake(probability, odds, bankroll, fractionalKelly float64) models.KellyResult {
	if fractionalKelly <= 0 {
		fractionalKelly = a.cfg.FractionalKelly
	}
	return KellyStake(probability, odds, bankroll, fractionalKelly, a.cfg.KellyCap)
}
