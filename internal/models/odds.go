package models

import (
	"fmt"
	"math"
)

// OddsQuote maps market -> outcome -> decimal odds (payout = stake x odds)
type OddsQuote map[string]map[string]float64

// Get returns the odds for a market outcome
func (q OddsQuote) Get(market, outcome string) (float64, bool) {
	outcomes, ok := q[market]
	if !ok {
		return 0, false
	}
	odds, ok := outcomes[outcome]
	return odds, ok
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate ensures every quoted price is a usable decimal price: finite and > 1.0
func (q OddsQuote) Validate() error {
	for market, outcomes := range q {
		for outcome, odds := range outcomes {
			if !IsFinite(odds) || odds <= 1.0 {
				return fmt.Errorf("%w: %s/%s quoted at %.3f", ErrInvalidOdds, market, outcome, odds)
			}
		}
	}
	return nil
}

// ImpliedProbability returns 1/odds
func ImpliedProbability(odds float64) (float64, error) {
	if !IsFinite(odds) || odds <= 0 {
		return 0, fmt.Errorf("%w: %.4f", ErrInvalidOdds, odds)
	}
	return 1.0 / odds, nil
}

// Overround returns the summed implied probability of a market minus one
func (q OddsQuote) Overround(market string) float64 {
	total := 0.0
	for _, odds := range q[market] {
		if IsFinite(odds) && odds > 0 {
			total += 1.0 / odds
		}
	}
	if total == 0 {
		return 0
	}
	return total - 1.0
}
