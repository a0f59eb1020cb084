package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueAssessment is the expected-value analysis of one (market, outcome) at a price
type ValueAssessment struct {
	Market             string  `json:"market,omitempty"`
	Outcome            string  `json:"outcome,omitempty"`
	Probability        float64 `json:"probability"`
	Odds               float64 `json:"odds"`
	Stake              float64 `json:"stake"`
	ImpliedProbability float64 `json:"implied_probability"`
	ValueMargin        float64 `json:"value_margin"`
	PotentialReturn    float64 `json:"potential_return"`
	ProfitIfWin        float64 `json:"profit_if_win"`
	EV                 float64 `json:"ev"`
	EVPercentage       float64 `json:"ev_percentage"`
	KellyFraction      float64 `json:"kelly_fraction"`
	AdjustedKelly      float64 `json:"adjusted_kelly"`
	HasValue           bool    `json:"has_value"`
	IsGoodBet          bool    `json:"is_good_bet"`
}

// KellyResult is a Kelly criterion stake recommendation
type KellyResult struct {
	KellyFraction    float64         `json:"kelly_fraction"`
	AdjustedFraction float64         `json:"adjusted_fraction"`
	FractionUsed     float64         `json:"fraction_used"`
	Bankroll         float64         `json:"bankroll"`
	RecommendedStake decimal.Decimal `json:"recommended_stake"`
	Note             string          `json:"note,omitempty"`
}

// ConfidenceLevel classifies how decisive a market pick is
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// MarketPick is the most probable outcome of one market
type MarketPick struct {
	Market        string             `json:"market"`
	Outcome       string             `json:"outcome"`
	Probability   float64            `json:"probability"`
	Confidence    ConfidenceLevel    `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// StakedBet pairs a recommended bet with its Kelly sizing
type StakedBet struct {
	Assessment ValueAssessment `json:"assessment"`
	Kelly      KellyResult     `json:"kelly"`
}

// MatchAnalysis is the complete result of analyzing one match against a quote
type MatchAnalysis struct {
	ID              uuid.UUID          `json:"id" db:"id"`
	MatchID         uuid.UUID          `json:"match_id" db:"match_id"`
	HomeTeam        string             `json:"home_team" db:"home_team"`
	AwayTeam        string             `json:"away_team" db:"away_team"`
	Prediction      Prediction         `json:"prediction"`
	Assessments     []ValueAssessment  `json:"assessments"`
	BestBets        []StakedBet        `json:"best_bets"`
	Recommendations []MarketPick       `json:"recommendations"`
	Overround       map[string]float64 `json:"overround,omitempty"`
	AnalyzedAt      time.Time          `json:"analyzed_at" db:"analyzed_at"`
}
