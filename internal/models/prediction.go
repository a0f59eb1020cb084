package models

import (
	"fmt"
	"strconv"
	"time"
)

// Outcome is one leg of the three-way result market
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// Market names shared by predictions and odds quotes
const (
	MarketResult  = "result"
	MarketGoals   = "goals"
	MarketBTTS    = "btts"
	MarketCorners = "corners"
	MarketCards   = "cards"
)

// Line sides and BTTS outcomes
const (
	SideOver  = "over"
	SideUnder = "under"
	BTTSYes   = "yes"
	BTTSNo    = "no"
)

// ResultOutcomes returns the result outcomes in tie-break precedence order.
func ResultOutcomes() []Outcome {
	return []Outcome{OutcomeHomeWin, OutcomeDraw, OutcomeAwayWin}
}

// LineKey builds a line label such as "over_2.5".
func LineKey(side string, line float64) string {
	return side + "_" + strconv.FormatFloat(line, 'f', -1, 64)
}

// ResultProbabilities holds 1X2 probabilities
type ResultProbabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Get returns the probability of a single outcome
func (r ResultProbabilities) Get(o Outcome) float64 {
	switch o {
	case OutcomeHomeWin:
		return r.HomeWin
	case OutcomeDraw:
		return r.Draw
	case OutcomeAwayWin:
		return r.AwayWin
	default:
		return 0
	}
}

// Sum returns HomeWin + Draw + AwayWin
func (r ResultProbabilities) Sum() float64 {
	return r.HomeWin + r.Draw + r.AwayWin
}

// Normalize rescales the three probabilities to sum to one.
// A zero total is returned unchanged.
func (r ResultProbabilities) Normalize() ResultProbabilities {
	total := r.Sum()
	if total <= 0 {
		return r
	}
	return ResultProbabilities{
		HomeWin: r.HomeWin / total,
		Draw:    r.Draw / total,
		AwayWin: r.AwayWin / total,
	}
}

// ArgMax returns the most probable outcome. Ties resolve home_win > draw > away_win.
func (r ResultProbabilities) ArgMax() (Outcome, float64) {
	best := OutcomeHomeWin
	bestProb := r.HomeWin
	for _, o := range ResultOutcomes()[1:] {
		if p := r.Get(o); p > bestProb {
			best, bestProb = o, p
		}
	}
	return best, bestProb
}

// Map returns the probabilities keyed by outcome name
func (r ResultProbabilities) Map() map[string]float64 {
	return map[string]float64{
		string(OutcomeHomeWin): r.HomeWin,
		string(OutcomeDraw):    r.Draw,
		string(OutcomeAwayWin): r.AwayWin,
	}
}

// LineMarket maps line labels ("over_2.5", "under_2.5") to probabilities
type LineMarket map[string]float64

// Over returns the over probability for a line
func (m LineMarket) Over(line float64) (float64, bool) {
	p, ok := m[LineKey(SideOver, line)]
	return p, ok
}

// Under returns the under probability for a line
func (m LineMarket) Under(line float64) (float64, bool) {
	p, ok := m[LineKey(SideUnder, line)]
	return p, ok
}

func (m LineMarket) clone() LineMarket {
	if m == nil {
		return nil
	}
	out := make(LineMarket, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BTTS holds both-teams-to-score probabilities
type BTTS struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

// Scoreline is a single cell of the score grid
type Scoreline struct {
	Home        int     `json:"home"`
	Away        int     `json:"away"`
	Probability float64 `json:"probability"`
}

// String renders the score as "2-1"
func (s Scoreline) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// ExpectedGoals holds the Poisson rate used for each side
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Prediction is the outcome-probability estimate for a single match.
// A Prediction is never mutated after it is returned; derive a new one with Clone.
type Prediction struct {
	Source          string              `json:"source"`
	Result          ResultProbabilities `json:"result"`
	Goals           LineMarket          `json:"goals,omitempty"`
	BothTeamsScore  *BTTS               `json:"both_teams_score,omitempty"`
	Corners         LineMarket          `json:"corners,omitempty"`
	Cards           LineMarket          `json:"cards,omitempty"`
	MostLikelyScore *Scoreline          `json:"most_likely_score,omitempty"`
	Lambdas         *ExpectedGoals      `json:"lambdas,omitempty"`

	// Ensemble metadata
	Strategy    string             `json:"strategy,omitempty"`
	SourcesUsed []string           `json:"sources_used,omitempty"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	Votes       map[Outcome]int    `json:"votes,omitempty"`

	PredictedAt time.Time `json:"predicted_at"`
}

// Clone returns a deep copy of the prediction
func (p Prediction) Clone() Prediction {
	out := p
	out.Goals = p.Goals.clone()
	out.Corners = p.Corners.clone()
	out.Cards = p.Cards.clone()
	if p.BothTeamsScore != nil {
		btts := *p.BothTeamsScore
		out.BothTeamsScore = &btts
	}
	if p.MostLikelyScore != nil {
		score := *p.MostLikelyScore
		out.MostLikelyScore = &score
	}
	if p.Lambdas != nil {
		lambdas := *p.Lambdas
		out.Lambdas = &lambdas
	}
	if p.SourcesUsed != nil {
		out.SourcesUsed = append([]string(nil), p.SourcesUsed...)
	}
	if p.Weights != nil {
		out.Weights = make(map[string]float64, len(p.Weights))
		for k, v := range p.Weights {
			out.Weights[k] = v
		}
	}
	if p.Votes != nil {
		out.Votes = make(map[Outcome]int, len(p.Votes))
		for k, v := range p.Votes {
			out.Votes[k] = v
		}
	}
	return out
}

// Markets returns the market -> outcome -> probability view of the prediction.
// Markets the prediction does not carry are omitted.
func (p Prediction) Markets() map[string]map[string]float64 {
	markets := map[string]map[string]float64{
		MarketResult: p.Result.Map(),
	}
	if len(p.Goals) > 0 {
		markets[MarketGoals] = p.Goals.clone()
	}
	if p.BothTeamsScore != nil {
		markets[MarketBTTS] = map[string]float64{
			BTTSYes: p.BothTeamsScore.Yes,
			BTTSNo:  p.BothTeamsScore.No,
		}
	}
	if len(p.Corners) > 0 {
		markets[MarketCorners] = p.Corners.clone()
	}
	if len(p.Cards) > 0 {
		markets[MarketCards] = p.Cards.clone()
	}
	return markets
}

// HasSecondaryMarkets reports whether any non-result market is present
func (p Prediction) HasSecondaryMarkets() bool {
	return len(p.Goals) > 0 || p.BothTeamsScore != nil || len(p.Corners) > 0 || len(p.Cards) > 0
}
