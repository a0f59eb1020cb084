// Package value turns outcome probabilities and bookmaker odds into
// expected-value assessments, ranked bets and Kelly stakes.
package value

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/goal-edge/internal/models"
)

// Config holds the analyzer thresholds. An Analyzer never changes its Config;
// build a new Analyzer to change thresholds.
type Config struct {
	// MinEV is the fractional EV a bet needs to count as good (0.05 = 5%).
	MinEV float64
	// MinProbability is the lowest probability analyzeMatch considers.
	MinProbability  float64
	FractionalKelly float64
	// KellyCap is the largest bankroll fraction ever recommended.
	KellyCap     float64
	DefaultStake float64
	Bankroll     float64
	TopN         int
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		MinEV:           0.05,
		MinProbability:  0.10,
		FractionalKelly: 0.25,
		KellyCap:        0.10,
		DefaultStake:    100,
		Bankroll:        1000,
		TopN:            5,
	}
}

// Validate checks the thresholds are usable
func (c Config) Validate() error {
	if c.MinProbability < 0 || c.MinProbability > 1 {
		return fmt.Errorf("%w: min probability must be in [0,1], got %.3f", models.ErrInvalidConfig, c.MinProbability)
	}
	if c.FractionalKelly <= 0 || c.FractionalKelly > 1 {
		return fmt.Errorf("%w: fractional kelly must be in (0,1], got %.3f", models.ErrInvalidConfig, c.FractionalKelly)
	}
	if c.KellyCap <= 0 || c.KellyCap > 1 {
		return fmt.Errorf("%w: kelly cap must be in (0,1], got %.3f", models.ErrInvalidConfig, c.KellyCap)
	}
	if c.DefaultStake <= 0 {
		return fmt.Errorf("%w: default stake must be positive", models.ErrInvalidConfig)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top n must be non-negative", models.ErrInvalidConfig)
	}
	return nil
}

// Analyzer evaluates bets. It has no mutable state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an analyzer with validated thresholds
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// NewDefaultAnalyzer creates an analyzer with DefaultConfig
func NewDefaultAnalyzer() *Analyzer {
	return &Analyzer{cfg: DefaultConfig()}
}

// Config returns the analyzer thresholds
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Evaluate computes the expected value of staking stake at odds on an
// outcome with the given probability.
func (a *Analyzer) Evaluate(probability, odds, stake float64) (models.ValueAssessment, error) {
	if !models.IsFinite(stake) || stake <= 0 {
		return models.ValueAssessment{}, fmt.Errorf("%w: stake %.2f must be positive", models.ErrInvalidStake, stake)
	}
	implied, err := models.ImpliedProbability(odds)
	if err != nil {
		return models.ValueAssessment{}, err
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return models.ValueAssessment{}, fmt.Errorf("%w: probability %.4f outside [0,1]", models.ErrInvalidInput, probability)
	}

	potentialReturn := odds * stake
	profitIfWin := potentialReturn - stake
	ev := probability*profitIfWin - (1-probability)*stake
	evPercentage := 100 * ev / stake
	if !models.IsFinite(ev) {
		return models.ValueAssessment{}, fmt.Errorf("%w: stake %.2f at odds %.2f overflows", models.ErrInvalidStake, stake, odds)
	}

	kelly := 0.0
	if odds > 1 {
		kelly = kellyFraction(probability, odds)
	}

	return models.ValueAssessment{
		Probability:        probability,
		Odds:               odds,
		Stake:              stake,
		ImpliedProbability: implied,
		ValueMargin:        probability - implied,
		PotentialReturn:    potentialReturn,
		ProfitIfWin:        profitIfWin,
		EV:                 ev,
		EVPercentage:       evPercentage,
		KellyFraction:      kelly,
		AdjustedKelly:      adjustKelly(kelly, a.cfg.FractionalKelly, a.cfg.KellyCap),
		HasValue:           ev > 0,
		IsGoodBet:          evPercentage >= 100*a.cfg.MinEV,
	}, nil
}

// marketOrder fixes the iteration order so equal-EV assessments come out stably
var marketOrder = []string{
	models.MarketResult,
	models.MarketGoals,
	models.MarketBTTS,
	models.MarketCorners,
	models.MarketCards,
}

// AnalyzeMatch evaluates every (market, outcome) present in both the prediction
// and the quote whose probability reaches MinProbability, sorted by EV descending.
// Outcomes missing on either side are skipped.
func (a *Analyzer) AnalyzeMatch(prediction models.Prediction, quote models.OddsQuote, stake float64) ([]models.ValueAssessment, error) {
	if !models.IsFinite(stake) || stake <= 0 {
		return nil, fmt.Errorf("%w: stake %.2f must be positive", models.ErrInvalidStake, stake)
	}

	markets := prediction.Markets()
	var assessments []models.ValueAssessment
	for _, market := range marketOrder {
		probs, ok := markets[market]
		if !ok {
			continue
		}
		for _, outcome := range sortedKeys(probs) {
			probability := probs[outcome]
			odds, ok := quote.Get(market, outcome)
			if !ok || probability < a.cfg.MinProbability {
				continue
			}
			assessment, err := a.Evaluate(probability, odds, stake)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", market, outcome, err)
			}
			assessment.Market = market
			assessment.Outcome = outcome
			assessments = append(assessments, assessment)
		}
	}

	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].EV > assessments[j].EV
	})
	return assessments, nil
}

// BestBets keeps only good bets, sorts them by EV percentage descending and
// returns at most topN.
func BestBets(assessments []models.ValueAssessment, topN int) []models.ValueAssessment {
	if topN <= 0 {
		return nil
	}
	good := make([]models.ValueAssessment, 0, len(assessments))
	for _, a := range assessments {
		if a.IsGoodBet {
			good = append(good, a)
		}
	}
	sort.SliceStable(good, func(i, j int) bool {
		return good[i].EVPercentage > good[j].EVPercentage
	})
	if len(good) > topN {
		good = good[:topN]
	}
	return good
}

// BestBets applies the configured TopN
func (a *Analyzer) BestBets(assessments []models.ValueAssessment) []models.ValueAssessment {
	return BestBets(assessments, a.cfg.TopN)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
