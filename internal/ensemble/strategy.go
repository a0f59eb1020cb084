package ensemble

import (
	"fmt"
	"strings"

	"github.com/yourusername/goal-edge/internal/models"
)

// Strategy selects how source result probabilities are merged
type Strategy int

const (
	WeightedAverage Strategy = iota
	Voting
	ConfidenceBased
)

var strategyNames = map[Strategy]string{
	WeightedAverage: "weighted_average",
	Voting:          "voting",
	ConfidenceBased: "confidence_based",
}

// String returns the configuration name of the strategy
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy resolves a configuration name
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown ensemble strategy %q (valid: %s)",
		models.ErrInvalidConfig, name, strings.Join(StrategyNames(), ", "))
}

// StrategyNames returns every valid strategy name
func StrategyNames() []string {
	return []string{WeightedAverage.String(), Voting.String(), ConfidenceBased.String()}
}

// blend is the outcome of a combination step
type blend struct {
	result  models.ResultProbabilities
	weights map[string]float64
	votes   map[models.Outcome]int
}

// combineFunc merges the result markets of at least one answer
type combineFunc func(weights Weights, answers []Answer) blend

func (s Strategy) combineFunc() (combineFunc, error) {
	switch s {
	case WeightedAverage:
		return weightedAverage, nil
	case Voting:
		return voting, nil
	case ConfidenceBased:
		return confidenceBased, nil
	default:
		return nil, fmt.Errorf("%w: unsupported ensemble strategy %s", models.ErrInvalidConfig, s)
	}
}

func weightedAverage(weights Weights, answers []Answer) blend {
	raw := make([]float64, len(answers))
	for i, a := range answers {
		raw[i] = weights.Get(a.Source)
	}
	return weightedSum(answers, normalize(raw))
}

func confidenceBased(weights Weights, answers []Answer) blend {
	raw := make([]float64, len(answers))
	total := 0.0
	for i, a := range answers {
		_, raw[i] = a.Prediction.Result.ArgMax()
		total += raw[i]
	}
	if total <= 0 {
		return weightedAverage(weights, answers)
	}
	return weightedSum(answers, normalize(raw))
}

func voting(_ Weights, answers []Answer) blend {
	votes := make(map[models.Outcome]int, 3)
	used := make(map[string]float64, len(answers))
	share := 1.0 / float64(len(answers))
	for _, a := range answers {
		outcome, _ := a.Prediction.Result.ArgMax()
		votes[outcome]++
		used[a.Source] = share
	}
	n := float64(len(answers))
	return blend{
		result: models.ResultProbabilities{
			HomeWin: float64(votes[models.OutcomeHomeWin]) / n,
			Draw:    float64(votes[models.OutcomeDraw]) / n,
			AwayWin: float64(votes[models.OutcomeAwayWin]) / n,
		},
		weights: used,
		votes:   votes,
	}
}

func weightedSum(answers []Answer, normalized []float64) blend {
	var result models.ResultProbabilities
	used := make(map[string]float64, len(answers))
	for i, a := range answers {
		w := normalized[i]
		r := a.Prediction.Result
		result.HomeWin += w * r.HomeWin
		result.Draw += w * r.Draw
		result.AwayWin += w * r.AwayWin
		used[a.Source] += w
	}
	return blend{result: result, weights: used}
}
