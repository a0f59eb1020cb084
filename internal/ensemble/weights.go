package ensemble

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/goal-edge/internal/models"
)

// Weights is an immutable mapping of source name to non-negative weight
type Weights struct {
	values map[string]float64
}

// NewWeights copies and validates a weight mapping
func NewWeights(values map[string]float64) (Weights, error) {
	copied := make(map[string]float64, len(values))
	for name, w := range values {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return Weights{}, fmt.Errorf("%w: weight for %q must be a non-negative number", models.ErrInvalidConfig, name)
		}
		copied[name] = w
	}
	return Weights{values: copied}, nil
}

// DefaultWeights returns poisson 0.6, xgboost 0.4
func DefaultWeights() Weights {
	return Weights{values: map[string]float64{
		"poisson": 0.6,
		"xgboost": 0.4,
	}}
}

// Get returns the configured weight for a source; unknown sources weigh zero
func (w Weights) Get(name string) float64 {
	return w.values[name]
}

// Map returns a copy of the mapping
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, len(w.values))
	for k, v := range w.values {
		out[k] = v
	}
	return out
}

// Names returns the configured source names in sorted order
func (w Weights) Names() []string {
	names := make([]string, 0, len(w.values))
	for name := range w.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize rescales raw weights to sum to one. When every weight is zero
// the sources are weighted equally.
func normalize(raw []float64) []float64 {
	out := make([]float64, len(raw))
	total := 0.0
	for _, w := range raw {
		total += w
	}
	for i, w := range raw {
		if total > 0 {
			out[i] = w / total
		} else {
			out[i] = 1.0 / float64(len(raw))
		}
	}
	return out
}
