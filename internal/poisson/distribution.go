package poisson

import "math"

// PMF returns P(X=k) for a Poisson variable with rate lambda.
// Computed in log space so large k does not overflow k!.
func PMF(k int, lambda float64) float64 {
	if lambda <= 0 || k < 0 {
		return 0
	}
	lgamma, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lgamma)
}

// Masses returns P(X=k) for k in [0, n).
func Masses(lambda float64, n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = PMF(k, lambda)
	}
	return out
}

// Grid is the joint goal distribution P(home=i, away=j) = P_home(i) * P_away(j).
// Cells are derived on demand from the two marginals.
type Grid struct {
	home []float64
	away []float64
}

// NewGrid builds a size x size grid for the two rates
func NewGrid(homeLambda, awayLambda float64, size int) Grid {
	return Grid{
		home: Masses(homeLambda, size),
		away: Masses(awayLambda, size),
	}
}

// Size returns the number of goal counts per side
func (g Grid) Size() int {
	return len(g.home)
}

// At returns the joint probability of the scoreline i-j
func (g Grid) At(i, j int) float64 {
	return g.home[i] * g.away[j]
}

// HomeMass returns P_home(k)
func (g Grid) HomeMass(k int) float64 {
	return g.home[k]
}

// AwayMass returns P_away(k)
func (g Grid) AwayMass(k int) float64 {
	return g.away[k]
}

// Sum adds every cell for which keep returns true
func (g Grid) Sum(keep func(i, j int) bool) float64 {
	total := 0.0
	for i := range g.home {
		for j := range g.away {
			if keep(i, j) {
				total += g.At(i, j)
			}
		}
	}
	return total
}

// Mode returns the cell with the highest joint probability.
// The first maximum in row-major order wins.
func (g Grid) Mode() (int, int, float64) {
	bi, bj, best := 0, 0, -1.0
	for i := range g.home {
		for j := range g.away {
			if p := g.At(i, j); p > best {
				bi, bj, best = i, j, p
			}
		}
	}
	return bi, bj, best
}

// tailAbove returns P(X > line) summed over k in (line, maxCount).
func tailAbove(lambda, line float64, maxCount int) float64 {
	total := 0.0
	for k := int(math.Floor(line)) + 1; k < maxCount; k++ {
		total += PMF(k, lambda)
	}
	return total
}
