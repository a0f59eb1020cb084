package models

// SourceResult is what a prediction source returns for a match: either a
// Prediction or an explicit absence. Abstaining is an ordinary outcome, not an error.
type SourceResult struct {
	Prediction Prediction
	Available  bool
	Reason     string
}

// Available wraps a prediction
func Available(p Prediction) SourceResult {
	return SourceResult{Prediction: p, Available: true}
}

// Unavailable marks a source as having nothing to say for this match
func Unavailable(reason string) SourceResult {
	return SourceResult{Reason: reason}
}
