// Package ensemble merges the result probabilities of several prediction
// sources into a single Prediction.
package ensemble

import (
	"context"

	"github.com/yourusername/goal-edge/internal/models"
)

// Source is a named prediction source. Forecast returns an Unavailable result
// when the source has nothing to say for the match; it never returns an error.
type Source interface {
	Name() string
	Forecast(ctx context.Context, match models.MatchContext) models.SourceResult
}

// Answer is a prediction produced by a named source
type Answer struct {
	Source     string
	Prediction models.Prediction
}

// SourceFunc adapts a function to the Source interface
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context, match models.MatchContext) models.SourceResult
}

// Name returns the source name
func (f SourceFunc) Name() string {
	return f.SourceName
}

// Forecast calls the wrapped function
func (f SourceFunc) Forecast(ctx context.Context, match models.MatchContext) models.SourceResult {
	return f.Fn(ctx, match)
}
