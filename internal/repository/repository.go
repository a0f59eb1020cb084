// Package repository implements PostgreSQL persistence for feed predictions
// and match analyses.
package repository

import (
	"fmt"

	"github.com/yourusername/goal-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	FeedPrediction FeedPredictionRepository
	Assessment     AssessmentRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		FeedPrediction: NewPostgresFeedPredictionRepository(db),
		Assessment:     NewPostgresAssessmentRepository(db),
	}, nil
}
