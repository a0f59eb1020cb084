package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/goal-edge/internal/models"
)

// FeedPredictionRepository defines access to stored third-party predictions
type FeedPredictionRepository interface {
	Insert(ctx context.Context, prediction *models.FeedPrediction) error
	// GetLatest returns the most recent prediction of a provider for a match,
	// or models.ErrNotFound.
	GetLatest(ctx context.Context, matchID uuid.UUID, provider string) (*models.FeedPrediction, error)
}

// AssessmentRepository defines persistence of match analyses
type AssessmentRepository interface {
	SaveAnalysis(ctx context.Context, analysis *models.MatchAnalysis) error
	GetAssessments(ctx context.Context, analysisID uuid.UUID) ([]models.ValueAssessment, error)
	CountByMatch(ctx context.Context, matchID uuid.UUID) (int, error)
}
