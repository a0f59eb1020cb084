package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresFeedPredictionRepository implements FeedPredictionRepository for PostgreSQL
type PostgresFeedPredictionRepository struct {
	db *database.DB
}

// NewPostgresFeedPredictionRepository creates a new feed prediction repository
func NewPostgresFeedPredictionRepository(db *database.DB) FeedPredictionRepository {
	return &PostgresFeedPredictionRepository{db: db}
}

// Insert stores a feed prediction, assigning an ID and fetch time when missing
func (r *PostgresFeedPredictionRepository) Insert(ctx context.Context, p *models.FeedPrediction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.FetchedAt.IsZero() {
		p.FetchedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO feed_predictions (id, match_id, provider, home_percent, draw_percent, away_percent, advice, extra, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.MatchID, p.Provider, p.HomePercent, p.DrawPercent, p.AwayPercent, p.Advice, []byte(p.Extra), p.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feed prediction: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent prediction of a provider for a match
func (r *PostgresFeedPredictionRepository) GetLatest(ctx context.Context, matchID uuid.UUID, provider string) (*models.FeedPrediction, error) {
	query := `
		SELECT id, match_id, provider, home_percent, draw_percent, away_percent, advice, extra, fetched_at
		FROM feed_predictions
		WHERE match_id = $1 AND provider = $2
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	var p models.FeedPrediction
	var extra []byte
	err := r.db.QueryRow(ctx, query, matchID, provider).Scan(
		&p.ID, &p.MatchID, &p.Provider, &p.HomePercent, &p.DrawPercent, &p.AwayPercent, &p.Advice, &extra, &p.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("feed prediction for match %s from %s: %w", matchID, provider, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get feed prediction: %w", err)
	}
	p.Extra = extra
	return &p, nil
}
