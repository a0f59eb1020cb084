package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/models"
)

// PostgresAssessmentRepository implements AssessmentRepository for PostgreSQL
type PostgresAssessmentRepository struct {
	db *database.DB
}

// NewPostgresAssessmentRepository creates a new assessment repository
func NewPostgresAssessmentRepository(db *database.DB) AssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

var assessmentColumns = []string{
	"analysis_id", "market", "outcome", "probability", "odds", "stake", "ev", "ev_percentage",
	"kelly_fraction", "adjusted_kelly", "has_value", "is_good_bet", "recommended_stake",
}

// SaveAnalysis inserts the analysis header and all its assessments in one transaction
func (r *PostgresAssessmentRepository) SaveAnalysis(ctx context.Context, analysis *models.MatchAnalysis) error {
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}

	prediction, err := json.Marshal(analysis.Prediction)
	if err != nil {
		return fmt.Errorf("failed to encode prediction: %w", err)
	}

	var mostLikely *string
	if s := analysis.Prediction.MostLikelyScore; s != nil {
		score := s.String()
		mostLikely = &score
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		header := `
			INSERT INTO match_analyses (id, match_id, home_team, away_team, strategy, sources_used,
				home_win, draw, away_win, most_likely_score, prediction, analyzed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		result := analysis.Prediction.Result
		_, err := tx.Exec(ctx, header,
			analysis.ID, analysis.MatchID, analysis.HomeTeam, analysis.AwayTeam,
			analysis.Prediction.Strategy, analysis.Prediction.SourcesUsed,
			result.HomeWin, result.Draw, result.AwayWin, mostLikely, prediction, analysis.AnalyzedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match analysis: %w", err)
		}

		if len(analysis.Assessments) == 0 {
			return nil
		}

		stakes := make(map[string]decimal.Decimal, len(analysis.BestBets))
		for _, bet := range analysis.BestBets {
			stakes[bet.Assessment.Market+"/"+bet.Assessment.Outcome] = bet.Kelly.RecommendedStake
		}

		rows := make([][]any, len(analysis.Assessments))
		for i, a := range analysis.Assessments {
			var stake *float64
			if s, ok := stakes[a.Market+"/"+a.Outcome]; ok {
				v := s.InexactFloat64()
				stake = &v
			}
			rows[i] = []any{
				analysis.ID, a.Market, a.Outcome, a.Probability, a.Odds, a.Stake, a.EV, a.EVPercentage,
				a.KellyFraction, a.AdjustedKelly, a.HasValue, a.IsGoodBet, stake,
			}
		}

		count, err := tx.CopyFrom(ctx, pgx.Identifier{"value_assessments"}, assessmentColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to batch insert assessments: %w", err)
		}
		if count != int64(len(rows)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(rows))
		}
		return nil
	})
}

// GetAssessments returns the stored assessments of an analysis, best EV first
func (r *PostgresAssessmentRepository) GetAssessments(ctx context.Context, analysisID uuid.UUID) ([]models.ValueAssessment, error) {
	query := `
		SELECT market, outcome, probability, odds, stake, ev, ev_percentage,
			kelly_fraction, adjusted_kelly, has_value, is_good_bet
		FROM value_assessments
		WHERE analysis_id = $1
		ORDER BY ev DESC, market, outcome
	`

	rows, err := r.db.Query(ctx, query, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var out []models.ValueAssessment
	for rows.Next() {
		var a models.ValueAssessment
		if err := rows.Scan(
			&a.Market, &a.Outcome, &a.Probability, &a.Odds, &a.Stake, &a.EV, &a.EVPercentage,
			&a.KellyFraction, &a.AdjustedKelly, &a.HasValue, &a.IsGoodBet,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		a.ImpliedProbability = 1 / a.Odds
		a.ValueMargin = a.Probability - a.ImpliedProbability
		a.PotentialReturn = a.Odds * a.Stake
		a.ProfitIfWin = a.PotentialReturn - a.Stake
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return out, nil
}

// CountByMatch returns how many analyses were stored for a match
func (r *PostgresAssessmentRepository) CountByMatch(ctx context.Context, matchID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM match_analyses WHERE match_id = $1`, matchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}
