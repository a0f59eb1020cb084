// Package service orchestrates match analysis: ensemble prediction, value
// assessment, Kelly sizing, recommendations and persistence.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/logger"
	"github.com/yourusername/goal-edge/internal/metrics"
	"github.com/yourusername/goal-edge/internal/models"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/value"
)

// Analysis statuses recorded in metrics
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// Predictor produces the combined prediction for a match
type Predictor interface {
	Predict(ctx context.Context, match models.MatchContext) (models.Prediction, error)
}

// MatchRequest is one match to analyze against a bookmaker quote.
// A zero Stake uses the analyzer's default stake.
type MatchRequest struct {
	Match models.MatchContext `json:"match" yaml:"match"`
	Quote models.OddsQuote    `json:"quote" yaml:"quote"`
	Stake float64             `json:"stake" yaml:"stake"`
}

// BatchResult is the outcome of one request of a batch
type BatchResult struct {
	Index    int
	Analysis *models.MatchAnalysis
	Err      error
}

// AnalysisService runs match analyses. The analyzer can be swapped at any
// time; each call keeps the analyzer it started with.
type AnalysisService struct {
	predictor Predictor
	analyzer  atomic.Pointer[value.Analyzer]
	repo      repository.AssessmentRepository
	validate  *validator.Validate
	workers   int
	audit     *logger.AuditLogger
	logger    *logrus.Logger
	now       func() time.Time
}

// NewAnalysisService creates the service. repo may be nil to skip persistence.
func NewAnalysisService(
	predictor Predictor,
	analyzer *value.Analyzer,
	repo repository.AssessmentRepository,
	workers int,
	log *logrus.Logger,
) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	s := &AnalysisService{
		predictor: predictor,
		repo:      repo,
		validate:  validator.New(),
		workers:   workers,
		audit:     logger.NewAuditLogger(log),
		logger:    log,
		now:       time.Now,
	}
	s.SetAnalyzer(analyzer)
	return s
}

// SetAnalyzer atomically replaces the analyzer used by new calls
func (s *AnalysisService) SetAnalyzer(analyzer *value.Analyzer) {
	s.analyzer.Store(analyzer)
	metrics.UpdateBankroll(analyzer.Config().Bankroll)
}

// Analyzer returns the current analyzer
func (s *AnalysisService) Analyzer() *value.Analyzer {
	return s.analyzer.Load()
}

// AnalyzeMatch predicts the match, assesses every quoted outcome, ranks the
// best bets, sizes them with Kelly and optionally persists the analysis.
func (s *AnalysisService) AnalyzeMatch(ctx context.Context, req MatchRequest) (*models.MatchAnalysis, error) {
	start := time.Now()
	analysis, status, err := s.analyze(ctx, req)
	metrics.RecordMatchAnalysis(status, time.Since(start).Seconds())
	return analysis, err
}

func (s *AnalysisService) analyze(ctx context.Context, req MatchRequest) (*models.MatchAnalysis, string, error) {
	analyzer := s.analyzer.Load()
	cfg := analyzer.Config()

	if err := s.validateRequest(req); err != nil {
		return nil, StatusInvalid, err
	}

	stake := req.Stake
	if stake == 0 {
		stake = cfg.DefaultStake
	}

	prediction, err := s.predictor.Predict(ctx, req.Match)
	if err != nil {
		return nil, StatusFailed, fmt.Errorf("predict %s vs %s: %w", req.Match.HomeTeam, req.Match.AwayTeam, err)
	}

	assessments, err := analyzer.AnalyzeMatch(prediction, req.Quote, stake)
	if err != nil {
		return nil, StatusInvalid, err
	}
	for _, a := range assessments {
		metrics.RecordAssessment(a.Market)
	}

	matchID := req.Match.MatchID.String()
	best := analyzer.BestBets(assessments)
	staked := make([]models.StakedBet, 0, len(best))
	for _, bet := range best {
		kelly := analyzer.KellyStake(bet.Probability, bet.Odds, cfg.Bankroll, 0)
		staked = append(staked, models.StakedBet{Assessment: bet, Kelly: kelly})

		metrics.RecordValueBet(bet.Market, kelly.AdjustedFraction)
		s.audit.LogKellyStake(matchID, bet.Market, bet.Outcome, bet.Probability, bet.Odds,
			kelly.AdjustedFraction, kelly.RecommendedStake.InexactFloat64())
	}

	analysis := &models.MatchAnalysis{
		ID:              uuid.New(),
		MatchID:         req.Match.MatchID,
		HomeTeam:        req.Match.HomeTeam,
		AwayTeam:        req.Match.AwayTeam,
		Prediction:      prediction,
		Assessments:     assessments,
		BestBets:        staked,
		Recommendations: value.Recommend(prediction),
		Overround:       overround(req.Quote),
		AnalyzedAt:      s.now().UTC(),
	}

	topEV := 0.0
	if len(assessments) > 0 {
		topEV = assessments[0].EVPercentage
	}
	s.audit.LogValueAnalysis(matchID, len(assessments), len(staked), topEV)

	if s.repo != nil {
		if err := s.repo.SaveAnalysis(ctx, analysis); err != nil {
			s.logger.WithError(err).WithField("match_id", matchID).Warn("Failed to persist match analysis")
		}
	}

	return analysis, StatusSuccess, nil
}

func (s *AnalysisService) validateRequest(req MatchRequest) error {
	if err := s.validate.Struct(req.Match); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	if err := req.Match.Validate(); err != nil {
		return err
	}
	if req.Stake < 0 || math.IsNaN(req.Stake) || math.IsInf(req.Stake, 0) {
		return fmt.Errorf("%w: stake %.2f must be positive", models.ErrInvalidStake, req.Stake)
	}
	return req.Quote.Validate()
}

// AnalyzeBatch analyzes requests concurrently on a bounded worker pool.
// Results keep the order of requests; each request fails independently.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, requests []MatchRequest) []BatchResult {
	results := make([]BatchResult, len(requests))
	if len(requests) == 0 {
		return results
	}

	jobs := make(chan int, len(requests))
	for i := range requests {
		jobs <- i
	}
	close(jobs)

	workers := s.workers
	if workers > len(requests) {
		workers = len(requests)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = BatchResult{Index: i, Err: err}
					continue
				}
				analysis, err := s.AnalyzeMatch(ctx, requests[i])
				results[i] = BatchResult{Index: i, Analysis: analysis, Err: err}
			}
		}()
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"requests": len(requests),
		"failed":   failed,
		"workers":  workers,
	}).Info("Batch analysis completed")

	return results
}

// overround reports the bookmaker margin of every market in the quote
func overround(quote models.OddsQuote) map[string]float64 {
	if len(quote) == 0 {
		return nil
	}
	margins := make(map[string]float64, len(quote))
	for market := range quote {
		margins[market] = quote.Overround(market)
	}
	return margins
}
