// Package engine assembles the prediction sources, combiner, analyzer and
// their optional collaborators from configuration, and runs the long-lived
// parts of the service.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/database"
	"github.com/yourusername/goal-edge/internal/ensemble"
	"github.com/yourusername/goal-edge/internal/feed"
	"github.com/yourusername/goal-edge/internal/health"
	"github.com/yourusername/goal-edge/internal/ml"
	"github.com/yourusername/goal-edge/internal/poisson"
	"github.com/yourusername/goal-edge/internal/repository"
	"github.com/yourusername/goal-edge/internal/scheduler"
	"github.com/yourusername/goal-edge/internal/service"
	"github.com/yourusername/goal-edge/internal/stats"
	"github.com/yourusername/goal-edge/internal/value"
)

// Status is a snapshot of the running engine
type Status struct {
	Running    bool               `json:"running"`
	Sources    []string           `json:"sources"`
	Strategy   string             `json:"strategy"`
	Weights    map[string]float64 `json:"weights"`
	MinEV      float64            `json:"min_ev"`
	Bankroll   float64            `json:"bankroll"`
	Persisting bool               `json:"persisting"`
	LastReload time.Time          `json:"last_reload,omitempty"`
	NextReload time.Time          `json:"next_reload,omitempty"`
}

// Orchestrator owns every component built from one configuration
type Orchestrator struct {
	config     *config.Config
	db         *database.DB
	repos      *repository.Repositories
	combiner   *ensemble.Combiner
	service    *service.AnalysisService
	aggregator *stats.Aggregator
	mlHealth   health.CheckFunc
	closers    []io.Closer
	health     *health.Server
	scheduler  *scheduler.Scheduler
	logger     *logrus.Logger
	mu         sync.RWMutex
	running    bool
}

// NewOrchestrator builds the engine. The database, the model service and the
// feed are only connected when their sections are enabled.
func NewOrchestrator(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Orchestrator, error) {
	o := &Orchestrator{
		config:     cfg,
		aggregator: NewAggregator(cfg.Stats),
		logger:     logger,
	}

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		o.db, o.repos = db, repos
		logger.Info("Database connection established")
	}

	sources, err := o.buildSources()
	if err != nil {
		o.Close()
		return nil, err
	}

	ensembleCfg, err := EnsembleConfig(cfg.Ensemble)
	if err != nil {
		o.Close()
		return nil, err
	}
	o.combiner, err = ensemble.NewCombiner(ensembleCfg, sources, logger)
	if err != nil {
		o.Close()
		return nil, err
	}

	analyzer, err := value.NewAnalyzer(ValueConfig(cfg.Value))
	if err != nil {
		o.Close()
		return nil, err
	}

	var assessments repository.AssessmentRepository
	if o.repos != nil {
		assessments = o.repos.Assessment
	}
	o.service = service.NewAnalysisService(o.combiner, analyzer, assessments, cfg.App.AnalysisWorkers, logger)

	logger.WithFields(logrus.Fields{
		"sources":  o.combiner.SourceNames(),
		"strategy": ensembleCfg.Strategy.String(),
		"primary":  ensembleCfg.Primary,
	}).Info("Prediction engine initialized")

	return o, nil
}

func (o *Orchestrator) buildSources() ([]ensemble.Source, error) {
	cfg := o.config

	model, err := poisson.NewModel(PoissonParams(cfg.Model))
	if err != nil {
		return nil, fmt.Errorf("poisson model: %w", err)
	}
	sources := []ensemble.Source{model}

	if cfg.MLService.Enabled {
		src, err := o.buildMLSource(cfg.MLService)
		if err != nil {
			return nil, err
		}
		if src != nil {
			sources = append(sources, src)
		}
	}

	if cfg.Feed.Enabled {
		if o.repos == nil {
			return nil, fmt.Errorf("feed source requires the database")
		}
		sources = append(sources, feed.NewSource(o.repos.FeedPrediction, cfg.Feed.Provider, cfg.Feed.MaxAge(), o.logger))
	}

	return sources, nil
}

func (o *Orchestrator) buildMLSource(cfg config.MLServiceConfig) (ensemble.Source, error) {
	if cfg.GRPCAddress == "" {
		o.logger.WithField("model", cfg.ModelName).Warn("ML service has no gRPC address; tree-model source disabled")
		return nil, nil
	}

	grpcClient, err := ml.NewGRPCClient(cfg, o.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ML client: %w", err)
	}
	o.closers = append(o.closers, grpcClient)
	o.mlHealth = grpcClient.HealthCheck

	var status ml.StatusChecker
	if cfg.HTTPAddress != "" {
		httpClient := ml.NewHTTPClient(cfg, o.logger)
		o.closers = append(o.closers, httpClient)
		status = httpClient
	}

	cache := ml.NewPredictionCache(cfg.CacheTTL(), cfg.CacheMaxSize)
	o.logger.WithFields(logrus.Fields{
		"model":        cfg.ModelName,
		"grpc_address": cfg.GRPCAddress,
		"http_address": cfg.HTTPAddress,
	}).Info("ML client initialized")

	return ml.NewSource(cfg, grpcClient, status, cache, o.logger), nil
}

// Service returns the analysis service
func (o *Orchestrator) Service() *service.AnalysisService {
	return o.service
}

// Combiner returns the ensemble combiner
func (o *Orchestrator) Combiner() *ensemble.Combiner {
	return o.combiner
}

// Aggregator returns the team statistics aggregator
func (o *Orchestrator) Aggregator() *stats.Aggregator {
	return o.aggregator
}

// Apply swaps in the ensemble and analyzer settings of cfg. Both are built
// before either is installed, so a bad configuration changes nothing.
func (o *Orchestrator) Apply(cfg *config.Config) error {
	ensembleCfg, err := EnsembleConfig(cfg.Ensemble)
	if err != nil {
		return err
	}
	analyzer, err := value.NewAnalyzer(ValueConfig(cfg.Value))
	if err != nil {
		return err
	}
	if err := o.combiner.Reconfigure(ensembleCfg); err != nil {
		return err
	}
	o.service.SetAnalyzer(analyzer)
	return nil
}

// Start runs the health server and the reload scheduler when enabled.
// load is used by the scheduler to read a fresh configuration.
func (o *Orchestrator) Start(ctx context.Context, version string, load scheduler.Loader) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.running {
		return fmt.Errorf("orchestrator is already running")
	}

	cfg := o.config
	if cfg.Metrics.Enabled {
		checks := map[string]health.CheckFunc{}
		if o.mlHealth != nil {
			checks["ml_service"] = o.mlHealth
		}
		var db health.DatabasePinger
		if o.db != nil {
			db = o.db
		}
		o.health = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      o.logger,
			DB:          db,
			Checks:      checks,
		})
		if err := o.health.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	if cfg.Scheduler.Enabled {
		o.scheduler = scheduler.NewScheduler(load, o, o.logger)
		if err := o.scheduler.ScheduleConfigReload(cfg.Scheduler.ReloadSchedule); err != nil {
			return err
		}
		if err := o.scheduler.Start(); err != nil {
			return err
		}
	}

	if o.health != nil {
		o.health.SetReady(true)
	}
	o.running = true
	o.logger.Info("Prediction engine started")
	return nil
}

// Stop stops the scheduler and the health server and releases every connection
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	if o.health != nil {
		o.health.SetReady(false)
	}
	if o.scheduler != nil {
		if err := o.scheduler.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.health != nil {
		if err := o.health.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, o.closeLocked())
	o.running = false
	o.logger.Info("Prediction engine stopped")
	return errors.Join(errs...)
}

// Close releases connections without touching the servers
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closeLocked()
}

func (o *Orchestrator) closeLocked() error {
	var errs []error
	for _, c := range o.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	o.closers = nil
	if o.db != nil {
		o.db.Close()
		o.db = nil
	}
	return errors.Join(errs...)
}

// GetStatus returns the current engine status
func (o *Orchestrator) GetStatus() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ensembleCfg := o.combiner.Config()
	valueCfg := o.service.Analyzer().Config()
	status := Status{
		Running:    o.running,
		Sources:    o.combiner.SourceNames(),
		Strategy:   ensembleCfg.Strategy.String(),
		Weights:    ensembleCfg.Weights.Map(),
		MinEV:      valueCfg.MinEV,
		Bankroll:   valueCfg.Bankroll,
		Persisting: o.repos != nil,
	}
	if o.scheduler != nil {
		status.LastReload = o.scheduler.LastReload()
		status.NextReload = o.scheduler.GetNextRun()
	}
	return status
}
