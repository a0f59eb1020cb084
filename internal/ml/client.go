package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

// PredictMethod is the unary RPC answering result probabilities
const PredictMethod = "/goaledge.ml.v1.ResultModel/Predict"

// healthService is the service name probed by HealthCheck
const healthService = "goaledge.ml.v1.ResultModel"

// ResultForecast is the decoded answer of the result model
type ResultForecast struct {
	HomeWin      float64
	Draw         float64
	AwayWin      float64
	Trained      bool
	ModelVersion string
}

// Probabilities validates the forecast and returns it normalized to sum to 1
func (f ResultForecast) Probabilities() (models.ResultProbabilities, error) {
	for _, v := range []float64{f.HomeWin, f.Draw, f.AwayWin} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return models.ResultProbabilities{}, fmt.Errorf("%w: probability %v out of range", ErrInvalidPrediction, v)
		}
	}
	probs := models.ResultProbabilities{HomeWin: f.HomeWin, Draw: f.Draw, AwayWin: f.AwayWin}
	if probs.Sum() <= 0 {
		return models.ResultProbabilities{}, fmt.Errorf("%w: probabilities sum to zero", ErrInvalidPrediction)
	}
	return probs.Normalize(), nil
}

// GRPCClient calls the result model over gRPC with structpb payloads
type GRPCClient struct {
	conn   *grpc.ClientConn
	cfg    config.MLServiceConfig
	logger *logrus.Logger
}

// NewGRPCClient creates a client for cfg.GRPCAddress. The connection is
// established lazily on the first call; extra options are appended last.
func NewGRPCClient(cfg config.MLServiceConfig, logger *logrus.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	creds := grpc.WithTransportCredentials(insecure.NewCredentials())
	if cfg.UseTLS {
		creds = grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(nil, ""))
	}

	connectParams := grpc.ConnectParams{
		Backoff: backoff.Config{
			BaseDelay:  1 * time.Second,
			Multiplier: 1.6,
			Jitter:     0.2,
			MaxDelay:   5 * time.Second,
		},
		MinConnectTimeout: 10 * time.Second,
	}

	keepAlive := keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             10 * time.Second,
		PermitWithoutStream: true,
	}

	dialOpts := append([]grpc.DialOption{
		creds,
		grpc.WithConnectParams(connectParams),
		grpc.WithKeepaliveParams(keepAlive),
	}, opts...)

	conn, err := grpc.NewClient(cfg.GRPCAddress, dialOpts...)
	if err != nil {
		logger.WithError(err).Error("Failed to create ML service client")
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	logger.WithField("address", cfg.GRPCAddress).Info("ML service client ready")
	return &GRPCClient{conn: conn, cfg: cfg, logger: logger}, nil
}

// Predict asks the model for result probabilities of a match
func (c *GRPCClient) Predict(ctx context.Context, match models.MatchContext, modelVersion string) (*ResultForecast, error) {
	start := time.Now()
	defer func() {
		MLPredictionLatency.WithLabelValues("grpc").Observe(time.Since(start).Seconds())
	}()

	req, err := predictRequest(c.cfg.ModelName, modelVersion, match)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	if c.cfg.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-api-key", c.cfg.APIKey)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, PredictMethod, req, resp); err != nil {
		mapped := mapRPCError(err)
		MLTransportErrorsTotal.WithLabelValues("Predict", errorType(mapped)).Inc()
		c.logger.WithError(err).WithField("match_id", match.MatchID).Debug("Result model call failed")
		return nil, mapped
	}

	forecast, err := decodeForecast(resp)
	if err != nil {
		MLTransportErrorsTotal.WithLabelValues("Predict", "decode").Inc()
		return nil, err
	}
	return forecast, nil
}

// HealthCheck probes the standard gRPC health service
func (c *GRPCClient) HealthCheck(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: healthService})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: status %s", ErrMLServiceUnavailable, resp.GetStatus())
	}
	return nil
}

// Close closes the gRPC connection
func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func predictRequest(modelName, modelVersion string, match models.MatchContext) (*structpb.Struct, error) {
	if modelVersion == "" {
		modelVersion = "latest"
	}
	return structpb.NewStruct(map[string]any{
		"model_name":    modelName,
		"model_version": modelVersion,
		"match_id":      match.MatchID.String(),
		"home_team":     match.HomeTeam,
		"away_team":     match.AwayTeam,
		"home":          teamPayload(match.Home),
		"away":          teamPayload(match.Away),
	})
}

func teamPayload(s models.TeamStats) map[string]any {
	var defense any
	if s.Rate.Defense != nil {
		defense = *s.Rate.Defense
	}
	return map[string]any{
		"attack":           s.Rate.Attack,
		"defense":          defense,
		"matches_played":   s.MatchesPlayed,
		"wins":             s.Wins,
		"draws":            s.Draws,
		"losses":           s.Losses,
		"goals_for":        s.GoalsFor,
		"goals_against":    s.GoalsAgainst,
		"points_per_match": s.PointsPerMatch(),
	}
}

func decodeForecast(resp *structpb.Struct) (*ResultForecast, error) {
	fields := resp.GetFields()
	forecast := &ResultForecast{
		Trained:      fields["trained"].GetBoolValue(),
		ModelVersion: fields["model_version"].GetStringValue(),
	}
	if !forecast.Trained {
		return forecast, nil
	}

	for key, dst := range map[string]*float64{
		"home_win": &forecast.HomeWin,
		"draw":     &forecast.Draw,
		"away_win": &forecast.AwayWin,
	} {
		v, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidResponse, key)
		}
		if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
			return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidResponse, key)
		}
		*dst = v.GetNumberValue()
	}
	return forecast, nil
}

func mapRPCError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case codes.Unavailable:
		return fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %v", ErrModelNotTrained, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMLServiceUnavailable):
		return "unavailable"
	case errors.Is(err, ErrModelNotTrained):
		return "not_trained"
	default:
		return "rpc_failed"
	}
}
