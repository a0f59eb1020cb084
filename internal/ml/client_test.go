package ml

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yourusername/goal-edge/internal/config"
	"github.com/yourusername/goal-edge/internal/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeModel answers PredictMethod through an unknown-service handler
type fakeModel struct {
	answer   map[string]any
	err      error
	received *structpb.Struct
}

func (f *fakeModel) handle(_ any, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)
	if method != PredictMethod {
		return status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
	req := &structpb.Struct{}
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	f.received = req
	if f.err != nil {
		return f.err
	}
	resp, err := structpb.NewStruct(f.answer)
	if err != nil {
		return err
	}
	return stream.SendMsg(resp)
}

func startModelServer(t *testing.T, model *fakeModel, servingStatus healthpb.HealthCheckResponse_ServingStatus) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnknownServiceHandler(model.handle))
	hs := health.NewServer()
	hs.SetServingStatus(healthService, servingStatus)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	cfg := config.MLServiceConfig{ModelName: SourceName, GRPCAddress: "passthrough:///bufnet", APIKey: "k"}
	client, err := NewGRPCClient(cfg, quietLogger(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testMatch() models.MatchContext {
	return models.MatchContext{
		MatchID:  uuid.MustParse("0b8f3c1e-8d1f-4f6b-9a0e-3c2a5d7e9f10"),
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Home:     models.TeamStats{Rate: models.NewTeamRate(2.1, 1.0), MatchesPlayed: 10, Wins: 6, Draws: 2, Losses: 2},
		Away:     models.TeamStats{Rate: models.TeamRate{Attack: 1.8}},
	}
}

func TestGRPCClientPredict(t *testing.T) {
	model := &fakeModel{answer: map[string]any{
		"home_win": 0.5, "draw": 0.3, "away_win": 0.2, "trained": true, "model_version": "v7",
	}}
	client := startModelServer(t, model, healthpb.HealthCheckResponse_SERVING)

	got, err := client.Predict(context.Background(), testMatch(), "v7")
	require.NoError(t, err)
	assert.True(t, got.Trained)
	assert.Equal(t, "v7", got.ModelVersion)
	assert.Equal(t, 0.5, got.HomeWin)

	fields := model.received.GetFields()
	assert.Equal(t, "Arsenal", fields["home_team"].GetStringValue())
	assert.Equal(t, "v7", fields["model_version"].GetStringValue())
	home := fields["home"].GetStructValue().GetFields()
	assert.Equal(t, 2.1, home["attack"].GetNumberValue())
	assert.Equal(t, 2.0, home["points_per_match"].GetNumberValue())
	away := fields["away"].GetStructValue().GetFields()
	_, isNull := away["defense"].GetKind().(*structpb.Value_NullValue)
	assert.True(t, isNull, "absent defense is sent as null")
}

func TestGRPCClientPredict_DefaultsVersion(t *testing.T) {
	model := &fakeModel{answer: map[string]any{"trained": false}}
	client := startModelServer(t, model, healthpb.HealthCheckResponse_SERVING)

	got, err := client.Predict(context.Background(), testMatch(), "")
	require.NoError(t, err)
	assert.False(t, got.Trained)
	assert.Equal(t, "latest", model.received.GetFields()["model_version"].GetStringValue())
}

func TestGRPCClientPredict_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   *fakeModel
		wantErr error
	}{
		{"unavailable", &fakeModel{err: status.Error(codes.Unavailable, "down")}, ErrMLServiceUnavailable},
		{"not trained", &fakeModel{err: status.Error(codes.FailedPrecondition, "no model")}, ErrModelNotTrained},
		{"internal", &fakeModel{err: status.Error(codes.Internal, "boom")}, ErrInvalidPrediction},
		{"missing field", &fakeModel{answer: map[string]any{"trained": true, "home_win": 0.5, "draw": 0.5}}, ErrInvalidResponse},
		{"wrong type", &fakeModel{answer: map[string]any{"trained": true, "home_win": "0.5", "draw": 0.3, "away_win": 0.2}}, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startModelServer(t, tt.model, healthpb.HealthCheckResponse_SERVING)
			_, err := client.Predict(context.Background(), testMatch(), "v1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGRPCClientHealthCheck(t *testing.T) {
	serving := startModelServer(t, &fakeModel{}, healthpb.HealthCheckResponse_SERVING)
	assert.NoError(t, serving.HealthCheck(context.Background()))

	notServing := startModelServer(t, &fakeModel{}, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.ErrorIs(t, notServing.HealthCheck(context.Background()), ErrMLServiceUnavailable)
}

func TestResultForecastProbabilities(t *testing.T) {
	probs, err := ResultForecast{HomeWin: 2, Draw: 1, AwayWin: 1}.Probabilities()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs.HomeWin, 1e-12)
	assert.InDelta(t, 1.0, probs.Sum(), 1e-12)

	_, err = ResultForecast{HomeWin: -0.1, Draw: 0.6, AwayWin: 0.5}.Probabilities()
	assert.ErrorIs(t, err, ErrInvalidPrediction)

	_, err = ResultForecast{}.Probabilities()
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}
