package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/Gameto2025/Banco-Alura/internal/application/usecase"
	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
	"github.com/Gameto2025/Banco-Alura/pkg/events"
)

// --- Mock implementations ---

type memoryRepo struct {
	records []*model.PredictionRecord
	saveErr error
	findErr error
}

func (m *memoryRepo) Save(_ context.Context, r *model.PredictionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, r)
	return nil
}

func (m *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PredictionRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, r := range m.records {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) ListRecent(_ context.Context, limit int) ([]*model.PredictionRecord, error) {
	out := make([]*model.PredictionRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *memoryRepo) ListTopRisk(ctx context.Context, limit int) ([]*model.PredictionRecord, error) {
	return m.ListRecent(ctx, limit)
}

func (m *memoryRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(m.records))
	m.records = nil
	return n, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...events.DomainEvent) error { return nil }

type stubModel struct {
	unavailable bool
	probability float64
	err         error
}

func (s stubModel) Available() bool          { return !s.unavailable }
func (s stubModel) RequiredFields() []string { return []string{service.FieldInactiveMidAge} }
func (s stubModel) Evaluate(context.Context, map[string]float64) (float64, error) {
	if s.unavailable {
		return 0, model.ErrModelUnavailable
	}
	return s.probability, s.err
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func buildTestHandler(repo *memoryRepo, m stubModel) *ChurnServiceHandler {
	logger := testLogger()
	assembler := service.NewPredictionAssembler(
		service.NewRiskClassifier(service.DefaultClassificationPolicy()),
		service.NewExplanationGenerator(),
		nil,
	)
	return NewChurnServiceHandler(
		usecase.NewScoreClient(repo, nopPublisher{}, m, service.NewFeatureDeriver(2), assembler, nil, logger),
		usecase.NewGetPrediction(repo),
		usecase.NewListPredictions(repo),
		usecase.NewResetPredictions(repo, logger),
		logger,
	)
}

func requireGRPCCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected a gRPC status error")
	assert.Equal(t, code, st.Code())
}

// --- Tests ---

func TestChurnServiceHandler_ScoreClient(t *testing.T) {
	t.Run("scores and stores a prediction", func(t *testing.T) {
		repo := &memoryRepo{}
		h := buildTestHandler(repo, stubModel{probability: 0.92})

		resp, err := h.ScoreClient(context.Background(), &ScoreClientRequest{
			Age: 45.0, NumProducts: "3", IsActive: false, CountryCode: 2,
		})

		require.NoError(t, err)
		require.NotNil(t, resp.Prediction)
		assert.Equal(t, "HIGH", resp.Prediction.RiskTier)
		assert.Equal(t, "92.00%", resp.Prediction.Probability)
		assert.Equal(t, "Churn", resp.Prediction.Outcome)
		assert.Equal(t, int32(45), resp.Prediction.Age)
		assert.Len(t, resp.Prediction.KeyFactorList, 3)
		assert.Len(t, repo.records, 1)
	})

	t.Run("nil request scores defaults", func(t *testing.T) {
		h := buildTestHandler(&memoryRepo{}, stubModel{probability: 0.1})

		resp, err := h.ScoreClient(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "VERY_LOW", resp.Prediction.RiskTier)
		assert.Equal(t, int32(1), resp.Prediction.NumProducts)
	})

	t.Run("degraded model is unavailable", func(t *testing.T) {
		h := buildTestHandler(&memoryRepo{}, stubModel{unavailable: true})

		_, err := h.ScoreClient(context.Background(), &ScoreClientRequest{})
		requireGRPCCode(t, err, codes.Unavailable)
	})

	t.Run("evaluation failure is internal with a generic message", func(t *testing.T) {
		h := buildTestHandler(&memoryRepo{}, stubModel{err: errors.New("no leaf selected for node 7")})

		_, err := h.ScoreClient(context.Background(), &ScoreClientRequest{})
		requireGRPCCode(t, err, codes.Internal)
		assert.Equal(t, "scoring failed", status.Convert(err).Message())
	})

	t.Run("persistence failure returns no result", func(t *testing.T) {
		h := buildTestHandler(&memoryRepo{saveErr: errors.New("disk full")}, stubModel{probability: 0.5})

		resp, err := h.ScoreClient(context.Background(), &ScoreClientRequest{})
		requireGRPCCode(t, err, codes.Unavailable)
		assert.Nil(t, resp)
		assert.Equal(t, "prediction could not be recorded", status.Convert(err).Message())
	})
}

func TestChurnServiceHandler_GetPrediction(t *testing.T) {
	repo := &memoryRepo{}
	h := buildTestHandler(repo, stubModel{probability: 0.6})

	scored, err := h.ScoreClient(context.Background(), &ScoreClientRequest{Age: 30})
	require.NoError(t, err)

	t.Run("returns the stored prediction", func(t *testing.T) {
		resp, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: scored.Prediction.ID})
		require.NoError(t, err)
		assert.Equal(t, scored.Prediction, resp.Prediction)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: "not-a-uuid"})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("nil request", func(t *testing.T) {
		_, err := h.GetPrediction(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: uuid.NewString()})
		requireGRPCCode(t, err, codes.NotFound)
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		h := buildTestHandler(&memoryRepo{findErr: errors.New("timeout")}, stubModel{})
		_, err := h.GetPrediction(context.Background(), &GetPredictionRequest{ID: uuid.NewString()})
		requireGRPCCode(t, err, codes.Internal)
	})
}

func TestChurnServiceHandler_ListAndReset(t *testing.T) {
	repo := &memoryRepo{}
	h := buildTestHandler(repo, stubModel{probability: 0.4})

	for i := 0; i < 3; i++ {
		_, err := h.ScoreClient(context.Background(), &ScoreClientRequest{})
		require.NoError(t, err)
	}

	list, err := h.ListPredictions(context.Background(), &ListPredictionsRequest{Order: "top_risk", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Predictions, 2)

	_, err = h.ListPredictions(context.Background(), &ListPredictionsRequest{Order: "sideways"})
	requireGRPCCode(t, err, codes.InvalidArgument)

	reset, err := h.ResetPredictions(context.Background(), &ResetPredictionsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), reset.Deleted)

	list, err = h.ListPredictions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list.Predictions)
}

func TestServer_OverBufconn(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		want      healthpb.HealthCheckResponse_ServingStatus
	}{
		{"model loaded", true, healthpb.HealthCheckResponse_SERVING},
		{"model degraded", false, healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildTestHandler(&memoryRepo{}, stubModel{probability: 0.8, unavailable: !tt.available})
			srv, err := NewServer(h, ServerConfig{ServiceName: "churn-service"}, tt.available, testLogger())
			require.NoError(t, err)

			lis := bufconn.Listen(1 << 20)
			go func() { _ = srv.Serve(lis) }()
			t.Cleanup(srv.Stop)

			conn, err := grpclib.NewClient("passthrough:///bufnet",
				grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
				grpclib.WithTransportCredentials(insecure.NewCredentials()),
			)
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
			require.NoError(t, err)
			assert.Equal(t, tt.want, hc.Status)

			var resp ScoreClientResponse
			err = conn.Invoke(ctx, "/"+ServiceName+"/ScoreClient",
				&ScoreClientRequest{Age: 45, NumProducts: 3, IsActive: 0, CountryCode: 2}, &resp,
				grpclib.CallContentSubtype(CodecName))
			if tt.available {
				require.NoError(t, err)
				assert.Equal(t, "HIGH", resp.Prediction.RiskTier)
				assert.Equal(t, "#dc3545", resp.Prediction.ColorCode)
			} else {
				requireGRPCCode(t, err, codes.Unavailable)
			}
		})
	}
}
