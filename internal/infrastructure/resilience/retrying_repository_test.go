package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/resilience"
)

type flakyRepository struct {
	err      error
	failures int
	calls    int
	deleted  int64
}

func (f *flakyRepository) Save(_ context.Context, _ *model.PredictionRecord) error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return errors.New("connection reset")
	}
	return nil
}

func (f *flakyRepository) FindByID(context.Context, uuid.UUID) (*model.PredictionRecord, error) {
	f.calls++
	return nil, errors.New("read failed")
}

func (f *flakyRepository) ListRecent(context.Context, int) ([]*model.PredictionRecord, error) {
	return nil, nil
}

func (f *flakyRepository) ListTopRisk(context.Context, int) ([]*model.PredictionRecord, error) {
	return nil, nil
}

func (f *flakyRepository) DeleteAll(context.Context) (int64, error) {
	return f.deleted, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(t *testing.T) *model.PredictionRecord {
	t.Helper()
	p, err := valueobject.NewProbability(0.4)
	require.NoError(t, err)
	result := model.NewPredictionResult(p, valueobject.RiskTierLow, false, []string{"stable profile"}, "Normal follow-up", "#20c997")
	return model.NewPredictionRecord(model.DefaultClientAttributes(), result, time.Now())
}

var fastPolicy = resilience.RetryPolicy{
	MaxAttempts:     3,
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
}

func TestRetryingRepository_Save(t *testing.T) {
	t.Run("recovers from transient failures", func(t *testing.T) {
		inner := &flakyRepository{failures: 2}
		repo := resilience.NewRetryingRepository(inner, fastPolicy, testLogger())

		require.NoError(t, repo.Save(context.Background(), testRecord(t)))
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		inner := &flakyRepository{failures: 10}
		repo := resilience.NewRetryingRepository(inner, fastPolicy, testLogger())

		err := repo.Save(context.Background(), testRecord(t))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, 3, inner.calls)
	})

	t.Run("single attempt policy does not retry", func(t *testing.T) {
		inner := &flakyRepository{failures: 1}
		repo := resilience.NewRetryingRepository(inner, resilience.RetryPolicy{}, testLogger())

		require.Error(t, repo.Save(context.Background(), testRecord(t)))
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		inner := &flakyRepository{failures: 10}
		policy := resilience.RetryPolicy{MaxAttempts: 50, InitialInterval: time.Second, MaxInterval: time.Second}
		repo := resilience.NewRetryingRepository(inner, policy, testLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		require.Error(t, repo.Save(ctx, testRecord(t)))
		assert.Less(t, inner.calls, 50)
	})
}

func TestRetryingRepository_PassThrough(t *testing.T) {
	inner := &flakyRepository{deleted: 4}
	repo := resilience.NewRetryingRepository(inner, fastPolicy, testLogger())

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls, "reads are not retried")

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestRetryingRepository_SavePermanentErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		calls int
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, 1},
		{"integer out of range", fmt.Errorf("failed to save prediction: %w", &pgconn.PgError{Code: "22003"}), 1},
		{"check violation", &pgconn.PgError{Code: "23514"}, 1},
		{"connection failure retries", &pgconn.PgError{Code: "08006"}, 3},
		{"serialization failure retries", &pgconn.PgError{Code: "40001"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &flakyRepository{failures: 10, err: tt.err}
			repo := resilience.NewRetryingRepository(inner, fastPolicy, testLogger())

			err := repo.Save(context.Background(), testRecord(t))
			require.Error(t, err)
			var pgErr *pgconn.PgError
			require.ErrorAs(t, err, &pgErr)
			assert.Equal(t, tt.calls, inner.calls)
		})
	}
}
