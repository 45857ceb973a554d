package resilience

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/port"
)

// RetryPolicy bounds the exponential backoff applied to writes.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// RetryingRepository decorates a port.PredictionRepository, retrying Save with
// exponential backoff. Reads and deletes pass through unchanged.
type RetryingRepository struct {
	next   port.PredictionRepository
	logger *slog.Logger
	policy RetryPolicy
}

var _ port.PredictionRepository = (*RetryingRepository)(nil)

// NewRetryingRepository wraps next. MaxAttempts below 1 is treated as 1.
func NewRetryingRepository(next port.PredictionRepository, policy RetryPolicy, logger *slog.Logger) *RetryingRepository {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryingRepository{next: next, policy: policy, logger: logger}
}

func (r *RetryingRepository) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		eb.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		eb.MaxInterval = r.policy.MaxInterval
	}
	// Attempts, not elapsed time, bound the retry.
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.policy.MaxAttempts-1)), ctx)
}

// Save retries transient failures. Data exceptions and integrity violations
// fail on the first attempt. The last error is returned once attempts are
// exhausted or the context ends.
func (r *RetryingRepository) Save(ctx context.Context, record *model.PredictionRecord) error {
	attempt := 0
	op := func() error {
		attempt++
		err := r.next.Save(ctx, record)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.logger.WarnContext(ctx, "prediction save failed, retrying",
			slog.String("prediction_id", record.ID().String()),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()),
		)
	}

	return backoff.RetryNotify(op, r.newBackOff(ctx), notify)
}

// isPermanent reports errors that a retry cannot fix: SQLSTATE class 22 (data
// exception) and class 23 (integrity constraint violation).
func isPermanent(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
}

func (r *RetryingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PredictionRecord, error) {
	return r.next.FindByID(ctx, id)
}

func (r *RetryingRepository) ListRecent(ctx context.Context, limit int) ([]*model.PredictionRecord, error) {
	return r.next.ListRecent(ctx, limit)
}

func (r *RetryingRepository) ListTopRisk(ctx context.Context, limit int) ([]*model.PredictionRecord, error) {
	return r.next.ListTopRisk(ctx, limit)
}

func (r *RetryingRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.next.DeleteAll(ctx)
}
