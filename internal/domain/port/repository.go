package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/pkg/events"
)

// PredictionRepository defines the persistence port for churn predictions.
type PredictionRepository interface {
	// Save persists a newly scored prediction.
	Save(ctx context.Context, record *model.PredictionRecord) error

	// FindByID retrieves a prediction by its identifier. It returns nil when none exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.PredictionRecord, error)

	// ListRecent returns up to limit predictions, newest first.
	ListRecent(ctx context.Context, limit int) ([]*model.PredictionRecord, error)

	// ListTopRisk returns up to limit predictions ordered by descending score.
	ListTopRisk(ctx context.Context, limit int) ([]*model.PredictionRecord, error)

	// DeleteAll removes every stored prediction and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// ChurnModel is the evaluation contract of the pretrained churn model.
type ChurnModel interface {
	// Available reports whether the model loaded and can be evaluated.
	Available() bool

	// RequiredFields lists the input field names the model declares, in declaration order.
	RequiredFields() []string

	// Evaluate runs the model on named numeric features and returns the churn probability.
	Evaluate(ctx context.Context, features map[string]float64) (float64, error)
}
