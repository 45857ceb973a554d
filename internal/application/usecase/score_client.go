package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Gameto2025/Banco-Alura/internal/application/dto"
	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/port"
	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
)

// Failure reasons reported to the ScoringRecorder.
const (
	FailureModelUnavailable = "model_unavailable"
	FailureEvaluation       = "evaluation"
	FailurePersistence      = "persistence"
)

// ScoringRecorder receives scoring outcomes for metrics.
type ScoringRecorder interface {
	RecordPrediction(ctx context.Context, riskTier string, probability float64)
	RecordFailure(ctx context.Context, reason string)
}

// NopRecorder discards scoring outcomes.
type NopRecorder struct{}

func (NopRecorder) RecordPrediction(context.Context, string, float64) {}
func (NopRecorder) RecordFailure(context.Context, string)             {}

// ScoreClient is the use case for scoring a customer's churn risk and recording the result.
type ScoreClient struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	model     port.ChurnModel
	recorder  ScoringRecorder
	deriver   *service.FeatureDeriver
	assembler *service.PredictionAssembler
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewScoreClient creates a new ScoreClient use case. A nil recorder disables metrics.
func NewScoreClient(
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	churnModel port.ChurnModel,
	deriver *service.FeatureDeriver,
	assembler *service.PredictionAssembler,
	recorder ScoringRecorder,
	logger *slog.Logger,
) *ScoreClient {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &ScoreClient{
		repo:      repo,
		publisher: publisher,
		model:     churnModel,
		deriver:   deriver,
		assembler: assembler,
		recorder:  recorder,
		logger:    logger,
		tracer:    otel.Tracer("github.com/Gameto2025/Banco-Alura/usecase"),
	}
}

// Execute derives features, evaluates the model, classifies and explains the
// probability, persists the record and publishes its events. A prediction that
// could not be stored is never reported as a success.
func (uc *ScoreClient) Execute(ctx context.Context, req dto.ScoreClientRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "ScoreClient.Execute")
	defer span.End()

	// 1. Fail fast when the model never loaded.
	if !uc.model.Available() {
		return uc.fail(ctx, span, FailureModelUnavailable, model.ErrModelUnavailable)
	}

	// 2. Coerce the raw attributes and derive the model features.
	attrs := model.ClientAttributesFromMap(req.Attributes)
	features := uc.deriver.Derive(attrs)
	input := service.BuildInputVector(uc.model.RequiredFields(), service.NamedFeatures(attrs, features))

	// 3. Evaluate the model.
	raw, err := uc.model.Evaluate(ctx, input)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			return uc.fail(ctx, span, FailureModelUnavailable, err)
		}
		if !errors.Is(err, model.ErrEvaluationFailure) {
			err = fmt.Errorf("%w: %w", model.ErrEvaluationFailure, err)
		}
		return uc.fail(ctx, span, FailureEvaluation, err)
	}
	probability, err := valueobject.NewProbability(raw)
	if err != nil {
		return uc.fail(ctx, span, FailureEvaluation, fmt.Errorf("%w: %w", model.ErrEvaluationFailure, err))
	}

	// 4. Classify, explain and assemble the record.
	record := uc.assembler.Assemble(attrs, features, probability)
	result := record.Result()
	span.SetAttributes(
		attribute.String("churn.risk_tier", result.Tier().String()),
		attribute.Float64("churn.probability", probability.Float64()),
	)

	// 5. Persist the record.
	if err := uc.repo.Save(ctx, record); err != nil {
		return uc.fail(ctx, span, FailurePersistence, fmt.Errorf("failed to save prediction: %w: %w", model.ErrPersistenceFailure, err))
	}

	// 6. Publish domain events. The prediction is already durable, so a broker
	// outage is logged rather than failing the request.
	if events := record.DomainEvents(); len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.WarnContext(ctx, "failed to publish prediction events",
				slog.String("prediction_id", record.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	uc.recorder.RecordPrediction(ctx, result.Tier().String(), probability.Float64())
	uc.logger.InfoContext(ctx, "churn prediction recorded",
		slog.String("prediction_id", record.ID().String()),
		slog.String("risk_tier", result.Tier().String()),
		slog.Float64("score", probability.Float64()),
	)

	return dto.FromModel(record), nil
}

func (uc *ScoreClient) fail(ctx context.Context, span trace.Span, reason string, err error) (dto.PredictionResponse, error) {
	uc.recorder.RecordFailure(ctx, reason)
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	uc.logger.WarnContext(ctx, "churn scoring failed",
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
	return dto.PredictionResponse{}, err
}
