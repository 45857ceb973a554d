package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gameto2025/Banco-Alura/internal/application/dto"
	"github.com/Gameto2025/Banco-Alura/internal/domain/port"
)

// ResetPredictions is the administrative use case that removes every stored prediction.
type ResetPredictions struct {
	repo   port.PredictionRepository
	logger *slog.Logger
}

// NewResetPredictions creates a new ResetPredictions use case.
func NewResetPredictions(repo port.PredictionRepository, logger *slog.Logger) *ResetPredictions {
	return &ResetPredictions{repo: repo, logger: logger}
}

// Execute deletes all predictions and reports how many were removed.
func (uc *ResetPredictions) Execute(ctx context.Context) (dto.ResetPredictionsResponse, error) {
	deleted, err := uc.repo.DeleteAll(ctx)
	if err != nil {
		return dto.ResetPredictionsResponse{}, fmt.Errorf("failed to reset predictions: %w", err)
	}

	uc.logger.InfoContext(ctx, "prediction history reset", slog.Int64("deleted", deleted))
	return dto.ResetPredictionsResponse{Deleted: deleted}, nil
}
