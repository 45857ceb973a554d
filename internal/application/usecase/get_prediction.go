package usecase

import (
	"context"
	"fmt"

	"github.com/Gameto2025/Banco-Alura/internal/application/dto"
	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/port"
)

// GetPrediction is the use case for retrieving a stored churn prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute retrieves a prediction by ID.
func (uc *GetPrediction) Execute(ctx context.Context, req dto.GetPredictionRequest) (dto.PredictionResponse, error) {
	record, err := uc.repo.FindByID(ctx, req.PredictionID)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if record == nil {
		return dto.PredictionResponse{}, fmt.Errorf("%w: %s", model.ErrPredictionNotFound, req.PredictionID)
	}

	return dto.FromModel(record), nil
}
