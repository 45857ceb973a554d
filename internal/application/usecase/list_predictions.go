package usecase

import (
	"context"
	"fmt"

	"github.com/Gameto2025/Banco-Alura/internal/application/dto"
	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/port"
)

// ListPredictions is the use case for browsing stored predictions, either the most
// recent ones or the riskiest ones.
type ListPredictions struct {
	repo port.PredictionRepository
}

// NewListPredictions creates a new ListPredictions use case.
func NewListPredictions(repo port.PredictionRepository) *ListPredictions {
	return &ListPredictions{repo: repo}
}

// Execute lists predictions. Non-positive limits fall back to dto.DefaultListLimit
// and oversized ones are capped at dto.MaxListLimit.
func (uc *ListPredictions) Execute(ctx context.Context, req dto.ListPredictionsRequest) (dto.ListPredictionsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = dto.DefaultListLimit
	}
	if limit > dto.MaxListLimit {
		limit = dto.MaxListLimit
	}

	var (
		records []*model.PredictionRecord
		err     error
	)
	switch req.Order {
	case dto.ListOrderTopRisk:
		records, err = uc.repo.ListTopRisk(ctx, limit)
	case dto.ListOrderRecent, "":
		records, err = uc.repo.ListRecent(ctx, limit)
	default:
		return dto.ListPredictionsResponse{}, fmt.Errorf("unknown list order %q", req.Order)
	}
	if err != nil {
		return dto.ListPredictionsResponse{}, fmt.Errorf("failed to list predictions: %w", err)
	}

	return dto.ListPredictionsResponse{Predictions: dto.FromModels(records)}, nil
}
