package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
)

// DefaultListLimit applies when a listing request carries no positive limit.
const DefaultListLimit = 10

// MaxListLimit caps listing requests.
const MaxListLimit = 500

// ScoreClientRequest is the input DTO for the ScoreClient use case. Attribute values
// are loosely typed and coerced with defaults.
type ScoreClientRequest struct {
	Attributes map[string]interface{} `json:"attributes"`
}

// PredictionResponse is the output DTO describing a stored prediction.
type PredictionResponse struct {
	CreatedAt      time.Time `json:"created_at"`
	KeyFactorList  []string  `json:"key_factor_list"`
	ID             uuid.UUID `json:"id"`
	Probability    string    `json:"probability"`
	RiskTier       string    `json:"risk_tier"`
	Outcome        string    `json:"outcome"`
	KeyFactors     string    `json:"key_factors"`
	Recommendation string    `json:"recommendation"`
	ColorCode      string    `json:"color_code"`
	Score          float64   `json:"score"`
	Age            int       `json:"age"`
	CountryCode    int       `json:"country_code"`
	NumProducts    int       `json:"num_products"`
	ChurnDecision  bool      `json:"churn_decision"`
}

// GetPredictionRequest is the input DTO for retrieving a prediction.
type GetPredictionRequest struct {
	PredictionID uuid.UUID `json:"prediction_id"`
}

// ListOrder selects how predictions are listed.
type ListOrder string

const (
	ListOrderRecent  ListOrder = "recent"
	ListOrderTopRisk ListOrder = "top_risk"
)

// ListPredictionsRequest is the input DTO for listing predictions.
type ListPredictionsRequest struct {
	Order ListOrder `json:"order"`
	Limit int       `json:"limit"`
}

// ListPredictionsResponse wraps a listing.
type ListPredictionsResponse struct {
	Predictions []PredictionResponse `json:"predictions"`
}

// ResetPredictionsResponse reports how many predictions a reset removed.
type ResetPredictionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// FromModel maps a domain record to the response DTO.
func FromModel(r *model.PredictionRecord) PredictionResponse {
	result := r.Result()
	return PredictionResponse{
		ID:             r.ID(),
		CreatedAt:      r.CreatedAt(),
		Score:          result.Probability().Float64(),
		Probability:    result.Probability().Percent(),
		RiskTier:       result.Tier().String(),
		ChurnDecision:  result.ChurnDecision(),
		Outcome:        result.Outcome(),
		KeyFactors:     result.JoinedFactors(),
		KeyFactorList:  result.KeyFactors(),
		Recommendation: result.Recommendation(),
		ColorCode:      result.ColorCode(),
		Age:            r.Age(),
		CountryCode:    r.CountryCode(),
		NumProducts:    r.NumProducts(),
	}
}

// FromModels maps a slice of records.
func FromModels(records []*model.PredictionRecord) []PredictionResponse {
	out := make([]PredictionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromModel(r))
	}
	return out
}
