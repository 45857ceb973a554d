package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Gameto2025/Banco-Alura/internal/application/dto"
	"github.com/Gameto2025/Banco-Alura/internal/application/usecase"
	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
)

// Compile-time assertion that ChurnServiceHandler implements ChurnServiceServer.
var _ ChurnServiceServer = (*ChurnServiceHandler)(nil)

// ChurnServiceHandler implements the gRPC ChurnServiceServer interface.
type ChurnServiceHandler struct {
	UnimplementedChurnServiceServer
	scoreClient      *usecase.ScoreClient
	getPrediction    *usecase.GetPrediction
	listPredictions  *usecase.ListPredictions
	resetPredictions *usecase.ResetPredictions
	logger           *slog.Logger
}

// NewChurnServiceHandler creates a new gRPC handler.
func NewChurnServiceHandler(
	scoreClient *usecase.ScoreClient,
	getPrediction *usecase.GetPrediction,
	listPredictions *usecase.ListPredictions,
	resetPredictions *usecase.ResetPredictions,
	logger *slog.Logger,
) *ChurnServiceHandler {
	return &ChurnServiceHandler{
		scoreClient:      scoreClient,
		getPrediction:    getPrediction,
		listPredictions:  listPredictions,
		resetPredictions: resetPredictions,
		logger:           logger,
	}
}

// Request/response message types.

// ScoreClientRequest carries the raw customer attributes. Values may be JSON
// numbers, numeric strings or booleans; absent or unusable values take defaults.
type ScoreClientRequest struct {
	Age         interface{} `json:"age,omitempty"`
	NumProducts interface{} `json:"numProducts,omitempty"`
	IsActive    interface{} `json:"isActive,omitempty"`
	CountryCode interface{} `json:"countryCode,omitempty"`
}

// PredictionMsg is the wire form of a stored prediction.
type PredictionMsg struct {
	ID             string   `json:"id"`
	CreatedAt      string   `json:"createdAt"`
	Score          float64  `json:"score"`
	Probability    string   `json:"probability"`
	RiskTier       string   `json:"riskTier"`
	ChurnDecision  bool     `json:"churnDecision"`
	Outcome        string   `json:"outcome"`
	KeyFactors     string   `json:"keyFactors"`
	KeyFactorList  []string `json:"keyFactorList"`
	Recommendation string   `json:"recommendation"`
	ColorCode      string   `json:"colorCode"`
	Age            int32    `json:"age"`
	CountryCode    int32    `json:"countryCode"`
	NumProducts    int32    `json:"numProducts"`
}

// ScoreClientResponse wraps the scored prediction.
type ScoreClientResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// GetPredictionRequest selects a stored prediction.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// GetPredictionResponse wraps the stored prediction.
type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// ListPredictionsRequest selects an ordering ("recent" or "top_risk") and a limit.
type ListPredictionsRequest struct {
	Order string `json:"order,omitempty"`
	Limit int32  `json:"limit,omitempty"`
}

// ListPredictionsResponse carries the listed predictions.
type ListPredictionsResponse struct {
	Predictions []*PredictionMsg `json:"predictions"`
}

// ResetPredictionsRequest is empty.
type ResetPredictionsRequest struct{}

// ResetPredictionsResponse reports the removed count.
type ResetPredictionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// ScoreClient scores a customer and returns the stored prediction.
func (h *ChurnServiceHandler) ScoreClient(ctx context.Context, req *ScoreClientRequest) (*ScoreClientResponse, error) {
	if req == nil {
		req = &ScoreClientRequest{}
	}

	result, err := h.scoreClient.Execute(ctx, dto.ScoreClientRequest{Attributes: req.attributes()})
	if err != nil {
		return nil, h.mapError(ctx, "ScoreClient", err)
	}

	return &ScoreClientResponse{Prediction: toPredictionMsg(result)}, nil
}

// GetPrediction returns a stored prediction by ID.
func (h *ChurnServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getPrediction.Execute(ctx, dto.GetPredictionRequest{PredictionID: id})
	if err != nil {
		return nil, h.mapError(ctx, "GetPrediction", err)
	}

	return &GetPredictionResponse{Prediction: toPredictionMsg(result)}, nil
}

// ListPredictions returns recent or top-risk predictions.
func (h *ChurnServiceHandler) ListPredictions(ctx context.Context, req *ListPredictionsRequest) (*ListPredictionsResponse, error) {
	if req == nil {
		req = &ListPredictionsRequest{}
	}

	order := dto.ListOrder(req.Order)
	switch order {
	case "", dto.ListOrderRecent, dto.ListOrderTopRisk:
	default:
		return nil, status.Errorf(codes.InvalidArgument, "invalid order %q", req.Order)
	}

	result, err := h.listPredictions.Execute(ctx, dto.ListPredictionsRequest{Order: order, Limit: int(req.Limit)})
	if err != nil {
		return nil, h.mapError(ctx, "ListPredictions", err)
	}

	msgs := make([]*PredictionMsg, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		msgs = append(msgs, toPredictionMsg(p))
	}
	return &ListPredictionsResponse{Predictions: msgs}, nil
}

// ResetPredictions deletes the prediction history.
func (h *ChurnServiceHandler) ResetPredictions(ctx context.Context, _ *ResetPredictionsRequest) (*ResetPredictionsResponse, error) {
	result, err := h.resetPredictions.Execute(ctx)
	if err != nil {
		return nil, h.mapError(ctx, "ResetPredictions", err)
	}
	return &ResetPredictionsResponse{Deleted: result.Deleted}, nil
}

// mapError translates application errors into gRPC statuses. Internal detail is
// logged, never returned.
func (h *ChurnServiceHandler) mapError(ctx context.Context, method string, err error) error {
	var code codes.Code
	var msg string

	switch {
	case errors.Is(err, context.Canceled):
		code, msg = codes.Canceled, "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = codes.DeadlineExceeded, "deadline exceeded"
	case errors.Is(err, model.ErrModelUnavailable):
		code, msg = codes.Unavailable, "churn model unavailable"
	case errors.Is(err, model.ErrPersistenceFailure):
		code, msg = codes.Unavailable, "prediction could not be recorded"
	case errors.Is(err, model.ErrEvaluationFailure):
		code, msg = codes.Internal, "scoring failed"
	case errors.Is(err, model.ErrPredictionNotFound):
		code, msg = codes.NotFound, "prediction not found"
	default:
		code, msg = codes.Internal, "internal error"
	}

	h.logger.ErrorContext(ctx, "request failed",
		slog.String("method", method),
		slog.String("code", code.String()),
		slog.String("error", err.Error()),
	)
	return status.Error(code, msg)
}

func (r *ScoreClientRequest) attributes() map[string]interface{} {
	attrs := make(map[string]interface{}, 4)
	set := func(key string, v interface{}) {
		if v != nil {
			attrs[key] = v
		}
	}
	set(model.AttrAge, r.Age)
	set(model.AttrNumProducts, r.NumProducts)
	set(model.AttrIsActive, r.IsActive)
	set(model.AttrCountryCode, r.CountryCode)
	return attrs
}

func toPredictionMsg(p dto.PredictionResponse) *PredictionMsg {
	return &PredictionMsg{
		ID:             p.ID.String(),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339Nano),
		Score:          p.Score,
		Probability:    p.Probability,
		RiskTier:       p.RiskTier,
		ChurnDecision:  p.ChurnDecision,
		Outcome:        p.Outcome,
		KeyFactors:     p.KeyFactors,
		KeyFactorList:  p.KeyFactorList,
		Recommendation: p.Recommendation,
		ColorCode:      p.ColorCode,
		Age:            int32(p.Age),
		CountryCode:    int32(p.CountryCode),
		NumProducts:    int32(p.NumProducts),
	}
}
