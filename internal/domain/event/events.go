package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gameto2025/Banco-Alura/pkg/events"
)

const (
	// EventTypePredictionRecorded is emitted when a churn prediction has been stored.
	EventTypePredictionRecorded = "churn.prediction.recorded"

	// EventTypeHighRiskDetected is emitted when a prediction lands in the HIGH tier.
	EventTypeHighRiskDetected = "churn.high_risk.detected"

	// AggregateTypePrediction names the aggregate producing churn events.
	AggregateTypePrediction = "PredictionRecord"
)

// PredictionRecorded is published for every stored churn prediction.
type PredictionRecorded struct {
	events.BaseEvent `json:"-"`
	RecordedAt       time.Time `json:"recorded_at"`
	PredictionID     uuid.UUID `json:"prediction_id"`
	RiskTier         string    `json:"risk_tier"`
	Outcome          string    `json:"outcome"`
	KeyFactors       []string  `json:"key_factors"`
	Score            float64   `json:"score"`
	Age              int       `json:"age"`
	CountryCode      int       `json:"country_code"`
	NumProducts      int       `json:"num_products"`
}

// NewPredictionRecorded creates a PredictionRecorded event.
func NewPredictionRecorded(
	predictionID uuid.UUID,
	score float64,
	riskTier, outcome string,
	keyFactors []string,
	age, countryCode, numProducts int,
	recordedAt time.Time,
) PredictionRecorded {
	e := PredictionRecorded{
		PredictionID: predictionID,
		Score:        score,
		RiskTier:     riskTier,
		Outcome:      outcome,
		KeyFactors:   keyFactors,
		Age:          age,
		CountryCode:  countryCode,
		NumProducts:  numProducts,
		RecordedAt:   recordedAt,
	}
	e.BaseEvent = events.NewBaseEvent(EventTypePredictionRecorded, predictionID, AggregateTypePrediction,
		events.MarshalPayload(e), events.WithOccurredAt(recordedAt))
	return e
}

// HighRiskDetected is published when a customer needs immediate retention contact.
type HighRiskDetected struct {
	events.BaseEvent `json:"-"`
	DetectedAt       time.Time `json:"detected_at"`
	PredictionID     uuid.UUID `json:"prediction_id"`
	Recommendation   string    `json:"recommendation"`
	KeyFactors       []string  `json:"key_factors"`
	Score            float64   `json:"score"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(
	predictionID uuid.UUID,
	score float64,
	recommendation string,
	keyFactors []string,
	detectedAt time.Time,
) HighRiskDetected {
	e := HighRiskDetected{
		PredictionID:   predictionID,
		Score:          score,
		Recommendation: recommendation,
		KeyFactors:     keyFactors,
		DetectedAt:     detectedAt,
	}
	e.BaseEvent = events.NewBaseEvent(EventTypeHighRiskDetected, predictionID, AggregateTypePrediction,
		events.MarshalPayload(e), events.WithOccurredAt(detectedAt))
	return e
}
