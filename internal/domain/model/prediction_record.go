package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Gameto2025/Banco-Alura/internal/domain/event"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
	"github.com/Gameto2025/Banco-Alura/pkg/events"
)

// PredictionRecord is the aggregate root for a stored churn prediction. It is written
// once and never updated; records disappear only through a bulk reset.
type PredictionRecord struct {
	createdAt time.Time
	events.EventCollector
	result      PredictionResult
	age         int
	countryCode int
	numProducts int
	id          uuid.UUID
}

// NewPredictionRecord captures a freshly scored prediction and records the
// corresponding domain events.
func NewPredictionRecord(attrs ClientAttributes, result PredictionResult, createdAt time.Time) *PredictionRecord {
	r := &PredictionRecord{
		id:          uuid.New(),
		age:         attrs.Age(),
		countryCode: attrs.CountryCode(),
		numProducts: attrs.NumProducts(),
		result:      result,
		createdAt:   createdAt.UTC(),
	}

	r.Record(event.NewPredictionRecorded(
		r.id, result.Probability().Float64(), result.Tier().String(), result.Outcome(),
		result.KeyFactors(), r.age, r.countryCode, r.numProducts, r.createdAt,
	))

	if result.Tier().Equal(valueobject.RiskTierHigh) {
		r.Record(event.NewHighRiskDetected(
			r.id, result.Probability().Float64(), result.Recommendation(),
			result.KeyFactors(), r.createdAt,
		))
	}

	return r
}

// ReconstructPredictionRecord rebuilds a record from persisted data (no events).
func ReconstructPredictionRecord(
	id uuid.UUID,
	age, countryCode, numProducts int,
	result PredictionResult,
	createdAt time.Time,
) *PredictionRecord {
	return &PredictionRecord{
		id:          id,
		age:         age,
		countryCode: countryCode,
		numProducts: numProducts,
		result:      result,
		createdAt:   createdAt,
	}
}

// --- Accessors ---

func (r *PredictionRecord) ID() uuid.UUID            { return r.id }
func (r *PredictionRecord) Age() int                 { return r.age }
func (r *PredictionRecord) CountryCode() int         { return r.countryCode }
func (r *PredictionRecord) NumProducts() int         { return r.numProducts }
func (r *PredictionRecord) Result() PredictionResult { return r.result }
func (r *PredictionRecord) CreatedAt() time.Time     { return r.createdAt }

// DomainEvents returns all accumulated domain events and clears them.
func (r *PredictionRecord) DomainEvents() []events.DomainEvent {
	return r.Drain()
}
