package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Gameto2025/Banco-Alura/scoring"

// ScoringMetrics records scoring outcomes as OpenTelemetry instruments.
type ScoringMetrics struct {
	predictions metric.Int64Counter
	failures    metric.Int64Counter
	probability metric.Float64Histogram
}

// NewScoringMetrics registers the scoring instruments on provider.
func NewScoringMetrics(provider metric.MeterProvider) (*ScoringMetrics, error) {
	meter := provider.Meter(meterName)

	predictions, err := meter.Int64Counter("churn_predictions_total",
		metric.WithDescription("Recorded churn predictions by risk tier."))
	if err != nil {
		return nil, fmt.Errorf("failed to create predictions counter: %w", err)
	}

	failures, err := meter.Int64Counter("churn_scoring_failures_total",
		metric.WithDescription("Scoring requests that produced no recorded prediction, by reason."))
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	probability, err := meter.Float64Histogram("churn_probability",
		metric.WithDescription("Distribution of predicted churn probabilities."),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.58, 0.65, 0.75, 0.85, 0.95, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create probability histogram: %w", err)
	}

	return &ScoringMetrics{
		predictions: predictions,
		failures:    failures,
		probability: probability,
	}, nil
}

// RecordPrediction counts one recorded prediction.
func (m *ScoringMetrics) RecordPrediction(ctx context.Context, riskTier string, probability float64) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(attribute.String("risk_tier", riskTier)))
	m.probability.Record(ctx, probability)
}

// RecordFailure counts one failed scoring request.
func (m *ScoringMetrics) RecordFailure(ctx context.Context, reason string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
