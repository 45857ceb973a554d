package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/telemetry"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestScoringMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := telemetry.NewScoringMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPrediction(ctx, "HIGH", 0.92)
	m.RecordPrediction(ctx, "HIGH", 0.81)
	m.RecordPrediction(ctx, "LOW", 0.4)
	m.RecordFailure(ctx, "model_unavailable")

	metrics := collect(t, reader)

	preds, ok := metrics["churn_predictions_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byTier := make(map[string]int64)
	for _, dp := range preds.DataPoints {
		tier, _ := dp.Attributes.Value(attribute.Key("risk_tier"))
		byTier[tier.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"HIGH": 2, "LOW": 1}, byTier)

	failures, ok := metrics["churn_scoring_failures_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)

	hist, ok := metrics["churn_probability"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)
}
