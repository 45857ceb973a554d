package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_ExposesInstruments(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "test", Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer provider.Shutdown(context.Background()) //nolint:errcheck

	counter, err := provider.Meter("test").Int64Counter("churn_test_events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "churn_test_events_total")
}

func TestInitTracer_RequiresEndpoint(t *testing.T) {
	_, err := InitTracer(context.Background(), TracingConfig{ServiceName: "test"})
	assert.Error(t, err)
}
