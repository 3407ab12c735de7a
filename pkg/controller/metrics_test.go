package controller_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"wellflow/pkg/controller"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestWithMetrics_CountsPerRoute(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	withMetrics, err := controller.WithMetrics(mp.Meter("test"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/law", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	handler := withMetrics(mux)

	for range 2 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/law", nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var counted map[string]int64
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != "http.server.requests" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		counted = map[string]int64{}
		for _, dp := range sum.DataPoints {
			route, _ := dp.Attributes.Value(attribute.Key("route"))
			status, _ := dp.Attributes.Value(attribute.Key("status"))
			counted[route.AsString()+" "+status.AsString()] += dp.Value
		}
	}
	require.Equal(t, map[string]int64{
		"POST /v1/law 400": 2,
		"unmatched 404":    1,
	}, counted)
}
