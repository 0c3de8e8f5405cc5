package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesStockGauge(t *testing.T) {
	metrics := NewMetrics().EnableStockGauge()
	require.Same(t, metrics, metrics.EnableStockGauge())
	require.Contains(t, scrape(t, metrics), "stockroom_products_below_minimum 0")

	metrics.SetProductsBelowMinimum(7)
	require.Contains(t, scrape(t, metrics), "stockroom_products_below_minimum 7")
}

func TestStockGaugeIsOptIn(t *testing.T) {
	metrics := NewMetrics()
	metrics.SetProductsBelowMinimum(5)
	require.NotContains(t, scrape(t, metrics), "stockroom_products_below_minimum")
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/inventory/{id}")

	req := httptest.NewRequest(http.MethodGet, "/inventory/4", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `stockroom_http_requests_total{code="418",route="/inventory/{id}"} 1`)
	require.Contains(t, body, `stockroom_http_request_duration_seconds_bucket{route="/inventory/{id}"`)
}

func TestNilMetricsAreInert(t *testing.T) {
	var metrics *Metrics
	metrics.SetProductsBelowMinimum(3)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	require.NotNil(t, metrics.Middleware(next))

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
