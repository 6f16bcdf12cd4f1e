package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	t.Parallel()

	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/products/{id}", "404")))
}

func TestCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.ResetEvent(ResetRequested)
	m.ResetEvent(ResetRequested)
	m.ResetEvent(ResetExpired)
	m.DescriptionGenerated(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resetEvents.WithLabelValues(ResetRequested)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resetEvents.WithLabelValues(ResetExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.descriptions.WithLabelValues("failure")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ResetEvent(ResetVerified)
		nilMetrics.DescriptionGenerated(true)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ResetEvent(ResetCompleted)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_password_reset_events_total")
}
