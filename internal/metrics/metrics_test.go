package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPuzzle(t *testing.T) {
	m := New()
	m.RecordPuzzle("create", ResultOK)
	m.RecordPuzzle("create", ResultOK)
	m.RecordPuzzle("fetch", ResultNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.puzzlesTotal.WithLabelValues("create", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.puzzlesTotal.WithLabelValues("fetch", ResultNotFound)))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPuzzle("create", ResultOK)
		m.ObserveStore("put", time.Millisecond)
	})
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/fetch/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/fetch/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/fetch/{id}", "404")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordPuzzle("create", ResultInvalid)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `connections_puzzle_operations_total{operation="create",result="invalid"} 1`), body)
}
