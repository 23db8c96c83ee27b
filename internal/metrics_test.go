package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestMetricsEndpoint(t *testing.T) {
	metrics := NewMetrics()
	router := chi.NewRouter()
	router.Use(metrics.Middleware())

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	router.Get("/metrics", metrics.Handler().ServeHTTP)

	testW := httptest.NewRecorder()
	router.ServeHTTP(testW, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, testW.Code)
	assert.Equal(t, "pong", testW.Body.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, metric := range []string{"http_requests_total", "http_request_duration_seconds"} {
		assert.Contains(t, body, metric)
	}
	assert.Contains(t, body, `path="/ping"`)
	assert.Contains(t, body, `status="200"`)
}

func TestMetricsWithChiRoutePatterns(t *testing.T) {
	metrics := NewMetrics()
	router := chi.NewRouter()
	router.Use(metrics.Middleware())

	router.Route("/restaurants", func(r chi.Router) {
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
	})
	router.Get("/metrics", metrics.Handler().ServeHTTP)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/restaurants/123", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, `path="/restaurants/{id}"`)
	assert.Contains(t, body, `status="404"`)
	assert.False(t, strings.Contains(body, `path="/restaurants/123"`))
}

func TestObserveStatistics(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveStatistics(2)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Contains(t, w.Body.String(), "restaurant_statistics_matched_count 1")
	assert.Contains(t, w.Body.String(), "restaurant_statistics_matched_sum 2")
}
