package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"testing"

	"melp-api/internal/models"
	"melp-api/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Server, rows ...map[string]any) {
	t.Helper()
	for _, r := range rows {
		w := do(t, s, "POST", "/restaurants", r)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func point(id string, rating int, lat, lng float64) map[string]any {
	return map[string]any{"id": id, "rating": rating, "lat": lat, "lng": lng}
}

func TestStatisticsNoMatches(t *testing.T) {
	s := newTestServer(t)
	seed(t, s, point("far", 5, 40, 40))

	w := do(t, s, "GET", "/restaurants/statistics", `{"latitude": 0, "longitude": 0, "radius": 1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 0, "avg": 0, "std": 0}`, w.Body.String())
}

func TestStatisticsTwoRestaurants(t *testing.T) {
	s := newTestServer(t)
	seed(t, s, point("a", 2, 0, 0), point("b", 4, 0, 0))

	w := do(t, s, "GET", "/restaurants/statistics", `{"latitude": 0, "longitude": 0, "radius": 1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 2, "avg": 3.0, "std": 1.0}`, w.Body.String())
}

func TestStatisticsBoundingBoxEdge(t *testing.T) {
	s := newTestServer(t)
	edge := 1000 / stats.MetersPerDegree
	seed(t, s,
		point("edge", 4, edge, 0),
		point("corner", 2, edge, -edge),
		point("beyond", 1, math.Nextafter(edge, 1), 0),
	)

	w := do(t, s, "GET", "/restaurants/statistics", `{"latitude": 0, "longitude": 0, "radius": 1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 2, "avg": 3, "std": 1}`, w.Body.String())
}

func TestStatisticsFromQueryString(t *testing.T) {
	s := newTestServer(t)
	seed(t, s, point("a", 1, 19.44, -99.12), point("b", 3, 19.441, -99.121), point("c", 4, 25, -99.12))

	w := do(t, s, "GET", "/restaurants/statistics?latitude=19.44&longitude=-99.12&radius=500", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 2, "avg": 2, "std": 1}`, w.Body.String())
}

func TestStatisticsSkipsUnratedRestaurants(t *testing.T) {
	s := newTestServer(t)
	seed(t, s, point("rated", 5, 0, 0), map[string]any{"id": "unrated", "lat": 0, "lng": 0})

	w := do(t, s, "GET", "/restaurants/statistics", `{"latitude": 0, "longitude": 0, "radius": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 1, "avg": 5, "std": 0}`, w.Body.String())
}

func TestStatisticsRejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
		body any
		want string
	}{
		{name: "no input", path: "/restaurants/statistics", want: "latitude is required"},
		{name: "missing radius", path: "/restaurants/statistics", body: `{"latitude": 1, "longitude": 2}`, want: "radius is required"},
		{name: "missing longitude", path: "/restaurants/statistics", body: `{"latitude": 1, "radius": 2}`, want: "longitude is required"},
		{name: "string value", path: "/restaurants/statistics", body: `{"latitude": "x", "longitude": 2, "radius": 3}`, want: "must be numbers"},
		{name: "malformed json", path: "/restaurants/statistics", body: `{"latitude": `, want: "must be numbers"},
		{name: "bad query value", path: "/restaurants/statistics?latitude=abc&longitude=1&radius=1", want: "latitude must be a number"},
		{name: "nan query value", path: "/restaurants/statistics?latitude=1&longitude=NaN&radius=1", want: "longitude must be a number"},
		{name: "partial query", path: "/restaurants/statistics?latitude=1&longitude=1", want: "radius is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, "GET", tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestStatisticsIsNotShadowedByItemRoute(t *testing.T) {
	s := newTestServer(t)
	seed(t, s, map[string]any{"id": "statistics", "rating": 5, "lat": 0, "lng": 0})

	w := do(t, s, "GET", "/restaurants/statistics", `{"latitude": 0, "longitude": 0, "radius": 1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out models.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Count, fmt.Sprintf("body: %s", w.Body.String()))
}
