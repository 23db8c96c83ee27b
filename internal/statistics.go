package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"melp-api/internal/models"
	"melp-api/internal/stats"
)

// restaurantStatistics aggregates ratings around a point. The query is the
// JSON body of the GET, or the query string when the body is empty.
func (s *Server) restaurantStatistics(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatisticsQuery(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	box := stats.Around(*q.Latitude, *q.Longitude, *q.Radius)
	ratings, err := s.Restaurants.RatingsWithin(r.Context(), box)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := stats.Summarize(ratings)
	s.Metrics.ObserveStatistics(out.Count)
	writeJSON(w, http.StatusOK, out)
}

func parseStatisticsQuery(w http.ResponseWriter, r *http.Request) (models.StatisticsQuery, error) {
	var q models.StatisticsQuery

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return q, errors.New("could not read request body")
	}

	if len(bytes.TrimSpace(body)) == 0 {
		q, err = statisticsQueryFromValues(r.URL.Query())
		if err != nil {
			return q, err
		}
	} else if err := json.Unmarshal(body, &q); err != nil {
		return q, errors.New("latitude, longitude and radius must be numbers")
	}

	switch {
	case q.Latitude == nil:
		return q, errors.New("latitude is required")
	case q.Longitude == nil:
		return q, errors.New("longitude is required")
	case q.Radius == nil:
		return q, errors.New("radius is required")
	}
	return q, nil
}

func statisticsQueryFromValues(v url.Values) (models.StatisticsQuery, error) {
	var q models.StatisticsQuery
	fields := []struct {
		name string
		dst  **float64
	}{
		{"latitude", &q.Latitude},
		{"longitude", &q.Longitude},
		{"radius", &q.Radius},
	}
	for _, f := range fields {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return q, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = &n
	}
	return q, nil
}
