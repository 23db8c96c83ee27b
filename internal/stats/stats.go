// Package stats holds the geographic filter and rating aggregation behind
// GET /restaurants/statistics.
package stats

import (
	"math"

	"melp-api/internal/models"
)

// MetersPerDegree converts a radius in meters to degrees. It is the length
// of one degree of latitude and is applied to longitude as well, so the
// area widens less than it should away from the equator.
const MetersPerDegree = 111000.0

// BoundingBox is an axis-aligned, inclusive lat/lng rectangle.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Around returns the square box of half-side radiusMeters centred on
// (lat, lng). It stands in for a circular search.
func Around(lat, lng, radiusMeters float64) BoundingBox {
	d := radiusMeters / MetersPerDegree
	return BoundingBox{
		MinLat: lat - d,
		MaxLat: lat + d,
		MinLng: lng - d,
		MaxLng: lng + d,
	}
}

// Contains reports whether the point lies in b, edges included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Summarize returns the count, mean and population standard deviation of
// ratings. An empty input yields all zeros.
func Summarize(ratings []int) models.Statistics {
	n := len(ratings)
	if n == 0 {
		return models.Statistics{}
	}

	var sum float64
	for _, r := range ratings {
		sum += float64(r)
	}
	avg := sum / float64(n)

	var sq float64
	for _, r := range ratings {
		d := float64(r) - avg
		sq += d * d
	}

	return models.Statistics{
		Count: n,
		Avg:   avg,
		Std:   math.Sqrt(sq / float64(n)),
	}
}
