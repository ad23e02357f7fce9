package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected, tolerance    float64
	}{
		{"same point", -36.8485, 174.7633, -36.8485, 174.7633, 0, 0.001},
		{"britomart to aotea square", -36.8443, 174.7676, -36.8521, 174.7641, 921, 5},
		{"one metre north", 0, 0, 0.000009, 0, 1, 0.05},
		{"auckland to wellington", -36.8485, 174.7633, -41.2866, 174.7756, 493600, 2000},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343500, 1000},
		{"equator quarter turn", 0, 0, 0, 90, RadiusOfEarthInMeters * math.Pi / 2, 1},
		{"across the date line", 0, 179, 0, -179, 222390, 100},
		{"antipodal", 0, 0, 0, 180, RadiusOfEarthInMeters * math.Pi, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.tolerance)
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	assert.InDelta(t,
		Distance(-36.8443, 174.7676, -36.9, 174.8),
		Distance(-36.9, 174.8, -36.8443, 174.7676),
		1e-6)
	assert.InDelta(t,
		Distance(-36.8485, 174.7633, -41.2866, 174.7756),
		Distance(-41.2866, 174.7756, -36.8485, 174.7633),
		1e-6)
}

func TestDistance_ApproximationAgreesWithExactFormula(t *testing.T) {
	// Just either side of the 0.2 degree switch-over.
	near := Distance(-36.8, 174.7, -36.8, 174.8999)
	far := Distance(-36.8, 174.7, -36.8, 174.9001)
	assert.InDelta(t, near, far, 50)
}

func TestBoundsAround(t *testing.T) {
	lat, lon := 38.627003, -121.530398
	bounds := BoundsAround(lat, lon, 500)

	assert.InEpsilon(t, 0.00898, bounds.MaxLat-bounds.MinLat, 0.01)
	assert.InEpsilon(t, 0.01153, bounds.MaxLon-bounds.MinLon, 0.01)

	cLat, cLon := bounds.Center()
	assert.InDelta(t, lat, cLat, 1e-9)
	assert.InDelta(t, lon, cLon, 1e-9)

	// Every point on the circle lies inside the box.
	for _, p := range [][2]float64{{bounds.MaxLat, lon}, {lat, bounds.MinLon}} {
		assert.InDelta(t, 500, Distance(lat, lon, p[0], p[1]), 1)
	}
}

func TestBoundsBuilder(t *testing.T) {
	b := NewBoundsBuilder()
	_, ok := b.Bounds()
	assert.False(t, ok)

	b.Extend(-36.85, 174.76)
	b.Extend(-36.80, 174.70)
	b.Extend(-36.90, 174.80)

	bounds, ok := b.Bounds()
	assert.True(t, ok)
	assert.Equal(t, CoordinateBounds{MinLat: -36.90, MaxLat: -36.80, MinLon: 174.70, MaxLon: 174.80}, bounds)
}

func TestOverlaps(t *testing.T) {
	outer := CoordinateBounds{MinLat: 0, MaxLat: 4, MinLon: 0, MaxLon: 3}

	tests := []struct {
		name     string
		inner    CoordinateBounds
		expected bool
	}{
		{"inside", CoordinateBounds{MinLat: 1, MaxLat: 2, MinLon: 1, MaxLon: 2}, true},
		{"partial", CoordinateBounds{MinLat: 3, MaxLat: 5, MinLon: 2, MaxLon: 4}, true},
		{"touching edge", CoordinateBounds{MinLat: 4, MaxLat: 5, MinLon: 1, MaxLon: 2}, true},
		{"north", CoordinateBounds{MinLat: 5, MaxLat: 6, MinLon: 1, MaxLon: 2}, false},
		{"south", CoordinateBounds{MinLat: -6, MaxLat: -5, MinLon: 1, MaxLon: 2}, false},
		{"east", CoordinateBounds{MinLat: 1, MaxLat: 2, MinLon: 4, MaxLon: 5}, false},
		{"west", CoordinateBounds{MinLat: 1, MaxLat: 2, MinLon: -5, MaxLon: -4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inner.Overlaps(outer))
			assert.Equal(t, tt.expected, outer.Overlaps(tt.inner))
		})
	}
}
