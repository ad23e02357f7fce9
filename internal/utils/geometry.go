// Package utils holds the geographic helpers behind the stop-proximity search
// and the feed region.
package utils

import "math"

// RadiusOfEarthInMeters is the mean earth radius used by OneBusAway.
const RadiusOfEarthInMeters = 6371010.0

const degToRad = math.Pi / 180

// CoordinateBounds is a lat/lon bounding box in degrees.
type CoordinateBounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Distance returns the great-circle distance in metres. Points less than
// 0.2 degrees apart use the equirectangular approximation, which is what
// nearly every stop lookup hits.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := lat1*degToRad, lat2*degToRad
	dLon := (lon2 - lon1) * degToRad

	if math.Abs(lat2-lat1) < 0.2 && math.Abs(lon2-lon1) < 0.2 {
		x := dLon * math.Cos((phi1+phi2)/2)
		y := phi2 - phi1
		return RadiusOfEarthInMeters * math.Hypot(x, y)
	}

	y := math.Hypot(
		math.Cos(phi2)*math.Sin(dLon),
		math.Cos(phi1)*math.Sin(phi2)-math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon))
	x := math.Sin(phi1)*math.Sin(phi2) + math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLon)
	return RadiusOfEarthInMeters * math.Atan2(y, x)
}

// BoundsAround returns the box enclosing a circle of radius metres.
func BoundsAround(lat, lon, radius float64) CoordinateBounds {
	latOffset := radius / RadiusOfEarthInMeters / degToRad
	lonOffset := radius / (math.Cos(lat*degToRad) * RadiusOfEarthInMeters) / degToRad
	return CoordinateBounds{
		MinLat: lat - latOffset,
		MaxLat: lat + latOffset,
		MinLon: lon - lonOffset,
		MaxLon: lon + lonOffset,
	}
}

// BoundsBuilder accumulates points into a bounding box.
type BoundsBuilder struct {
	bounds CoordinateBounds
	empty  bool
}

func NewBoundsBuilder() *BoundsBuilder {
	return &BoundsBuilder{empty: true}
}

func (b *BoundsBuilder) Extend(lat, lon float64) {
	if b.empty {
		b.bounds = CoordinateBounds{MinLat: lat, MaxLat: lat, MinLon: lon, MaxLon: lon}
		b.empty = false
		return
	}
	b.bounds.MinLat = min(b.bounds.MinLat, lat)
	b.bounds.MaxLat = max(b.bounds.MaxLat, lat)
	b.bounds.MinLon = min(b.bounds.MinLon, lon)
	b.bounds.MaxLon = max(b.bounds.MaxLon, lon)
}

// Bounds returns the box and false when no point was added.
func (b *BoundsBuilder) Bounds() (CoordinateBounds, bool) {
	return b.bounds, !b.empty
}

// Center returns the midpoint of the box.
func (cb CoordinateBounds) Center() (lat, lon float64) {
	return (cb.MinLat + cb.MaxLat) / 2, (cb.MinLon + cb.MaxLon) / 2
}

// Overlaps reports whether the boxes share any area, edges included.
func (cb CoordinateBounds) Overlaps(other CoordinateBounds) bool {
	return cb.MaxLat >= other.MinLat &&
		cb.MinLat <= other.MaxLat &&
		cb.MaxLon >= other.MinLon &&
		cb.MinLon <= other.MaxLon
}
