package gtfs

import (
	"disruptions.onebusaway.org/internal/utils"
	"github.com/OneBusAway/go-gtfs"
	"github.com/twpayne/go-polyline"
)

// RegionBounds is the centre and span of the area the feed covers.
type RegionBounds struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	LatSpan float64 `json:"latSpan"`
	LonSpan float64 `json:"lonSpan"`
}

// ComputeRegionBounds calculates the geographic boundaries of the feed from
// shape points, falling back to stop locations for feeds without shapes.
// Returns nil when neither carries a coordinate.
func ComputeRegionBounds(shapes []gtfs.Shape, stops []gtfs.Stop) *RegionBounds {
	builder := utils.NewBoundsBuilder()
	for _, shape := range shapes {
		for _, point := range shape.Points {
			builder.Extend(point.Latitude, point.Longitude)
		}
	}
	if _, ok := builder.Bounds(); !ok {
		for _, stop := range stops {
			if stop.Latitude == nil || stop.Longitude == nil {
				continue
			}
			builder.Extend(*stop.Latitude, *stop.Longitude)
		}
	}

	bounds, ok := builder.Bounds()
	if !ok {
		return nil
	}
	lat, lon := bounds.Center()
	return &RegionBounds{
		Lat:     lat,
		Lon:     lon,
		LatSpan: bounds.MaxLat - bounds.MinLat,
		LonSpan: bounds.MaxLon - bounds.MinLon,
	}
}

// GetRegionBounds returns the feed's bounds, or nil before the first load.
func (manager *Manager) GetRegionBounds() *RegionBounds {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.regionBounds
}

// EncodedShapeForRoute returns the route's longest shape as a Google encoded
// polyline, which the diversion map draws under the affected stops.
func (manager *Manager) EncodedShapeForRoute(routeID string) (string, bool) {
	manager.staticMutex.RLock()
	shape, ok := manager.shapesByRoute[routeID]
	manager.staticMutex.RUnlock()

	if !ok || shape == nil || len(shape.Points) == 0 {
		return "", false
	}

	coords := make([][]float64, 0, len(shape.Points))
	for _, p := range shape.Points {
		coords = append(coords, []float64{p.Latitude, p.Longitude})
	}
	return string(polyline.EncodeCoords(coords)), true
}
