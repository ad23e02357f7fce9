package gtfs

import (
	"sort"

	"disruptions.onebusaway.org/internal/utils"
	"github.com/OneBusAway/go-gtfs"
	"github.com/tidwall/rtree"
)

// StopDistance is a stop with its distance in metres from a query point.
type StopDistance struct {
	Stop     gtfs.Stop
	Distance float64
}

// buildStopSpatialIndex indexes every stop that has coordinates. Points are
// stored as [lon, lat] so rectangles read x then y.
func buildStopSpatialIndex(stops []gtfs.Stop) *rtree.RTreeG[*gtfs.Stop] {
	tree := &rtree.RTreeG[*gtfs.Stop]{}
	for i := range stops {
		s := &stops[i]
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		point := [2]float64{*s.Longitude, *s.Latitude}
		tree.Insert(point, point, s)
	}
	return tree
}

// StopsNear returns stops within radius metres of lat/lon, nearest first.
func (manager *Manager) StopsNear(lat, lon, radius float64, maxCount int) []StopDistance {
	if radius <= 0 {
		return []StopDistance{}
	}

	bounds := utils.BoundsAround(lat, lon, radius)

	manager.staticMutex.RLock()
	index := manager.stopSpatialIndex
	manager.staticMutex.RUnlock()

	results := []StopDistance{}
	if index == nil {
		return results
	}

	index.Search(
		[2]float64{bounds.MinLon, bounds.MinLat},
		[2]float64{bounds.MaxLon, bounds.MaxLat},
		func(_, _ [2]float64, s *gtfs.Stop) bool {
			d := utils.Distance(lat, lon, *s.Latitude, *s.Longitude)
			if d <= radius {
				results = append(results, StopDistance{Stop: *s, Distance: d})
			}
			return true
		},
	)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Stop.Id < results[j].Stop.Id
	})
	if maxCount > 0 && len(results) > maxCount {
		results = results[:maxCount]
	}
	return results
}
