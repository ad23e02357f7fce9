package gtfs

import (
	"sort"
	"strings"

	"github.com/OneBusAway/go-gtfs"
)

const defaultSearchLimit = 20

// GetRoutes returns every route sorted by short name.
func (manager *Manager) GetRoutes() []gtfs.Route {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	if manager.gtfsData == nil {
		return []gtfs.Route{}
	}
	routes := append([]gtfs.Route(nil), manager.gtfsData.Routes...)
	sortRoutes(routes)
	return routes
}

// GetStops returns every stop in feed order.
func (manager *Manager) GetStops() []gtfs.Stop {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	if manager.gtfsData == nil {
		return []gtfs.Stop{}
	}
	return append([]gtfs.Stop(nil), manager.gtfsData.Stops...)
}

func (manager *Manager) FindRoute(routeID string) (gtfs.Route, bool) {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	r, ok := manager.routesMap[routeID]
	if !ok {
		return gtfs.Route{}, false
	}
	return *r, true
}

func (manager *Manager) FindStop(stopID string) (gtfs.Stop, bool) {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	s, ok := manager.stopsMap[stopID]
	if !ok {
		return gtfs.Stop{}, false
	}
	return *s, true
}

// RoutesForStop returns the routes with at least one trip calling at stopID.
func (manager *Manager) RoutesForStop(stopID string) []gtfs.Route {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	routes := make([]gtfs.Route, 0, len(manager.routesByStop[stopID]))
	for _, r := range manager.routesByStop[stopID] {
		routes = append(routes, *r)
	}
	return routes
}

// SearchRoutes matches input against short and long names, case-insensitively.
// Short-name prefix matches rank ahead of substring matches.
func (manager *Manager) SearchRoutes(input string, maxCount int) []gtfs.Route {
	query := normalizeQuery(input)
	if query == "" {
		return []gtfs.Route{}
	}

	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	if manager.gtfsData == nil {
		return []gtfs.Route{}
	}

	var prefix, contains []gtfs.Route
	for _, r := range manager.gtfsData.Routes {
		short := strings.ToLower(r.ShortName)
		switch {
		case strings.HasPrefix(short, query):
			prefix = append(prefix, r)
		case strings.Contains(short, query), strings.Contains(strings.ToLower(r.LongName), query):
			contains = append(contains, r)
		}
	}
	sortRoutes(prefix)
	sortRoutes(contains)

	return limit(append(prefix, contains...), maxCount)
}

// SearchStops matches input against stop codes (prefix) and names (substring).
func (manager *Manager) SearchStops(input string, maxCount int) []gtfs.Stop {
	query := normalizeQuery(input)
	if query == "" {
		return []gtfs.Stop{}
	}

	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	if manager.gtfsData == nil {
		return []gtfs.Stop{}
	}

	var byCode, byName []gtfs.Stop
	for _, s := range manager.gtfsData.Stops {
		switch {
		case strings.HasPrefix(strings.ToLower(s.Code), query):
			byCode = append(byCode, s)
		case strings.Contains(strings.ToLower(s.Name), query):
			byName = append(byName, s)
		}
	}
	sort.SliceStable(byCode, func(i, j int) bool { return byCode[i].Code < byCode[j].Code })
	sort.SliceStable(byName, func(i, j int) bool { return byName[i].Name < byName[j].Name })

	return limit(append(byCode, byName...), maxCount)
}

func normalizeQuery(input string) string {
	return strings.ToLower(strings.Join(strings.Fields(input), " "))
}

func sortRoutes(routes []gtfs.Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].ShortName != routes[j].ShortName {
			return routes[i].ShortName < routes[j].ShortName
		}
		return routes[i].Id < routes[j].Id
	})
}

func limit[T any](items []T, maxCount int) []T {
	if maxCount <= 0 {
		maxCount = defaultSearchLimit
	}
	if items == nil {
		return []T{}
	}
	if len(items) > maxCount {
		return items[:maxCount]
	}
	return items
}
