package gtfs

import (
	"disruptions.onebusaway.org/internal/workarounds"
)

// ResolveEntities fills the display fields of each entity from the catalog:
// route short names from route ids, stop codes and names from stop ids.
// Fields the caller already set are kept; unknown ids pass through.
func (manager *Manager) ResolveEntities(entities []workarounds.AffectedEntity) []workarounds.AffectedEntity {
	resolved := make([]workarounds.AffectedEntity, 0, len(entities))

	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	for _, e := range entities {
		if e.RouteID != "" {
			if r, ok := manager.routesMap[e.RouteID]; ok && e.RouteShortName == "" {
				e.RouteShortName = r.ShortName
			}
		}
		if e.StopID != "" {
			if s, ok := manager.stopsMap[e.StopID]; ok {
				if e.StopCode == "" {
					e.StopCode = s.Code
				}
				if e.StopName == "" {
					e.StopName = s.Name
				}
			}
		}
		resolved = append(resolved, e)
	}
	return resolved
}

// ExpandStop returns one entity per route calling at stopID, each carrying
// both the stop and the route, as a Stops disruption lists them. A stop no
// trip serves yields the bare stop.
func (manager *Manager) ExpandStop(stopID string) []workarounds.AffectedEntity {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()

	stop, ok := manager.stopsMap[stopID]
	if !ok {
		return []workarounds.AffectedEntity{}
	}

	base := workarounds.AffectedEntity{
		StopID:   stop.Id,
		StopCode: stop.Code,
		StopName: stop.Name,
		Type:     workarounds.EntityTypeStop,
	}

	routes := manager.routesByStop[stopID]
	if len(routes) == 0 {
		return []workarounds.AffectedEntity{base}
	}

	expanded := make([]workarounds.AffectedEntity, 0, len(routes))
	for _, r := range routes {
		e := base
		e.RouteID = r.Id
		e.RouteShortName = r.ShortName
		expanded = append(expanded, e)
	}
	return expanded
}
