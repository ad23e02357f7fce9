package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"disruptions.onebusaway.org/internal/logging"
	"github.com/OneBusAway/go-gtfs"
	"github.com/tidwall/rtree"
)

// Manager owns the static transit catalog used to resolve affected routes
// and stops. Readers take staticMutex; ForceUpdate swaps everything at once.
type Manager struct {
	config Config

	staticMutex       sync.RWMutex
	staticUpdateMutex sync.Mutex

	gtfsData         *gtfs.Static
	routesMap        map[string]*gtfs.Route
	stopsMap         map[string]*gtfs.Stop
	routesByStop     map[string][]*gtfs.Route
	shapesByRoute    map[string]*gtfs.Shape
	stopSpatialIndex *rtree.RTreeG[*gtfs.Stop]
	regionBounds     *RegionBounds
	lastUpdated      time.Time
	isHealthy        bool

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// InitGTFSManager loads the configured feed and, for remote feeds with a
// refresh interval, starts the periodic reload.
func InitGTFSManager(ctx context.Context, config Config) (*Manager, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("no GTFS source configured")
	}

	staticData, err := loadGTFSData(ctx, config)
	if err != nil {
		return nil, err
	}

	manager := NewManagerFromStatic(config, staticData)

	if !config.isLocalFile() && config.RefreshInterval > 0 {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	} else if config.Verbose {
		logger := slog.Default().With(slog.String("component", "gtfs_manager"))
		logging.LogOperation(logger, "gtfs_periodic_updates_disabled",
			slog.String("source", config.GtfsURL))
	}

	return manager, nil
}

// NewManagerFromStatic builds a manager over already parsed data. No
// background refresh is started.
func NewManagerFromStatic(config Config, staticData *gtfs.Static) *Manager {
	manager := &Manager{
		config:       config,
		shutdownChan: make(chan struct{}),
	}
	manager.setStaticGTFS(staticData)
	return manager
}

// setStaticGTFS rebuilds every index from staticData and swaps them in.
func (manager *Manager) setStaticGTFS(staticData *gtfs.Static) {
	routesMap, stopsMap := buildLookupMaps(staticData)
	routesByStop, shapesByRoute := buildTripIndices(staticData)
	spatialIndex := buildStopSpatialIndex(staticData.Stops)
	bounds := ComputeRegionBounds(staticData.Shapes, staticData.Stops)

	manager.staticMutex.Lock()
	defer manager.staticMutex.Unlock()

	manager.gtfsData = staticData
	manager.routesMap = routesMap
	manager.stopsMap = stopsMap
	manager.routesByStop = routesByStop
	manager.shapesByRoute = shapesByRoute
	manager.stopSpatialIndex = spatialIndex
	manager.regionBounds = bounds
	manager.lastUpdated = time.Now()
	manager.isHealthy = true

	if manager.config.Verbose {
		logger := slog.Default().With(slog.String("component", "gtfs_manager"))
		logging.LogOperation(logger, "gtfs_data_set_successfully",
			slog.String("source", manager.config.GtfsURL),
			slog.Int("routes", len(routesMap)),
			slog.Int("stops", len(stopsMap)))
	}
}

// buildLookupMaps is used to create O(1) lookup maps for routes and stops
func buildLookupMaps(data *gtfs.Static) (map[string]*gtfs.Route, map[string]*gtfs.Stop) {
	routes := make(map[string]*gtfs.Route, len(data.Routes))
	for i := range data.Routes {
		routes[data.Routes[i].Id] = &data.Routes[i]
	}

	stops := make(map[string]*gtfs.Stop, len(data.Stops))
	for i := range data.Stops {
		stops[data.Stops[i].Id] = &data.Stops[i]
	}
	return routes, stops
}

// buildTripIndices walks every trip once to find the routes serving each
// stop and the longest shape drawn for each route.
func buildTripIndices(data *gtfs.Static) (map[string][]*gtfs.Route, map[string]*gtfs.Shape) {
	seen := make(map[string]map[string]bool)
	routesByStop := make(map[string][]*gtfs.Route)
	shapesByRoute := make(map[string]*gtfs.Shape)

	for i := range data.Trips {
		trip := &data.Trips[i]
		if trip.Route == nil {
			continue
		}
		routeID := trip.Route.Id

		if trip.Shape != nil {
			if current, ok := shapesByRoute[routeID]; !ok || len(trip.Shape.Points) > len(current.Points) {
				shapesByRoute[routeID] = trip.Shape
			}
		}

		for _, st := range trip.StopTimes {
			if st.Stop == nil {
				continue
			}
			stopID := st.Stop.Id
			if seen[stopID] == nil {
				seen[stopID] = make(map[string]bool)
			}
			if seen[stopID][routeID] {
				continue
			}
			seen[stopID][routeID] = true
			routesByStop[stopID] = append(routesByStop[stopID], trip.Route)
		}
	}

	for _, routes := range routesByStop {
		sort.SliceStable(routes, func(i, j int) bool {
			return routes[i].ShortName < routes[j].ShortName
		})
	}
	return routesByStop, shapesByRoute
}

// IsReady reports whether a catalog has been loaded.
func (manager *Manager) IsReady() bool {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.gtfsData != nil
}

func (manager *Manager) IsHealthy() bool {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.isHealthy
}

func (manager *Manager) MarkUnhealthy() {
	manager.staticMutex.Lock()
	defer manager.staticMutex.Unlock()
	manager.isHealthy = false
}

// LastUpdated is when the catalog was last swapped in.
func (manager *Manager) LastUpdated() time.Time {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.lastUpdated
}

// GetStaticData returns the parsed feed. Callers must treat it as read-only.
func (manager *Manager) GetStaticData() *gtfs.Static {
	manager.staticMutex.RLock()
	defer manager.staticMutex.RUnlock()
	return manager.gtfsData
}

// Shutdown stops the periodic reload and waits for it. Safe to call repeatedly.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
	})
	manager.wg.Wait()
}
