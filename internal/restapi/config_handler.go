package restapi

import (
	"net/http"

	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/models"
	"disruptions.onebusaway.org/internal/workarounds"
)

var statuses = []disruptions.Status{
	disruptions.StatusNotStarted,
	disruptions.StatusInProgress,
	disruptions.StatusResolved,
	disruptions.StatusDraft,
}

func (api *RestAPI) configHandler(w http.ResponseWriter, r *http.Request) {
	configEntry := models.ConfigModel{
		Id:              "oba-disruptions",
		Name:            "OneBusAway Disruptions",
		Environment:     api.Config.Env.String(),
		GtfsLoaded:      api.HasCatalog(),
		WorkaroundTypes: make([]string, 0, len(workarounds.WorkaroundTypes)),
		DisruptionTypes: []string{string(workarounds.DisruptionTypeRoutes), string(workarounds.DisruptionTypeStops)},
		Statuses:        make([]string, 0, len(statuses)),
	}
	for _, wt := range workarounds.WorkaroundTypes {
		configEntry.WorkaroundTypes = append(configEntry.WorkaroundTypes, string(wt))
	}
	for _, s := range statuses {
		configEntry.Statuses = append(configEntry.Statuses, string(s))
	}

	if configEntry.GtfsLoaded {
		configEntry.GtfsLastUpdated = models.UnixMilliOrZero(api.GtfsManager.LastUpdated())
		if bounds := api.GtfsManager.GetRegionBounds(); bounds != nil {
			configEntry.Region = &models.RegionModel{
				Lat:     bounds.Lat,
				Lon:     bounds.Lon,
				LatSpan: bounds.LatSpan,
				LonSpan: bounds.LonSpan,
			}
		}
	}

	response := models.NewEntryResponse(
		configEntry,
		models.NewEmptyReferences(),
		api.Clock,
	)

	api.sendResponse(w, r, response)
}
