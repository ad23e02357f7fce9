package restapi

import (
	"net/http"
	"strconv"
	"time"

	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/models"
	"disruptions.onebusaway.org/internal/workarounds"
)

// disruptionID parses the {id} path segment. It writes the error response
// and returns false when the id is not a positive integer.
func (api *RestAPI) disruptionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		api.validationErrorResponse(w, r, map[string][]string{"id": {"must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func (req disruptionRequest) toInput() disruptions.Input {
	return disruptions.Input{
		Header:           req.Header,
		Cause:            req.Cause,
		Impact:           req.Impact,
		Status:           disruptions.Status(req.Status),
		DisruptionType:   workarounds.DisruptionType(req.DisruptionType),
		WorkaroundType:   workarounds.WorkaroundType(req.WorkaroundType),
		StartTime:        time.UnixMilli(req.StartTime),
		EndTime:          models.MillisToTime(req.EndTime),
		AffectedEntities: toEntities(req.AffectedEntities),
		Workarounds:      toWorkarounds(req.Workarounds),
	}
}

func (api *RestAPI) sendDisruption(w http.ResponseWriter, r *http.Request, status int, d disruptions.Disruption) {
	response := models.NewEntryResponse(
		models.NewDisruptionModel(d),
		models.DisruptionReferences([]disruptions.Disruption{d}),
		api.Clock,
	)
	api.sendResponseWithStatus(w, r, status, response)
}

func (api *RestAPI) listDisruptionsHandler(w http.ResponseWriter, r *http.Request) {
	status := disruptions.Status(r.URL.Query().Get("status"))

	list, err := api.Disruptions.List(r.Context(), status)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	response := models.NewListResponse(
		models.NewDisruptionModels(list),
		models.DisruptionReferences(list),
		false,
		api.Clock,
	)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) createDisruptionHandler(w http.ResponseWriter, r *http.Request) {
	var req disruptionRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	d, err := api.Disruptions.Create(r.Context(), req.toInput())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/disruptions/"+strconv.FormatInt(d.ID, 10))
	api.sendDisruption(w, r, http.StatusCreated, d)
}

func (api *RestAPI) getDisruptionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	d, err := api.Disruptions.Get(r.Context(), id)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendDisruption(w, r, http.StatusOK, d)
}

func (api *RestAPI) updateDisruptionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	var req disruptionRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	d, err := api.Disruptions.Update(r.Context(), id, req.toInput())
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendDisruption(w, r, http.StatusOK, d)
}

func (api *RestAPI) deleteDisruptionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	if err := api.Disruptions.Delete(r.Context(), id); err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendNull(w, r)
}
