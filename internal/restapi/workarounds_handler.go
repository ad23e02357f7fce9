package restapi

import (
	"net/http"

	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/models"
	"disruptions.onebusaway.org/internal/workarounds"
)

func (api *RestAPI) replaceAffectedEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	var req affectedEntitiesRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	d, err := api.Disruptions.ReplaceAffectedEntities(r.Context(), id, toEntities(req.AffectedEntities))
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendDisruption(w, r, http.StatusOK, d)
}

func (api *RestAPI) changeWorkaroundTypeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	var req workaroundTypeRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	d, err := api.Disruptions.ChangeWorkaroundType(r.Context(), id, workarounds.WorkaroundType(req.WorkaroundType))
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendDisruption(w, r, http.StatusOK, d)
}

func (api *RestAPI) editWorkaroundHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	var req editWorkaroundRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	d, err := api.Disruptions.EditWorkaround(r.Context(), id, req.WorkaroundKey, req.Workaround)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}
	api.sendDisruption(w, r, http.StatusOK, d)
}

func (api *RestAPI) workaroundOptionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	opts, err := api.Disruptions.WorkaroundOptions(r.Context(), id)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	response := models.NewEntryResponse(models.NewWorkaroundOptionsModel(opts), models.NewEmptyReferences(), api.Clock)
	api.sendResponse(w, r, response)
}

// workaroundsTextHandler renders the workaround summary as plain text.
// The optional separator query parameter replaces the default "; ".
func (api *RestAPI) workaroundsTextHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := api.disruptionID(w, r)
	if !ok {
		return
	}

	separator := workarounds.DefaultTextSeparator
	if r.URL.Query().Has("separator") {
		separator = r.URL.Query().Get("separator")
	}

	text, err := api.Disruptions.WorkaroundSummary(r.Context(), id, separator)
	if err != nil {
		api.serviceErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(text)); err != nil {
		logEncodeFailure(api, r, err)
	}
}

func (api *RestAPI) previewWorkaroundsHandler(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !api.decodeAndValidate(w, r, &req) {
		return
	}

	preview := api.Disruptions.Preview(disruptions.PreviewInput{
		DisruptionType:   workarounds.DisruptionType(req.DisruptionType),
		WorkaroundType:   workarounds.WorkaroundType(req.WorkaroundType),
		AffectedEntities: toEntities(req.AffectedEntities),
		Workarounds:      toWorkarounds(req.Workarounds),
	})

	response := models.NewEntryResponse(models.NewPreviewModel(preview), models.NewEmptyReferences(), api.Clock)
	api.sendResponse(w, r, response)
}
