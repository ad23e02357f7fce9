package restapi

import (
	"encoding/json"
	"net/http"

	"disruptions.onebusaway.org/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	api.sendResponseWithStatus(w, r, http.StatusOK, response)
}

func (api *RestAPI) sendResponseWithStatus(w http.ResponseWriter, r *http.Request, status int, response models.ResponseModel) {
	setJSONResponseType(&w)
	if status != http.StatusOK {
		response.Code = status
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logEncodeFailure(api, r, err)
	}
}

func (api *RestAPI) sendNull(w http.ResponseWriter, r *http.Request) {
	setJSONResponseType(&w)
	if _, err := w.Write([]byte("null")); err != nil {
		logEncodeFailure(api, r, err)
	}
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusNotFound, "resource not found")
}

func (api *RestAPI) sendUnauthorized(w http.ResponseWriter, r *http.Request) {
	setJSONResponseType(&w)
	w.WriteHeader(http.StatusUnauthorized)

	response := models.ResponseModel{
		Code:        http.StatusUnauthorized,
		CurrentTime: models.ResponseCurrentTime(api.clock()),
		Text:        "permission denied",
		Version:     1,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logEncodeFailure(api, r, err)
	}
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}

func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, code int, message string) {
	api.sendErrorWithData(w, r, code, message, nil)
}

func (api *RestAPI) sendErrorWithData(w http.ResponseWriter, r *http.Request, code int, message string, data interface{}) {
	setJSONResponseType(&w)
	w.WriteHeader(code)

	response := models.ResponseModel{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(api.clock()),
		Data:        data,
		Text:        message,
		Version:     2,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logEncodeFailure(api, r, err)
	}
}
