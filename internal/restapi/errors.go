package restapi

import (
	"errors"
	"log/slog"
	"net/http"

	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/logging"
)

func (api *RestAPI) logger() *slog.Logger {
	if api.Application != nil && api.Logger != nil {
		return api.Logger
	}
	return slog.Default()
}

func (api *RestAPI) clock() clock.Clock {
	if api.Application != nil && api.Clock != nil {
		return api.Clock
	}
	return clock.RealClock{}
}

func logEncodeFailure(api *RestAPI, r *http.Request, err error) {
	logging.LogError(api.logger(), "failed to write response", err,
		slog.String("path", r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())))
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(), "internal server error", err,
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())))
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}

// validationErrorResponse answers 400 with the per-field problems under
// data.fieldErrors.
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	api.sendErrorWithData(w, r, http.StatusBadRequest, "validation error", map[string]interface{}{
		"fieldErrors": fieldErrors,
	})
}

func (api *RestAPI) badRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	api.sendError(w, r, http.StatusBadRequest, message)
}

func (api *RestAPI) catalogUnavailableResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusServiceUnavailable, "transit catalog not loaded")
}

// serviceErrorResponse maps errors from the disruptions service.
func (api *RestAPI) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr *disruptions.ValidationError
	switch {
	case errors.Is(err, disruptions.ErrNotFound):
		api.sendNotFound(w, r)
	case errors.As(err, &verr):
		api.validationErrorResponse(w, r, verr.Fields)
	default:
		api.serverErrorResponse(w, r, err)
	}
}
