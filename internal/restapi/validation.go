package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"disruptions.onebusaway.org/internal/workarounds"
	"github.com/go-playground/validator/v10"
)

const maxRequestBodyBytes = 1 << 20

type entityRequest struct {
	RouteID        string `json:"routeId" validate:"required_without=StopID,max=255"`
	RouteShortName string `json:"routeShortName" validate:"max=255"`
	StopID         string `json:"stopId" validate:"required_without=RouteID,max=255"`
	StopCode       string `json:"stopCode" validate:"max=255"`
	StopName       string `json:"stopName" validate:"max=255"`
	Type           string `json:"type" validate:"omitempty,oneof=route stop"`
}

type workaroundRequest struct {
	Type           string `json:"type" validate:"required,oneof=all route stop"`
	Workaround     string `json:"workaround" validate:"required,max=2000"`
	RouteShortName string `json:"routeShortName" validate:"required_if=Type route,max=255"`
	StopCode       string `json:"stopCode" validate:"required_if=Type stop,max=255"`
}

type disruptionRequest struct {
	Header           string              `json:"header" validate:"required,max=255"`
	Cause            string              `json:"cause" validate:"max=255"`
	Impact           string              `json:"impact" validate:"max=255"`
	Status           string              `json:"status" validate:"required,oneof=not-started in-progress resolved draft"`
	DisruptionType   string              `json:"disruptionType" validate:"required,oneof=ROUTES STOPS"`
	WorkaroundType   string              `json:"workaroundType" validate:"required,oneof=all route stop"`
	StartTime        int64               `json:"startTime" validate:"required,gt=0"`
	EndTime          *int64              `json:"endTime"`
	AffectedEntities []entityRequest     `json:"affectedEntities" validate:"max=500,dive"`
	Workarounds      []workaroundRequest `json:"workarounds" validate:"max=500,dive"`
}

type affectedEntitiesRequest struct {
	AffectedEntities []entityRequest `json:"affectedEntities" validate:"max=500,dive"`
}

type workaroundTypeRequest struct {
	WorkaroundType string `json:"workaroundType" validate:"required,oneof=all route stop"`
}

type editWorkaroundRequest struct {
	WorkaroundKey string `json:"workaroundKey" validate:"max=255"`
	Workaround    string `json:"workaround" validate:"max=2000"`
}

type previewRequest struct {
	DisruptionType   string              `json:"disruptionType" validate:"required,oneof=ROUTES STOPS"`
	WorkaroundType   string              `json:"workaroundType" validate:"required,oneof=all route stop"`
	AffectedEntities []entityRequest     `json:"affectedEntities" validate:"max=500,dive"`
	Workarounds      []workaroundRequest `json:"workarounds" validate:"max=500,dive"`
}

func (e entityRequest) toEntity() workarounds.AffectedEntity {
	return workarounds.AffectedEntity{
		RouteID:        strings.TrimSpace(e.RouteID),
		RouteShortName: strings.TrimSpace(e.RouteShortName),
		StopID:         strings.TrimSpace(e.StopID),
		StopCode:       strings.TrimSpace(e.StopCode),
		StopName:       strings.TrimSpace(e.StopName),
		Type:           workarounds.EntityType(e.Type),
	}
}

func toEntities(in []entityRequest) []workarounds.AffectedEntity {
	out := make([]workarounds.AffectedEntity, 0, len(in))
	for _, e := range in {
		out = append(out, e.toEntity())
	}
	return out
}

func toWorkarounds(in []workaroundRequest) []workarounds.Workaround {
	out := make([]workarounds.Workaround, 0, len(in))
	for _, w := range in {
		out = append(out, workarounds.Workaround{
			Type:           workarounds.WorkaroundType(w.Type),
			Workaround:     w.Workaround,
			RouteShortName: strings.TrimSpace(w.RouteShortName),
			StopCode:       strings.TrimSpace(w.StopCode),
		})
	}
	return out
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldNameFromTag)
	return v
}

func fieldNameFromTag(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// fieldValidationMessage turns a validator failure into the text shown
// next to the form field.
func fieldValidationMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "required_without":
		return fmt.Sprintf("is required when %s is empty", jsonName(fe.Param()))
	case "required_if":
		return fmt.Sprintf("is required when %s", strings.Replace(fe.Param(), " ", " is ", 1))
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.Join(strings.Split(fe.Param(), " "), ", "))
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", fe.Param())
		}
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}

// jsonName lower-cases the first rune of a Go field name used as a
// validator parameter.
func jsonName(goName string) string {
	if goName == "" {
		return goName
	}
	switch goName {
	case "RouteID":
		return "routeId"
	case "StopID":
		return "stopId"
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

// fieldPath strips the struct name from a validator namespace, leaving
// e.g. "affectedEntities[0].routeId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// validateRequest returns the per-field problems with req, or nil.
func (api *RestAPI) validateRequest(req interface{}) map[string][]string {
	err := api.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"body": {err.Error()}}
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		fields[path] = append(fields[path], fieldValidationMessage(fe))
	}
	return fields
}

// decodeAndValidate reads one JSON object from the body into dst and
// validates it. It writes the error response and returns false on failure.
func (api *RestAPI) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		api.badRequestResponse(w, r, describeDecodeError(err))
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		api.badRequestResponse(w, r, "body must contain a single JSON object")
		return false
	}

	if fields := api.validateRequest(dst); fields != nil {
		api.validationErrorResponse(w, r, fields)
		return false
	}
	return true
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("body contains malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body contains malformed JSON"
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("field %q has the wrong type", typeErr.Field)
		}
		return "body contains a value of the wrong type"
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("body must not be larger than %d bytes", maxBytesErr.Limit)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "body contains unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	}
	return "body could not be decoded"
}
