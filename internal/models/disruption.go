package models

import (
	"time"

	"disruptions.onebusaway.org/internal/disruptions"
	"disruptions.onebusaway.org/internal/workarounds"
)

// DisruptionModel is the JSON form of a stored disruption. Times are unix milliseconds.
type DisruptionModel struct {
	ID               int64                        `json:"id"`
	IncidentNo       string                       `json:"incidentNo"`
	Header           string                       `json:"header"`
	Cause            string                       `json:"cause"`
	Impact           string                       `json:"impact"`
	Status           string                       `json:"status"`
	DisruptionType   string                       `json:"disruptionType"`
	WorkaroundType   string                       `json:"workaroundType"`
	StartTime        int64                        `json:"startTime"`
	EndTime          *int64                       `json:"endTime,omitempty"`
	CreatedAt        int64                        `json:"createdAt"`
	LastUpdatedAt    int64                        `json:"lastUpdatedAt"`
	AffectedEntities []workarounds.AffectedEntity `json:"affectedEntities"`
	Workarounds      []workarounds.Workaround     `json:"workarounds"`
	WorkaroundsText  string                       `json:"workaroundsText"`
}

func NewDisruptionModel(d disruptions.Disruption) DisruptionModel {
	m := DisruptionModel{
		ID:               d.ID,
		IncidentNo:       d.IncidentNo,
		Header:           d.Header,
		Cause:            d.Cause,
		Impact:           d.Impact,
		Status:           string(d.Status),
		DisruptionType:   string(d.DisruptionType),
		WorkaroundType:   string(d.WorkaroundType),
		StartTime:        d.StartTime.UnixMilli(),
		CreatedAt:        d.CreatedAt.UnixMilli(),
		LastUpdatedAt:    d.LastUpdatedAt.UnixMilli(),
		AffectedEntities: nonNil(d.AffectedEntities),
		Workarounds:      nonNil(d.Workarounds),
		WorkaroundsText:  workarounds.WorkaroundsAsText(d.Workarounds, workarounds.DefaultTextSeparator),
	}
	if d.EndTime != nil {
		end := d.EndTime.UnixMilli()
		m.EndTime = &end
	}
	return m
}

func NewDisruptionModels(ds []disruptions.Disruption) []DisruptionModel {
	out := make([]DisruptionModel, 0, len(ds))
	for _, d := range ds {
		out = append(out, NewDisruptionModel(d))
	}
	return out
}

// DisruptionReferences collects the distinct routes and stops a set of
// disruptions touches, in first-seen order.
func DisruptionReferences(ds []disruptions.Disruption) ReferencesModel {
	refs := NewEmptyReferences()
	seenRoutes := make(map[string]bool)
	seenStops := make(map[string]bool)
	for _, d := range ds {
		for _, e := range d.AffectedEntities {
			if e.RouteID != "" && !seenRoutes[e.RouteID] {
				seenRoutes[e.RouteID] = true
				refs.Routes = append(refs.Routes, RouteModel{ID: e.RouteID, ShortName: e.RouteShortName})
			}
			if e.StopID != "" && !seenStops[e.StopID] {
				seenStops[e.StopID] = true
				refs.Stops = append(refs.Stops, StopModel{ID: e.StopID, Code: e.StopCode, Name: e.StopName})
			}
		}
	}
	return refs
}

// WorkaroundOptionsModel is the workaround step of the disruption forms.
type WorkaroundOptionsModel struct {
	DisruptionType string                           `json:"disruptionType"`
	WorkaroundType string                           `json:"workaroundType"`
	Options        []workarounds.WorkaroundUIOption `json:"options"`
	Disabled       map[string]bool                  `json:"disabled"`
}

func NewWorkaroundOptionsModel(o disruptions.WorkaroundOptions) WorkaroundOptionsModel {
	disabled := make(map[string]bool, len(o.Disabled))
	for wt, v := range o.Disabled {
		disabled[string(wt)] = v
	}
	return WorkaroundOptionsModel{
		DisruptionType: string(o.DisruptionType),
		WorkaroundType: string(o.WorkaroundType),
		Options:        nonNil(o.Options),
		Disabled:       disabled,
	}
}

type PreviewModel struct {
	AffectedEntities []workarounds.AffectedEntity `json:"affectedEntities"`
	Workarounds      []workarounds.Workaround     `json:"workarounds"`
	WorkaroundsText  string                       `json:"workaroundsText"`
	WorkaroundOptionsModel
}

func NewPreviewModel(p disruptions.Preview) PreviewModel {
	return PreviewModel{
		AffectedEntities:       nonNil(p.AffectedEntities),
		Workarounds:            nonNil(p.Workarounds),
		WorkaroundsText:        workarounds.WorkaroundsAsText(p.Workarounds, workarounds.DefaultTextSeparator),
		WorkaroundOptionsModel: NewWorkaroundOptionsModel(p.WorkaroundOptions),
	}
}

// SummaryModel is the plain-text rendering of a disruption's workarounds.
type SummaryModel struct {
	ID        int64  `json:"id"`
	Separator string `json:"separator"`
	Text      string `json:"text"`
}

// MillisToTime converts an optional unix-millisecond value.
func MillisToTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
