// Package disruptions manages disruption records and keeps their workarounds
// consistent with the affected routes and stops.
package disruptions

import (
	"fmt"
	"time"

	"disruptions.onebusaway.org/disruptiondb"
	"disruptions.onebusaway.org/internal/workarounds"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusDraft      Status = "draft"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusResolved, StatusDraft:
		return true
	}
	return false
}

// Disruption is a stored disruption with its affected entities and workarounds.
type Disruption struct {
	ID               int64
	IncidentNo       string
	Header           string
	Cause            string
	Impact           string
	Status           Status
	DisruptionType   workarounds.DisruptionType
	WorkaroundType   workarounds.WorkaroundType
	StartTime        time.Time
	EndTime          *time.Time
	CreatedAt        time.Time
	LastUpdatedAt    time.Time
	AffectedEntities []workarounds.AffectedEntity
	Workarounds      []workarounds.Workaround
}

// IncidentNumber formats the operator-facing reference for a disruption id.
func IncidentNumber(id int64) string {
	return fmt.Sprintf("DISR%05d", id)
}

func fromRecord(rec disruptiondb.Record) Disruption {
	d := rec.Disruption
	out := Disruption{
		ID:               d.ID,
		IncidentNo:       IncidentNumber(d.ID),
		Header:           d.Header,
		Cause:            d.Cause,
		Impact:           d.Impact,
		Status:           Status(d.Status),
		DisruptionType:   workarounds.DisruptionType(d.DisruptionType),
		WorkaroundType:   workarounds.WorkaroundType(d.WorkaroundType),
		StartTime:        time.UnixMilli(d.StartTime),
		CreatedAt:        time.UnixMilli(d.CreatedAt),
		LastUpdatedAt:    time.UnixMilli(d.LastUpdatedAt),
		AffectedEntities: rec.AffectedEntities,
		Workarounds:      rec.Workarounds,
	}
	if d.EndTime.Valid {
		end := time.UnixMilli(d.EndTime.Int64)
		out.EndTime = &end
	}
	return out
}

// Input carries the editable fields of a disruption.
type Input struct {
	Header           string
	Cause            string
	Impact           string
	Status           Status
	DisruptionType   workarounds.DisruptionType
	WorkaroundType   workarounds.WorkaroundType
	StartTime        time.Time
	EndTime          *time.Time
	AffectedEntities []workarounds.AffectedEntity
	Workarounds      []workarounds.Workaround
}

// WorkaroundOptions is what the workaround step of the forms renders.
type WorkaroundOptions struct {
	DisruptionType workarounds.DisruptionType
	WorkaroundType workarounds.WorkaroundType
	Options        []workarounds.WorkaroundUIOption
	// Disabled reports, per workaround type, whether it can be chosen for
	// the current entities.
	Disabled map[workarounds.WorkaroundType]bool
}

// PreviewInput is an unsaved form state.
type PreviewInput struct {
	DisruptionType   workarounds.DisruptionType
	WorkaroundType   workarounds.WorkaroundType
	AffectedEntities []workarounds.AffectedEntity
	Workarounds      []workarounds.Workaround
}

// Preview is the reconciled form state plus the options derived from it.
type Preview struct {
	AffectedEntities []workarounds.AffectedEntity
	Workarounds      []workarounds.Workaround
	WorkaroundOptions
}
