// Package workarounds groups the routes and stops affected by a disruption
// by workaround scope, keeps user-entered workaround text in step with the
// affected-entity set, and renders the option list and summary text the
// disruption editing forms show.
//
// Every function in this package is total: nil or unknown input degrades to
// an empty result and never panics or returns an error.
package workarounds

// DisruptionType selects the primary axis of a disruption.
type DisruptionType string

const (
	DisruptionTypeRoutes DisruptionType = "ROUTES"
	DisruptionTypeStops  DisruptionType = "STOPS"
)

// IsValid reports whether t is one of the known disruption types.
func (t DisruptionType) IsValid() bool {
	switch t {
	case DisruptionTypeRoutes, DisruptionTypeStops:
		return true
	}
	return false
}

// WorkaroundType is the scope a piece of workaround text applies to.
type WorkaroundType string

const (
	// WorkaroundTypeAll is one workaround for the whole disruption.
	WorkaroundTypeAll WorkaroundType = "all"
	// WorkaroundTypeRoute is one workaround per distinct route short name.
	WorkaroundTypeRoute WorkaroundType = "route"
	// WorkaroundTypeStop is one workaround per distinct stop code.
	WorkaroundTypeStop WorkaroundType = "stop"
)

// WorkaroundTypes lists the workaround types in the order the forms offer them.
var WorkaroundTypes = []WorkaroundType{WorkaroundTypeAll, WorkaroundTypeRoute, WorkaroundTypeStop}

// IsValid reports whether t is one of the known workaround types.
func (t WorkaroundType) IsValid() bool {
	switch t {
	case WorkaroundTypeAll, WorkaroundTypeRoute, WorkaroundTypeStop:
		return true
	}
	return false
}

// EntityType records whether an entity was picked as a route or as a stop.
type EntityType string

const (
	EntityTypeRoute EntityType = "route"
	EntityTypeStop  EntityType = "stop"
)

// AffectedEntity is a route, a stop, or a route at a stop touched by a disruption.
type AffectedEntity struct {
	RouteID        string     `json:"routeId,omitempty"`
	RouteShortName string     `json:"routeShortName,omitempty"`
	StopID         string     `json:"stopId,omitempty"`
	StopCode       string     `json:"stopCode,omitempty"`
	StopName       string     `json:"stopName,omitempty"`
	Type           EntityType `json:"type,omitempty"`
}

// Workaround is the persisted free text for one workaround scope.
// Route and stop workarounds carry the matching key field; "all" carries neither.
type Workaround struct {
	Type           WorkaroundType `json:"type"`
	Workaround     string         `json:"workaround"`
	RouteShortName string         `json:"routeShortName,omitempty"`
	StopCode       string         `json:"stopCode,omitempty"`
}

// WorkaroundUIOption is one editable workaround field as rendered by the forms.
type WorkaroundUIOption struct {
	WorkaroundType WorkaroundType   `json:"workaroundType"`
	Label          string           `json:"label"`
	HelperText     string           `json:"helperText"`
	WorkaroundKey  string           `json:"workaroundKey"`
	Entities       []AffectedEntity `json:"entities"`
	WorkaroundText string           `json:"workaroundText"`
}

// Group is a run of items sharing a grouping key.
type Group[T any] struct {
	Key     string
	Members []T
}

// EditedGroup is the complete replacement set of workarounds for one group key.
type EditedGroup struct {
	Key         string       `json:"key"`
	Workarounds []Workaround `json:"workarounds"`
}
