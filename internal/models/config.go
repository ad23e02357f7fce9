package models

import "time"

// RegionModel is the centre and span of the area the transit feed covers.
type RegionModel struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	LatSpan float64 `json:"latSpan"`
	LonSpan float64 `json:"lonSpan"`
}

// ConfigModel describes the running server to the disruption forms.
type ConfigModel struct {
	Id              string       `json:"id"`
	Name            string       `json:"name"`
	Environment     string       `json:"environment"`
	GtfsLoaded      bool         `json:"gtfsLoaded"`
	GtfsLastUpdated int64        `json:"gtfsLastUpdated,omitempty"`
	Region          *RegionModel `json:"region,omitempty"`
	WorkaroundTypes []string     `json:"workaroundTypes"`
	DisruptionTypes []string     `json:"disruptionTypes"`
	Statuses        []string     `json:"statuses"`
}

// UnixMilliOrZero returns 0 for the zero time.
func UnixMilliOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
