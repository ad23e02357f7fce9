package models

import (
	"github.com/OneBusAway/go-gtfs"
)

type RouteModel struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agencyId,omitempty"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName,omitempty"`
	Color     string `json:"color,omitempty"`
}

func NewRouteModel(r gtfs.Route) RouteModel {
	m := RouteModel{
		ID:        r.Id,
		ShortName: r.ShortName,
		LongName:  r.LongName,
		Color:     r.Color,
	}
	if r.Agency != nil {
		m.AgencyID = r.Agency.Id
	}
	return m
}

type StopModel struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

func NewStopModel(s gtfs.Stop) StopModel {
	return StopModel{
		ID:   s.Id,
		Code: s.Code,
		Name: s.Name,
		Lat:  s.Latitude,
		Lon:  s.Longitude,
	}
}

// ShapeModel is a route shape as a Google encoded polyline.
type ShapeModel struct {
	RouteID string `json:"routeId"`
	Points  string `json:"points"`
}
