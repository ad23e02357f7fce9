package gtfs

import (
	"github.com/OneBusAway/go-gtfs"
)

func ptr(f float64) *float64 { return &f }

// testStatic is a small Auckland-like network:
// NX1 and NX2 both call at Britomart (4222); NX2 continues to Akoranga (7037);
// route 83 has no trips; stop 9999 has no coordinates.
func testStatic() *gtfs.Static {
	agency := &gtfs.Agency{Id: "AT", Name: "Auckland Transport"}

	data := &gtfs.Static{
		Agencies: []gtfs.Agency{*agency},
		Routes: []gtfs.Route{
			{Id: "NX2-202", Agency: agency, ShortName: "NX2", LongName: "Hibiscus Coast To City"},
			{Id: "NX1-203", Agency: agency, ShortName: "NX1", LongName: "Northern Express"},
			{Id: "83-207", Agency: agency, ShortName: "83", LongName: "Massey University To Takapuna"},
		},
		Stops: []gtfs.Stop{
			{Id: "4222-a", Code: "4222", Name: "Britomart Train Station", Latitude: ptr(-36.8442), Longitude: ptr(174.7676)},
			{Id: "7037-a", Code: "7037", Name: "Akoranga Station", Latitude: ptr(-36.7863), Longitude: ptr(174.7597)},
			{Id: "4223-a", Code: "4223", Name: "Lower Albert Street", Latitude: ptr(-36.8449), Longitude: ptr(174.7652)},
			{Id: "9999-a", Code: "9999", Name: "Depot"},
		},
		Shapes: []gtfs.Shape{
			{ID: "nx2-shape", Points: []gtfs.ShapePoint{
				{Latitude: -36.8442, Longitude: 174.7676},
				{Latitude: -36.8150, Longitude: 174.7600},
				{Latitude: -36.7863, Longitude: 174.7597},
			}},
			{ID: "nx2-short", Points: []gtfs.ShapePoint{
				{Latitude: -36.8442, Longitude: 174.7676},
			}},
		},
	}

	nx2 := &data.Routes[0]
	nx1 := &data.Routes[1]
	britomart := &data.Stops[0]
	akoranga := &data.Stops[1]

	data.Trips = []gtfs.ScheduledTrip{
		{ID: "nx1-1", Route: nx1, StopTimes: []gtfs.ScheduledStopTime{{Stop: britomart}}},
		{ID: "nx2-1", Route: nx2, Shape: &data.Shapes[1], StopTimes: []gtfs.ScheduledStopTime{{Stop: britomart}}},
		{ID: "nx2-2", Route: nx2, Shape: &data.Shapes[0], StopTimes: []gtfs.ScheduledStopTime{{Stop: britomart}, {Stop: akoranga}}},
	}
	return data
}

func newTestManager() *Manager {
	return NewManagerFromStatic(Config{}, testStatic())
}
