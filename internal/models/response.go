package models

import (
	"time"

	"disruptions.onebusaway.org/internal/clock"
)

// ResponseModel is the envelope every JSON endpoint answers with.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ReferencesModel lists the routes and stops that entries in a response point at.
type ReferencesModel struct {
	Routes []RouteModel `json:"routes"`
	Stops  []StopModel  `json:"stops"`
}

func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Routes: []RouteModel{},
		Stops:  []StopModel{},
	}
}

type entryData struct {
	Entry      interface{}     `json:"entry"`
	References ReferencesModel `json:"references"`
}

type listData struct {
	LimitExceeded bool            `json:"limitExceeded"`
	List          interface{}     `json:"list"`
	References    ReferencesModel `json:"references"`
}

// ResponseCurrentTime is the envelope timestamp in unix milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	if c == nil {
		return time.Now().UnixMilli()
	}
	return c.NowUnixMilli()
}

func NewOKResponse(data interface{}, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

func NewEntryResponse(entry interface{}, references ReferencesModel, c clock.Clock) ResponseModel {
	return NewOKResponse(entryData{Entry: entry, References: references}, c)
}

func NewListResponse(list interface{}, references ReferencesModel, limitExceeded bool, c clock.Clock) ResponseModel {
	return NewOKResponse(listData{LimitExceeded: limitExceeded, List: list, References: references}, c)
}

// CurrentTimeModel is the entry of the current-time endpoint.
type CurrentTimeModel struct {
	Time         int64  `json:"time"`
	ReadableTime string `json:"readableTime"`
}

func NewCurrentTimeData(t time.Time) CurrentTimeModel {
	return CurrentTimeModel{
		Time:         t.UnixMilli(),
		ReadableTime: t.Format(time.RFC3339),
	}
}
