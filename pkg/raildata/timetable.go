package raildata

import (
	"bytes"
	"encoding/json"
	"strconv"

	"golang.org/x/exp/slices"
)

// StopRecord is the distance and timing summary of one stop in a train's timetable
type StopRecord struct {
	StationName   string          `json:"stationName"`
	Distance      float64         `json:"distance"`
	DepartureTime json.RawMessage `json:"departureTime,omitempty"`
	ArrivalTime   json.RawMessage `json:"arrivalTime,omitempty"`
	DelayMinutes  json.RawMessage `json:"delayMinutes,omitempty"`
	IsDayChanged  bool            `json:"isDayChanged"`
	DayCount      int64           `json:"dayCount"`
}

// Timetable is the outcome of fetching one train run's stop timetable.
// A failed fetch keeps only the diagnostic and an empty station list.
type Timetable struct {
	Error string

	Stations         []json.RawMessage
	Distances        []StopRecord
	StationTrainCode *string
}

func (t Timetable) Failed() bool {
	return t.Error != ""
}

func (t Timetable) StationCount() int {
	return len(t.Stations)
}

func (t Timetable) MarshalJSON() ([]byte, error) {
	stations := t.Stations
	if stations == nil {
		stations = []json.RawMessage{}
	}

	if t.Failed() {
		return json.Marshal(struct {
			Error    string            `json:"error"`
			Stations []json.RawMessage `json:"stations"`
		}{t.Error, stations})
	}

	distances := t.Distances
	if distances == nil {
		distances = []StopRecord{}
	}

	return json.Marshal(struct {
		Stations         []json.RawMessage `json:"stations"`
		Distances        []StopRecord      `json:"distances"`
		StationCount     int               `json:"stationCount"`
		StationTrainCode *string           `json:"stationTrainCode"`
	}{stations, distances, len(stations), t.StationTrainCode})
}

func (t *Timetable) UnmarshalJSON(data []byte) error {
	var decoded struct {
		Error            *string           `json:"error"`
		Stations         []json.RawMessage `json:"stations"`
		Distances        []StopRecord      `json:"distances"`
		StationTrainCode *string           `json:"stationTrainCode"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*t = Timetable{
		Stations:         decoded.Stations,
		Distances:        decoded.Distances,
		StationTrainCode: decoded.StationTrainCode,
	}
	if decoded.Error != nil {
		t.Error = *decoded.Error
	}

	return nil
}

// TimetableIndex maps train runs to their timetables.
// It serialises as a JSON object with keys in ascending numeric order.
type TimetableIndex map[TrainRunID]Timetable

func (idx TimetableIndex) IDs() []TrainRunID {
	ids := make([]TrainRunID, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

func (idx TimetableIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, id := range idx.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(strconv.Quote(id.String()))
		buf.WriteByte(':')

		value, err := json.Marshal(idx[id])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TrainRouteDistances joins a route's search train entry with its extracted timetable.
// TrainCode comes from the route search, StationTrainCode from the timetable;
// they are reported side by side and never reconciled.
type TrainRouteDistances struct {
	TrainDirDayID    TrainRunID      `json:"trainDirDayId"`
	TrainCode        json.RawMessage `json:"trainCode"`
	StationTrainCode *string         `json:"stationTrainCode"`
	Stations         []StopRecord    `json:"stations"`
	StationCount     int             `json:"stationCount"`
}

type RouteDistances struct {
	Origin                 string                `json:"origin"`
	Destination            string                `json:"destination"`
	Direction              string                `json:"direction"`
	OriginStationCode      json.RawMessage       `json:"originStationCode"`
	DestinationStationCode json.RawMessage       `json:"destinationStationCode"`
	TrainCount             int                   `json:"trainCount"`
	Trains                 []TrainRouteDistances `json:"trains"`
}
