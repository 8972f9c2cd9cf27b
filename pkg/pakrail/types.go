package pakrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/travigo/pkrail/pkg/raildata"
)

const successCode = 200

type envelope struct {
	Code json.RawMessage `json:"code"`
	Data json.RawMessage `json:"data"`
}

func (e envelope) successful() bool {
	code, ok := raildata.ParseNumber(e.Code)
	return ok && code == successCode
}

// APIError is returned when the response envelope carries a non-success code
type APIError struct {
	Code json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Code) == 0 {
		return "API returned code: null"
	}
	return fmt.Sprintf("API returned code: %s", e.Code)
}

// HTTPStatusError is returned for any non-2xx HTTP response
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP Error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type SearchRequest struct {
	BoardStationCode   json.RawMessage `json:"boardStationCode"`
	ArrivalStationCode json.RawMessage `json:"arrivalStationCode"`
	TravelDate         string          `json:"travelDate"`
}

type trainInfo struct {
	TrainDirDay struct {
		ID             json.RawMessage `json:"id"`
		TrainCode      json.RawMessage `json:"trainCode"`
		TrainID        json.RawMessage `json:"trainId"`
		StartTrainDate json.RawMessage `json:"startTrainDate"`
	} `json:"trainDirDay"`
}

func (t trainInfo) TrainRun() raildata.TrainRun {
	return raildata.TrainRun{
		TrainDirDayID:  t.TrainDirDay.ID,
		TrainCode:      t.TrainDirDay.TrainCode,
		TrainID:        t.TrainDirDay.TrainID,
		StartTrainDate: t.TrainDirDay.StartTrainDate,
	}
}

// StopTimetableData is the data field of a stop timetable response.
// The API sends either the stop list directly or an object wrapping it
// under "stations"; both decode to Stops.
type StopTimetableData struct {
	Stops   []json.RawMessage
	Wrapped bool
}

func (s *StopTimetableData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = StopTimetableData{Stops: []json.RawMessage{}}

	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 'n':
		return nil
	case '[':
		return json.Unmarshal(data, &s.Stops)
	case '{':
		var wrapper struct {
			Stations []json.RawMessage `json:"stations"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		s.Wrapped = true
		if wrapper.Stations != nil {
			s.Stops = wrapper.Stations
		}
		return nil
	default:
		return fmt.Errorf("unexpected stop timetable payload %.20s", data)
	}
}
