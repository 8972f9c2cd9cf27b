package routedistances

import (
	"encoding/json"
	"strings"

	"github.com/travigo/pkrail/pkg/raildata"
)

type rawStop struct {
	Station struct {
		StationNameEn json.RawMessage `json:"stationNameEn"`
	} `json:"station"`
	Distance         json.RawMessage `json:"distance"`
	StationTrainCode json.RawMessage `json:"stationTrainCode"`
	BoardTime        json.RawMessage `json:"boardTime"`
	ArrivalTime      json.RawMessage `json:"arrivalTime"`
	DelayMinutes     json.RawMessage `json:"delayMinutes"`
	DifferentDay     json.RawMessage `json:"differentDay"`
}

// ExtractStops summarises each raw timetable stop into a StopRecord and picks
// out the train code the timetable reports, the first non-blank one found
func ExtractStops(stops []json.RawMessage) ([]raildata.StopRecord, *string) {
	records := make([]raildata.StopRecord, 0, len(stops))
	var trainCode *string

	for _, raw := range stops {
		var stop rawStop
		// A stop that isn't an object still gets a zero record
		_ = json.Unmarshal(raw, &stop)

		if trainCode == nil {
			if code := strings.TrimSpace(raildata.String(stop.StationTrainCode)); code != "" {
				trainCode = &code
			}
		}

		records = append(records, extractStop(stop))
	}

	return records, trainCode
}

func extractStop(stop rawStop) raildata.StopRecord {
	record := raildata.StopRecord{
		StationName: strings.TrimSpace(raildata.String(stop.Station.StationNameEn)),
	}

	if distance, ok := raildata.ParseNumber(stop.Distance); ok {
		record.Distance = distance
	}

	if raildata.Truthy(stop.BoardTime) {
		record.DepartureTime = stop.BoardTime
	}
	if raildata.Truthy(stop.ArrivalTime) {
		record.ArrivalTime = stop.ArrivalTime
	}
	if raildata.Truthy(stop.DelayMinutes) {
		record.DelayMinutes = stop.DelayMinutes
	}

	dayCount, _ := raildata.TruncateInt(stop.DifferentDay)
	record.DayCount = dayCount
	record.IsDayChanged = dayCount != 0

	return record
}
