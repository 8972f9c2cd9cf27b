package routedistances

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/travigo/pkrail/pkg/raildata"
)

// StopRow is one stop of one train on one route, flattened for spreadsheets
type StopRow struct {
	Origin           string  `csv:"origin"`
	Destination      string  `csv:"destination"`
	Direction        string  `csv:"direction"`
	TrainDirDayID    int64   `csv:"trainDirDayId"`
	TrainCode        string  `csv:"trainCode"`
	StationTrainCode string  `csv:"stationTrainCode"`
	Sequence         int     `csv:"sequence"`
	StationName      string  `csv:"stationName"`
	Distance         float64 `csv:"distance"`
	DepartureTime    string  `csv:"departureTime"`
	ArrivalTime      string  `csv:"arrivalTime"`
	DelayMinutes     string  `csv:"delayMinutes"`
	IsDayChanged     bool    `csv:"isDayChanged"`
	DayCount         int64   `csv:"dayCount"`
}

func StopRows(routes []raildata.RouteDistances) []*StopRow {
	rows := []*StopRow{}

	for _, route := range routes {
		for _, train := range route.Trains {
			stationTrainCode := ""
			if train.StationTrainCode != nil {
				stationTrainCode = *train.StationTrainCode
			}

			for i, stop := range train.Stations {
				rows = append(rows, &StopRow{
					Origin:           route.Origin,
					Destination:      route.Destination,
					Direction:        route.Direction,
					TrainDirDayID:    int64(train.TrainDirDayID),
					TrainCode:        cellText(train.TrainCode),
					StationTrainCode: stationTrainCode,
					Sequence:         i + 1,
					StationName:      stop.StationName,
					Distance:         stop.Distance,
					DepartureTime:    cellText(stop.DepartureTime),
					ArrivalTime:      cellText(stop.ArrivalTime),
					DelayMinutes:     cellText(stop.DelayMinutes),
					IsDayChanged:     stop.IsDayChanged,
					DayCount:         stop.DayCount,
				})
			}
		}
	}

	return rows
}

func WriteCSV(path string, routes []raildata.RouteDistances) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows := StopRows(routes)
	return gocsv.MarshalFile(&rows, file)
}

// JSON strings lose their quotes, anything else is written as it was sent
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		return raildata.String(raw)
	}

	return string(raw)
}
