package routedistances

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/travigo/pkrail/pkg/raildata"
)

// Aggregate attaches the fetched timetables to every route. Trains whose
// timetable failed are left out of the route but still count towards trainCount.
func Aggregate(runs TrainRuns, index raildata.TimetableIndex) ([]raildata.RouteDistances, error) {
	routes := make([]raildata.RouteDistances, 0, len(runs.Routes))

	for _, result := range runs.Routes {
		var route raildata.RouteDistances
		if err := copier.Copy(&route, &result.Route); err != nil {
			return nil, err
		}

		ids := runs.ByRoute[result.Key()]
		codes := searchTrainCodes(result.Trains)

		route.TrainCount = len(ids)
		route.Trains = []raildata.TrainRouteDistances{}

		for _, id := range ids {
			timetable, ok := index[id]
			if !ok || timetable.Failed() {
				continue
			}

			stations := timetable.Distances
			if stations == nil {
				stations = []raildata.StopRecord{}
			}

			route.Trains = append(route.Trains, raildata.TrainRouteDistances{
				TrainDirDayID:    id,
				TrainCode:        codes[id],
				StationTrainCode: timetable.StationTrainCode,
				Stations:         stations,
				StationCount:     timetable.StationCount(),
			})
		}

		routes = append(routes, route)
	}

	return routes, nil
}

// First listed code wins when a train run appears more than once
func searchTrainCodes(trains []raildata.TrainRun) map[raildata.TrainRunID]json.RawMessage {
	codes := map[raildata.TrainRunID]json.RawMessage{}

	for _, train := range trains {
		id, ok := train.ID()
		if !ok {
			continue
		}
		if _, exists := codes[id]; !exists {
			codes[id] = train.TrainCode
		}
	}

	return codes
}
