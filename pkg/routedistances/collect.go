package routedistances

import (
	"github.com/travigo/pkrail/pkg/raildata"
	"github.com/travigo/pkrail/pkg/util"
	"golang.org/x/exp/slices"
)

// TrainRuns is the work list of a distance fetch, worked out before any request is made
type TrainRuns struct {
	Routes  []raildata.SearchResult
	IDs     []raildata.TrainRunID
	ByRoute map[raildata.RouteKey][]raildata.TrainRunID
}

// CollectTrainRuns keeps the routes that have trains, one per route key, and
// gathers every train run they reference. IDs come back in ascending order.
func CollectTrainRuns(results []raildata.SearchResult) TrainRuns {
	withTrains := util.Filter(results, func(result raildata.SearchResult) bool {
		return result.TrainCount > 0
	})

	runs := TrainRuns{
		Routes:  []raildata.SearchResult{},
		IDs:     []raildata.TrainRunID{},
		ByRoute: map[raildata.RouteKey][]raildata.TrainRunID{},
	}
	seen := map[raildata.TrainRunID]bool{}

	for _, result := range withTrains {
		key := result.Key()
		if _, exists := runs.ByRoute[key]; exists {
			continue
		}

		runs.Routes = append(runs.Routes, result)
		ids := []raildata.TrainRunID{}

		for _, train := range result.Trains {
			id, ok := train.ID()
			if !ok {
				continue
			}

			ids = append(ids, id)
			if !seen[id] {
				seen[id] = true
				runs.IDs = append(runs.IDs, id)
			}
		}

		runs.ByRoute[key] = ids
	}

	slices.Sort(runs.IDs)

	return runs
}
