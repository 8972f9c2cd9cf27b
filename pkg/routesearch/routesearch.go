package routesearch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/travigo/pkrail/pkg/batch"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/jsonfile"
	"github.com/travigo/pkrail/pkg/pakrail"
	"github.com/travigo/pkrail/pkg/raildata"
	"github.com/travigo/pkrail/pkg/util"
)

const DefaultInput = "routes-with-matched-stations.json"

// TrainSearcher is the subset of the API client the search job needs
type TrainSearcher interface {
	SearchTrains(ctx context.Context, request pakrail.SearchRequest) ([]raildata.TrainRun, error)
}

type Checkpoint struct {
	RunID      string `json:"runId"`
	TravelDate string `json:"travelDate"`
	batch.Progress
	Results []raildata.SearchResult `json:"results"`
}

type Output struct {
	RunID              string                  `json:"runId"`
	TravelDate         string                  `json:"travelDate"`
	CompletedAt        string                  `json:"completedAt"`
	TotalRoutes        int                     `json:"totalRoutes"`
	SuccessfulSearches int                     `json:"successfulSearches"`
	FailedSearches     int                     `json:"failedSearches"`
	TotalTrainsFound   int                     `json:"totalTrainsFound"`
	Results            []raildata.SearchResult `json:"results"`
}

type Job struct {
	Config   config.Job
	Searcher TrainSearcher
	Logger   zerolog.Logger
}

// UniqueRoutes drops every route whose (origin, destination, direction)
// has already been seen, keeping input order
func UniqueRoutes(routes []raildata.Route) []raildata.Route {
	seen := map[raildata.RouteKey]bool{}
	unique := []raildata.Route{}

	for _, route := range routes {
		key := route.Key()
		if seen[key] {
			continue
		}

		seen[key] = true
		unique = append(unique, route)
	}

	return unique
}

func (j *Job) PartialOutputPath() string {
	return j.Config.OutputPath(fmt.Sprintf("route-searches-matched-%s-partial.json", util.CompactDate(j.Config.TravelDate)))
}

func (j *Job) OutputPath() string {
	return j.Config.OutputPath(FinalOutputName(j.Config.TravelDate))
}

// FinalOutputName is the file name the completed search for travelDate is written to
func FinalOutputName(travelDate string) string {
	return fmt.Sprintf("route-searches-matched-%s.json", util.CompactDate(travelDate))
}

func (j *Job) Run(ctx context.Context) (*Output, error) {
	inputPath := j.Config.InputPath
	if inputPath == "" {
		inputPath = DefaultInput
	}

	routes, err := jsonfile.LoadList[raildata.Route](inputPath, "routes")
	if err != nil {
		return nil, err
	}

	unique := UniqueRoutes(routes)
	runID := batch.NewRunID()

	j.Logger.Info().
		Str("runId", runID).
		Str("travelDate", j.Config.TravelDate).
		Int("loaded", len(routes)).
		Int("unique", len(unique)).
		Str("estimate", estimate(len(unique), j.Config.RequestDelay)).
		Msg("Searching routes with matched stations")

	results := make([]raildata.SearchResult, 0, len(unique))

	driver := &batch.Job[raildata.Route, []raildata.TrainRun]{
		Items:           unique,
		CheckpointEvery: j.Config.CheckpointEvery,
		CheckpointPath:  j.PartialOutputPath(),
		Fetch: func(ctx context.Context, route raildata.Route) ([]raildata.TrainRun, error) {
			return j.Searcher.SearchTrains(ctx, pakrail.SearchRequest{
				BoardStationCode:   raildata.NullIfEmpty(route.OriginStationCode),
				ArrivalStationCode: raildata.NullIfEmpty(route.DestinationStationCode),
				TravelDate:         j.Config.TravelDate,
			})
		},
		Record: func(route raildata.Route, trains []raildata.TrainRun, err error) {
			results = append(results, searchResult(route, trains, err))
		},
		Snapshot: func(progress batch.Progress) any {
			return Checkpoint{
				RunID:      runID,
				TravelDate: j.Config.TravelDate,
				Progress:   progress,
				Results:    results,
			}
		},
		Describe: func(e *zerolog.Event, route raildata.Route) *zerolog.Event {
			return e.Str("route", fmt.Sprintf("%s -> %s", util.FixedWidth(route.Origin, 30), util.FixedWidth(route.Destination, 30))).
				Str("direction", route.Direction)
		},
		Summarise: func(e *zerolog.Event, trains []raildata.TrainRun) *zerolog.Event {
			return e.Int("trains", len(trains))
		},
		Logger: j.Logger,
	}

	progress, err := driver.Run(ctx)
	if err != nil {
		return nil, err
	}

	output := &Output{
		RunID:              runID,
		TravelDate:         j.Config.TravelDate,
		CompletedAt:        util.LocalTimestamp(time.Now()),
		TotalRoutes:        len(unique),
		SuccessfulSearches: progress.Successful,
		FailedSearches:     progress.Failed,
		TotalTrainsFound:   totalTrains(results),
		Results:            results,
	}

	if err := jsonfile.Write(j.OutputPath(), output); err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}
	j.Logger.Info().Str("path", j.OutputPath()).Msg("Saved final results")

	j.logSummary(output)

	return output, nil
}

func searchResult(route raildata.Route, trains []raildata.TrainRun, err error) raildata.SearchResult {
	if err != nil {
		return raildata.SearchResult{
			Route:      route,
			Error:      err.Error(),
			TrainCount: 0,
			Trains:     []raildata.TrainRun{},
		}
	}

	if trains == nil {
		trains = []raildata.TrainRun{}
	}

	return raildata.SearchResult{
		Route:      route,
		TrainCount: len(trains),
		Trains:     trains,
	}
}

func totalTrains(results []raildata.SearchResult) int {
	total := 0
	for _, result := range results {
		total += result.TrainCount
	}
	return total
}

func (j *Job) logSummary(output *Output) {
	average := 0.0
	if output.SuccessfulSearches > 0 {
		average = float64(output.TotalTrainsFound) / float64(output.SuccessfulSearches)
	}

	j.Logger.Info().
		Int("routesSearched", output.TotalRoutes).
		Int("successful", output.SuccessfulSearches).
		Int("failed", output.FailedSearches).
		Int("totalTrains", output.TotalTrainsFound).
		Str("averagePerRoute", fmt.Sprintf("%.1f", average)).
		Msg("Route search summary")
}

// Rough run length, assuming each request takes about as long again as the pause before it
func estimate(items int, delay time.Duration) string {
	perItem := 2 * delay
	if perItem <= 0 {
		perItem = 100 * time.Millisecond
	}

	return (time.Duration(items) * perItem).Round(time.Second).String()
}
