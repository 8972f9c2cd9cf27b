package routedistances

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/travigo/pkrail/pkg/batch"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/jsonfile"
	"github.com/travigo/pkrail/pkg/raildata"
	"github.com/travigo/pkrail/pkg/routesearch"
	"github.com/travigo/pkrail/pkg/util"
)

// TimetableFetcher is the subset of the API client the distance job needs
type TimetableFetcher interface {
	StopTimetable(ctx context.Context, id raildata.TrainRunID) ([]json.RawMessage, error)
}

type Checkpoint struct {
	RunID      string `json:"runId"`
	TravelDate string `json:"travelDate"`
	batch.Progress
	TrainTimetables raildata.TimetableIndex `json:"trainTimetables"`
}

type Output struct {
	RunID                      string                    `json:"runId"`
	TravelDate                 string                    `json:"travelDate"`
	CompletedAt                string                    `json:"completedAt"`
	TotalRoutes                int                       `json:"totalRoutes"`
	TotalUniqueTrains          int                       `json:"totalUniqueTrains"`
	SuccessfulTimetableFetches int                       `json:"successfulTimetableFetches"`
	FailedTimetableFetches     int                       `json:"failedTimetableFetches"`
	Routes                     []raildata.RouteDistances `json:"routes"`
	TrainTimetables            raildata.TimetableIndex   `json:"trainTimetables"`
}

type Job struct {
	Config  config.Job
	Fetcher TimetableFetcher
	Logger  zerolog.Logger

	// Also write the per-stop CSV next to the JSON output
	ExportCSV bool
}

func (j *Job) baseName() string {
	return fmt.Sprintf("route-distances-%s", util.CompactDate(j.Config.TravelDate))
}

func (j *Job) PartialOutputPath() string {
	return j.Config.OutputPath(j.baseName() + "-partial.json")
}

func (j *Job) OutputPath() string {
	return j.Config.OutputPath(j.baseName() + ".json")
}

func (j *Job) CSVOutputPath() string {
	return j.Config.OutputPath(j.baseName() + ".csv")
}

func (j *Job) inputPath() string {
	if j.Config.InputPath != "" {
		return j.Config.InputPath
	}

	return j.Config.OutputPath(routesearch.FinalOutputName(j.Config.TravelDate))
}

// FetchTimetable fetches one train run and extracts its stops
func FetchTimetable(ctx context.Context, fetcher TimetableFetcher, id raildata.TrainRunID) (raildata.Timetable, error) {
	stops, err := fetcher.StopTimetable(ctx, id)
	if err != nil {
		return raildata.Timetable{}, err
	}

	distances, trainCode := ExtractStops(stops)

	return raildata.Timetable{
		Stations:         stops,
		Distances:        distances,
		StationTrainCode: trainCode,
	}, nil
}

func (j *Job) Run(ctx context.Context) (*Output, error) {
	results, err := jsonfile.LoadList[raildata.SearchResult](j.inputPath(), "results")
	if err != nil {
		return nil, err
	}

	runs := CollectTrainRuns(results)
	runID := batch.NewRunID()

	j.Logger.Info().
		Str("runId", runID).
		Str("travelDate", j.Config.TravelDate).
		Int("loaded", len(results)).
		Int("routesWithTrains", len(runs.Routes)).
		Int("uniqueTrains", len(runs.IDs)).
		Msg("Fetching distance data for routes")

	timetables := raildata.TimetableIndex{}

	driver := &batch.Job[raildata.TrainRunID, raildata.Timetable]{
		Items:           runs.IDs,
		CheckpointEvery: j.Config.CheckpointEvery,
		CheckpointPath:  j.PartialOutputPath(),
		Fetch: func(ctx context.Context, id raildata.TrainRunID) (raildata.Timetable, error) {
			return FetchTimetable(ctx, j.Fetcher, id)
		},
		Record: func(id raildata.TrainRunID, timetable raildata.Timetable, err error) {
			if err != nil {
				timetables[id] = raildata.Timetable{Error: err.Error(), Stations: []json.RawMessage{}}
				return
			}
			timetables[id] = timetable
		},
		Snapshot: func(progress batch.Progress) any {
			return Checkpoint{
				RunID:           runID,
				TravelDate:      j.Config.TravelDate,
				Progress:        progress,
				TrainTimetables: timetables,
			}
		},
		Describe: func(e *zerolog.Event, id raildata.TrainRunID) *zerolog.Event {
			return e.Str("trainDirDayId", id.String())
		},
		Summarise: func(e *zerolog.Event, timetable raildata.Timetable) *zerolog.Event {
			return e.Int("stations", timetable.StationCount())
		},
		Logger: j.Logger,
	}

	progress, err := driver.Run(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := Aggregate(runs, timetables)
	if err != nil {
		return nil, fmt.Errorf("organise distances by route: %w", err)
	}

	output := &Output{
		RunID:                      runID,
		TravelDate:                 j.Config.TravelDate,
		CompletedAt:                util.LocalTimestamp(time.Now()),
		TotalRoutes:                len(runs.Routes),
		TotalUniqueTrains:          len(runs.IDs),
		SuccessfulTimetableFetches: progress.Successful,
		FailedTimetableFetches:     progress.Failed,
		Routes:                     routes,
		TrainTimetables:            timetables,
	}

	if err := jsonfile.Write(j.OutputPath(), output); err != nil {
		return nil, fmt.Errorf("save distances: %w", err)
	}
	j.Logger.Info().Str("path", j.OutputPath()).Msg("Saved distance data")

	if j.ExportCSV {
		if err := WriteCSV(j.CSVOutputPath(), routes); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
		j.Logger.Info().Str("path", j.CSVOutputPath()).Msg("Exported stop rows")
	}

	j.logSummary(output)

	return output, nil
}

func (j *Job) logSummary(output *Output) {
	stationsWithDistance := 0
	for _, timetable := range output.TrainTimetables {
		if !timetable.Failed() {
			stationsWithDistance += len(timetable.Distances)
		}
	}

	j.Logger.Info().
		Int("routesProcessed", output.TotalRoutes).
		Int("uniqueTrains", output.TotalUniqueTrains).
		Int("successful", output.SuccessfulTimetableFetches).
		Int("failed", output.FailedTimetableFetches).
		Int("stationsWithDistance", stationsWithDistance).
		Msg("Distance fetch summary")
}
