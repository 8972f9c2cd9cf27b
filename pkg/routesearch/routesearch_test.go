package routesearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/pakrail"
	"github.com/travigo/pkrail/pkg/raildata"
)

func route(origin, destination, direction string) raildata.Route {
	return raildata.Route{Origin: origin, Destination: destination, Direction: direction}
}

func TestUniqueRoutes(t *testing.T) {
	first := route("Lahore", "Karachi", "down")
	first.OriginStationCode = json.RawMessage(`1`)
	duplicate := route("Lahore", "Karachi", "down")
	duplicate.OriginStationCode = json.RawMessage(`2`)

	unique := UniqueRoutes([]raildata.Route{
		first,
		route("Karachi", "Lahore", "up"),
		duplicate,
		route("Lahore", "Karachi", "up"),
	})

	require.Len(t, unique, 3)
	assert.Equal(t, json.RawMessage(`1`), unique[0].OriginStationCode)
	assert.Equal(t, "Karachi", unique[1].Origin)
	assert.Equal(t, "up", unique[2].Direction)

	assert.Empty(t, UniqueRoutes(nil))
}

func TestFinalOutputName(t *testing.T) {
	assert.Equal(t, "route-searches-matched-20251101.json", FinalOutputName("2025-11-01"))
}

type fakeSearcher struct {
	requests []pakrail.SearchRequest
}

func (f *fakeSearcher) SearchTrains(ctx context.Context, request pakrail.SearchRequest) ([]raildata.TrainRun, error) {
	f.requests = append(f.requests, request)

	if string(request.BoardStationCode) == `"BAD"` {
		return nil, &pakrail.APIError{Code: json.RawMessage(`500`)}
	}
	return []raildata.TrainRun{{TrainDirDayID: json.RawMessage(`77`)}}, nil
}

func writeInput(t *testing.T, dir string, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunRecordsFailures(t *testing.T) {
	dir := t.TempDir()

	jobConfig := config.Default()
	jobConfig.InputPath = writeInput(t, dir, `{"routes": [
		{"origin": "A", "destination": "B", "direction": "down", "originStationCode": "OK", "destinationStationCode": "B1"},
		{"origin": "C", "destination": "D", "direction": "down", "originStationCode": "BAD", "destinationStationCode": "D1", "note": "kept"}
	]}`)
	jobConfig.OutputDir = dir

	searcher := &fakeSearcher{}
	job := &Job{Config: jobConfig, Searcher: searcher, Logger: zerolog.Nop()}

	output, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, output.TotalRoutes)
	assert.Equal(t, 1, output.SuccessfulSearches)
	assert.Equal(t, 1, output.FailedSearches)
	assert.Equal(t, 1, output.TotalTrainsFound)
	assert.Len(t, searcher.requests, 2)
	assert.Equal(t, "2025-11-01", searcher.requests[0].TravelDate)

	failed := output.Results[1]
	assert.Equal(t, "API returned code: 500", failed.Error)
	assert.Equal(t, 0, failed.TrainCount)
	assert.NotNil(t, failed.Trains)
	assert.Equal(t, json.RawMessage(`"kept"`), failed.Extra["note"])

	written, err := os.ReadFile(filepath.Join(dir, "route-searches-matched-20251101.json"))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(written, &decoded))
	assert.Equal(t, `2`, string(decoded["totalRoutes"]))
	assert.Contains(t, decoded, "completedAt")
	assert.Contains(t, decoded, "runId")

	// Fewer items than a checkpoint interval
	_, err = os.Stat(job.PartialOutputPath())
	assert.True(t, os.IsNotExist(err))
}

func TestRunMissingInput(t *testing.T) {
	jobConfig := config.Default()
	jobConfig.InputPath = filepath.Join(t.TempDir(), "missing.json")

	job := &Job{Config: jobConfig, Searcher: &fakeSearcher{}, Logger: zerolog.Nop()}

	_, err := job.Run(context.Background())
	assert.Error(t, err)
}

func TestRunAgainstAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request map[string]any
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &request))

		if request["boardStationCode"] == "X" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		io.WriteString(w, `{"code": 200, "data": [
			{"trainDirDay": {"id": 10, "trainCode": "1UP", "trainId": 1, "startTrainDate": "2025-11-01"}},
			{"trainDirDay": {"id": 11, "trainCode": "3UP", "trainId": 3, "startTrainDate": "2025-11-01"}}
		]}`)
	}))
	defer server.Close()

	dir := t.TempDir()

	jobConfig := config.Default()
	jobConfig.BaseURL = server.URL
	jobConfig.RequestDelay = 0
	jobConfig.RequestTimeout = 2 * time.Second
	jobConfig.OutputDir = dir
	jobConfig.InputPath = writeInput(t, dir, `{"routes": [
		{"origin": "Lahore", "destination": "Multan", "direction": "down", "originStationCode": "L", "destinationStationCode": "M"},
		{"origin": "Lahore", "destination": "Multan", "direction": "down", "originStationCode": "L", "destinationStationCode": "M"},
		{"origin": "Sukkur", "destination": "Quetta", "direction": "up", "originStationCode": "X", "destinationStationCode": "Q"}
	]}`)

	job := &Job{
		Config:   jobConfig,
		Searcher: pakrail.NewClient(jobConfig, zerolog.Nop()),
		Logger:   zerolog.Nop(),
	}

	output, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, output.TotalRoutes)
	assert.Equal(t, 2, output.TotalTrainsFound)
	assert.Equal(t, 2, output.Results[0].TrainCount)
	assert.Equal(t, `"3UP"`, string(output.Results[0].Trains[1].TrainCode))
	assert.Equal(t, "HTTP Error 500: Internal Server Error", output.Results[1].Error)
}
