package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkpointFile struct {
	Processed  int               `json:"processed"`
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Results    map[string]string `json:"results"`
}

func readCheckpoint(t *testing.T, path string) checkpointFile {
	t.Helper()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var checkpoint checkpointFile
	require.NoError(t, json.Unmarshal(contents, &checkpoint))
	return checkpoint
}

func items(n int) []int {
	list := make([]int, n)
	for i := range list {
		list[i] = i + 1
	}
	return list
}

func TestRunCheckpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-partial.json")
	results := map[int]string{}
	checkpointsSeen := 0

	job := &Job[int, string]{
		Items:           items(45),
		CheckpointEvery: 20,
		CheckpointPath:  path,
		Fetch: func(ctx context.Context, item int) (string, error) {
			switch item {
			case 21:
				checkpoint := readCheckpoint(t, path)
				assert.Equal(t, 20, checkpoint.Processed)
				assert.Equal(t, 45, checkpoint.Total)
				assert.Len(t, checkpoint.Results, 20)
				checkpointsSeen++
			case 41:
				checkpoint := readCheckpoint(t, path)
				assert.Equal(t, 40, checkpoint.Processed)
				assert.Len(t, checkpoint.Results, 40)
				checkpointsSeen++
			}

			if item%10 == 0 {
				return "", fmt.Errorf("item %d unavailable", item)
			}
			return fmt.Sprintf("result-%d", item), nil
		},
		Record: func(item int, result string, err error) {
			if err != nil {
				results[item] = err.Error()
				return
			}
			results[item] = result
		},
		Snapshot: func(progress Progress) any {
			return struct {
				Progress
				Results map[int]string `json:"results"`
			}{progress, results}
		},
		Logger: zerolog.Nop(),
	}

	progress, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Progress{Processed: 45, Total: 45, Successful: 41, Failed: 4}, progress)
	assert.Equal(t, 2, checkpointsSeen)
	assert.Len(t, results, 45)
	assert.Equal(t, "item 10 unavailable", results[10])

	final := readCheckpoint(t, path)
	assert.Equal(t, 40, final.Processed)
	assert.Equal(t, 36, final.Successful)
	assert.Equal(t, 4, final.Failed)
}

func TestRunRecoversPanics(t *testing.T) {
	var recorded []error

	job := &Job[int, int]{
		Items: items(3),
		Fetch: func(ctx context.Context, item int) (int, error) {
			if item == 2 {
				panic("malformed payload")
			}
			return item * 10, nil
		},
		Record: func(item int, result int, err error) {
			recorded = append(recorded, err)
		},
		Logger: zerolog.Nop(),
	}

	progress, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, progress.Successful)
	assert.Equal(t, 1, progress.Failed)
	require.Len(t, recorded, 3)
	assert.NoError(t, recorded[0])
	assert.EqualError(t, recorded[1], "panic: malformed payload")
	assert.NoError(t, recorded[2])
}

func TestRunWithoutItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty-partial.json")

	job := &Job[int, int]{
		CheckpointEvery: 20,
		CheckpointPath:  path,
		Fetch:           func(ctx context.Context, item int) (int, error) { return 0, nil },
		Record:          func(item int, result int, err error) {},
		Snapshot:        func(progress Progress) any { return progress },
		Logger:          zerolog.Nop(),
	}

	progress, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Progress{}, progress)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetched := 0

	job := &Job[int, int]{
		Items: items(10),
		Fetch: func(ctx context.Context, item int) (int, error) {
			fetched++
			if item == 3 {
				cancel()
				return 0, ctx.Err()
			}
			return item, nil
		},
		Record: func(item int, result int, err error) {},
		Logger: zerolog.Nop(),
	}

	progress, err := job.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, fetched)
	assert.Equal(t, 2, progress.Processed)
}

func TestCheckpointWriteFailureIsNotFatal(t *testing.T) {
	job := &Job[int, int]{
		Items:           items(4),
		CheckpointEvery: 2,
		CheckpointPath:  filepath.Join(t.TempDir(), "missing-dir", "partial.json"),
		Fetch:           func(ctx context.Context, item int) (int, error) { return item, nil },
		Record:          func(item int, result int, err error) {},
		Snapshot:        func(progress Progress) any { return progress },
		Logger:          zerolog.Nop(),
	}

	progress, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Processed)
}

func TestNewRunID(t *testing.T) {
	assert.Len(t, NewRunID(), 36)
	assert.NotEqual(t, NewRunID(), NewRunID())
}
