package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
	"github.com/travigo/pkrail/pkg/jsonfile"
)

// Progress counts how far through its work list a job has got
type Progress struct {
	Processed  int `json:"processed"`
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Job is a checkpointed batch fetch: Items are fetched one at a time in order,
// every outcome is handed to Record, and after every CheckpointEvery items the
// Snapshot is written over CheckpointPath.
//
// A failed or panicking fetch is recorded as an error for that item and the
// loop moves on. Nothing is retried and there is no resuming from a checkpoint.
type Job[T any, R any] struct {
	Items           []T
	CheckpointEvery int
	CheckpointPath  string

	Fetch    func(ctx context.Context, item T) (R, error)
	Record   func(item T, result R, err error)
	Snapshot func(progress Progress) any

	// Optional progress log decoration
	Describe  func(e *zerolog.Event, item T) *zerolog.Event
	Summarise func(e *zerolog.Event, result R) *zerolog.Event

	Logger zerolog.Logger
}

func (j *Job[T, R]) Run(ctx context.Context) (Progress, error) {
	progress := Progress{Total: len(j.Items)}
	startTime := time.Now()

	for _, item := range j.Items {
		if err := ctx.Err(); err != nil {
			return progress, err
		}

		result, err := j.fetch(ctx, item)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return progress, ctxErr
		}

		j.Record(item, result, err)

		progress.Processed++
		if err == nil {
			progress.Successful++
		} else {
			progress.Failed++
		}

		j.logItem(progress, item, result, err)

		if j.CheckpointEvery > 0 && progress.Processed%j.CheckpointEvery == 0 {
			j.checkpoint(progress)
		}
	}

	j.Logger.Info().
		Int("successful", progress.Successful).
		Int("failed", progress.Failed).
		Msgf("Operation took %s", time.Since(startTime).String())

	return progress, nil
}

func (j *Job[T, R]) fetch(ctx context.Context, item T) (result R, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		result, err = j.Fetch(ctx, item)
	})

	if recovered := catcher.Recovered(); recovered != nil {
		var zero R
		return zero, fmt.Errorf("panic: %v", recovered.Value)
	}

	return result, err
}

func (j *Job[T, R]) checkpoint(progress Progress) {
	if j.Snapshot == nil || j.CheckpointPath == "" {
		return
	}

	if err := jsonfile.Write(j.CheckpointPath, j.Snapshot(progress)); err != nil {
		j.Logger.Error().Err(err).Str("path", j.CheckpointPath).Msg("Failed to save progress")
		return
	}

	j.Logger.Info().
		Int("processed", progress.Processed).
		Int("total", progress.Total).
		Str("path", j.CheckpointPath).
		Msg("Progress saved")
}

func (j *Job[T, R]) logItem(progress Progress, item T, result R, err error) {
	var event *zerolog.Event
	if err == nil {
		event = j.Logger.Info()
	} else {
		event = j.Logger.Warn().Str("error", err.Error())
	}

	event = event.Str("item", fmt.Sprintf("%d/%d", progress.Processed, progress.Total))

	if j.Describe != nil {
		event = j.Describe(event, item)
	}
	if err == nil && j.Summarise != nil {
		event = j.Summarise(event, result)
	}

	if err == nil {
		event.Msg("Fetched")
	} else {
		event.Msg("Fetch failed")
	}
}

func NewRunID() string {
	return uuid.NewString()
}
