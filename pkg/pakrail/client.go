package pakrail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/travigo/pkrail/pkg/config"
	"github.com/travigo/pkrail/pkg/raildata"
)

// Client talks to the Pakistan Railways ticketing API.
// Every request is preceded by the configured fixed pause; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pacer      backoff.BackOff
	logger     zerolog.Logger
}

func NewClient(job config.Job, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(job.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: job.RequestTimeout,
		},
		pacer:  backoff.NewConstantBackOff(job.RequestDelay),
		logger: logger,
	}
}

// SearchTrains lists the train runs between two stations on a travel date
func (c *Client) SearchTrains(ctx context.Context, request SearchRequest) ([]raildata.TrainRun, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	response, err := c.do(ctx, http.MethodPost, "trainInfo/trainInfoList", body)
	if err != nil {
		return nil, err
	}

	var trains []trainInfo
	if len(response.Data) > 0 {
		if err := json.Unmarshal(response.Data, &trains); err != nil {
			return nil, fmt.Errorf("decode train list: %w", err)
		}
	}

	trainRuns := make([]raildata.TrainRun, 0, len(trains))
	for _, train := range trains {
		trainRuns = append(trainRuns, train.TrainRun())
	}

	return trainRuns, nil
}

// StopTimetable fetches the raw stop entries of one train run
func (c *Client) StopTimetable(ctx context.Context, id raildata.TrainRunID) ([]json.RawMessage, error) {
	response, err := c.do(ctx, http.MethodGet, fmt.Sprintf("trainInfo/stopTimeTable/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var timetable StopTimetableData
	if err := timetable.UnmarshalJSON(response.Data); err != nil {
		return nil, fmt.Errorf("decode stop timetable: %w", err)
	}

	return timetable.Stops, nil
}

func (c *Client) do(ctx context.Context, method string, path string, body []byte) (*envelope, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("method", method).Str("url", url).Msg("API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response envelope
	if err := json.Unmarshal(payload, &response); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", url, err)
	}

	if !response.successful() {
		return nil, &APIError{Code: response.Code}
	}

	return &response, nil
}

func (c *Client) wait(ctx context.Context) error {
	delay := c.pacer.NextBackOff()
	if delay == backoff.Stop || delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
