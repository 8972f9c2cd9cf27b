package config

import (
	"github.com/urfave/cli/v2"
)

const (
	flagConfig     = "config"
	flagBaseURL    = "base-url"
	flagTravelDate = "travel-date"
	flagDelay      = "delay"
	flagTimeout    = "timeout"
	flagInput      = "input"
	flagOutputDir  = "output-dir"
)

// Flags are the job settings exposed on every batch command
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "YAML file with job settings",
			EnvVars: []string{"PKRAIL_CONFIG"},
		},
		&cli.StringFlag{
			Name:    flagBaseURL,
			Usage:   "base URL of the ticketing API",
			EnvVars: []string{"PKRAIL_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    flagTravelDate,
			Usage:   "travel date to search, YYYY-MM-DD",
			EnvVars: []string{"PKRAIL_TRAVEL_DATE"},
		},
		&cli.DurationFlag{
			Name:  flagDelay,
			Usage: "pause before every API request",
		},
		&cli.DurationFlag{
			Name:  flagTimeout,
			Usage: "timeout of a single API request",
		},
		&cli.StringFlag{
			Name:  flagInput,
			Usage: "input JSON file",
		},
		&cli.StringFlag{
			Name:    flagOutputDir,
			Usage:   "directory for partial and final output files",
			EnvVars: []string{"PKRAIL_OUTPUT_DIR"},
		},
	}
}

// FromCLI resolves defaults, then the optional config file, then any flags set explicitly
func FromCLI(c *cli.Context) (Job, error) {
	job := Default()

	if path := c.String(flagConfig); path != "" {
		if err := job.LoadFile(path); err != nil {
			return job, err
		}
	}

	if c.IsSet(flagBaseURL) {
		job.BaseURL = c.String(flagBaseURL)
	}
	if c.IsSet(flagTravelDate) {
		job.TravelDate = c.String(flagTravelDate)
	}
	if c.IsSet(flagDelay) {
		job.RequestDelay = c.Duration(flagDelay)
	}
	if c.IsSet(flagTimeout) {
		job.RequestTimeout = c.Duration(flagTimeout)
	}
	if c.IsSet(flagInput) {
		job.InputPath = c.String(flagInput)
	}
	if c.IsSet(flagOutputDir) {
		job.OutputDir = c.String(flagOutputDir)
	}

	return job, job.Validate()
}
