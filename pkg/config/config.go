package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL         = "https://isapi.pakrailways.gov.pk/v1/ticket"
	DefaultTravelDate      = "2025-11-01"
	DefaultRequestDelay    = 50 * time.Millisecond
	DefaultRequestTimeout  = 15 * time.Second
	DefaultCheckpointEvery = 20
)

// Job is everything a batch job needs to know about where to read, write and fetch
type Job struct {
	BaseURL        string        `yaml:"baseURL" validate:"required,url"`
	TravelDate     string        `yaml:"travelDate" validate:"required,datetime=2006-01-02"`
	RequestDelay   time.Duration `yaml:"requestDelay" validate:"gte=0"`
	RequestTimeout time.Duration `yaml:"requestTimeout" validate:"gt=0"`

	// Not settable from files or flags
	CheckpointEvery int `yaml:"-" validate:"gt=0"`

	InputPath string `yaml:"input"`
	OutputDir string `yaml:"outputDir"`
}

func Default() Job {
	return Job{
		BaseURL:         DefaultBaseURL,
		TravelDate:      DefaultTravelDate,
		RequestDelay:    DefaultRequestDelay,
		RequestTimeout:  DefaultRequestTimeout,
		CheckpointEvery: DefaultCheckpointEvery,
	}
}

// LoadFile overlays the YAML document at path onto job
func (job *Job) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, job)
}

func (job Job) Validate() error {
	return validator.New().Struct(job)
}

// OutputPath places name inside the configured output directory
func (job Job) OutputPath(name string) string {
	if job.OutputDir == "" {
		return name
	}

	return filepath.Join(job.OutputDir, name)
}
