// Package config holds the settings shared by the batch jobs.
//
// Defaults reproduce the fixed values the jobs always ran with. A YAML file
// and command line flags can override them; the merged result is validated
// with struct tags before a job starts.
package config
