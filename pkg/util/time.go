package util

import (
	"strings"
	"time"
)

// CompactDate turns 2025-11-01 into 20251101 for use in file names
func CompactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// LocalTimestamp formats t as a local ISO-8601 timestamp with microseconds and no zone
func LocalTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000000")
}
