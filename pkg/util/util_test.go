package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWidth(t *testing.T) {
	assert.Equal(t, "Lahore    ", FixedWidth("Lahore", 10))
	assert.Equal(t, "Rawalp", FixedWidth("Rawalpindi", 6))
	assert.Equal(t, "کراچی ", FixedWidth("کراچی", 6))
}

func TestFilter(t *testing.T) {
	input := []int{1, 2, 3, 4}
	even := Filter(input, func(i int) bool { return i%2 == 0 })

	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4}, input)
	assert.Nil(t, Filter(input, func(i int) bool { return false }))
}

func TestCompactDate(t *testing.T) {
	assert.Equal(t, "20251101", CompactDate("2025-11-01"))
}

func TestLocalTimestamp(t *testing.T) {
	ts := time.Date(2025, 11, 1, 8, 5, 3, 120000000, time.Local)
	assert.Equal(t, "2025-11-01T08:05:03.120000", LocalTimestamp(ts))
}
