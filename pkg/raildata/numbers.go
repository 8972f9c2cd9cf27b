package raildata

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a JSON number, numeric string or boolean as a finite float.
// Anything else reports false.
func ParseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	var text string
	switch raw[0] {
	case 'n':
		return 0, false
	case 't':
		return 1, bytes.Equal(raw, []byte("true"))
	case 'f':
		return 0, bytes.Equal(raw, []byte("false"))
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
	default:
		text = string(raw)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// TruncateInt converts raw to an integer the way int(float(x)) would,
// truncating any fractional part toward zero.
func TruncateInt(raw json.RawMessage) (int64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] != '"' {
		if n, err := strconv.ParseInt(string(trimmed), 10, 64); err == nil {
			return n, true
		}
	}

	value, ok := ParseNumber(raw)
	if !ok || value >= math.MaxInt64 || value <= math.MinInt64 {
		return 0, false
	}

	return int64(value), true
}

// Truthy mirrors the loose "is this value present" test the API consumers rely on:
// null, false, zero, empty strings and empty containers are all absent.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't':
		return true
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return false
		}
		return text != ""
	case '[', '{':
		var container []json.RawMessage
		if raw[0] == '[' {
			if err := json.Unmarshal(raw, &container); err != nil {
				return false
			}
			return len(container) > 0
		}
		var object map[string]json.RawMessage
		if err := json.Unmarshal(raw, &object); err != nil {
			return false
		}
		return len(object) > 0
	default:
		value, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && value != 0
	}
}

// String decodes raw as a JSON string, returning "" for anything else
func String(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ""
	}

	return text
}
