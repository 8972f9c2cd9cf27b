package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// LoadList reads the JSON document at path and decodes the list stored under field.
// A document without the field yields an empty list.
func LoadList[T any](path string, field string) ([]T, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var document map[string]json.RawMessage
	if err := json.Unmarshal(contents, &document); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var list []T
	raw, ok := document[field]
	if !ok {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse %s field %q: %w", path, field, err)
	}

	return list, nil
}

// Write replaces the file at path with the indented JSON encoding of v.
// The file is overwritten in place.
func Write(path string, v any) error {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
