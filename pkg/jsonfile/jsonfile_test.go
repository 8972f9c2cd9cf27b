package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	Name string `json:"name"`
}

func TestLoadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"routes": [{"name": "Lahore"}, {"name": "Multan"}]}`), 0o644))

	routes, err := LoadList[named](path, "routes")
	require.NoError(t, err)
	assert.Equal(t, []named{{"Lahore"}, {"Multan"}}, routes)

	missing, err := LoadList[named](path, "results")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestLoadListErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadList[named](filepath.Join(dir, "nope.json"), "routes")
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"routes": [`), 0o644))
	_, err = LoadList[named](broken, "routes")
	assert.Error(t, err)

	wrongShape := filepath.Join(dir, "shape.json")
	require.NoError(t, os.WriteFile(wrongShape, []byte(`{"routes": {"name": "x"}}`), 0o644))
	_, err = LoadList[named](wrongShape, "routes")
	assert.Error(t, err)
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, Write(path, map[string]any{"name": "Rawalpindi & Islamabad", "items": []int{1, 2, 3}}))
	require.NoError(t, Write(path, map[string]any{"name": "لاہور"}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"لاہور\"\n}\n", string(contents))
}
