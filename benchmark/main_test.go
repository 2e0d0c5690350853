package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCatalogs(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"small", "large"} {
		require.NoError(t, os.MkdirAll(filepath.Join(base, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(base, name, "registry.json"), []byte(`{"services":[]}`), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(base, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "README.md"), nil, 0o644))

	catalogs, err := findCatalogs(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"large", "small"}, catalogs)

	_, err = findCatalogs(filepath.Join(base, "notes"))
	assert.Error(t, err)
}

func TestBenchmarkArgs(t *testing.T) {
	command := []string{"services"}
	args := benchmarkArgs(command, "/catalogs/small", "sqlite", 4)
	assert.Equal(t, []string{"services", "/catalogs/small", "--cache-backend", "sqlite", "--workers", "4", "--color", "no"}, args)
	assert.Equal(t, []string{"services"}, command)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, isSuccess([]byte("...\nCompleted in 12ms. Sort: score-desc. Cache backend: sqlite\n")))
	assert.True(t, isSuccess([]byte("Completed in 3ms. History backend: \n")))
	assert.False(t, isSuccess([]byte("Error Cannot list services: failed to load catalog")))
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "TIMEOUT", formatAverage(nil))
	assert.Equal(t, "1.500s", formatAverage([]float64{1, 2}))
}
