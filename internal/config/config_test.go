package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Data.Files)
	assert.Equal(t, 4, cfg.Loader.Concurrency)
	assert.Equal(t, "euclidean", cfg.Search.Metric)
	assert.InDelta(t, 1.0, cfg.Search.Radius, 0.001)
	assert.False(t, cfg.Shell.AllowNegative)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  files:
    - cities.txt
    - more.txt
search:
  metric: chebyshev
  radius: 2.5
shell:
  allow_negative: true
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"cities.txt", "more.txt"}, cfg.Data.Files)
	assert.Equal(t, "chebyshev", cfg.Search.Metric)
	assert.InDelta(t, 2.5, cfg.Search.Radius, 0.001)
	assert.True(t, cfg.Shell.AllowNegative)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, 4, cfg.Loader.Concurrency)
	assert.Equal(t, "text", cfg.Report.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
search:
  metric: chebyshev
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("CITYMAP_SEARCH_METRIC", "manhattan")
	t.Setenv("CITYMAP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "manhattan", cfg.Search.Metric)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("CITYMAP_LOADER_CONCURRENCY", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Loader.Concurrency)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("search: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Loader: LoaderConfig{Concurrency: 0},
		Search: SearchConfig{Metric: "haversine", Radius: -1},
		Report: ReportConfig{Format: "pdf"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader.concurrency")
	assert.Contains(t, err.Error(), "search.metric must be one of euclidean, manhattan, chebyshev")
	assert.Contains(t, err.Error(), "search.radius")
	assert.Contains(t, err.Error(), "report.format must be one of text, json, yaml, geojson, xlsx")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
