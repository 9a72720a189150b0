package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()

	cfg := Default()
	cfg.Paths.OutDir = filepath.Join(root, "out")
	cfg.Paths.WorkDir = filepath.Join(root, "work")
	cfg.Telemetry.MetricsFile = filepath.Join(root, "out", "metrics.prom")

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "out", "cafef.zip"), paths.ArchiveFile)
	assert.Equal(t, filepath.Join(root, "out", "latest.json"), paths.ReportFile)
	assert.Equal(t, filepath.Join(root, "out", "metrics.prom"), paths.MetricsFile)
	assert.Equal(t, filepath.Join(root, "work", "extract_upto"), paths.WorkSubdir(UptoExtractDir))
	assert.Equal(t, filepath.Join(root, "work", "daily_20240315"), paths.DailyWorkDir("20240315"))

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.OutDir, paths.WorkDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestResolvePaths_Relative(t *testing.T) {
	cfg := Default()

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "out"), paths.OutDir)
	assert.Equal(t, filepath.Join(wd, "work"), paths.WorkDir)
	assert.Empty(t, paths.MetricsFile)
}
