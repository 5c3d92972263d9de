package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipsift/zipsift/analyze"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zipsift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileConfigEmptyPath(t *testing.T) {
	fc, err := LoadFileConfig("")
	require.NoError(t, err)

	cfg, err := fc.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, analyze.DefaultStaleThreshold, cfg.StaleThreshold)
	assert.Equal(t, analyze.DefaultLargeFileThreshold, cfg.LargeFileThreshold)
}

func TestLoadFileConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
stale_threshold: 8760h
large_file_threshold: 1048576
compression_level: 9
screenshot:
  substrings: ["grab"]
  numbered_prefixes: ["cap_"]
ttl: 5m
sweep_interval: 30s
server:
  addr: "0.0.0.0:9000"
  max_upload_bytes: 1000000
  websocket: true
`)

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)

	cfg, err := fc.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, 8760*time.Hour, cfg.StaleThreshold)
	assert.Equal(t, int64(1048576), cfg.LargeFileThreshold)
	assert.Equal(t, analyze.CompressionLevel(9), cfg.CompressionLevel)
	assert.Equal(t, []string{"grab"}, cfg.Screenshot.Substrings)
	assert.Equal(t, []string{"cap_"}, cfg.Screenshot.NumberedPrefixes)

	ttl, err := fc.StoreTTL(0)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)

	sweep, err := fc.StoreSweepInterval(0)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, sweep)

	assert.Equal(t, "0.0.0.0:9000", fc.Server.Addr)
	assert.True(t, fc.Server.WebSocket)
}

func TestLoadFileConfigRejectsBadValues(t *testing.T) {
	t.Run("BadDuration", func(t *testing.T) {
		fc, err := LoadFileConfig(writeConfig(t, `stale_threshold: "two years"`))
		require.NoError(t, err)
		_, err = fc.PipelineConfig()
		assert.Error(t, err)
	})

	t.Run("BadCompressionLevel", func(t *testing.T) {
		fc, err := LoadFileConfig(writeConfig(t, `compression_level: 42`))
		require.NoError(t, err)
		_, err = fc.PipelineConfig()
		assert.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("NotYAML", func(t *testing.T) {
		_, err := LoadFileConfig(writeConfig(t, "{{{{"))
		assert.Error(t, err)
	})
}
