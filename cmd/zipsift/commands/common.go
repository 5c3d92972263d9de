package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zipsift/zipsift/analyze"
)

// FileConfig is the YAML config file schema. Every pipeline and store
// tunable can be overridden here without code changes; flags still win
// over the file.
type FileConfig struct {
	StaleThreshold     string `yaml:"stale_threshold"`      // e.g. "17520h"
	LargeFileThreshold int64  `yaml:"large_file_threshold"` // bytes
	CompressionLevel   int    `yaml:"compression_level"`    // deflate 1-9

	Screenshot struct {
		Substrings       []string `yaml:"substrings"`
		NumberedPrefixes []string `yaml:"numbered_prefixes"`
	} `yaml:"screenshot"`

	TTL           string `yaml:"ttl"`            // e.g. "10m"
	SweepInterval string `yaml:"sweep_interval"` // e.g. "2m"

	Server struct {
		Addr           string `yaml:"addr"`
		MaxUploadBytes int64  `yaml:"max_upload_bytes"`
		WebSocket      bool   `yaml:"websocket"`
	} `yaml:"server"`
}

// LoadFileConfig reads a YAML config file. A missing path returns an
// empty config without error.
func LoadFileConfig(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return fc, nil
}

// PipelineConfig builds an analyze.Config from defaults layered with
// the file config.
func (fc *FileConfig) PipelineConfig() (*analyze.Config, error) {
	cfg := analyze.DefaultConfig()

	if fc.StaleThreshold != "" {
		d, err := time.ParseDuration(fc.StaleThreshold)
		if err != nil {
			return nil, fmt.Errorf("invalid stale_threshold: %w", err)
		}
		cfg.StaleThreshold = d
	}
	if fc.LargeFileThreshold > 0 {
		cfg.LargeFileThreshold = fc.LargeFileThreshold
	}
	if fc.CompressionLevel != 0 {
		if fc.CompressionLevel < 1 || fc.CompressionLevel > 9 {
			return nil, fmt.Errorf("invalid compression_level %d (want 1-9)", fc.CompressionLevel)
		}
		cfg.CompressionLevel = analyze.CompressionLevel(fc.CompressionLevel)
	}
	if len(fc.Screenshot.Substrings) > 0 || len(fc.Screenshot.NumberedPrefixes) > 0 {
		cfg.Screenshot = analyze.ScreenshotPatterns{
			Substrings:       fc.Screenshot.Substrings,
			NumberedPrefixes: fc.Screenshot.NumberedPrefixes,
		}
	}

	return cfg, nil
}

// StoreTTL returns the configured TTL, or the fallback when unset.
func (fc *FileConfig) StoreTTL(fallback time.Duration) (time.Duration, error) {
	if fc.TTL == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(fc.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl: %w", err)
	}
	return d, nil
}

// StoreSweepInterval returns the configured sweep period, or the
// fallback when unset.
func (fc *FileConfig) StoreSweepInterval(fallback time.Duration) (time.Duration, error) {
	if fc.SweepInterval == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(fc.SweepInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid sweep_interval: %w", err)
	}
	return d, nil
}

// loadFromCommand reads the --config persistent flag and loads the file.
func loadFromCommand(cmd *cobra.Command) (*FileConfig, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return LoadFileConfig(path)
}
