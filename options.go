package zipsift

import (
	"time"

	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/resultstore"
)

type options struct {
	pipeline *analyze.Config
	store    []resultstore.Option
}

func defaultOptions() *options {
	return &options{pipeline: analyze.DefaultConfig()}
}

// Option configures a Sifter
type Option func(*options)

// WithStaleThreshold sets the age beyond which entries count as stale
func WithStaleThreshold(d time.Duration) Option {
	return func(o *options) { o.pipeline.StaleThreshold = d }
}

// WithLargeFileThreshold sets the informational large-file cutoff in bytes
func WithLargeFileThreshold(bytes int64) Option {
	return func(o *options) { o.pipeline.LargeFileThreshold = bytes }
}

// WithScreenshotPatterns overrides the screenshot-like name heuristics
func WithScreenshotPatterns(p ScreenshotPatterns) Option {
	return func(o *options) { o.pipeline.Screenshot = p }
}

// WithCompressionLevel sets the deflate level for rewritten archives
func WithCompressionLevel(level CompressionLevel) Option {
	return func(o *options) { o.pipeline.CompressionLevel = level }
}

// WithTTL sets how long stored results stay retrievable
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.store = append(o.store, resultstore.WithTTL(ttl)) }
}

// WithSweepInterval sets the background eviction period
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) { o.store = append(o.store, resultstore.WithSweepInterval(d)) }
}

// WithLogger sets a custom logger for both pipeline and store
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.pipeline.Logger = logger
		o.store = append(o.store, resultstore.WithLogger(logger))
	}
}
