// Package zipsift deduplicates and cleans ZIP archives, producing a
// reduced archive plus a statistics report retrievable exactly once
// through a short-lived token.
package zipsift

import (
	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/resultstore"
)

// Re-export commonly used types for convenience
type (
	Analyzer           = analyze.Analyzer
	Config             = analyze.Config
	Entry              = analyze.Entry
	Report             = analyze.Report
	Result             = analyze.Result
	Category           = analyze.Category
	CompressionLevel   = analyze.CompressionLevel
	ScreenshotPatterns = analyze.ScreenshotPatterns
	Logger             = analyze.Logger

	StoreRecord = resultstore.Record
)

// Re-export sentinel errors for the store's expected outcomes
var (
	ErrNotFound    = resultstore.ErrNotFound
	ErrTokenExists = resultstore.ErrTokenExists
)

// DefaultConfig returns default pipeline configuration (convenience wrapper)
func DefaultConfig() *Config {
	return analyze.DefaultConfig()
}

// NewAnalyzer creates a pipeline analyzer (convenience wrapper)
func NewAnalyzer(cfg *Config) *Analyzer {
	return analyze.NewAnalyzer(cfg)
}

// Sifter provides a high-level API tying the pipeline to the
// ephemeral result store.
type Sifter struct {
	analyzer *analyze.Analyzer
	store    *resultstore.Store
}

// New creates a Sifter with default settings, applying any options.
func New(opts ...Option) *Sifter {
	c := defaultOptions()
	for _, opt := range opts {
		opt(c)
	}

	return &Sifter{
		analyzer: analyze.NewAnalyzer(c.pipeline),
		store:    resultstore.New(c.store...),
	}
}

// Analyze runs the pipeline on raw archive bytes without storing the
// result. fileName is a display hint only.
func (s *Sifter) Analyze(raw []byte, fileName string) (*Result, error) {
	return s.analyzer.Analyze(raw, fileName)
}

// AnalyzeAndStore runs the pipeline, mints a token and stores the
// result for one-shot retrieval. Returns the token and the report.
func (s *Sifter) AnalyzeAndStore(raw []byte, fileName string) (string, *Report, error) {
	result, err := s.analyzer.Analyze(raw, fileName)
	if err != nil {
		return "", nil, err
	}

	token, err := resultstore.NewToken()
	if err != nil {
		return "", nil, err
	}

	if err := s.store.Put(token, result.Report, result.Archive); err != nil {
		return "", nil, err
	}

	return token, result.Report, nil
}

// Retrieve exchanges a token for its stored record exactly once.
// Returns ErrNotFound for missing, expired or already-used tokens.
func (s *Sifter) Retrieve(token string) (*StoreRecord, error) {
	return s.store.Get(token)
}

// StoreStats returns result store statistics.
func (s *Sifter) StoreStats() map[string]interface{} {
	return s.store.Stats()
}

// Close stops the store's background sweep.
func (s *Sifter) Close() {
	s.store.Close()
}
