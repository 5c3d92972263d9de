package analyze

import (
	"fmt"
	"time"

	"github.com/zipsift/zipsift/internal/digest"
	"github.com/zipsift/zipsift/internal/zippack"
)

// Result pairs the statistics report with the rewritten archive bytes.
type Result struct {
	Report  *Report
	Archive []byte
}

// Analyzer runs the full analysis and cleanup pipeline. One Analyze
// call is synchronous and single-threaded; concurrent calls share no
// mutable state and need no locking between them.
type Analyzer struct {
	cfg    *Config
	logger Logger
}

// NewAnalyzer creates an analyzer. A nil config uses DefaultConfig.
func NewAnalyzer(cfg *Config) *Analyzer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze decodes raw ZIP bytes, classifies every entry in one pass,
// plans the cleanup, rewrites the surviving entries into a new archive
// and assembles the report. fileName is a display hint only; it is
// never parsed for classification. Any unreadable entry fails the
// whole invocation; partial results are never returned.
func (a *Analyzer) Analyze(raw []byte, fileName string) (*Result, error) {
	started := time.Now()

	decoded, err := zippack.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("archive analysis failed: %w", err)
	}

	// Single pass: hash each entry and feed the index in archive
	// iteration order. The order decides which member of a duplicate
	// group counts as the original.
	idx := NewHashIndex()
	entries := make([]Entry, len(decoded))
	for i, d := range decoded {
		hash := digest.Sum(d.Data)
		entries[i] = Entry{
			Path:        d.Path,
			Size:        d.Size,
			ModifiedAt:  d.Modified,
			ContentHash: hash,
		}
		idx.Add(hash, d.Path)
	}

	classifier := NewClassifier(a.cfg)
	classifier.Classify(entries, idx)

	plan := BuildPlan(entries)

	cleaned, err := zippack.Rewrite(raw, plan.KeepPaths, int(a.cfg.CompressionLevel))
	if err != nil {
		return nil, fmt.Errorf("archive rewrite failed: %w", err)
	}

	report := BuildReport(plan, fileName, int64(len(raw)), int64(len(cleaned)), classifier.now)

	a.logger.Printf("analyzed %s: %d entries, %d removed (%d unique contents) in %s",
		fileName, report.TotalFilesAnalyzed, report.TotalFilesRemoved,
		idx.Groups(), time.Since(started).Round(time.Millisecond))

	return &Result{Report: report, Archive: cleaned}, nil
}
