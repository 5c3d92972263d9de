package analyze

import (
	"path"
	"strings"
	"time"
)

// HashIndex maps a content digest to the paths sharing it, in archive
// iteration order. The first path recorded for a digest is the
// original; every later path is a duplicate. Callers must feed paths
// in the order the archive exposes them, or the original choice stops
// being reproducible.
type HashIndex struct {
	paths map[string][]string
}

// NewHashIndex creates an empty index.
func NewHashIndex() *HashIndex {
	return &HashIndex{paths: make(map[string][]string)}
}

// Add records a path under its digest.
func (idx *HashIndex) Add(hash, entryPath string) {
	idx.paths[hash] = append(idx.paths[hash], entryPath)
}

// IsDuplicate reports whether entryPath is a later occurrence of a
// digest already seen at a different path.
func (idx *HashIndex) IsDuplicate(hash, entryPath string) bool {
	group := idx.paths[hash]
	return len(group) > 1 && group[0] != entryPath
}

// Groups returns the number of distinct digests in the index.
func (idx *HashIndex) Groups() int {
	return len(idx.paths)
}

// RemovalReason identifies the single reason an entry was removed.
// Duplicate takes priority over stale and screenshot-like; an entry is
// attributed to exactly one reason. Oversized is informational and is
// never a removal reason.
type RemovalReason string

const (
	ReasonDuplicate  RemovalReason = "duplicate"
	ReasonStale      RemovalReason = "stale"
	ReasonScreenshot RemovalReason = "screenshot"
)

// removalRules is the ordered decision table for removal attribution.
// Evaluated in priority order; the first matching predicate wins.
var removalRules = []struct {
	match  func(e *Entry) bool
	reason RemovalReason
}{
	{func(e *Entry) bool { return e.IsDuplicate }, ReasonDuplicate},
	{func(e *Entry) bool { return e.IsStale }, ReasonStale},
	{func(e *Entry) bool { return e.IsScreenshotLike }, ReasonScreenshot},
}

// AttributeRemoval returns the removal reason for an entry, or false
// if the entry is kept.
func AttributeRemoval(e *Entry) (RemovalReason, bool) {
	for _, rule := range removalRules {
		if rule.match(e) {
			return rule.reason, true
		}
	}
	return "", false
}

// Classifier applies the independent predicates to entries. Each test
// is a pure function of entry metadata; flags are not mutually
// exclusive.
type Classifier struct {
	cfg *Config
	now time.Time
}

// NewClassifier creates a classifier pinned to a single observation
// time, so one pipeline run sees a consistent clock.
func NewClassifier(cfg *Config) *Classifier {
	now := time.Now()
	if cfg.Now != nil {
		now = cfg.Now()
	}
	return &Classifier{cfg: cfg, now: now}
}

// IsStale reports whether the entry's recorded mod time is older than
// the stale threshold. Entries with an unknown mod time are never stale.
func (c *Classifier) IsStale(modifiedAt time.Time) bool {
	if modifiedAt.IsZero() {
		return false
	}
	return c.now.Sub(modifiedAt) > c.cfg.StaleThreshold
}

// IsScreenshotLike reports whether the path's base name matches the
// configured capture-naming heuristics. False positives are expected
// and acceptable.
func (c *Classifier) IsScreenshotLike(entryPath string) bool {
	name := strings.ToLower(path.Base(entryPath))

	for _, sub := range c.cfg.Screenshot.Substrings {
		if strings.Contains(name, strings.ToLower(sub)) {
			return true
		}
	}

	for _, prefix := range c.cfg.Screenshot.NumberedPrefixes {
		p := strings.ToLower(prefix)
		if strings.HasPrefix(name, p) && len(name) > len(p) && isDigit(name[len(p)]) {
			return true
		}
	}

	return false
}

// IsOversized reports whether the entry exceeds the large-file
// threshold. Informational only; oversized entries are never removed
// on this flag alone.
func (c *Classifier) IsOversized(size int64) bool {
	return size > c.cfg.LargeFileThreshold
}

// Classify sets all four flags and the category on each entry, using
// the hash index for duplicate detection. Entries are classified in
// place and must already carry path, size, mod time and content hash.
func (c *Classifier) Classify(entries []Entry, idx *HashIndex) {
	for i := range entries {
		e := &entries[i]
		e.Category = CategoryOf(e.Path)
		e.IsDuplicate = idx.IsDuplicate(e.ContentHash, e.Path)
		e.IsStale = c.IsStale(e.ModifiedAt)
		e.IsScreenshotLike = c.IsScreenshotLike(e.Path)
		e.IsOversized = c.IsOversized(e.Size)
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
