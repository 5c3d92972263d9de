// Package resultstore holds completed analysis results keyed by
// single-use tokens with time-based expiry.
package resultstore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zipsift/zipsift/analyze"
)

const (
	// DefaultTTL is how long a stored result stays retrievable.
	DefaultTTL = 10 * time.Minute

	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 2 * time.Minute
)

var (
	// ErrNotFound is the normal outcome for a missing, expired or
	// already-retrieved token.
	ErrNotFound = errors.New("result not found")

	// ErrTokenExists signals a token collision on Put. Internal,
	// effectively unreachable with proper token entropy.
	ErrTokenExists = errors.New("token already present")
)

// Record is one stored analysis result. Destroyed by the first
// successful Get or by the TTL sweep, whichever happens first.
type Record struct {
	Token     string
	Report    *analyze.Report
	Archive   []byte
	CreatedAt time.Time
}

// Logger matches the analyze package logging interface.
type Logger = analyze.Logger

// Store is a token-keyed container for analysis results. It is the
// one shared-mutable-state component: pipeline completions Put,
// retrieval requests Get, and the sweep evicts, all serialized on a
// single mutex. Only map lookups and removals happen under the lock;
// archive bytes move by reference, never copied while locked.
type Store struct {
	mu      sync.Mutex
	records map[string]*Record

	ttl           time.Duration
	sweepInterval time.Duration
	logger        Logger
	now           func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the record time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithSweepInterval overrides the background sweep period.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Store) { s.sweepInterval = interval }
}

// WithLogger sets a custom logger.
func WithLogger(logger Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store and starts its background sweep.
func New(opts ...Option) *Store {
	s := &Store{
		records:       make(map[string]*Record),
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = analyze.NewDefaultLogger()
	}

	go s.sweepLoop()

	return s
}

// Close stops the background sweep. Idempotent.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Put inserts a new record under token. A token already present is a
// fatal internal condition: the store refuses rather than silently
// overwriting, and the caller should regenerate the token.
func (s *Store) Put(token string, report *analyze.Report, archive []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[token]; exists {
		return fmt.Errorf("put %q: %w", token, ErrTokenExists)
	}

	s.records[token] = &Record{
		Token:     token,
		Report:    report,
		Archive:   archive,
		CreatedAt: s.now(),
	}

	return nil
}

// Get removes and returns the record for token atomically. Retrieval
// is destructive and single-use: a second Get with the same token
// reports ErrNotFound even immediately after a successful first one.
// An expired record found here is removed as a side effect and
// reported as not found.
func (s *Store) Get(token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[token]
	if !ok {
		return nil, ErrNotFound
	}

	delete(s.records, token)

	// A record is reachable strictly before CreatedAt+TTL and gone at
	// or after it.
	if s.now().Sub(rec.CreatedAt) >= s.ttl {
		return nil, ErrNotFound
	}

	return rec, nil
}

// TTL returns the configured record time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Count returns the number of records currently present.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Stats returns store statistics.
func (s *Store) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totalBytes int64
	var oldest time.Time
	for _, rec := range s.records {
		totalBytes += int64(len(rec.Archive))
		if oldest.IsZero() || rec.CreatedAt.Before(oldest) {
			oldest = rec.CreatedAt
		}
	}

	stats := map[string]interface{}{
		"count":               len(s.records),
		"archive_bytes":       totalBytes,
		"ttl_seconds":         int(s.ttl.Seconds()),
		"sweep_interval_secs": int(s.sweepInterval.Seconds()),
	}
	if !oldest.IsZero() {
		stats["oldest_age_seconds"] = int(s.now().Sub(oldest).Seconds())
	}

	return stats
}

// Sweep evicts every record older than the TTL and returns how many
// were removed. Runs periodically in the background but is exported so
// callers and tests can force a pass.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for token, rec := range s.records {
		if now.Sub(rec.CreatedAt) >= s.ttl {
			delete(s.records, token)
			evicted++
		}
	}

	return evicted
}

func (s *Store) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Printf("result store: evicted %d expired record(s)", n)
			}
		case <-s.stop:
			return
		}
	}
}

// NewToken mints a high-entropy, unguessable retrieval token.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
