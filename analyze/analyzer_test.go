package analyze_test

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/zippack"
)

type archiveEntry struct {
	name     string
	content  []byte
	modified time.Time
}

func buildArchive(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: e.modified,
		})
		require.NoError(t, err)
		_, err = w.Write(e.content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func fixedClockConfig(now time.Time) *analyze.Config {
	cfg := analyze.DefaultConfig()
	cfg.Now = func() time.Time { return now }
	cfg.Logger = testLogger{}
	return cfg
}

type testLogger struct{}

func (testLogger) Printf(format string, v ...interface{}) {}
func (testLogger) Println(v ...interface{})               {}

func TestAnalyzeEndToEnd(t *testing.T) {
	// An archive with a unique file, a byte-identical copy of it, and
	// a screenshot-pattern match.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-48 * time.Hour)

	content := []byte("0123456789") // 10 bytes
	raw := buildArchive(t, []archiveEntry{
		{name: "a.txt", content: content, modified: recent},
		{name: "b.txt", content: content, modified: recent},
		{name: "IMG_0001.png", content: bytes.Repeat([]byte{0xAB}, 5*1024), modified: recent},
	})

	analyzer := analyze.NewAnalyzer(fixedClockConfig(now))
	result, err := analyzer.Analyze(raw, "vacation.zip")
	require.NoError(t, err)

	r := result.Report
	assert.Equal(t, 3, r.TotalFilesAnalyzed)
	assert.Equal(t, 2, r.TotalFilesRemoved)
	assert.Equal(t, 1, r.DuplicatesRemoved.Count)
	assert.Equal(t, int64(10), r.DuplicatesRemoved.SizeBytes)
	assert.Equal(t, 1, r.ScreenshotsRemoved.Count)
	assert.Equal(t, 0, r.StaleRemoved.Count)

	// The first occurrence wins as original: only a.txt survives.
	entries, err := zippack.Decode(result.Archive)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Path)
	assert.Equal(t, content, entries[0].Data)
}

func TestAnalyzeDeterminism(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)

	raw := buildArchive(t, []archiveEntry{
		{name: "one.txt", content: []byte("one"), modified: recent},
		{name: "two.txt", content: []byte("two"), modified: recent},
		{name: "copy.txt", content: []byte("one"), modified: recent},
	})

	run := func() (*analyze.Result, []byte) {
		analyzer := analyze.NewAnalyzer(fixedClockConfig(now))
		result, err := analyzer.Analyze(raw, "same.zip")
		require.NoError(t, err)
		reportJSON, err := json.Marshal(result.Report)
		require.NoError(t, err)
		return result, reportJSON
	}

	result1, json1 := run()
	result2, json2 := run()

	assert.Equal(t, json1, json2, "reports must be byte-identical across runs")
	assert.Equal(t, result1.Archive, result2.Archive, "rewritten archives must be byte-identical across runs")
}

func TestAnalyzeDuplicatePriorityOverStale(t *testing.T) {
	// A byte-identical copy that is also past the stale threshold is
	// attributed to the duplicate count, not the stale count.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	raw := buildArchive(t, []archiveEntry{
		{name: "orig.txt", content: []byte("payload"), modified: now.Add(-time.Hour)},
		{name: "ancient_copy.txt", content: []byte("payload"), modified: now.AddDate(-3, 0, 0)},
	})

	analyzer := analyze.NewAnalyzer(fixedClockConfig(now))
	result, err := analyzer.Analyze(raw, "x.zip")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.DuplicatesRemoved.Count)
	assert.Equal(t, 0, result.Report.StaleRemoved.Count)
}

func TestAnalyzeStaleRemoval(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	raw := buildArchive(t, []archiveEntry{
		{name: "fresh.txt", content: []byte("fresh"), modified: now.Add(-time.Hour)},
		{name: "dusty.txt", content: []byte("dusty"), modified: now.AddDate(-3, 0, 0)},
	})

	analyzer := analyze.NewAnalyzer(fixedClockConfig(now))
	result, err := analyzer.Analyze(raw, "x.zip")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.StaleRemoved.Count)

	entries, err := zippack.Decode(result.Archive)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh.txt", entries[0].Path)
}

func TestAnalyzeOversizedKept(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cfg := fixedClockConfig(now)
	cfg.LargeFileThreshold = 1024 // lower the bar instead of a 50 MiB fixture

	raw := buildArchive(t, []archiveEntry{
		{name: "big.bin", content: bytes.Repeat([]byte{1}, 4096), modified: now.Add(-time.Hour)},
	})

	analyzer := analyze.NewAnalyzer(cfg)
	result, err := analyzer.Analyze(raw, "x.zip")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.OversizedFlagged.Count)
	assert.Equal(t, 0, result.Report.TotalFilesRemoved)

	entries, err := zippack.Decode(result.Archive)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyzeEmptyArchive(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	raw := buildArchive(t, nil)

	analyzer := analyze.NewAnalyzer(fixedClockConfig(now))
	result, err := analyzer.Analyze(raw, "empty.zip")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Report.TotalFilesAnalyzed)
	assert.Equal(t, 0.0, result.Report.ReductionPercent)
}

func TestAnalyzeCorruptArchive(t *testing.T) {
	analyzer := analyze.NewAnalyzer(fixedClockConfig(time.Now()))

	_, err := analyzer.Analyze([]byte("this is not a zip"), "bad.zip")
	assert.Error(t, err)
}
