package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReductionPercent(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		cleaned  int64
		want     float64
	}{
		{"empty archive yields zero, not a division fault", 0, 0, 0},
		{"no reduction", 100, 100, 0},
		{"half", 200, 100, 50},
		{"full", 100, 0, 100},
		{"rounds to one decimal", 3, 2, 33.3},
		{"rounds up", 3, 1, 66.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reductionPercent(tt.original, tt.cleaned))
		})
	}
}

func TestToMB(t *testing.T) {
	assert.Equal(t, 1.0, toMB(1048576))
	assert.Equal(t, 0.5, toMB(524288))
	assert.Equal(t, 0.0, toMB(0))
}

func TestBuildReport(t *testing.T) {
	entries := []Entry{
		{Path: "a.pdf", Size: 300, Category: CategoryDocuments},
		{Path: "b.jpg", Size: 500, Category: CategoryImages},
		{Path: "dup.jpg", Size: 500, Category: CategoryImages, IsDuplicate: true},
	}
	plan := BuildPlan(entries)

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	r := BuildReport(plan, "stuff.zip", 2000, 1000, now)

	assert.Equal(t, "stuff.zip", r.FileName)
	assert.Equal(t, now, r.AnalyzedAt)
	assert.Equal(t, 3, r.TotalFilesAnalyzed)
	assert.Equal(t, 1, r.TotalFilesRemoved)
	assert.Equal(t, Aggregate{Count: 1, SizeBytes: 500}, r.DuplicatesRemoved)
	assert.Equal(t, 50.0, r.ReductionPercent)
}

func TestCategoryBreakdownOrdering(t *testing.T) {
	kept := []Entry{
		{Path: "a.pdf", Size: 100, Category: CategoryDocuments},
		{Path: "b.jpg", Size: 300, Category: CategoryImages},
		{Path: "c.jpg", Size: 100, Category: CategoryImages},
		{Path: "d.mp3", Size: 400, Category: CategoryAudio},
		{Path: "e.go", Size: 100, Category: CategoryCode},
	}

	stats := categoryBreakdown(kept)

	// Descending by size; equal sizes break ties by category name.
	want := []Category{CategoryAudio, CategoryImages, CategoryCode, CategoryDocuments}
	got := make([]Category, len(stats))
	for i, s := range stats {
		got[i] = s.Category
	}
	assert.Equal(t, want, got)

	assert.Equal(t, 2, stats[1].Count)
	assert.Equal(t, int64(400), stats[1].SizeBytes)
}

func TestCategoryBreakdownFromKeepSetOnly(t *testing.T) {
	entries := []Entry{
		{Path: "keep.jpg", Size: 100, Category: CategoryImages},
		{Path: "gone.mp4", Size: 900, Category: CategoryVideos, IsStale: true},
	}
	plan := BuildPlan(entries)
	r := BuildReport(plan, "x.zip", 1000, 100, time.Now())

	assert.Len(t, r.Categories, 1)
	assert.Equal(t, CategoryImages, r.Categories[0].Category)
}
