package analyze

import (
	"math"
	"sort"
	"time"
)

const bytesPerMB = 1048576

// CategoryStat is one row of the per-category breakdown, built from
// kept entries only.
type CategoryStat struct {
	Category  Category `json:"category"`
	Count     int      `json:"count"`
	SizeBytes int64    `json:"size_bytes"`
	SizeMB    float64  `json:"size_mb"`
}

// Report is the final statistics structure handed to callers. It is
// immutable once built and safe to serialize for unrelated consumers.
type Report struct {
	FileName   string    `json:"file_name"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	OriginalSizeBytes int64   `json:"original_size_bytes"`
	CleanedSizeBytes  int64   `json:"cleaned_size_bytes"`
	OriginalSizeMB    float64 `json:"original_size_mb"`
	CleanedSizeMB     float64 `json:"cleaned_size_mb"`

	// ReductionPercent is (original-cleaned)/original*100 rounded to
	// one decimal place, 0 when the original archive is empty.
	ReductionPercent float64 `json:"reduction_percent"`

	TotalFilesAnalyzed int `json:"total_files_analyzed"`
	TotalFilesRemoved  int `json:"total_files_removed"`

	DuplicatesRemoved  Aggregate `json:"duplicates_removed"`
	StaleRemoved       Aggregate `json:"stale_removed"`
	ScreenshotsRemoved Aggregate `json:"screenshots_removed"`

	// OversizedFlagged is informational: these entries were reported,
	// not removed.
	OversizedFlagged Aggregate `json:"oversized_flagged"`

	Categories []CategoryStat `json:"categories"`
}

// BuildReport assembles the report from a cleanup plan. originalSize
// and cleanedSize are the archive byte counts before and after the
// rewrite; fileName is a display hint only.
func BuildReport(plan *Plan, fileName string, originalSize, cleanedSize int64, now time.Time) *Report {
	r := &Report{
		FileName:           fileName,
		AnalyzedAt:         now,
		OriginalSizeBytes:  originalSize,
		CleanedSizeBytes:   cleanedSize,
		OriginalSizeMB:     toMB(originalSize),
		CleanedSizeMB:      toMB(cleanedSize),
		ReductionPercent:   reductionPercent(originalSize, cleanedSize),
		TotalFilesAnalyzed: len(plan.Keep) + len(plan.Remove),
		TotalFilesRemoved:  len(plan.Remove),
		DuplicatesRemoved:  plan.Reasons[ReasonDuplicate],
		StaleRemoved:       plan.Reasons[ReasonStale],
		ScreenshotsRemoved: plan.Reasons[ReasonScreenshot],
		OversizedFlagged:   plan.Oversized,
		Categories:         categoryBreakdown(plan.Keep),
	}
	return r
}

// categoryBreakdown aggregates kept entries by category, sorted by
// descending size with ties broken by category name for determinism.
func categoryBreakdown(kept []Entry) []CategoryStat {
	byCat := make(map[Category]*CategoryStat)
	for _, e := range kept {
		stat, ok := byCat[e.Category]
		if !ok {
			stat = &CategoryStat{Category: e.Category}
			byCat[e.Category] = stat
		}
		stat.Count++
		stat.SizeBytes += e.Size
	}

	stats := make([]CategoryStat, 0, len(byCat))
	for _, stat := range byCat {
		stat.SizeMB = toMB(stat.SizeBytes)
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].SizeBytes != stats[j].SizeBytes {
			return stats[i].SizeBytes > stats[j].SizeBytes
		}
		return stats[i].Category < stats[j].Category
	})

	return stats
}

// reductionPercent guards the empty-archive case: zero original size
// means 0% reduction, not a division fault.
func reductionPercent(original, cleaned int64) float64 {
	if original == 0 {
		return 0
	}
	pct := float64(original-cleaned) / float64(original) * 100
	return math.Round(pct*10) / 10
}

func toMB(bytes int64) float64 {
	mb := float64(bytes) / bytesPerMB
	return math.Round(mb*100) / 100
}
