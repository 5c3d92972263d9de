package analyze

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultStaleThreshold marks entries untouched for about two
	// years as stale.
	DefaultStaleThreshold = 730 * 24 * time.Hour

	// DefaultLargeFileThreshold is the informational large-file cutoff (50 MiB).
	DefaultLargeFileThreshold int64 = 50 * 1024 * 1024

	// DefaultCompression is the deflate level used for rewritten archives.
	DefaultCompression = CompressionDefault
)

// CompressionLevel represents deflate compression levels for the
// rewritten archive.
type CompressionLevel int

const (
	CompressionFastest CompressionLevel = 1
	CompressionDefault CompressionLevel = 6
	CompressionBest    CompressionLevel = 9
)

// Category groups entries by file type for the report breakdown.
type Category string

const (
	CategoryImages        Category = "Images"
	CategoryVideos        Category = "Videos"
	CategoryAudio         Category = "Audio"
	CategoryDocuments     Category = "Documents"
	CategorySpreadsheets  Category = "Spreadsheets"
	CategoryPresentations Category = "Presentations"
	CategoryArchives      Category = "Archives"
	CategoryCode          Category = "Code"
	CategoryOther         Category = "Other"
)

var categoryByExt = map[string]Category{
	".jpg": CategoryImages, ".jpeg": CategoryImages, ".png": CategoryImages,
	".gif": CategoryImages, ".bmp": CategoryImages, ".webp": CategoryImages,
	".svg": CategoryImages, ".heic": CategoryImages, ".tiff": CategoryImages,

	".mp4": CategoryVideos, ".mov": CategoryVideos, ".avi": CategoryVideos,
	".mkv": CategoryVideos, ".webm": CategoryVideos, ".wmv": CategoryVideos,

	".mp3": CategoryAudio, ".wav": CategoryAudio, ".flac": CategoryAudio,
	".aac": CategoryAudio, ".ogg": CategoryAudio, ".m4a": CategoryAudio,

	".pdf": CategoryDocuments, ".doc": CategoryDocuments, ".docx": CategoryDocuments,
	".txt": CategoryDocuments, ".rtf": CategoryDocuments, ".odt": CategoryDocuments,
	".md": CategoryDocuments,

	".xls": CategorySpreadsheets, ".xlsx": CategorySpreadsheets,
	".csv": CategorySpreadsheets, ".ods": CategorySpreadsheets,

	".ppt": CategoryPresentations, ".pptx": CategoryPresentations,
	".odp": CategoryPresentations, ".key": CategoryPresentations,

	".zip": CategoryArchives, ".tar": CategoryArchives, ".gz": CategoryArchives,
	".rar": CategoryArchives, ".7z": CategoryArchives, ".bz2": CategoryArchives,

	".go": CategoryCode, ".py": CategoryCode, ".js": CategoryCode,
	".ts": CategoryCode, ".java": CategoryCode, ".c": CategoryCode,
	".cpp": CategoryCode, ".h": CategoryCode, ".rs": CategoryCode,
	".rb": CategoryCode, ".sh": CategoryCode, ".html": CategoryCode,
	".css": CategoryCode, ".json": CategoryCode, ".yaml": CategoryCode,
	".yml": CategoryCode, ".xml": CategoryCode, ".sql": CategoryCode,
}

// CategoryOf maps a path's extension (case-insensitive) to its
// category. Unknown or missing extensions fall into CategoryOther.
func CategoryOf(path string) Category {
	ext := strings.ToLower(filepath.Ext(path))
	if cat, ok := categoryByExt[ext]; ok {
		return cat
	}
	return CategoryOther
}

// Entry is one classified file record from the submitted archive.
// Entries are built during the single decode pass and never mutated
// after classification. The four flags are independent; duplicate
// status takes priority for removal attribution only.
type Entry struct {
	Path             string    `json:"path"`
	Size             int64     `json:"size"`
	ModifiedAt       time.Time `json:"modified_at"`
	ContentHash      string    `json:"content_hash"`
	Category         Category  `json:"category"`
	IsDuplicate      bool      `json:"is_duplicate"`
	IsStale          bool      `json:"is_stale"`
	IsScreenshotLike bool      `json:"is_screenshot_like"`
	IsOversized      bool      `json:"is_oversized"`
}

// ScreenshotPatterns configures the screenshot-like heuristic. A base
// name matches if it contains any of Substrings (case-insensitive) or
// starts with any of NumberedPrefixes immediately followed by a digit.
type ScreenshotPatterns struct {
	Substrings       []string
	NumberedPrefixes []string
}

// DefaultScreenshotPatterns returns the stock capture-naming heuristics.
func DefaultScreenshotPatterns() ScreenshotPatterns {
	return ScreenshotPatterns{
		Substrings:       []string{"screenshot", "screen shot"},
		NumberedPrefixes: []string{"img_", "image_", "photo_"},
	}
}

// Logger is a simple logging interface used throughout zipsift.
type Logger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

type defaultLogger struct {
	l *log.Logger
}

func (d *defaultLogger) Printf(format string, v ...interface{}) { d.l.Printf(format, v...) }
func (d *defaultLogger) Println(v ...interface{})               { d.l.Println(v...) }

// NewDefaultLogger returns a stderr-backed Logger.
func NewDefaultLogger() Logger {
	return &defaultLogger{l: log.New(os.Stderr, "", log.LstdFlags)}
}

// Config holds configuration for the analysis pipeline.
type Config struct {
	StaleThreshold     time.Duration
	LargeFileThreshold int64
	Screenshot         ScreenshotPatterns
	CompressionLevel   CompressionLevel
	Logger             Logger

	// Now overrides the clock used by the stale test. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		StaleThreshold:     DefaultStaleThreshold,
		LargeFileThreshold: DefaultLargeFileThreshold,
		Screenshot:         DefaultScreenshotPatterns(),
		CompressionLevel:   DefaultCompression,
		Logger:             nil, // Analyzer falls back to NewDefaultLogger
	}
}
