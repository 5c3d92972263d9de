// Package zippack reads and rewrites ZIP archives held in memory.
//
// Decoding preserves the archive's own entry order; that order is part of
// the duplicate-detection contract upstream, so entries are never sorted
// or otherwise reshuffled here.
package zippack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// Entry is one file record decoded from an archive. Directory records
// are excluded during decode.
type Entry struct {
	Path     string
	Size     int64
	Modified time.Time
	Data     []byte
}

// Decode parses raw ZIP bytes into entries in central-directory order.
// Any unreadable entry fails the whole decode; partial results are
// never returned. A path appearing twice is treated as malformed input.
func Decode(raw []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	seen := make(map[string]bool, len(zr.File))
	entries := make([]Entry, 0, len(zr.File))

	for _, f := range zr.File {
		if isDir(f) {
			continue
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("malformed archive: duplicate path %q", f.Name)
		}
		seen[f.Name] = true

		data, err := readFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %q: %w", f.Name, err)
		}

		entries = append(entries, Entry{
			Path:     f.Name,
			Size:     int64(len(data)),
			Modified: f.Modified,
			Data:     data,
		})
	}

	return entries, nil
}

// Rewrite produces a new ZIP containing exactly the keep paths, re-read
// from the original archive with their bytes, paths and mod times
// preserved. Compression is deflate at the given level so identical
// input always yields identical output. If any keep path cannot be
// re-read, no archive is emitted.
func Rewrite(raw []byte, keep []string, level int) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to reopen archive: %w", err)
	}

	byPath := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if !isDir(f) {
			byPath[f.Name] = f
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	for _, path := range keep {
		src, ok := byPath[path]
		if !ok {
			return nil, fmt.Errorf("entry %q missing from original archive", path)
		}

		data, err := readFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read entry %q: %w", path, err)
		}

		hdr := &zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: src.Modified,
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %q: %w", path, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write entry %q: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

func isDir(f *zip.File) bool {
	return strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return data, nil
}
