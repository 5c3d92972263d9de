// Package digest computes content fingerprints for duplicate detection.
package digest

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// Sum computes the BLAKE3-256 digest of data as a lowercase hex string.
// Identical byte sequences always produce identical digests.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumReader computes the BLAKE3-256 digest of everything read from r.
func SumReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
