package digest_test

import (
	"strings"
	"testing"

	"github.com/zipsift/zipsift/internal/digest"
)

func TestSumDeterministic(t *testing.T) {
	a := digest.Sum([]byte("hello"))
	b := digest.Sum([]byte("hello"))
	if a != b {
		t.Errorf("identical bytes produced different digests: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	if digest.Sum([]byte("hello")) == digest.Sum([]byte("hello!")) {
		t.Error("distinct bytes produced the same digest")
	}
	if digest.Sum(nil) == digest.Sum([]byte{0}) {
		t.Error("empty and one-byte inputs collided")
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	content := "the same bytes either way"

	fromReader, err := digest.SumReader(strings.NewReader(content))
	if err != nil {
		t.Fatalf("SumReader failed: %v", err)
	}
	if fromReader != digest.Sum([]byte(content)) {
		t.Error("streaming and in-memory digests disagree")
	}
}
