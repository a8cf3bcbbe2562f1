package util

import (
	"testing"
)

func TestFixUnicode(t *testing.T) {
	// decomposed e + combining acute must normalize to the composed form
	decomposed := "café"
	composed := "café"
	if FixUnicode(decomposed) != composed {
		t.Errorf("normalization failed: %q", FixUnicode(decomposed))
	}
	if FixUnicode("plain ascii") != "plain ascii" {
		t.Error("ascii should pass through unchanged")
	}
}
