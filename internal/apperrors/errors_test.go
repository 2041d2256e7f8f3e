package apperrors

import (
	"errors"
	"testing"

	"driver/internal/hash"
)

func TestKindPredicates(t *testing.T) {
	ioErr := NewIO("read failed", errors.New("boom"))
	if !IsIO(ioErr) || IsPolicy(ioErr) {
		t.Fatalf("expected IO error classification")
	}
	if !ioErr.Kind.Cacheable() {
		t.Fatalf("IO errors must be cacheable per spec §7")
	}

	policyErr := NewPolicy("path escapes output root")
	if policyErr.Kind.Cacheable() {
		t.Fatalf("policy errors must not be cacheable")
	}

	internalErr := NewInternal("missing cache entry", nil)
	if internalErr.Kind.Cacheable() {
		t.Fatalf("internal errors must not be cacheable")
	}
}

func TestWrapPreservesKind(t *testing.T) {
	base := NewDecode("bad utf8", nil)
	wrapped := Wrap(base, "parsing front matter")
	if !IsDecode(wrapped) {
		t.Fatalf("Wrap must preserve the original Kind")
	}
}

func TestSameFailureHashesEqual(t *testing.T) {
	a := NewProducer("script threw", errors.New("cause A"))
	b := NewProducer("script threw", errors.New("cause B"))
	if hash.Of(a) != hash.Of(b) {
		t.Fatalf("same Kind+Message must hash equal regardless of wrapped cause identity")
	}
}
