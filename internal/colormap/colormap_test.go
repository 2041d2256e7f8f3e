package colormap

import (
	"testing"

	"driver/internal/hash"
)

func h(b byte) hash.H {
	var out hash.H
	out[0] = b
	return out
}

func TestGetMissing(t *testing.T) {
	m := New()
	if _, ok := m.Get(h(1)); ok {
		t.Fatalf("expected no verdict for an unknown key")
	}
}

func TestMarkGreenThenRed(t *testing.T) {
	m := New()
	m.MarkGreen(h(1), 3)
	v, ok := m.Get(h(1))
	if !ok || v.Color != Green || v.Revision != 3 {
		t.Fatalf("expected Green@3, got %+v", v)
	}
	m.MarkRed(h(1), 3)
	v, ok = m.Get(h(1))
	if !ok || v.Color != Red {
		t.Fatalf("expected last write (Red) to win, got %+v", v)
	}
}

func TestAllReturnsACopy(t *testing.T) {
	m := New()
	m.MarkGreen(h(1), 1)
	snap := m.All()
	if len(snap) != 1 {
		t.Fatalf("expected one verdict, got %d", len(snap))
	}
	m.MarkGreen(h(2), 1)
	if len(snap) != 1 {
		t.Fatalf("expected snapshot to be unaffected by later writes")
	}
}

func TestResetSeedsGreenAtZero(t *testing.T) {
	m := New()
	m.MarkRed(h(1), 5)
	m.Reset([]hash.H{h(2), h(3)})
	if _, ok := m.Get(h(1)); ok {
		t.Fatalf("expected reset to drop prior verdicts")
	}
	v, ok := m.Get(h(2))
	if !ok || v.Color != Green || v.Revision != 0 {
		t.Fatalf("expected reseeded key Green@0, got %+v", v)
	}
}
