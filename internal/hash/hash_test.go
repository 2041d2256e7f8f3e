package hash

import "testing"

type typeA struct{ X string }
type typeB struct{ X string }

func (a typeA) RunHash(h *Hasher) {
	h.WriteTag("typeA")
	h.WriteString(a.X)
}

func (b typeB) RunHash(h *Hasher) {
	h.WriteTag("typeB")
	h.WriteString(b.X)
}

func TestDistinctTypesSameShapeDiffer(t *testing.T) {
	a := Of(typeA{X: "hello"})
	b := Of(typeB{X: "hello"})
	if a == b {
		t.Fatalf("hash(A{x}) must differ from hash(B{x}), got equal %s", a)
	}
}

func TestEqualValuesEqualHash(t *testing.T) {
	a1 := Of(typeA{X: "hello"})
	a2 := Of(typeA{X: "hello"})
	if a1 != a2 {
		t.Fatalf("equal values must hash equal")
	}
}

func TestSliceConcatenationAmbiguityAvoided(t *testing.T) {
	h1 := New()
	WriteStringSlice(h1, []string{"a", "b"})
	sum1 := h1.Sum()

	h2 := New()
	WriteStringSlice(h2, []string{"ab"})
	sum2 := h2.Sum()

	if sum1 == sum2 {
		t.Fatalf("hash([a,b]) must differ from hash([ab])")
	}
}

func TestSortedSliceOrderIndependent(t *testing.T) {
	h1 := New()
	WriteSortedStringSlice(h1, []string{"b", "a"})
	sum1 := h1.Sum()

	h2 := New()
	WriteSortedStringSlice(h2, []string{"a", "b"})
	sum2 := h2.Sum()

	if sum1 != sum2 {
		t.Fatalf("sorted slice hash must be order independent")
	}
}

func TestOptionNoneVsSomeDiffer(t *testing.T) {
	h1 := New()
	WriteOption[typeA](h1, nil)
	none := h1.Sum()

	v := typeA{X: ""}
	h2 := New()
	WriteOption(h2, &v)
	some := h2.Sum()

	if none == some {
		t.Fatalf("None must hash differently from Some(zero value)")
	}
}

func TestFromHexRoundTrip(t *testing.T) {
	h := Of(typeA{X: "round-trip"})
	parsed, err := FromHex(h.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != h {
		t.Fatalf("round trip mismatch")
	}
}
