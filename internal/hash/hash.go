// Package hash implements the engine's canonical, type-tagged content
// hashing: the ToHash contract every key and output type must satisfy so
// that distinct types or container shapes never collide under SHA-256.
package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"hash"
	"sort"
)

// H is the engine's opaque 32-byte digest.
type H [sha256.Size]byte

func (h H) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns the raw digest.
func (h H) Bytes() []byte { return h[:] }

func (h H) IsZero() bool { return h == H{} }

// RunHash lets H itself satisfy ToHash, so an Object handle can appear
// directly as a field of a larger key or output (e.g. MarkdownToHtmlKey
// wraps the Object it transforms).
func (h H) RunHash(hr *Hasher) {
	hr.WriteTag("hash.H")
	hr.WriteHash(h)
}

// FromHex parses a 64-character hex digest, as found in object store
// filenames and persisted keys.
func FromHex(s string) (H, error) {
	var h H
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != sha256.Size {
		return h, errors.New("hash: wrong digest length")
	}
	copy(h[:], b)
	return h, nil
}

// ToHash is implemented by every value that can appear in a QueryKey or
// an Output. RunHash must write a leading type-tag frame before any
// recursive field, and every slice/string/bytes field must be written
// through a length-prefixed frame (see Hasher) so that no two distinct
// values ever serialize to the same byte stream.
type ToHash interface {
	RunHash(h *Hasher)
}

// Of computes the canonical hash of a ToHash value.
func Of(v ToHash) H {
	hr := New()
	v.RunHash(hr)
	return hr.Sum()
}

// frame kinds. Each is a one-byte discriminator so "tag T / bytes b" can
// never be confused with "bytes T / tag b" even if T and b happen to
// share byte content.
const (
	frameTag byte = iota + 1
	frameBytes
	frameUint64
	frameBool
)

// Hasher is a streaming, domain-separating writer over a single SHA-256
// state. Every public Write* method emits a self-delimiting frame:
// [kind byte][8-byte big-endian length][payload]. Composite ToHash
// implementations (slices, options, tuples, paths) recurse by calling
// RunHash on each element inside their own tag frame.
type Hasher struct {
	h hash.Hash
}

func New() *Hasher {
	return &Hasher{h: sha256.New()}
}

func (hr *Hasher) frame(kind byte, payload []byte) {
	var hdr [9]byte
	hdr[0] = kind
	binary.BigEndian.PutUint64(hdr[1:], uint64(len(payload)))
	hr.h.Write(hdr[:])
	hr.h.Write(payload)
}

// WriteTag domain-separates a type or variant: every ToHash
// implementation must call this first, with a literal unique to its
// type (and, for tagged unions, its variant).
func (hr *Hasher) WriteTag(tag string) {
	hr.frame(frameTag, []byte(tag))
}

// WriteString writes a length-prefixed UTF-8 string.
func (hr *Hasher) WriteString(s string) {
	hr.frame(frameBytes, []byte(s))
}

// WriteBytes writes a length-prefixed byte slice.
func (hr *Hasher) WriteBytes(b []byte) {
	hr.frame(frameBytes, b)
}

// WriteUint64 writes a fixed-width unsigned integer.
func (hr *Hasher) WriteUint64(u uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	hr.frame(frameUint64, b[:])
}

// WriteInt64 writes a signed integer via its zig-zag-free two's
// complement bit pattern (only used for lengths/counts, never for
// values where sign matters to equality semantics beyond numeric
// identity).
func (hr *Hasher) WriteInt64(i int64) {
	hr.WriteUint64(uint64(i))
}

// WriteBool writes a boolean.
func (hr *Hasher) WriteBool(b bool) {
	if b {
		hr.frame(frameBool, []byte{1})
	} else {
		hr.frame(frameBool, []byte{0})
	}
}

// WriteHash recurses into an already-computed digest, used when a field
// is itself content-addressed (e.g. an Object handle embedded in a key).
func (hr *Hasher) WriteHash(h H) {
	hr.frame(frameBytes, h[:])
}

// Sum finalizes and returns the digest. The Hasher must not be reused
// afterwards.
func (hr *Hasher) Sum() H {
	var out H
	copy(out[:], hr.h.Sum(nil))
	return out
}

// Nested hashes a child ToHash value under its own tag frame so that
// `hash(Outer{Inner{x}})` can never collide with
// `hash(Outer{OtherInner{x}})`: the child's own WriteTag call is nested
// inside this frame's length-delimited payload.
func (hr *Hasher) Nested(v ToHash) {
	child := New()
	v.RunHash(child)
	hr.WriteHash(child.Sum())
}

// WriteSlice hashes a homogeneous slice: a tag, the element count, and
// then each element nested in turn. Using Nested per-element (rather
// than writing fields inline) is what makes hash([a,b]) != hash([ab]):
// each element's length is embedded in its own sub-hash frame.
func WriteSlice[T ToHash](hr *Hasher, items []T) {
	hr.WriteTag("slice")
	hr.WriteUint64(uint64(len(items)))
	for _, it := range items {
		hr.Nested(it)
	}
}

// WriteStringSlice is WriteSlice specialized for plain strings, which
// don't implement ToHash themselves (they're a primitive, not a
// composite).
func WriteStringSlice(hr *Hasher, items []string) {
	hr.WriteTag("string-slice")
	hr.WriteUint64(uint64(len(items)))
	for _, s := range items {
		hr.WriteString(s)
	}
}

// WriteSortedStringSlice hashes a set of strings order-independently by
// sorting a copy first. Used for map-shaped data (e.g. directory
// listings that must hash the same regardless of OS readdir order)
// before the caller imposes its own deterministic output order.
func WriteSortedStringSlice(hr *Hasher, items []string) {
	cp := append([]string(nil), items...)
	sort.Strings(cp)
	WriteStringSlice(hr, cp)
}

// WriteOption hashes an *optional* value: tag "none" or "some" plus the
// nested payload, the composite analogue of Rust's Option<T>.
func WriteOption[T ToHash](hr *Hasher, v *T) {
	if v == nil {
		hr.WriteTag("none")
		return
	}
	hr.WriteTag("some")
	hr.Nested(*v)
}

// stringHash lets a plain string satisfy ToHash where a generic helper
// needs one (e.g. a path component in WriteSlice).
type stringHash string

func (s stringHash) RunHash(h *Hasher) {
	h.WriteTag("string")
	h.WriteString(string(s))
}

// String adapts a string to ToHash for use with WriteSlice/Nested.
func String(s string) ToHash { return stringHash(s) }
