// Package apperrors implements the engine's typed error taxonomy.
//
// AppError (Kind/Message/Err, Wrap, Is* predicates) carries five kinds
// instead of a CRUD service's usual three, and additionally satisfies
// hash.ToHash so I/O, decode, and producer failures can be embedded in a
// cached Output and survive the query engine's insert/diff machinery.
package apperrors

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"driver/internal/hash"
)

func gobEncode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(b []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}

// Kind categorizes an error into one of five buckets.
type Kind string

const (
	KindIO       Kind = "IO"       // missing file, read error, directory enumeration error
	KindDecode   Kind = "DECODE"   // non-UTF-8 where text expected, malformed persisted state
	KindProducer Kind = "PRODUCER" // script runtime error, transformer error
	KindPolicy   Kind = "POLICY"   // path traversal, hash mismatch on restore
	KindInternal Kind = "INTERNAL" // missing expected cache entry, wrong-type downcast: a bug
)

// Cacheable reports true for the IO/Decode/Producer kinds and false for
// Policy/Internal. The engine's caches do not consult it: a failed
// Result returned by a producer is cached whatever its Kind, and an
// Internal error does not stop the process.
func (k Kind) Cacheable() bool {
	switch k {
	case KindIO, KindDecode, KindProducer:
		return true
	default:
		return false
	}
}

// AppError is the engine's error value. It is comparable by value
// (Message/Kind), cloneable (a plain struct), and hashable, so it can
// serve as the E in a cached Result[T, AppError] output.
type AppError struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause; not itself hashed, only its string form
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the wrapped cause.
func (e *AppError) Unwrap() error { return e.Err }

// RunHash implements hash.ToHash. Only Kind and Message participate:
// the wrapped cause's identity is not part of the engine's notion of
// "the same failure happened again" (case A's changed/unchanged test).
func (e *AppError) RunHash(h *hash.Hasher) {
	h.WriteTag("apperrors.AppError")
	h.WriteString(string(e.Kind))
	h.WriteString(e.Message)
}

// gobAppError is the wire shape persistence encodes AppError as: Err is
// a bare error interface, which gob cannot round-trip without every
// concrete cause type registered, so only its string form survives a
// save/load cycle. RunHash above already treats the cause as
// non-identity-bearing, so this loses nothing the engine cares about.
type gobAppError struct {
	Kind    Kind
	Message string
	Cause   string
}

func (e *AppError) GobEncode() ([]byte, error) {
	g := gobAppError{Kind: e.Kind, Message: e.Message}
	if e.Err != nil {
		g.Cause = e.Err.Error()
	}
	return gobEncode(g)
}

func (e *AppError) GobDecode(b []byte) error {
	var g gobAppError
	if err := gobDecode(b, &g); err != nil {
		return err
	}
	e.Kind = g.Kind
	e.Message = g.Message
	if g.Cause != "" {
		e.Err = errors.New(g.Cause)
	}
	return nil
}

// New constructs an AppError of the given kind with no wrapped cause.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// NewIO wraps an I/O failure (missing file, read/enumeration error).
func NewIO(message string, err error) *AppError {
	return &AppError{Kind: KindIO, Message: message, Err: err}
}

// NewDecode wraps a decode failure (bad UTF-8, malformed persisted state).
func NewDecode(message string, err error) *AppError {
	return &AppError{Kind: KindDecode, Message: message, Err: err}
}

// NewProducer wraps a producer failure (script runtime, transformer).
func NewProducer(message string, err error) *AppError {
	return &AppError{Kind: KindProducer, Message: message, Err: err}
}

// NewPolicy constructs a policy violation (path traversal, hash
// mismatch). Kind.Cacheable reports false for it, but a Policy error
// returned from a producer is stored in that query's cached Result like
// any other failure.
func NewPolicy(message string) *AppError {
	return &AppError{Kind: KindPolicy, Message: message}
}

// NewInternal wraps a bug: a broken invariant the caller should treat as
// fatal rather than retry.
func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// Wrap adds context to err, preserving its Kind if it is already an
// AppError, otherwise classifying it Internal.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AppError); ok {
		return &AppError{
			Kind:    ae.Kind,
			Message: fmt.Sprintf("%s: %s", message, ae.Message),
			Err:     ae.Err,
		}
	}
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

func kindOf(err error) (Kind, bool) {
	ae, ok := err.(*AppError)
	if !ok {
		return "", false
	}
	return ae.Kind, true
}

func IsIO(err error) bool       { k, ok := kindOf(err); return ok && k == KindIO }
func IsDecode(err error) bool   { k, ok := kindOf(err); return ok && k == KindDecode }
func IsProducer(err error) bool { k, ok := kindOf(err); return ok && k == KindProducer }
func IsPolicy(err error) bool   { k, ok := kindOf(err); return ok && k == KindPolicy }
func IsInternal(err error) bool { k, ok := kindOf(err); return ok && k == KindInternal }
