// Package secure provides helpers for handling secrets in memory without
// leaking them through logs, panics, or compiler optimizations.
package secure

import (
	"crypto/subtle"
	"fmt"
)

// ClearBytes overwrites data with zeros. It uses subtle.ConstantTimeCompare
// as a compiler barrier so the zeroing is not optimized away as a dead store.
func ClearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
	dummy := make([]byte, len(data))
	subtle.ConstantTimeCompare(data, dummy)
}

// String holds a secret value without exposing it through fmt's %v/%s
// verbs or a String()/GoString() method: the zero value and accidental
// fmt.Println(secureString) calls print nothing useful about the content.
type String struct {
	b []byte
}

// NewString takes ownership of b and wraps it. Callers must not reuse b
// afterwards; use Bytes() to get a copy if the caller still needs it.
func NewString(b []byte) *String {
	return &String{b: b}
}

// NewStringFromString copies s into a managed buffer.
func NewStringFromString(s string) *String {
	b := make([]byte, len(s))
	copy(b, s)
	return &String{b: b}
}

// Bytes returns the raw bytes. The caller must not retain or mutate the
// returned slice past the lifetime of s; use Clear to release it.
func (s *String) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Reveal materializes the secret as a string. This necessarily copies the
// bytes into Go's immutable string representation, which cannot be
// zeroed; prefer Bytes() for comparisons and Equal() for checks. Named
// Reveal rather than String so that s does not satisfy fmt.Stringer --
// fmt.Println(s) or a %v verb must never print the secret.
func (s *String) Reveal() string {
	if s == nil {
		return ""
	}
	return string(s.b)
}

// Len returns the length of the secret in bytes.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// IsEmpty reports whether the secret has zero length.
func (s *String) IsEmpty() bool {
	return s.Len() == 0
}

// Equal performs a constant-time comparison against other.
func (s *String) Equal(other *String) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return subtle.ConstantTimeCompare(s.b, other.b) == 1
}

// Clear zeros the underlying buffer. Safe to call multiple times.
func (s *String) Clear() {
	if s == nil {
		return
	}
	ClearBytes(s.b)
}

// GoString intentionally omits the wrapped value so that %#v on a
// *secure.String (e.g. via a careless Printf) never leaks the secret.
func (s *String) GoString() string {
	return "secure.String{...}"
}

// Format prints the same placeholder as GoString for every fmt verb, so
// fmt.Println(s), %v, %s and %+v on a *secure.String never print the
// wrapped bytes.
func (s *String) Format(f fmt.State, verb rune) {
	_, _ = fmt.Fprint(f, s.GoString())
}
