package validation

import (
	"math/big"
	"net/url"
	"strings"
)

// IndexKey is the query key carrying the Fibonacci index.
const IndexKey = "n"

// ErrorKind classifies why a raw parameter was rejected.
//
// The set is closed: only the constants below exist, and handlers are
// expected to map each of them explicitly.
type ErrorKind uint8

const (
	// Missing means the `n` key was not supplied at all.
	Missing ErrorKind = iota + 1

	// NotAnInteger means the text is not a base-10 integer
	// (this includes well-formed decimals such as "3.14").
	NotAnInteger

	// NotPositive means the text is an integer below 1.
	NotPositive
)

// ErrorKinds lists every ErrorKind in declaration order.
var ErrorKinds = []ErrorKind{Missing, NotAnInteger, NotPositive}

func (k ErrorKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case NotAnInteger:
		return "not_an_integer"
	case NotPositive:
		return "not_positive"
	default:
		return "unknown"
	}
}

// RawParameter is the unparsed value bound to the index key. It is either
// absent or present as text; present text may be empty ("?n=").
type RawParameter struct {
	text    string
	present bool
}

// Absent returns a RawParameter for a request that did not supply the key.
func Absent() RawParameter {
	return RawParameter{}
}

// Present returns a RawParameter carrying the caller's literal text.
func Present(text string) RawParameter {
	return RawParameter{text: text, present: true}
}

// FromQuery extracts the first value bound to key from a raw query string.
//
// Pairs are split on "&" only. A key that appears without a value ("?n" or
// "?n=") counts as present with empty text, and a value whose escapes are
// malformed ("%zz") is kept as written rather than dropped, so a supplied
// key is never reported as absent.
func FromQuery(rawQuery, key string) RawParameter {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		if unescape(k) != key {
			continue
		}
		return Present(unescape(v))
	}
	return Absent()
}

// unescape decodes s like url.ParseQuery does, falling back to the literal
// text when s is not a valid escape sequence.
func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// Text returns the literal text and whether the parameter was supplied.
func (r RawParameter) Text() (string, bool) {
	return r.text, r.present
}

// ValidatedIndex is an integer known to be >= 1. Only Validate produces a
// populated value; the zero value reports false from Uint64.
type ValidatedIndex struct {
	n *big.Int
}

// Uint64 returns the index as a uint64, or false if it does not fit.
func (v ValidatedIndex) Uint64() (uint64, bool) {
	if v.n == nil || !v.n.IsUint64() {
		return 0, false
	}
	return v.n.Uint64(), true
}

// Int returns a copy of the index.
func (v ValidatedIndex) Int() *big.Int {
	if v.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.n)
}

func (v ValidatedIndex) String() string {
	if v.n == nil {
		return "0"
	}
	return v.n.String()
}

// Outcome is the result of Validate: exactly one of Valid or Invalid.
type Outcome interface {
	outcome()
}

// Valid carries an accepted index.
type Valid struct {
	Index ValidatedIndex
}

// Invalid carries the rejection kind and the caller's literal input.
// Input is empty for Missing.
type Invalid struct {
	Kind  ErrorKind
	Input string
}

func (Valid) outcome()   {}
func (Invalid) outcome() {}
