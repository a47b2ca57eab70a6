package validation

import (
	"math/big"
	"regexp"
	"strings"
)

// integerRegex matches a base-10 integer with an optional leading minus.
// Fractions, exponents, a leading plus and surrounding garbage do not match.
var integerRegex = regexp.MustCompile(`^-?[0-9]+$`)

var one = big.NewInt(1)

// Validate classifies raw. The rules run in a fixed order and the first
// match wins, so "abc" is reported as NotAnInteger, never NotPositive:
//
//  1. absent                      -> Invalid{Missing, ""}
//  2. trimmed text not an integer -> Invalid{NotAnInteger, raw}
//  3. integer < 1                 -> Invalid{NotPositive, raw}
//  4. otherwise                   -> Valid{index}
//
// There is no upper bound; the index is kept at arbitrary precision.
func Validate(raw RawParameter) Outcome {
	text, ok := raw.Text()
	if !ok {
		return Invalid{Kind: Missing}
	}

	trimmed := strings.TrimSpace(text)
	if !integerRegex.MatchString(trimmed) {
		return Invalid{Kind: NotAnInteger, Input: text}
	}

	n, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return Invalid{Kind: NotAnInteger, Input: text}
	}

	if n.Cmp(one) < 0 {
		return Invalid{Kind: NotPositive, Input: text}
	}

	return Valid{Index: ValidatedIndex{n: n}}
}
