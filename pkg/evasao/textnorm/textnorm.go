// Package textnorm folds free text into the canonical comparison form used by
// every cleaning stage: ASCII only, no diacritics, trimmed and lower-cased.
package textnorm

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the canonical form of v. Nil, NaN and blank values fold to "".
// Fold never fails.
func Fold(v any) string {
	s := toString(v)
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	if !isASCII(s) {
		// Letters without a decomposition (ß, æ, ø) and mojibake leftovers.
		s = unidecode.Unidecode(s)
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// FoldCollapse is Fold with every internal whitespace run collapsed to a
// single space. Classifiers match against this form.
func FoldCollapse(v any) string {
	return strings.Join(strings.Fields(Fold(v)), " ")
}

// Equal reports whether a and b have the same folded form.
func Equal(a, b any) bool {
	return Fold(a) == Fold(b)
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return fmt.Sprint(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
