package addr

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"area-reconciler/core/utils"
)

// LetterSuffixStyle selects the case of canonical letter suffixes.
type LetterSuffixStyle int

const (
	LetterSuffixUpper LetterSuffixStyle = iota
	LetterSuffixLower
)

// ParseLetterSuffixStyle maps the document spelling to a LetterSuffixStyle.
func ParseLetterSuffixStyle(s string) LetterSuffixStyle {
	if strings.EqualFold(s, "lower") {
		return LetterSuffixLower
	}
	return LetterSuffixUpper
}

// letterSuffix matches digits, an optional space or slash, and exactly one letter.
var letterSuffix = regexp.MustCompile(`^([0-9]+)( |/)?(\p{L})$`)

// SplitLetterSuffix splits "42a", "42 a" or "42/a" into its digits and letter.
// A trailing "*" marker is reported separately. Multi-letter or digit tails
// are not suffixes.
func SplitLetterSuffix(s string) (digits string, letter string, starred bool, ok bool) {
	body, starred := strings.CutSuffix(strings.TrimSpace(s), "*")
	m := letterSuffix.FindStringSubmatch(body)
	if m == nil {
		return "", "", starred, false
	}
	return m[1], m[3], starred, true
}

// CanonicalLetterSuffix returns "<digits>/<letter>" for a value with a letter
// suffix, keeping a trailing "*". ok is false when s has no letter suffix.
func CanonicalLetterSuffix(s string, style LetterSuffixStyle) (string, bool) {
	digits, letter, starred, ok := SplitLetterSuffix(s)
	if !ok {
		return "", false
	}
	if style == LetterSuffixLower {
		letter = strings.ToLower(letter)
	} else {
		letter = strings.ToUpper(letter)
	}
	ret := digits + "/" + letter
	if starred {
		ret += "*"
	}
	return ret, true
}

// HouseNumber is one normalized house number.
type HouseNumber struct {
	// Number is the canonical form used for comparison.
	Number string `json:"number"`
	// Source is the raw token the number was produced from, e.g. "27-37".
	Source string `json:"source"`
	// Comment is carried over from the reference registry.
	Comment string `json:"comment,omitempty"`
}

// IsRange reports whether the number came from an interval token.
func (h HouseNumber) IsRange() bool {
	return strings.Contains(h.Source, "-")
}

// NumberKey is the comparison key of a HouseNumber.
func NumberKey(h HouseNumber) string {
	return h.Number
}

// CompareNumbers orders two canonical numbers numerically on their leading
// digits, then lexicographically on the remainder.
func CompareNumbers(a, b string) int {
	an, aok := utils.LeadingInt(a)
	bn, bok := utils.LeadingInt(b)
	switch {
	case aok && bok:
		if c := cmp.Compare(an, bn); c != 0 {
			return c
		}
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(strings.TrimLeftFunc(a, unicode.IsDigit), strings.TrimLeftFunc(b, unicode.IsDigit))
}

// SortHouseNumbers sorts numbers in display order.
func SortHouseNumbers(numbers []HouseNumber) {
	slices.SortStableFunc(numbers, func(a, b HouseNumber) int {
		return CompareNumbers(a.Number, b.Number)
	})
}

// HouseNumberRange is a display unit: either a single number or the interval
// token several numbers were expanded from.
type HouseNumberRange struct {
	Number  string `json:"number"`
	Comment string `json:"comment,omitempty"`
}

// CoalesceRanges coalesces numbers that share an interval source token and returns the
// display units in display order.
func CoalesceRanges(numbers []HouseNumber) []HouseNumberRange {
	seen := make(map[string]struct{}, len(numbers))
	var ret []HouseNumberRange
	for _, n := range numbers {
		display := n.Number
		if n.IsRange() {
			display = n.Source
		}
		if _, ok := seen[display]; ok {
			continue
		}
		seen[display] = struct{}{}
		ret = append(ret, HouseNumberRange{Number: display, Comment: n.Comment})
	}
	slices.SortStableFunc(ret, func(a, b HouseNumberRange) int {
		return CompareNumbers(a.Number, b.Number)
	})
	return ret
}
