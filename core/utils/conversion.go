package utils

import (
	"strconv"
	"strings"
)

// LeadingDigits returns the run of ASCII digits at the start of s.
// It returns an empty string when s does not start with a digit.
func LeadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// LeadingInt parses the leading digit run of s.
// ok is false when s has no leading digits or the run overflows an int.
func LeadingInt(s string) (n int, ok bool) {
	digits := LeadingDigits(strings.TrimSpace(s))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ToInt64 converts a decimal string to int64, returning 0 for anything unparseable.
// Extract identifiers are best-effort: a malformed id must not abort a run.
func ToInt64(s string) int64 {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return i
}

// SplitAny splits s on any of the separator runes and trims surrounding
// whitespace from each part. Empty parts are dropped.
func SplitAny(s string, seps string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
