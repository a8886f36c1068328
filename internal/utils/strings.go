package utils

import (
	"strings"
	"unicode"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSeatList splits comma/semicolon separated seat strings into cleaned slices.
// Seat labels are case-insensitive, so the driver sentinel is upper-cased.
func SplitSeatList(raw string) []string {
	out := []string{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// DigitsOnly strips everything but digits, keeping a leading "+" out of the result.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeMSISDN cleans a phone number and checks it has 9 to 15 digits.
func NormalizeMSISDN(s string) (string, bool) {
	d := DigitsOnly(s)
	if len(d) < 9 || len(d) > 15 {
		return "", false
	}
	return d, true
}

// MaskMSISDN hides all but the last three digits for logs.
func MaskMSISDN(s string) string {
	if len(s) <= 3 {
		return s
	}
	return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
}
