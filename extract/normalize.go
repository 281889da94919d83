package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingFloat matches the longest leading float literal of a cleaned string
var leadingFloat = regexp.MustCompile(`^-?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)`)

// Normalize converts a locale-ambiguous numeric string into a float.
// Either separator may be the decimal one; the rightmost separator wins when both
// are present, and a lone comma is always read as a decimal comma:
// "1.234,56" -> 1234.56, "1,234.56" -> 1234.56, "1234,56" -> 1234.56.
// Returns nil if no finite number can be read
func Normalize(raw string) *float64 {
	s := clean(raw)

	var (
		lastComma = strings.LastIndexByte(s, ',')
		lastDot   = strings.LastIndexByte(s, '.')
	)

	switch {
	case lastComma >= 0 && lastDot >= 0 && lastDot < lastComma:
		// "1.234,56"
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// "1,234.56"
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// "1234,56"
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	literal := leadingFloat.FindString(s)
	if literal == "" {
		return nil
	}

	v, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}

	return &v
}

// clean drops everything that is not an ASCII digit, separator or minus sign
func clean(raw string) string {
	var b strings.Builder

	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if (c >= '0' && c <= '9') || c == ',' || c == '.' || c == '-' {
			b.WriteByte(c)
		}
	}

	return b.String()
}
