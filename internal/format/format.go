// Package format holds the value formatters shared by the document
// builders: decimal quantization, fiscal date rendering, code padding and
// the diacritics strip applied to the text export.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Amount quantizes to 2 fractional digits with half-even rounding.
func Amount(d decimal.Decimal) string {
	return Quantize(d, 2)
}

// Quantity quantizes to 4 fractional digits with half-even rounding.
// Quantities and unit prices carry 4 digits.
func Quantity(d decimal.Decimal) string {
	return Quantize(d, 4)
}

// Quantize renders d with exactly precision fractional digits, rounding
// half-even.
func Quantize(d decimal.Decimal, precision int32) string {
	return d.RoundBank(precision).StringFixed(precision)
}

// Weight quantizes to the 3 fractional digits volume weights carry.
func Weight(d decimal.Decimal) string {
	return Quantize(d, 3)
}

// Date renders a date as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateTime renders a datetime as ISO-8601 with the local timezone offset
// and no sub-second component.
func DateTime(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}

// ZeroPad left-pads the decimal rendering of v with zeros to width digits.
func ZeroPad(v int, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Digits strips everything that is not an ASCII digit.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripAccents removes diacritical marks via NFD decomposition and a
// combining-mark filter. It is applied to the whole text export after
// pipe-assembly, never per field.
func StripAccents(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}
