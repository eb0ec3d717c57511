// Package format renders statistics as text with a stable number of decimals.
package format

import (
	"math"
	"strconv"
	"strings"
)

const (
	// StatisticsDecimals is used for the statistics panel.
	StatisticsDecimals = 3
	// TableDecimals is used for contingency table cell percentages.
	TableDecimals = 2

	scientificLow  = 1e-4
	scientificHigh = 1e4
)

// Formatter renders numbers with a fixed number of fractional digits.
// Width, when positive, left-pads the result with spaces for column alignment.
type Formatter struct {
	Decimals int
	Width    int
}

func New(decimals int) Formatter {
	if decimals < 0 {
		decimals = 0
	}
	return Formatter{Decimals: decimals}
}

func (f Formatter) Format(n float64) string {
	s := Float(n, f.Decimals)
	if pad := f.Width - len([]rune(s)); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

// Float renders n with exactly decimals fractional digits. Zero is printed in
// fixed point, values with |n| <= 1e-4 or |n| > 1e4 in scientific notation
// ("1.234e-5"), everything else in fixed point.
func Float(n float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	abs := math.Abs(n)
	switch {
	case math.IsNaN(n):
		return "NaN"
	case n == 0:
		return zero(decimals)
	case abs <= scientificLow || abs > scientificHigh:
		return scientific(n, decimals)
	default:
		return fixed(n, decimals)
	}
}

func zero(decimals int) string {
	if decimals == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", decimals)
}

func fixed(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)
	if s == "-"+zero(decimals) {
		// rounding a tiny negative must not print "-0.000"
		return zero(decimals)
	}
	return padFraction(s, decimals)
}

// padFraction right-pads the fractional part with zeros up to decimals digits.
func padFraction(s string, decimals int) string {
	if decimals == 0 {
		return s
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + "." + strings.Repeat("0", decimals)
	}
	if have := len(s) - dot - 1; have < decimals {
		s += strings.Repeat("0", decimals-have)
	}
	return s
}

// scientific formats as mantissa + "e" + signed exponent without leading zeros.
func scientific(n float64, decimals int) string {
	s := strconv.FormatFloat(n, 'e', decimals, 64)
	idx := strings.IndexByte(s, 'e')
	if idx < 0 {
		// NaN and Inf have no exponent
		return s
	}
	mantissa, exp := s[:idx], s[idx+1:]
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
