package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// RateDecimals is the fixed display precision for rates regardless of currency.
	RateDecimals = 4
	// DefaultDecimals is used for amounts of currencies without a known minor-unit count.
	DefaultDecimals = 2
)

var hundred = decimal.NewFromInt(100)

// SafeParse parses free-form numeric input, returning zero for invalid or empty input.
// Digit grouping commas and whitespace are ignored and the longest numeric prefix is used,
// so "1,000" is 1000 and "12abc" is 12. A leading sign is honoured.
func SafeParse(value string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' || r == '\u00a0' {
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	return parsePrefix(cleaned, true)
}

// ParseAmount parses an amount field. Every character other than digits and the decimal point
// is discarded before parsing, which makes amounts non-negative: "$1,000.50" is 1000.5.
func ParseAmount(value string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, value)
	return parsePrefix(cleaned, false)
}

// ParseThreshold parses a rate filter threshold. ok is false when the input has no numeric
// prefix at all, which callers treat as "no threshold".
func ParseThreshold(value string) (d decimal.Decimal, ok bool) {
	cleaned := strings.TrimSpace(value)
	if numericPrefix(cleaned, true) == "" {
		return decimal.Zero, false
	}
	return parsePrefix(cleaned, true), true
}

func parsePrefix(s string, signed bool) decimal.Decimal {
	prefix := numericPrefix(s, signed)
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// numericPrefix returns the longest leading "[sign]digits[.digits]" of s normalised so that
// decimal.NewFromString accepts it, or "" when s does not start with a number.
func numericPrefix(s string, signed bool) string {
	var sign, intPart, fracPart strings.Builder
	seenDot := false

scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if seenDot {
				fracPart.WriteRune(r)
			} else {
				intPart.WriteRune(r)
			}
		case r == '.' && !seenDot:
			seenDot = true
		case signed && i == 0 && (r == '-' || r == '+'):
			if r == '-' {
				sign.WriteRune(r)
			}
		default:
			break scan
		}
	}

	if intPart.Len() == 0 && fracPart.Len() == 0 {
		return ""
	}

	out := sign.String()
	if intPart.Len() == 0 {
		out += "0"
	} else {
		out += intPart.String()
	}
	if fracPart.Len() > 0 {
		out += "." + fracPart.String()
	}
	return out
}

// CrossRate returns rate(code) / rate(base). Both arguments come from a validated snapshot,
// so base is strictly positive; a zero base still yields zero instead of panicking.
func CrossRate(code, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return code.Div(base)
}

// ApplyMargin returns value * (1 + margin/100).
func ApplyMargin(value, marginPct decimal.Decimal) decimal.Decimal {
	return value.Mul(decimal.NewFromInt(1).Add(marginPct.Div(hundred)))
}

// FormatFixed rounds to the given number of decimal places and always prints them.
func FormatFixed(d decimal.Decimal, places int) string {
	return d.StringFixed(int32(places))
}
