package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrPriceOutOfRange = errors.New("price out of range")
)

var maxPriceValue = decimal.NewFromInt(math.MaxInt64)

var currencyPrefixes = []string{"idr", "rp"}

// ParsePrice turns listing price text into whole rupiah.
//
// Dots are thousands separators unless a comma precedes them. A comma is the
// decimal marker when it is the last separator and appears once, except a
// lone comma followed by exactly three digits, which groups thousands
// ("5,000" is 5000). Fractions are rounded half-up, so "10.000,50" becomes
// 10001. Values that do not fit an int64 return ErrPriceOutOfRange.
func ParsePrice(text string) (int64, error) {
	s := stripCurrency(text)
	negative := strings.HasPrefix(s, "-")

	var b strings.Builder
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}

	number := normalizeSeparators(strings.Trim(b.String(), ".,"))
	d, err := decimal.NewFromString(number)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidPrice, text, err)
	}
	// Round is half away from zero which equals half-up for prices.
	rounded := d.Round(0)
	if rounded.GreaterThan(maxPriceValue) {
		return 0, fmt.Errorf("%w: %q", ErrPriceOutOfRange, text)
	}
	price := rounded.IntPart()
	if negative {
		price = -price
	}
	return price, nil
}

// looksLikePrice reports whether a cell holds nothing but a price.
func looksLikePrice(text string) bool {
	s := strings.TrimSpace(stripCurrency(text))
	if s == "" {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '.' || r == ',' || r == '-' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return hasDigit
}

// looksLikeIndex reports whether a cell is a short row number.
func looksLikeIndex(text string) bool {
	s := strings.TrimSuffix(strings.TrimSpace(text), ".")
	if s == "" || len(s) > 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripCurrency(text string) string {
	s := strings.TrimSpace(text)
	lower := strings.ToLower(s)
	for _, prefix := range currencyPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	return strings.TrimLeft(strings.TrimSpace(s), ".: ")
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot < 0 && strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 3:
		// 5,000
		return strings.Replace(s, ",", "", 1)
	case lastComma > lastDot && strings.Count(s, ",") == 1:
		// 10.000,50
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot > lastComma:
		// 10,000.50
		return strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ".", "")
		return strings.ReplaceAll(s, ",", "")
	}
}
