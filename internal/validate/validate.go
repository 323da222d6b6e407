package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	reID  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePIN = regexp.MustCompile(`^[\x21-\x7E]{4,32}$`)
)

// MaxName is the longest product or category name, in runes.
const MaxName = 80

// Q checks a search term. The term is kept as typed, any characters included;
// one longer than MaxName can never match a name and is rejected.
func Q(s string) (string, bool) {
	return s, utf8.RuneCountInString(s) <= MaxName
}

// Qty parses a stock quantity. Blank or unparsable input means 1, negatives clamp to 0.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	if n < 0 {
		return 0
	}
	if n > 100000 {
		return 100000
	}
	return n
}

// ID validates a simple resource identifier (product/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxName {
		return "", false
	}
	return s, true
}

// Money parses a non-negative amount with at most two decimals.
func Money(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 16 {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || !d.Equal(d.Round(2)) {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

func PIN(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePIN.MatchString(s)
}

// Answer normalizes a security answer: trimmed and lowercased.
func Answer(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || len([]rune(s)) > 64 {
		return "", false
	}
	return s, true
}
