package toolchain

import (
	"fmt"
	"strings"
)

// Order selects how version directory names are compared.
type Order string

const (
	// OrderLexical compares names as plain strings, so "14.9" sorts after
	// "14.30". This matches how the directories have always been picked.
	OrderLexical Order = "lexical"
	// OrderNatural compares runs of digits by numeric value.
	OrderNatural Order = "natural"
)

// ParseOrder parses a configured order name. Empty means OrderLexical.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", OrderLexical:
		return OrderLexical, nil
	case OrderNatural:
		return OrderNatural, nil
	default:
		return OrderLexical, fmt.Errorf("unknown version order: %s", s)
	}
}

// LatestVersion returns the largest name under order. It reports false for
// an empty list.
func LatestVersion(names []string, order Order) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	cmp := strings.Compare
	if order == OrderNatural {
		cmp = compareNatural
	}
	latest := names[0]
	for _, n := range names[1:] {
		if cmp(n, latest) > 0 {
			latest = n
		}
	}
	return latest, true
}

// compareNatural compares a and b segment by segment, digit runs by value
// and everything else byte-wise.
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		var sa, sb string
		sa, a = nextSegment(a)
		sb, b = nextSegment(b)

		if isDigit(sa[0]) && isDigit(sb[0]) {
			na, nb := strings.TrimLeft(sa, "0"), strings.TrimLeft(sb, "0")
			if len(na) != len(nb) {
				return sign(len(na) - len(nb))
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(sa, sb); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

// nextSegment splits off the leading run of digits or non-digits.
func nextSegment(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
