package scoring

import (
	"strconv"
	"strings"
)

var amountStripper = strings.NewReplacer("$", "", ",", "")

// NormalizeAmount removes currency symbols, thousands separators and
// surrounding whitespace.
func NormalizeAmount(raw string) string {
	return strings.TrimSpace(amountStripper.Replace(raw))
}

// IsWholeNumber reports whether s is a non-empty run of ASCII decimal digits.
// Other Unicode digits, such as fullwidth or Arabic-Indic, do not count.
func IsWholeNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// amountExceeds reports whether raw normalizes to a whole number strictly
// greater than limit. Non-numeric input never exceeds anything. The
// comparison is done on digit strings so arbitrarily long values work.
func amountExceeds(raw string, limit int) bool {
	digits := NormalizeAmount(raw)
	if !IsWholeNumber(digits) {
		return false
	}
	digits = strings.TrimLeft(digits, "0")
	bound := strconv.Itoa(limit)
	if len(digits) != len(bound) {
		return len(digits) > len(bound)
	}
	return digits > bound
}
