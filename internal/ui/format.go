package ui

import (
	"errors"
	"strconv"
	"strings"
)

var errBadAmount = errors.New("amount must be a positive decimal number")

// parseAmount converts "1.25" into raw units with the given decimals without
// going through float64.
func parseAmount(s string, decimals uint8) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > int(decimals) {
		return 0, errors.New("too many decimal places")
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))
	if whole == "" {
		whole = "0"
	}

	raw, err := strconv.ParseUint(whole+frac, 10, 64)
	if err != nil || raw == 0 {
		return 0, errBadAmount
	}
	return raw, nil
}

// formatAmount renders raw units with trailing zeros trimmed.
func formatAmount(raw uint64, decimals uint8) string {
	s := strconv.FormatUint(raw, 10)
	d := int(decimals)
	if d == 0 {
		return s
	}
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	whole, frac := s[:len(s)-d], strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
