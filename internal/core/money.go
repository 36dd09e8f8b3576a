// Package core holds the domain model and the pure aggregation
// functions that turn entity collections into display-ready summaries.
//
// This file contains amount parsing and conversion between string
// input and whole-rupiah values.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a decimal string to whole rupiah with half-up
// rounding of any fractional part.
//
// It accepts both dot (12500.5) and comma (12500,5) decimal separators.
// The result is always positive. Returns an error for invalid formats,
// negative values, or zero amounts.
//
// Examples:
//   ParseAmount("50000")   -> 50000, nil
//   ParseAmount("50000.4") -> 50000, nil (rounds down)
//   ParseAmount("50000.5") -> 50001, nil (rounds up)
func ParseAmount(s string) (int64, error) {
	v, err := parseRupiah(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseOptionalAmount is ParseAmount for fields where zero is
// meaningful (amount_paid, current_amount). Empty input and any
// numeric spelling of zero ("0", "0.0", "0,00") parse to zero.
func ParseOptionalAmount(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseRupiah(s)
}

func parseRupiah(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Half-up rounding on the first fractional digit
	if len(fracPart) > 0 && fracPart[0] >= '5' {
		v++
	}
	return v, nil
}
