// Package core provides the shared ledger engine and the input normalization
// used by every tracker.
//
// This file contains the parse-or-zero helpers applied once at each entry
// point, so aggregation code never sees malformed numbers.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity converts user input into a non-negative float.
//
// It accepts both dot (12.5) and comma (12,5) decimal separators. Empty,
// malformed, non-finite and negative input all normalize to 0; malformed input
// is never reported as an error.
//
// Examples:
//
//	ParseQuantity("300")   -> 300
//	ParseQuantity("12,5")  -> 12.5
//	ParseQuantity("abc")   -> 0
//	ParseQuantity("-4")    -> 0
func ParseQuantity(s string) float64 {
	s = normalizeNumber(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Quantity(v)
}

// Quantity sanitizes an already numeric value with the same rules as ParseQuantity.
func Quantity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseAmount converts user input into a monetary magnitude.
//
// The sign of a money amount is carried by the transaction type, so a leading
// minus is dropped rather than rejected. Malformed input normalizes to zero.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("-40")    -> 40
//	ParseAmount("")       -> 0
func ParseAmount(s string) decimal.Decimal {
	s = normalizeNumber(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Abs()
}

// Amount sanitizes a float amount coming from JSON into a decimal magnitude.
func Amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Abs()
}

func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	// Normalize decimal comma to dot
	return strings.ReplaceAll(s, ",", ".")
}
