// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering cents as dollar strings.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. Zero is a valid catalog value;
// signs, empty input and malformed numbers are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("137.5") -> 13750, nil
//	ParseDecimalToCents("4,50")  -> 450, nil
//	ParseDecimalToCents("7.505") -> 751, nil (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
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
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !asciiDigits(intPart) || !asciiDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// asciiDigits reports whether s holds only the digits 0-9.
func asciiDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Times multiplies the amount by an integer quantity, saturating at the
// int64 limits instead of wrapping.
func (m Money) Times(qty int64) Money {
	if m.Cents == 0 || qty == 0 {
		return Money{}
	}
	p := m.Cents * qty
	if p/qty != m.Cents || (qty == -1 && m.Cents == math.MinInt64) {
		return saturated((m.Cents > 0) == (qty > 0))
	}
	return Money{Cents: p}
}

// Plus adds two amounts, saturating at the int64 limits.
func (m Money) Plus(o Money) Money {
	s := m.Cents + o.Cents
	switch {
	case o.Cents > 0 && s < m.Cents:
		return saturated(true)
	case o.Cents < 0 && s > m.Cents:
		return saturated(false)
	}
	return Money{Cents: s}
}

func saturated(positive bool) Money {
	if positive {
		return Money{Cents: math.MaxInt64}
	}
	return Money{Cents: math.MinInt64}
}

// String formats the amount as "$1240.00", with two decimals.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// Dollars builds Money from a whole dollar amount.
func Dollars(d int64) Money {
	return Money{Cents: d * 100}
}
