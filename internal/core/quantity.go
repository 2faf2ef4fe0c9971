package core

import (
	"strconv"
	"strings"
)

// MaxQuantity is the largest quantity a single item may hold. It keeps
// quantity times unit value well inside int64 cents.
const MaxQuantity int64 = 1_000_000_000

// ParseQuantity parses user input for a quantity field. Empty input means zero;
// anything that is not an integer in [0, MaxQuantity] is rejected with
// ErrInvalidQuantity.
func ParseQuantity(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil || n < 0 || n > MaxQuantity {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// ValidQuantity reports whether qty is within [0, MaxQuantity].
func ValidQuantity(qty int64) bool {
	return qty >= 0 && qty <= MaxQuantity
}

// ClampAdd returns current+delta bounded to [0, MaxQuantity]. It saturates
// rather than wrapping for any delta.
func ClampAdd(current, delta int64) int64 {
	switch {
	case current < 0:
		current = 0
	case current > MaxQuantity:
		current = MaxQuantity
	}
	if delta > MaxQuantity-current {
		return MaxQuantity
	}
	if delta < -current {
		return 0
	}
	return current + delta
}
