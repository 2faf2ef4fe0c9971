package core

import (
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"137.5", 13750, true},
		{"4,5", 450, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 62.50 ", 6250, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
		{",", 0, false},
		{"1.٥", 0, false},
		{"١٢", 0, false},
		{".5", 50, true},
		{"3.", 300, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Money{}, "$0.00"},
		{Money{Cents: 41250}, "$412.50"},
		{Money{Cents: 124000}, "$1240.00"},
		{Money{Cents: 5}, "$0.05"},
		{Money{Cents: -450}, "-$4.50"},
	}
	for _, tc := range cases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%d cents: got %q, want %q", tc.m.Cents, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := Dollars(575).Times(2).Plus(Dollars(90)); got.Cents != 124000 {
		t.Fatalf("expected 124000 cents, got %d", got.Cents)
	}
}

func TestMoneyArithmeticSaturates(t *testing.T) {
	cases := []struct {
		name string
		got  Money
		want int64
	}{
		{"times overflow", Dollars(1240).Times(math.MaxInt64), math.MaxInt64},
		{"times negative overflow", Money{Cents: -2}.Times(math.MaxInt64), math.MinInt64},
		{"times min by minus one", Money{Cents: math.MinInt64}.Times(-1), math.MaxInt64},
		{"plus overflow", Money{Cents: math.MaxInt64}.Plus(Money{Cents: 1}), math.MaxInt64},
		{"plus underflow", Money{Cents: math.MinInt64}.Plus(Money{Cents: -1}), math.MinInt64},
		{"in range", Money{Cents: 124000}.Times(MaxQuantity), 124000 * MaxQuantity},
	}
	for _, tc := range cases {
		if tc.got.Cents != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, tc.got.Cents, tc.want)
		}
	}
}
