package core

import (
	"errors"
	"math"
	"testing"
)

func TestItemValidate(t *testing.T) {
	good := []Item{
		NewCompositeItem("Rolex", IconWatch, Denominations{Roll: 2, Loose: 1}),
		NewCompositeItem("Nothing", IconGem, Denominations{}),
		NewFlatItem("Stolen Laptop", IconLaptop, Money{Cents: 13750}),
		NewFlatItem("Free", IconDiamond, Money{}),
	}
	for _, it := range good {
		if err := it.Validate(); err != nil {
			t.Fatalf("%s: expected ok, got %v", it.Name, err)
		}
	}

	bads := []struct {
		item Item
		want error
	}{
		{NewFlatItem(" ", IconWatch, Money{Cents: 1}), ErrEmptyName},
		{Item{Name: "x", Category: "other"}, ErrUnknownCategory},
		{Item{Name: "x", Category: CategoryComposite, Value: Money{Cents: 1}}, ErrMixedPayload},
		{Item{Name: "x", Category: CategoryFlat, Cash: Denominations{Loose: 1}}, ErrMixedPayload},
		{NewCompositeItem("x", IconGem, Denominations{Roll: -1}), ErrNegativeValue},
		{NewFlatItem("x", IconGem, Money{Cents: -5}), ErrNegativeValue},
	}
	for i, tc := range bads {
		if err := tc.item.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"composite":  CategoryComposite,
		"AutoExotic": CategoryComposite,
		" flat ":     CategoryFlat,
		"ScrapeYard": CategoryFlat,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q (err=%v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseCategory("junkyard"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoryLabel(t *testing.T) {
	if CategoryComposite.Label() != "AutoExotic" || CategoryFlat.Label() != "ScrapeYard" {
		t.Fatalf("unexpected labels: %q %q", CategoryComposite.Label(), CategoryFlat.Label())
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"", 0, true},
		{"   ", 0, true},
		{"0", 0, true},
		{"12", 12, true},
		{" 7 ", 7, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"12abc", 0, false},
		{"1000000000", MaxQuantity, true},
		{"1000000001", 0, false},
		{"9223372036854775807", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseQuantity(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("%q expected ErrInvalidQuantity, got %v", tc.in, err)
		}
	}
}

func TestClampAdd(t *testing.T) {
	if got := ClampAdd(3, -5); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampAdd(3, 2); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestClampAddSaturates(t *testing.T) {
	cases := []struct {
		current, delta, want int64
	}{
		{MaxQuantity, 1, MaxQuantity},
		{MaxQuantity - 3, 50, MaxQuantity},
		{5, math.MaxInt64, MaxQuantity},
		{5, math.MinInt64, 0},
		{math.MaxInt64, 1, MaxQuantity},
		{math.MaxInt64, -1, MaxQuantity - 1},
		{MaxQuantity, -MaxQuantity, 0},
	}
	for _, tc := range cases {
		if got := ClampAdd(tc.current, tc.delta); got != tc.want {
			t.Errorf("ClampAdd(%d, %d) = %d, want %d", tc.current, tc.delta, got, tc.want)
		}
	}
}
