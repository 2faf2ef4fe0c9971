package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CategoryComposite Category = "composite"
	CategoryFlat      Category = "flat"
)

const (
	IconWatch      Icon = "watch"
	IconDiamond    Icon = "diamond"
	IconGem        Icon = "gem"
	IconLink       Icon = "link"
	IconGamepad    Icon = "gamepad"
	IconLaptop     Icon = "laptop"
	IconCamera     Icon = "camera"
	IconSmartphone Icon = "smartphone"
)

type (
	// Category selects the valuation rule of an item.
	Category string

	// Icon is a symbolic glyph reference used only by the presentation layer.
	Icon string

	Money struct {
		Cents int64
	}

	// Denominations counts the cash bundles a composite item is worth.
	Denominations struct {
		Stack int64 // stacks of notes
		Roll  int64 // rolls of cash
		Loose int64 // loose notes
	}

	// DenominationValues holds the unit value of each cash bundle.
	DenominationValues struct {
		Stack Money
		Roll  Money
		Loose Money
	}

	// Item is a catalog entry. Category is the tag: composite items carry Cash,
	// flat items carry Value, never both.
	Item struct {
		Name     string
		Category Category
		Icon     Icon
		Cash     Denominations
		Value    Money
	}

	// Selection maps item names to chosen quantities. Absent names mean zero.
	Selection map[string]int64
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrEmptyName       = errors.New("empty item name")
	ErrUnknownCategory = errors.New("unknown category")
	ErrMixedPayload    = errors.New("item mixes composite and flat values")
	ErrNegativeValue   = errors.New("negative value")
)

// DefaultDenominationValues is the reference rate card: 650 per stack,
// 575 per roll, 90 per loose note.
func DefaultDenominationValues() DenominationValues {
	return DenominationValues{
		Stack: Dollars(650),
		Roll:  Dollars(575),
		Loose: Dollars(90),
	}
}

// NewCompositeItem builds an item valued by its cash denominations.
func NewCompositeItem(name string, icon Icon, cash Denominations) Item {
	return Item{Name: name, Category: CategoryComposite, Icon: icon, Cash: cash}
}

// NewFlatItem builds an item with a single fixed unit value.
func NewFlatItem(name string, icon Icon, value Money) Item {
	return Item{Name: name, Category: CategoryFlat, Icon: icon, Value: value}
}

// Label returns the display name shown on the category tabs.
func (c Category) Label() string {
	switch c {
	case CategoryComposite:
		return "AutoExotic"
	case CategoryFlat:
		return "ScrapeYard"
	default:
		return string(c)
	}
}

// IsValid reports whether c is one of the two known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryComposite, CategoryFlat:
		return true
	default:
		return false
	}
}

// ParseCategory accepts the canonical tag or the display label, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CategoryComposite), "autoexotic":
		return CategoryComposite, nil
	case string(CategoryFlat), "scrapeyard":
		return CategoryFlat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Categories returns both categories in display order.
func Categories() []Category {
	return []Category{CategoryComposite, CategoryFlat}
}

// IsZero reports whether no denomination is set.
func (d Denominations) IsZero() bool {
	return d.Stack == 0 && d.Roll == 0 && d.Loose == 0
}

func (d Denominations) Validate() error {
	if d.Stack < 0 || d.Roll < 0 || d.Loose < 0 {
		return ErrNegativeValue
	}
	return nil
}

func (v DenominationValues) Validate() error {
	if v.Stack.Cents < 0 || v.Roll.Cents < 0 || v.Loose.Cents < 0 {
		return ErrNegativeValue
	}
	return nil
}

func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	switch it.Category {
	case CategoryComposite:
		if it.Value.Cents != 0 {
			return fmt.Errorf("%s: %w", it.Name, ErrMixedPayload)
		}
		if err := it.Cash.Validate(); err != nil {
			return fmt.Errorf("%s: %w", it.Name, err)
		}
	case CategoryFlat:
		if !it.Cash.IsZero() {
			return fmt.Errorf("%s: %w", it.Name, ErrMixedPayload)
		}
		if it.Value.Cents < 0 {
			return fmt.Errorf("%s: %w", it.Name, ErrNegativeValue)
		}
	default:
		return fmt.Errorf("%s: %w: %q", it.Name, ErrUnknownCategory, it.Category)
	}
	return nil
}

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
