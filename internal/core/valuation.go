package core

import (
	"sort"
	"strconv"
	"strings"
)

// Lookup resolves item names to definitions.
type Lookup interface {
	Lookup(name string) (Item, bool)
}

// QuoteLine is the contribution of one selected item.
type QuoteLine struct {
	Item     Item
	Quantity int64
	Unit     Money
	Subtotal Money
}

// Quote is the valuation of a whole selection.
type Quote struct {
	Lines []QuoteLine
	Total Money
}

// UnitValue is the value of a single unit of item.
func UnitValue(item Item, values DenominationValues) Money {
	switch item.Category {
	case CategoryComposite:
		return values.Stack.Times(item.Cash.Stack).
			Plus(values.Roll.Times(item.Cash.Roll)).
			Plus(values.Loose.Times(item.Cash.Loose))
	case CategoryFlat:
		return item.Value
	default:
		return Money{}
	}
}

// LineValue is UnitValue times quantity; non-positive quantities are worth nothing.
func LineValue(item Item, qty int64, values DenominationValues) Money {
	if qty <= 0 {
		return Money{}
	}
	return UnitValue(item, values).Times(qty)
}

// Total sums the value of every positive entry in sel. Names the catalog
// cannot resolve contribute zero.
func Total(catalog Lookup, sel Selection, values DenominationValues) Money {
	var total Money
	for name, qty := range sel {
		if qty <= 0 {
			continue
		}
		item, ok := catalog.Lookup(name)
		if !ok {
			continue
		}
		total = total.Plus(LineValue(item, qty, values))
	}
	return total
}

// Price values sel line by line. Lines are sorted by item name so the
// result is deterministic; Total equals Total(catalog, sel, values).
func Price(catalog Lookup, sel Selection, values DenominationValues) Quote {
	names := make([]string, 0, len(sel))
	for name, qty := range sel {
		if qty > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var q Quote
	for _, name := range names {
		item, ok := catalog.Lookup(name)
		if !ok {
			continue
		}
		qty := sel[name]
		line := QuoteLine{
			Item:     item,
			Quantity: qty,
			Unit:     UnitValue(item, values),
			Subtotal: LineValue(item, qty, values),
		}
		q.Lines = append(q.Lines, line)
		q.Total = q.Total.Plus(line.Subtotal)
	}
	return q
}

// Key returns a canonical string for sel, ignoring zero entries, usable as a cache key.
func (s Selection) Key() string {
	names := make([]string, 0, len(s))
	for name, qty := range s {
		if qty > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(name))
		b.WriteByte('=')
		b.WriteString(strconv.FormatInt(s[name], 10))
	}
	return b.String()
}
