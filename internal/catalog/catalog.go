// Package catalog holds the immutable list of tradeable items and the ports
// used to load it from a data source.
package catalog

import (
	"errors"
	"fmt"

	"ratecalc/internal/core"
)

var (
	ErrDuplicateItem = errors.New("duplicate item name")
	ErrEmptyCatalog  = errors.New("catalog has no items")
)

// Catalog is a read-only, ordered set of item definitions indexed by name.
type Catalog struct {
	items  []core.Item
	byName map[string]int
}

// Ensure interface conformance
var _ core.Lookup = (*Catalog)(nil)

// New validates items and builds a catalog preserving their order.
func New(items []core.Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		items:  make([]core.Item, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("invalid item: %w", err)
		}
		if _, dup := c.byName[it.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.Name)
		}
		c.byName[it.Name] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Lookup resolves an item by its exact name.
func (c *Catalog) Lookup(name string) (core.Item, bool) {
	i, ok := c.byName[name]
	if !ok {
		return core.Item{}, false
	}
	return c.items[i], true
}

// Items returns a copy of all items in catalog order.
func (c *Catalog) Items() []core.Item {
	return append([]core.Item(nil), c.items...)
}

// ByCategory returns the items of one category in catalog order.
func (c *Catalog) ByCategory(cat core.Category) []core.Item {
	var out []core.Item
	for _, it := range c.items {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Count returns how many items belong to cat.
func (c *Catalog) Count(cat core.Category) int {
	n := 0
	for _, it := range c.items {
		if it.Category == cat {
			n++
		}
	}
	return n
}
