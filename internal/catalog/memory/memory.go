package memory

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"ratecalc/internal/catalog"
	"ratecalc/internal/core"
)

// Ensure interface conformance
var _ catalog.Reader = (*Store)(nil)

type Store struct {
	mu    sync.Mutex
	items []core.Item
}

func New(items []core.Item) *Store {
	return &Store{items: append([]core.Item(nil), items...)}
}

// NewFromFile seeds the store from a pipe-separated rate file:
//
//	name|category|stack|roll|loose|value|icon
//
// Blank lines and lines starting with '#' are ignored. An empty path or a
// file without items yields the reference catalog; a missing or malformed
// file is an error.
func NewFromFile(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return New(catalog.ReferenceItems()), nil
	}
	items, err := ReadSeedFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	if len(items) == 0 {
		slog.Warn("Seed file has no items, using reference catalog", "path", path)
		return New(catalog.ReferenceItems()), nil
	}
	return New(items), nil
}

// Items returns the stored item definitions.
func (s *Store) Items(_ context.Context) ([]core.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Item(nil), s.items...), nil
}

// ReadSeedFile parses every item of a seed file.
func ReadSeedFile(path string) ([]core.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []core.Item
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		it, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, it)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseLine parses a single seed line into an item.
func ParseLine(line string) (core.Item, error) {
	fields := strings.Split(line, "|")
	if len(fields) != 7 {
		return core.Item{}, fmt.Errorf("expected 7 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	name, icon := fields[0], core.Icon(strings.ToLower(fields[6]))
	cat, err := core.ParseCategory(fields[1])
	if err != nil {
		return core.Item{}, err
	}

	var it core.Item
	switch cat {
	case core.CategoryComposite:
		var cash core.Denominations
		if cash.Stack, err = parseCount(fields[2]); err != nil {
			return core.Item{}, fmt.Errorf("stack: %w", err)
		}
		if cash.Roll, err = parseCount(fields[3]); err != nil {
			return core.Item{}, fmt.Errorf("roll: %w", err)
		}
		if cash.Loose, err = parseCount(fields[4]); err != nil {
			return core.Item{}, fmt.Errorf("loose: %w", err)
		}
		it = core.NewCompositeItem(name, icon, cash)
	case core.CategoryFlat:
		cents, err := core.ParseDecimalToCents(fields[5])
		if err != nil {
			return core.Item{}, fmt.Errorf("value %q: %w", fields[5], err)
		}
		it = core.NewFlatItem(name, icon, core.Money{Cents: cents})
	}
	if err := it.Validate(); err != nil {
		return core.Item{}, err
	}
	return it, nil
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return n, nil
}
