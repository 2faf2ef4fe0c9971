// Package calculator owns the user's selection and applies the
// quantity-adjustment rules on top of the valuation core.
package calculator

import (
	"errors"
	"fmt"
	"sync"

	"ratecalc/internal/catalog"
	"ratecalc/internal/core"
)

var (
	ErrUnknownItem = errors.New("unknown item")
	ErrInvalidStep = errors.New("invalid quick-select amount")
)

// Direction of a single-step adjustment.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// DefaultStep is the magnitude of a single +/- action before any quick-select.
const DefaultStep int64 = 1

var (
	// IncreaseSteps are the quick-select amounts offered for adding.
	IncreaseSteps = []int64{5, 10, 50}
	// DecreaseSteps are the quick-select amounts offered for removing.
	DecreaseSteps = []int64{-50, -10, -5}
)

// ParseDirection maps "up"/"down" (or "+"/"-") to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "+", "inc":
		return Up, nil
	case "down", "-", "dec":
		return Down, nil
	default:
		return 0, fmt.Errorf("invalid direction %q", s)
	}
}

// Session is one user's calculator state: a selection plus the step size
// remembered per item. All methods are safe for concurrent use; every
// mutation is applied atomically.
type Session struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	values  core.DenominationValues
	sel     core.Selection
	steps   map[string]int64
}

// NewSession starts an empty session over cat.
func NewSession(cat *catalog.Catalog, values core.DenominationValues) *Session {
	return &Session{
		catalog: cat,
		values:  values,
		sel:     core.Selection{},
		steps:   map[string]int64{},
	}
}

// Catalog returns the catalog the session prices against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Values returns the denomination values used for composite items.
func (s *Session) Values() core.DenominationValues {
	return s.values
}

// SetQuantity parses input and stores it as the item's quantity. Empty input
// means zero. Malformed, negative or oversized input leaves the previous value in place
// and returns core.ErrInvalidQuantity.
func (s *Session) SetQuantity(name, input string) (int64, error) {
	if _, ok := s.catalog.Lookup(name); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	qty, err := core.ParseQuantity(input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.sel[name], err
	}
	s.set(name, qty)
	return qty, nil
}

// Step applies a single +/- action using the item's remembered step size.
func (s *Session) Step(name string, dir Direction) (int64, error) {
	if _, ok := s.catalog.Lookup(name); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	if dir != Up && dir != Down {
		return 0, fmt.Errorf("invalid direction %d", dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := core.ClampAdd(s.sel[name], int64(dir)*s.stepLocked(name))
	s.set(name, next)
	return next, nil
}

// QuickSelect applies one of the offered quick-select amounts and remembers
// its magnitude as the item's step size for later single-step actions.
func (s *Session) QuickSelect(name string, amount int64) (int64, error) {
	if _, ok := s.catalog.Lookup(name); !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	if !IsQuickSelect(amount) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidStep, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mag := amount
	if mag < 0 {
		mag = -mag
	}
	s.steps[name] = mag
	next := core.ClampAdd(s.sel[name], amount)
	s.set(name, next)
	return next, nil
}

// Reset clears the selection and every remembered step size.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = core.Selection{}
	s.steps = map[string]int64{}
}

func (s *Session) Quantity(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel[name]
}

// StepSize returns the magnitude a single +/- action applies to name.
func (s *Session) StepSize(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked(name)
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() core.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clone()
}

func (s *Session) Total() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Total(s.catalog, s.sel, s.values)
}

func (s *Session) Quote() core.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Price(s.catalog, s.sel, s.values)
}

// LineValue is the current contribution of one item to the total.
func (s *Session) LineValue(name string) core.Money {
	item, ok := s.catalog.Lookup(name)
	if !ok {
		return core.Money{}
	}
	return core.LineValue(item, s.Quantity(name), s.values)
}

// UnitValue is the value of one unit of name, zero for unknown items.
func (s *Session) UnitValue(name string) core.Money {
	item, ok := s.catalog.Lookup(name)
	if !ok {
		return core.Money{}
	}
	return core.UnitValue(item, s.values)
}

func (s *Session) set(name string, qty int64) {
	if qty == 0 {
		delete(s.sel, name)
		return
	}
	s.sel[name] = qty
}

func (s *Session) stepLocked(name string) int64 {
	if step, ok := s.steps[name]; ok && step > 0 {
		return step
	}
	return DefaultStep
}

// IsQuickSelect reports whether amount is one of the offered quick-select values.
func IsQuickSelect(amount int64) bool {
	for _, v := range IncreaseSteps {
		if v == amount {
			return true
		}
	}
	for _, v := range DecreaseSteps {
		if v == amount {
			return true
		}
	}
	return false
}
