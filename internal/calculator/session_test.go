package calculator

import (
	"errors"
	"sync"
	"testing"

	"ratecalc/internal/catalog"
	"ratecalc/internal/core"
)

func newTestSession() *Session {
	return NewSession(catalog.Reference(), core.DefaultDenominationValues())
}

func TestSetQuantity(t *testing.T) {
	s := newTestSession()

	if q, err := s.SetQuantity("Stolen Laptop", "3"); err != nil || q != 3 {
		t.Fatalf("set: q=%d err=%v", q, err)
	}
	if got := s.LineValue("Stolen Laptop").String(); got != "$412.50" {
		t.Fatalf("line value: %s", got)
	}

	// Negative and malformed input are no-ops.
	for _, in := range []string{"-2", "abc", "1.5"} {
		q, err := s.SetQuantity("Stolen Laptop", in)
		if !errors.Is(err, core.ErrInvalidQuantity) {
			t.Fatalf("%q: expected ErrInvalidQuantity, got %v", in, err)
		}
		if q != 3 || s.Quantity("Stolen Laptop") != 3 {
			t.Fatalf("%q: previous value not retained, got %d", in, s.Quantity("Stolen Laptop"))
		}
	}

	// Empty input normalises to zero.
	if q, err := s.SetQuantity("Stolen Laptop", ""); err != nil || q != 0 {
		t.Fatalf("empty: q=%d err=%v", q, err)
	}
	if s.Total().Cents != 0 {
		t.Fatalf("expected zero total, got %d", s.Total().Cents)
	}
}

func TestUnknownItemIsRejected(t *testing.T) {
	s := newTestSession()
	checks := []func() (int64, error){
		func() (int64, error) { return s.SetQuantity("Ghost", "1") },
		func() (int64, error) { return s.Step("Ghost", Up) },
		func() (int64, error) { return s.QuickSelect("Ghost", 5) },
	}
	for i, fn := range checks {
		if _, err := fn(); !errors.Is(err, ErrUnknownItem) {
			t.Fatalf("check %d: expected ErrUnknownItem, got %v", i, err)
		}
	}
	if len(s.Selection()) != 0 {
		t.Fatalf("selection should be untouched")
	}
}

func TestStepDefaultIncrements(t *testing.T) {
	s := newTestSession()
	for i := 0; i < 5; i++ {
		if _, err := s.Step("Rolex", Up); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if q := s.Quantity("Rolex"); q != 5 {
		t.Fatalf("expected 5, got %d", q)
	}
	if got := s.Total().String(); got != "$6200.00" {
		t.Fatalf("total: %s", got)
	}
}

func TestDecrementClampsAtZero(t *testing.T) {
	s := newTestSession()
	if _, err := s.SetQuantity("Gameboy", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	for i := 0; i < 10; i++ {
		q, err := s.Step("Gameboy", Down)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if q < 0 {
			t.Fatalf("quantity went negative: %d", q)
		}
	}
	if q := s.Quantity("Gameboy"); q != 0 {
		t.Fatalf("expected 0, got %d", q)
	}
	if q, _ := s.QuickSelect("Gameboy", -50); q != 0 {
		t.Fatalf("quick decrement below zero should clamp, got %d", q)
	}
}

func TestQuickSelectRemembersStep(t *testing.T) {
	s := newTestSession()
	if _, err := s.Step("Boss Chain", Up); err != nil {
		t.Fatalf("step: %v", err)
	}
	if q, err := s.QuickSelect("Boss Chain", 50); err != nil || q != 51 {
		t.Fatalf("quick select: q=%d err=%v", q, err)
	}
	if s.StepSize("Boss Chain") != 50 {
		t.Fatalf("expected remembered step 50, got %d", s.StepSize("Boss Chain"))
	}
	if q, _ := s.Step("Boss Chain", Up); q != 101 {
		t.Fatalf("expected 101 after a single +1, got %d", q)
	}
	if q, _ := s.Step("Boss Chain", Down); q != 51 {
		t.Fatalf("decrement should use remembered step too, got %d", q)
	}

	// Decrease quick-selects remember the magnitude.
	if _, err := s.QuickSelect("Boss Chain", -10); err != nil {
		t.Fatalf("quick select: %v", err)
	}
	if s.StepSize("Boss Chain") != 10 {
		t.Fatalf("expected remembered step 10, got %d", s.StepSize("Boss Chain"))
	}

	// Steps are per item.
	if s.StepSize("Rolex") != DefaultStep {
		t.Fatalf("other items keep default step, got %d", s.StepSize("Rolex"))
	}
}

func TestQuickSelectRejectsOtherAmounts(t *testing.T) {
	s := newTestSession()
	for _, amount := range []int64{0, 1, -1, 7, 100, -5000} {
		if _, err := s.QuickSelect("Rolex", amount); !errors.Is(err, ErrInvalidStep) {
			t.Fatalf("%d: expected ErrInvalidStep, got %v", amount, err)
		}
	}
	if s.Quantity("Rolex") != 0 || s.StepSize("Rolex") != DefaultStep {
		t.Fatalf("rejected quick-select must be a no-op")
	}
}

func TestQuantityIsBounded(t *testing.T) {
	s := newTestSession()

	for _, in := range []string{"9223372036854775807", "100000000000000000", "1000000001"} {
		if _, err := s.SetQuantity("Rolex", in); !errors.Is(err, core.ErrInvalidQuantity) {
			t.Fatalf("%q: expected ErrInvalidQuantity, got %v", in, err)
		}
	}
	if s.Quantity("Rolex") != 0 || s.Total().Cents != 0 {
		t.Fatalf("oversized input must be a no-op, got q=%d total=%s", s.Quantity("Rolex"), s.Total())
	}

	if _, err := s.SetQuantity("Rolex", "1000000000"); err != nil {
		t.Fatalf("max quantity rejected: %v", err)
	}
	if q, _ := s.Step("Rolex", Up); q != core.MaxQuantity {
		t.Fatalf("step up at max must saturate, got %d", q)
	}
	if q, _ := s.QuickSelect("Rolex", 50); q != core.MaxQuantity {
		t.Fatalf("quick-select at max must saturate, got %d", q)
	}
	if total := s.Total(); total.Cents != 124000*core.MaxQuantity {
		t.Fatalf("unexpected total %s", total)
	}

	if _, err := s.SetQuantity("Stolen Laptop", "1000000000"); err != nil {
		t.Fatal(err)
	}
	if total := s.Total(); total.Cents <= 0 {
		t.Fatalf("total must stay positive, got %s", total)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := newTestSession()
	_, _ = s.SetQuantity("Rolex", "4")
	_, _ = s.QuickSelect("PSP", 10)
	_, _ = s.SetQuantity("Bottle Cap", "99")

	s.Reset()

	if s.Total().Cents != 0 {
		t.Fatalf("expected zero total after reset, got %d", s.Total().Cents)
	}
	if len(s.Selection()) != 0 {
		t.Fatalf("expected empty selection after reset")
	}
	if s.StepSize("PSP") != DefaultStep {
		t.Fatalf("remembered step should be cleared, got %d", s.StepSize("PSP"))
	}
}

func TestQuoteMatchesTotal(t *testing.T) {
	s := newTestSession()
	_, _ = s.SetQuantity("Rolex", "1")
	_, _ = s.SetQuantity("Stolen Laptop", "3")
	_, _ = s.SetQuantity("Boss Chain", "1")

	q := s.Quote()
	if len(q.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(q.Lines))
	}
	if q.Total != s.Total() {
		t.Fatalf("quote total %s != %s", q.Total, s.Total())
	}
	if q.Total.String() != "$3237.50" {
		t.Fatalf("unexpected total %s", q.Total)
	}
}

func TestSelectionIsACopy(t *testing.T) {
	s := newTestSession()
	_, _ = s.SetQuantity("Rolex", "1")
	sel := s.Selection()
	sel["Rolex"] = 100
	if s.Quantity("Rolex") != 1 {
		t.Fatalf("session mutated through Selection()")
	}
}

func TestConcurrentSteps(t *testing.T) {
	s := newTestSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Step("Old Coin", Up)
		}()
	}
	wg.Wait()
	if q := s.Quantity("Old Coin"); q != 50 {
		t.Fatalf("expected 50, got %d", q)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("up"); err != nil || d != Up {
		t.Fatalf("up: %v %v", d, err)
	}
	if d, err := ParseDirection("down"); err != nil || d != Down {
		t.Fatalf("down: %v %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error")
	}
}
