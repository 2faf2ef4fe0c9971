package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ratecalc/internal/core"
)

func TestNewFromFileDefaultsToReference(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("# no rows yet\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	for _, path := range []string{"", empty} {
		s, err := NewFromFile(path)
		if err != nil {
			t.Fatalf("path %q: %v", path, err)
		}
		items, err := s.Items(context.Background())
		if err != nil || len(items) != 28 {
			t.Fatalf("path %q: expected reference items, got %d (err=%v)", path, len(items), err)
		}
	}
}

func TestNewFromFileParsesSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed_items.txt")
	content := "# name|category|stack|roll|loose|value|icon\n" +
		"Rolex|AutoExotic||2|1||Watch\n" +
		"\n" +
		"Stolen Laptop|ScrapeYard||||137.5|Laptop\n" +
		"Bottle Cap|flat||||4,50|diamond\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	items, _ := s.Items(context.Background())
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	rolex := items[0]
	if rolex.Category != core.CategoryComposite || rolex.Cash != (core.Denominations{Roll: 2, Loose: 1}) || rolex.Icon != core.IconWatch {
		t.Fatalf("unexpected rolex: %+v", rolex)
	}
	if items[1].Value.Cents != 13750 || items[2].Value.Cents != 450 {
		t.Fatalf("unexpected flat values: %d %d", items[1].Value.Cents, items[2].Value.Cents)
	}
}

func TestNewFromFileRejectsUnusableFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("Rolex|AutoExotic|x|2|1||Watch\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	unicodeValue := filepath.Join(dir, "unicode.txt")
	if err := os.WriteFile(unicodeValue, []byte("Coin|flat||||1.٥|gem\n"), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	for _, path := range []string{bad, unicodeValue, filepath.Join(dir, "missing.txt")} {
		if s, err := NewFromFile(path); err == nil {
			t.Fatalf("%s: expected error, got store %+v", path, s)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	bad := []string{
		"too|few|fields",
		"X|Junkyard||||1|gem",
		"X|flat||||-1|gem",
		"X|composite|-1|||gem|",
		"|flat||||1|gem",
	}
	for _, line := range bad {
		if _, err := ParseLine(line); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
}
