package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ratecalc/internal/config"
)

func TestBackendType_IsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("postgres").IsValid() {
		t.Error("postgres should not be valid")
	}
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "memory,sqlite,sheets" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	if _, err := FromAppConfig(&config.Config{CatalogBackend: "mongo"}); err == nil {
		t.Error("expected error for invalid backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		CatalogBackend:       "sheets",
		GoogleSpreadsheetID:  "sheet-id",
		GoogleRatesSheetName: "Rates",
		CatalogSeedFile:      "items.txt",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SheetsBackend || cfg.GoogleSpreadsheetID != "sheet-id" || cfg.SeedFile != "items.txt" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleServiceAccountJSON: "{}"}, false},
		{"sheets without id", Config{Type: SheetsBackend, GoogleServiceAccountJSON: "{}"}, true},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, true},
		{"unknown", Config{Type: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Memory(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if res.Cleanup != nil {
		t.Error("memory backend should not need cleanup")
	}
	items, err := res.Reader.Items(context.Background())
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 28 {
		t.Errorf("expected reference catalog, got %d items", len(items))
	}
}

func TestFactory_SQLiteWithSeedFile(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "items.txt")
	content := "# extra rows\nGold Bar|composite|3|0|0||gem\nRusted Lighter|flat||||8|diamond\n"
	if err := os.WriteFile(seed, []byte(content), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(dir, "ratecalc.db"),
		SeedFile:     seed,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Cleanup()

	items, err := res.Reader.Items(context.Background())
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	if len(items) != 29 {
		t.Fatalf("expected 29 items, got %d", len(items))
	}
	for _, it := range items {
		if it.Name == "Rusted Lighter" && it.Value.Cents != 800 {
			t.Errorf("seed row did not override reference value: %+v", it)
		}
	}
}

func TestFactory_BadSeedFileFailsForEveryBackend(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "malformed.txt")
	if err := os.WriteFile(malformed, []byte("Gold Bar|composite|x|0|0||gem\n"), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	missing := filepath.Join(dir, "missing.txt")

	f := NewFactory(nil)
	for _, backendType := range []BackendType{MemoryBackend, SQLiteBackend} {
		for _, seed := range []string{missing, malformed} {
			t.Run(string(backendType)+"/"+filepath.Base(seed), func(t *testing.T) {
				res, err := f.CreateBackend(context.Background(), Config{
					Type:         backendType,
					SQLiteDBPath: filepath.Join(t.TempDir(), "ratecalc.db"),
					SeedFile:     seed,
				})
				if err == nil {
					if res.Cleanup != nil {
						res.Cleanup()
					}
					t.Fatal("expected error for unusable seed file")
				}
			})
		}
	}
}

func TestFactory_SheetsRequiresCredentials(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.CreateBackend(context.Background(), Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
}
