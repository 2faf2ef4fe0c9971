package backend

import (
	"context"
	"time"

	"ratecalc/internal/catalog"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the catalog source and optional cleanup function
type BackendResult struct {
	Reader  catalog.Reader
	Cleanup CleanupFunc
}

// Factory creates catalog sources based on configuration
type Factory interface {
	// CreateBackend creates a catalog reader based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// Optional seed file: the memory store's contents, or extra rows imported into SQLite
	SeedFile string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleRatesSheetName     string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	SheetCacheDuration       time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
