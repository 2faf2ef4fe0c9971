package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ratecalc/internal/catalog/memory"
	gsheet "ratecalc/internal/sheets/google"
	"ratecalc/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// Seed rows extend or override the migrated reference data
	if config.SeedFile != "" {
		items, err := memory.ReadSeedFile(config.SeedFile)
		if err != nil {
			sqliteRepo.Close()
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		if err := sqliteRepo.SaveItems(ctx, items); err != nil {
			sqliteRepo.Close()
			return nil, fmt.Errorf("import seed file: %w", err)
		}
		f.logger.Info("Imported seed file into SQLite", "path", config.SeedFile, "items", len(items))
	}

	count, err := sqliteRepo.Count(ctx)
	if err != nil {
		sqliteRepo.Close()
		return nil, err
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "items", count)

	return &BackendResult{
		Reader:  sqliteRepo,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleRatesSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		CacheDuration:      config.SheetCacheDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleRatesSheetName)

	return &BackendResult{
		Reader:  cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory store: %w", err)
	}

	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)

	return &BackendResult{
		Reader:  store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
