package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ratecalc/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Items implements catalog.Reader
func (r *SQLiteRepository) Items(ctx context.Context) ([]core.Item, error) {
	rows, err := r.queries.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]core.Item, 0, len(rows))
	for _, row := range rows {
		item, err := toCoreItem(row)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", row.ID, err)
		}
		items = append(items, item)
	}

	slog.DebugContext(ctx, "Items loaded from SQLite", "count", len(items))
	return items, nil
}

// SaveItems upserts items in order, assigning positions from 1. Existing
// items keep their row but take the new definition.
func (r *SQLiteRepository) SaveItems(ctx context.Context, items []core.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate item: %w", err)
		}
		if err := q.UpsertItem(ctx, toUpsertParams(item, int64(i+1))); err != nil {
			return fmt.Errorf("upsert item %s: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Items saved to SQLite", "count", len(items))
	return nil
}

// Count returns the number of stored items
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func toCoreItem(row Item) (core.Item, error) {
	category, err := core.ParseCategory(row.Category)
	if err != nil {
		return core.Item{}, err
	}
	icon := core.Icon(row.Icon)

	switch category {
	case core.CategoryComposite:
		return core.NewCompositeItem(row.Name, icon, core.Denominations{
			Stack: row.Stack,
			Roll:  row.Roll,
			Loose: row.Loose,
		}), nil
	default:
		return core.NewFlatItem(row.Name, icon, core.Money{Cents: row.ValueCents}), nil
	}
}

func toUpsertParams(item core.Item, position int64) UpsertItemParams {
	p := UpsertItemParams{
		Name:     item.Name,
		Category: string(item.Category),
		Icon:     string(item.Icon),
		Position: position,
	}
	switch item.Category {
	case core.CategoryComposite:
		p.Stack = item.Cash.Stack
		p.Roll = item.Cash.Roll
		p.Loose = item.Cash.Loose
	case core.CategoryFlat:
		p.ValueCents = item.Value.Cents
	}
	return p
}
