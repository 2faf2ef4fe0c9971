package storage

import (
	"context"
)

const listItems = `
SELECT id, name, category, icon, stack, roll, loose, value_cents, position
FROM items
ORDER BY position, id
`

func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Category,
			&i.Icon,
			&i.Stack,
			&i.Roll,
			&i.Loose,
			&i.ValueCents,
			&i.Position,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countItems = `
SELECT COUNT(*) FROM items
`

func (q *Queries) CountItems(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countItems)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const upsertItem = `
INSERT INTO items (name, category, icon, stack, roll, loose, value_cents, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    category    = excluded.category,
    icon        = excluded.icon,
    stack       = excluded.stack,
    roll        = excluded.roll,
    loose       = excluded.loose,
    value_cents = excluded.value_cents,
    position    = excluded.position,
    updated_at  = CURRENT_TIMESTAMP
`

type UpsertItemParams struct {
	Name       string
	Category   string
	Icon       string
	Stack      int64
	Roll       int64
	Loose      int64
	ValueCents int64
	Position   int64
}

func (q *Queries) UpsertItem(ctx context.Context, arg UpsertItemParams) error {
	_, err := q.db.ExecContext(ctx, upsertItem,
		arg.Name,
		arg.Category,
		arg.Icon,
		arg.Stack,
		arg.Roll,
		arg.Loose,
		arg.ValueCents,
		arg.Position,
	)
	return err
}
