package catalog

import (
	"context"

	"ratecalc/internal/core"
)

// Reader returns item definitions from a catalog source.
type Reader interface {
	Items(ctx context.Context) ([]core.Item, error)
}
