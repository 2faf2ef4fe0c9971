package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ratecalc/internal/core"
)

// ErrInvalidData marks source errors that retrying cannot fix.
var ErrInvalidData = errors.New("invalid catalog data")

// LoadOptions controls retries while reading a catalog source.
type LoadOptions struct {
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
	MaxRetries      uint64
}

// DefaultLoadOptions returns sensible defaults for remote sources.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		InitialInterval: 500 * time.Millisecond,
		MaxElapsedTime:  30 * time.Second,
		MaxRetries:      5,
	}
}

// Load reads items from r and builds a Catalog. Read failures are retried
// with exponential backoff; invalid data fails immediately.
func Load(ctx context.Context, r Reader, opts LoadOptions) (*Catalog, error) {
	eb := backoff.NewExponentialBackOff()
	if opts.InitialInterval > 0 {
		eb.InitialInterval = opts.InitialInterval
	}
	eb.MaxElapsedTime = opts.MaxElapsedTime

	var b backoff.BackOff = eb
	if opts.MaxRetries > 0 {
		b = backoff.WithMaxRetries(b, opts.MaxRetries)
	}
	b = backoff.WithContext(b, ctx)

	var cat *Catalog
	op := func() error {
		items, err := r.Items(ctx)
		if errors.Is(err, ErrInvalidData) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return fmt.Errorf("read catalog items: %w", err)
		}
		c, err := New(items)
		if err != nil {
			return backoff.Permanent(err)
		}
		cat = c
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "Catalog load failed, retrying", "error", err, "retry_in", wait.String())
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	slog.InfoContext(ctx, "Catalog loaded",
		"items", cat.Len(),
		"composite", cat.Count(core.CategoryComposite),
		"flat", cat.Count(core.CategoryFlat))
	return cat, nil
}
