package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ratecalc/internal/backend"
	"ratecalc/internal/cache"
	"ratecalc/internal/calculator"
	"ratecalc/internal/catalog"
	"ratecalc/internal/cli"
	"ratecalc/internal/config"
	apphttp "ratecalc/internal/http"
	applog "ratecalc/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	ctx, stop := cli.SignalContext(context.Background(), logger.Logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		stop()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("backend config: %w", err)
	}

	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", "error", err)
			}
		}
	}()

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.CatalogLoadTimeout)
	loadOpts := catalog.DefaultLoadOptions()
	loadOpts.MaxElapsedTime = cfg.CatalogLoadTimeout
	cat, err := catalog.Load(loadCtx, result.Reader, loadOpts)
	cancelLoad()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	values, err := cfg.DenominationValues()
	if err != nil {
		return err
	}
	session := calculator.NewSession(cat, values)

	srv, err := apphttp.NewServer(session, apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
		QuoteCacheSize:     cfg.QuoteCacheSize,
		QuoteCacheTTL:      cfg.QuoteCacheTTL,
		Reader:             result.Reader,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	caches := cache.NewManager()
	caches.Register("quotes", srv.QuoteCache())
	caches.StartCleanup(cfg.QuoteCacheTTL)
	defer caches.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting ratecalc server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			applog.FieldBackend, backendCfg.Type,
			"items", cat.Len(),
			"stack_value", values.Stack.String(),
			"roll_value", values.Roll.String(),
			"loose_value", values.Loose.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
