package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ratecalc/internal/cache"
	"ratecalc/internal/calculator"
	"ratecalc/internal/catalog"
	"ratecalc/internal/core"
	applog "ratecalc/internal/log"
	"ratecalc/internal/middleware/ratelimit"
	"ratecalc/internal/middleware/security"
	"ratecalc/internal/middleware/trace"
	appweb "ratecalc/web"
)

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr               string
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	TrustedProxies     []string
	QuoteCacheSize     int
	QuoteCacheTTL      time.Duration

	// Reader backs the readiness check; nil reports the catalog as static.
	Reader catalog.Reader
	Logger *applog.Logger
}

type Server struct {
	http.Server
	router    chi.Router
	templates *template.Template
	session   *calculator.Session
	reader    catalog.Reader

	logger *applog.Logger
	events *applog.StructuredLogger

	quotes           *cache.LRUCache[core.Quote]
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	securityHeaders  *security.HeadersMiddleware
	traceMiddleware  *trace.Middleware

	corsOrigins []string
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server
// around session.
func NewServer(session *calculator.Session, opts Options) (*Server, error) {
	if session == nil {
		return nil, fmt.Errorf("nil calculator session")
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	if opts.QuoteCacheSize <= 0 {
		opts.QuoteCacheSize = 256
	}
	if opts.QuoteCacheTTL <= 0 {
		opts.QuoteCacheTTL = 10 * time.Minute
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(strings.TrimSpace(cidr)); err != nil {
			return nil, fmt.Errorf("trusted proxy: %w", err)
		}
	}
	s := &Server{
		router:           chi.NewRouter(),
		templates:        t,
		session:          session,
		reader:           opts.Reader,
		logger:           logger,
		events:           applog.NewStructuredLogger(logger),
		quotes:           cache.NewLRUCache[core.Quote](opts.QuoteCacheSize, opts.QuoteCacheTTL),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: detector,
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		corsOrigins:      opts.CORSAllowedOrigins,
		started:          time.Now(),
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		s.rateLimiter.Stop()
		return nil, err
	}
	return s, nil
}

// QuoteCache exposes the quote cache so callers can register it for cleanup.
func (s *Server) QuoteCache() *cache.LRUCache[core.Quote] {
	return s.quotes
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.traceMiddleware.Middleware)
	s.router.Use(s.securityHeaders.Middleware)
	s.router.Use(s.securityDetector.Middleware)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() error {
	limit := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.handleRateLimited)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Route("/ui", func(r chi.Router) {
		r.Get("/items", s.handleItems)
		r.Get("/total", s.handleTotal)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/items/{name}/quantity", s.handleSetQuantity)
			r.Post("/items/{name}/step/{direction}", s.handleStep)
			r.Post("/items/{name}/quick/{amount}", s.handleQuickSelect)
			r.Post("/reset", s.handleReset)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
			ExposedHeaders: []string{trace.RequestIDHeader, "Retry-After"},
			MaxAge:         300,
		}))
		r.Get("/catalog", s.handleAPICatalog)
		r.Get("/selection", s.handleAPISelection)
		r.With(limit).Post("/quote", s.handleAPIQuote)
	})

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	s.router.With(security.StaticAssetMiddleware(3600)).Get("/static/*", static.ServeHTTP)

	return nil
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	TooManyRequests().Write(w)
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
