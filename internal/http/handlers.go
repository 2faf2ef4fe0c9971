package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"ratecalc/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	checks["catalog"] = map[string]interface{}{
		"items":  s.session.Catalog().Len(),
		"status": "ok",
	}

	if s.reader != nil {
		if _, err := s.reader.Items(ctx); err != nil {
			checks["catalog_source"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["catalog_source"] = "ok"
		}
	} else {
		checks["catalog_source"] = "static"
	}

	checks["quote_cache"] = map[string]interface{}{
		"entries": s.quotes.Size(),
		"status":  "ok",
	}
	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	respondJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()
	cacheStats := s.quotes.Stats()
	uptime := time.Since(s.started)

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP selection_total_cents Current value of the selection in cents\n")
	fmt.Fprintf(w, "# TYPE selection_total_cents gauge\n")
	fmt.Fprintf(w, "selection_total_cents %d\n\n", s.session.Total().Cents)

	fmt.Fprintf(w, "# HELP quote_cache_hits_total Total quote cache hits\n")
	fmt.Fprintf(w, "# TYPE quote_cache_hits_total counter\n")
	fmt.Fprintf(w, "quote_cache_hits_total %d\n\n", cacheStats.Hits)

	fmt.Fprintf(w, "# HELP quote_cache_misses_total Total quote cache misses\n")
	fmt.Fprintf(w, "# TYPE quote_cache_misses_total counter\n")
	fmt.Fprintf(w, "quote_cache_misses_total %d\n\n", cacheStats.Misses)

	fmt.Fprintf(w, "# HELP quote_cache_entries Current quote cache entries\n")
	fmt.Fprintf(w, "# TYPE quote_cache_entries gauge\n")
	fmt.Fprintf(w, "quote_cache_entries %d\n\n", s.quotes.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitMetrics.TotalHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", rateLimitMetrics.ClientCount)

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n\n", uptime.Seconds())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	active := ParseCategoryParam(r.URL.Query())
	body, err := s.render(r.Context(), "index.html", newPageView(s.session, active))
	if err != nil {
		InternalServerError("Unable to render page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handleItems renders the item list of one category tab.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	active := ParseCategoryParam(r.URL.Query())
	body, err := s.render(r.Context(), "items", newItemsView(s.session, active))
	if err != nil {
		InternalServerError("Unable to render items").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handleTotal renders the running-total bar.
func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	body, err := s.render(r.Context(), "total", s.session.Total().String())
	if err != nil {
		InternalServerError("Unable to render total").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

func (s *Server) render(ctx context.Context, name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.eventsFor(ctx).LogError(ctx, "Template execution failed", err, log.ComponentTemplate, log.OpRender,
			log.LogFields{log.FieldTemplate: name})
		return nil, err
	}
	return buf.Bytes(), nil
}

// eventsFor returns a structured logger bound to the request-scoped logger
// when the trace middleware installed one.
func (s *Server) eventsFor(ctx context.Context) *log.StructuredLogger {
	if l, ok := ctx.Value(log.LoggerContextKey).(*log.Logger); ok {
		return log.NewStructuredLogger(l)
	}
	return s.events
}
