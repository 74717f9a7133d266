package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"deposits/internal/core"
	"deposits/internal/log"
	"deposits/internal/middleware/trace"
	appweb "deposits/web"
)

func requestID(r *http.Request) string {
	return trace.GetRequestID(r.Context())
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.started).String(),
	})
}

// handleReady reports readiness: templates parsed and storage reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.pinger == nil:
		checks["storage"] = "not_configured"
	default:
		if err := s.pinger.Ping(ctx); err != nil {
			checks["storage"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}

	checks["offline_worker"] = "ok"
	if !s.workerReady {
		checks["offline_worker"] = "missing"
	}
	checks["cache"] = map[string]any{"list_entries": s.listCache.Size()}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()

	metrics := []struct {
		name, help, kind string
		value            any
	}{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"events_stored", "Events currently stored", "gauge", len(s.store.Events())},
		{"events_created_total", "Events created", "counter", s.appMetrics.eventsCreated.Load()},
		{"events_updated_total", "Events updated", "counter", s.appMetrics.eventsUpdated.Load()},
		{"events_deleted_total", "Events deleted", "counter", s.appMetrics.eventsDeleted.Load()},
		{"cache_hits_total", "List view cache hits", "counter", s.appMetrics.cacheHits.Load()},
		{"cache_misses_total", "List view cache misses", "counter", s.appMetrics.cacheMisses.Load()},
		{"rate_limit_rejections_total", "Saves and deletes rejected by the rate limiter", "counter", rateLimitMetrics.Rejected},
		{"active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount},
		{"suspicious_requests_total", "Suspicious requests rejected", "counter", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.appMetrics.started).Seconds())},
	}

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

func (s *Server) handleServiceWorker(w http.ResponseWriter, r *http.Request) {
	s.serveEmbedded(w, r, appweb.ServiceWorkerPath, "text/javascript; charset=utf-8")
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	s.serveEmbedded(w, r, appweb.ManifestPath, "application/manifest+json")
}

func (s *Server) serveEmbedded(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := fs.ReadFile(appweb.StaticFS, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(b)
}

// handleExport returns the stored events in their persisted JSON layout.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	events := s.store.Events()
	log.FromContext(r.Context()).DebugContext(r.Context(), "Events exported",
		log.FieldOperation, log.OpList,
		log.FieldEventCount, len(events))
	w.Header().Set("Content-Disposition", `inline; filename="events.json"`)
	writeJSON(w, http.StatusOK, events)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	c := s.newController()
	c.ShowHome()
	s.renderPage(w, r, c)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c := s.newController()
	c.ShowList()
	s.renderPage(w, r, c)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	c := s.newController()
	c.BeginCreate()
	s.renderPage(w, r, c)
}

// handleOpen shows an event. An unknown id answers 204 so the browser keeps
// the current page.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	c := s.newController()
	if !c.Open(id) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Event not found, page unchanged",
			log.FieldEventID, id,
			log.FieldError, core.ErrEventNotFound,
			log.FieldErrorType, log.ErrorTypeNotFound)
		NoContent().Write(w)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Event opened",
		log.FieldEventID, id,
		log.FieldOperation, log.OpRead)
	s.renderPage(w, r, c)
}
