package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"deposits/internal/cache"
	"deposits/internal/core"
	"deposits/internal/kv"
	"deposits/internal/log"
	"deposits/internal/middleware/ratelimit"
	"deposits/internal/middleware/security"
	"deposits/internal/middleware/trace"
	"deposits/internal/services"
	"deposits/internal/ui"
	appweb "deposits/web"
)

const (
	listCacheSize    = 32
	listCacheTTL     = 10 * time.Minute
	staticMaxAge     = 3600
	readinessTimeout = 5 * time.Second

	rateLimitMessage = "Too many saves. Your changes are still here, please try again in a minute."
)

// Options configures NewServer.
type Options struct {
	Addr   string
	Store  *services.EventStore
	IDs    ui.IDSource
	Pinger kv.Pinger
	Logger *log.Logger

	RateLimitPerMinute int
}

// Server renders the deposits page and applies its form actions.
type Server struct {
	http.Server

	templates *template.Template
	store     *services.EventStore
	ids       ui.IDSource
	pinger    kv.Pinger
	logger    *log.Logger
	events    *log.StructuredLogger

	listCache    *cache.LRUCache[ui.ListView]
	cacheManager *cache.Manager

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	appMetrics   appMetrics
	workerReady  bool
	shutdownOnce sync.Once
}

type appMetrics struct {
	started       time.Time
	eventsCreated atomic.Int64
	eventsUpdated atomic.Int64
	eventsDeleted atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server. A missing template set or offline worker script is
// logged; the server still starts.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		store:            opts.Store,
		ids:              opts.IDs,
		pinger:           opts.Pinger,
		logger:           httpLogger,
		events:           log.NewStructuredLogger(logger),
		listCache:        cache.NewLRUCache[ui.ListView](listCacheSize, listCacheTTL),
		cacheManager:     cache.NewManager(logger.WithComponent(log.ComponentCache).Logger),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: security.NewDetector(),
	}
	s.appMetrics.started = time.Now()
	s.traceMiddleware = trace.NewMiddleware(logger.WithComponent(log.ComponentTrace), s.securityDetector.ExtractClientIP)
	s.cacheManager.Register(s.listCache)
	s.cacheManager.StartCleanup(listCacheTTL)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		httpLogger.Warn("Failed parsing templates", log.FieldError, err, log.FieldComponent, log.ComponentTemplate)
	}
	s.templates = t

	s.workerReady = checkOfflineWorker(logger.WithComponent(log.ComponentWorker))

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServerFS(sub))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}
	mux.Handle("GET /service-worker.js", security.NoCacheMiddleware(http.HandlerFunc(s.handleServiceWorker)))
	mux.HandleFunc("GET /manifest.webmanifest", s.handleManifest)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /events", s.handleList)
	mux.HandleFunc("GET /events/new", s.handleNew)
	mux.HandleFunc("POST /events", s.handleCreateForm)
	mux.HandleFunc("GET /events/{id}", s.handleOpen)
	mux.HandleFunc("POST /events/{id}", s.handleEditForm)
	mux.HandleFunc("GET /api/events", s.handleExport)
}

// middleware wraps h with tracing outermost and security headers innermost.
func (s *Server) middleware(h http.Handler) http.Handler {
	secured := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	screened := s.securityDetector.Middleware(s.logger.WithComponent(log.ComponentSecurity).Logger)(secured)
	return s.traceMiddleware.Middleware(screened)
}

// allowWrite spends one unit of the client's budget for a form post that
// writes to storage. Over the limit the posted form is rendered again with
// a 429 so the unsaved draft is not lost.
func (s *Server) allowWrite(w http.ResponseWriter, r *http.Request, c *ui.Controller, action FormAction) bool {
	clientIP := s.securityDetector.ExtractClientIP(r)
	if s.rateLimiter.Allow(clientIP) {
		return true
	}
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, clientIP,
		log.FieldPath, r.URL.Path,
		log.FieldAction, string(action))
	w.Header().Set("Retry-After", s.rateLimiter.RetryAfter())
	s.renderPageStatus(w, r, c, http.StatusTooManyRequests, rateLimitMessage)
	return false
}

// Shutdown stops background routines and gracefully shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// checkOfflineWorker reports whether the worker script is embedded. Its
// absence only disables offline support.
func checkOfflineWorker(logger *log.Logger) bool {
	if _, err := fs.Stat(appweb.StaticFS, appweb.ServiceWorkerPath); err != nil {
		logger.Warn("Offline worker script missing, offline support disabled",
			log.FieldPath, appweb.ServiceWorkerPath,
			log.FieldError, err)
		return false
	}
	return true
}

// snapshotStore remembers the revision of the last Events call so the list
// view can be cached against exactly the events it was rendered from.
type snapshotStore struct {
	*services.EventStore
	revision uint64
}

func (s *snapshotStore) Events() []core.Event {
	events, rev := s.EventStore.Snapshot()
	s.revision = rev
	return events
}

// newController builds the per-request controller over the shared store.
func (s *Server) newController() *ui.Controller {
	store := &snapshotStore{EventStore: s.store}
	return ui.NewController(store, s.ids, ui.WithListRenderer(func(events []core.Event) ui.ListView {
		key := strconv.FormatUint(store.revision, 10)
		if view, ok := s.listCache.Get(key); ok {
			s.appMetrics.cacheHits.Add(1)
			return view
		}
		s.appMetrics.cacheMisses.Add(1)
		view := ui.RenderList(events)
		s.listCache.Set(key, view)
		return view
	}))
}
