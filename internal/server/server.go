// Package server exposes a form desk over HTTP. Every browser gets a session
// cookie that keys its own form controller and record table; state changing
// requests are plain form posts answered with a redirect back to the page,
// while the runtime script reports field edits to a JSON endpoint.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formdesk/internal/logging"
	"github.com/goliatone/go-formdesk/pkg/render"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdesk/pkg/session"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "formdesk_session"
	// CSRFHeader may carry the token instead of the _csrf form value.
	CSRFHeader = "X-CSRF-Token"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBasePath mounts every route under path.
func WithBasePath(path string) Option {
	return func(s *Server) {
		s.basePath = normalizeBasePath(path)
	}
}

// WithRenderer replaces the page renderer. Defaults to the vanilla HTML
// renderer with embedded templates.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithTheme applies a resolved theme to every rendered page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithMetrics replaces the metrics collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithAssets overrides the filesystem served under /assets.
func WithAssets(assets fs.FS) Option {
	return func(s *Server) {
		if assets != nil {
			s.assets = assets
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// Server wires sessions, renderers, and routes together.
type Server struct {
	catalog       render.SchemaCatalog
	store         *session.Store
	renderer      render.Renderer
	logger        *slog.Logger
	metrics       *Metrics
	theme         *theme.RendererConfig
	assets        fs.FS
	basePath      string
	secureCookies bool
}

// New builds a server over catalog and store.
func New(catalog render.SchemaCatalog, store *session.Store, options ...Option) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("server: schema catalog is required")
	}
	if store == nil {
		return nil, errors.New("server: session store is required")
	}
	s := &Server{
		catalog: catalog,
		store:   store,
		logger:  logging.Discard(),
		assets:  vanilla.AssetsFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(store.Len)
	}
	return s, nil
}

// Metrics returns the collectors behind /metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the chi router with every route mounted under the base
// path.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.metrics.Middleware)
	router.Use(s.logRequests)

	routes := func(r chi.Router) {
		r.Get("/healthz", s.handleHealthz)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
		r.Handle("/assets/*", http.StripPrefix(s.path("/assets/"), http.FileServer(http.FS(s.assets))))

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handlePage)
			r.Get("/api/forms", s.handleAPIForms)
			r.Get("/api/records", s.handleAPIRecords)

			r.Group(func(r chi.Router) {
				r.Use(s.checkCSRF)
				r.Post("/form/type", s.handleSelectType)
				r.Post("/form/field", s.handleField)
				r.Post("/form/submit", s.handleSubmit)
				r.Route("/records/{id}", func(r chi.Router) {
					r.Post("/edit", s.handleEdit)
					r.Post("/save", s.handleSave)
					r.Post("/cancel", s.handleCancel)
					r.Post("/delete", s.handleDelete)
				})
			})
		})
	}

	if s.basePath == "" {
		routes(router)
	} else {
		router.Route(s.basePath, routes)
	}
	return router
}

// SweepSessions drops idle sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.store.Sweep(now); removed > 0 {
				s.logger.Debug("swept idle sessions", "removed", removed, "active", s.store.Len())
			}
		}
	}
}

func (s *Server) path(route string) string {
	return s.basePath + route
}

func normalizeBasePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(path, "/")
}
