package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	v1 "github.com/gosuda/backoffice/internal/api/v1"
	"github.com/gosuda/backoffice/internal/api/ws"
	"github.com/gosuda/backoffice/internal/config"
	"github.com/gosuda/backoffice/internal/metrics"
	"github.com/gosuda/backoffice/internal/server/middleware"
)

// Pinger is a dependency probed by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer routes to.
type Deps struct {
	Sessions      v1.Sessions
	Backoffice    v1.Backoffice
	Authenticator middleware.Authenticator
	// Feed serves the live admin-log stream; nil disables /ws.
	Feed   *ws.Hub
	Health map[string]Pinger
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all routes wired. ctx bounds the background
// cleanup of the rate limiters.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	rl := cfg.Server.RateLimit

	// Mount the API on /api with two sub-groups:
	// 1. Unauthenticated login and refresh, limited per client address.
	// 2. Authenticated back-office operations, limited per admin.
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestMeta)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, rl.PublicRPS, rl.PublicBurst))
			registerPublicRoutes(r, deps.Sessions)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Authenticator))
			r.Use(middleware.RateLimitByUser(ctx, rl.UserRPS, rl.UserBurst))
			registerAPIRoutes(r, deps.Backoffice)
		})
	})

	if deps.Feed != nil {
		router.Route("/ws", func(r chi.Router) {
			r.Use(middleware.Auth(deps.Authenticator))
			r.Use(middleware.RequireAdmin())
			deps.Feed.Routes(r)
		})
	}

	router.Get("/healthz", healthHandler(deps.Health))
	router.Handle("/metrics", metrics.Handler())

	return s
}

// Handler exposes the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
