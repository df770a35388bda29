package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hongminglow/authflow/internal/auth"
	"github.com/hongminglow/authflow/internal/config"
	"github.com/hongminglow/authflow/internal/http/handlers"
	"github.com/hongminglow/authflow/internal/middleware"
	"github.com/hongminglow/authflow/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.UserStore, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler builds the full middleware and route stack.
func Handler(cfg config.Config, store storage.UserStore, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), store, logger).Register(mux)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	handlers.NewAuthHandler(store, tokenManager, logger).Register(mux)
	handlers.NewUserHandler(store, tokenManager, logger).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.CORS(cfg.FrontendURL, middleware.Logging(logger, middleware.Metrics(mux)))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
