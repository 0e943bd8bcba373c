// Package server exposes the retrieval engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/yojanadost/yojanadost/internal/engine"
	"github.com/yojanadost/yojanadost/internal/model"
	"github.com/yojanadost/yojanadost/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Responder is the engine surface the handlers need
type Responder interface {
	Respond(ctx context.Context, query string) engine.Result
	Categories() []string
	SchemeCount() int
}

// Server wires the router, middleware and listener
type Server struct {
	engine  Responder
	config  model.ServerConfig
	limiter *worker.Limiter // nil when rate limiting is off
	logger  zerolog.Logger
}

// New creates a server. Rate limiting applies to the chat endpoints only.
func New(eng Responder, cfg model.ServerConfig, rl model.RateLimitConfig, logger zerolog.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = model.DefaultConfig().Server.RequestTimeout
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	var limiter *worker.Limiter
	if rl.Enabled && rl.RequestsPerSecond > 0 {
		limiter = worker.NewLimiter(rl.RequestsPerSecond, rl.BurstSize)
	}

	return &Server{
		engine:  eng,
		config:  cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// Handler builds the HTTP handler with all routes configured
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(s.config.AllowedOrigins))
	r.Use(chimiddleware.Timeout(s.config.RequestTimeout))

	r.Get("/", s.welcome)
	r.Get("/health", s.health)
	r.Get("/api/categories", s.categories)

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(s.limiter, s.logger))
		r.Post("/", s.chat)
		r.Post("/api/chat", s.chat)
	})

	return r
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.config.Addr).
			Int("schemes", s.engine.SchemeCount()).
			Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Graceful shutdown failed")
		_ = srv.Close()
		return err
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}
