// Package server exposes the conversation operation over HTTP. It is a thin
// transport boundary: one endpoint per operation, in-memory conversation
// state only.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/config"
	servermw "github.com/modelink/modelink/internal/server/middleware"
)

// Server is the HTTP front for the chat registry.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	cfg      config.ServerConfig
	registry *chatlink.Registry
	convos   *conversationStore
	log      *zap.Logger
	version  string
}

// New builds a server around the given registry.
func New(cfg config.ServerConfig, registry *chatlink.Registry, log *zap.Logger, version string) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(servermw.RequestID)
	r.Use(chimw.Recoverer)

	s := &Server{
		router:   r,
		cfg:      cfg,
		registry: registry,
		convos:   newConversationStore(),
		log:      log,
		version:  version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Get("/v1/providers", s.handleProviders)
	s.router.Post("/v1/chat", s.handleChat)
	s.router.Delete("/v1/conversations/{id}", s.handleReset)
}

// Start blocks serving HTTP until Shutdown or failure.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.log.Info("starting HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
