// Package server exposes a workspace of documents over HTTP.
//
// Documents are loaded with PUT, edited with plain-language requests and
// previewed in the browser; preview pages reload over a websocket whenever
// their document changes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/export"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/types"
	"github.com/conneroisu/smartedit/internal/websocket"
	"github.com/conneroisu/smartedit/internal/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxDocumentBytes bounds PUT bodies.
const maxDocumentBytes = 5 << 20

// Server serves the editing API and preview pages for a workspace.
type Server struct {
	config    config.ServerConfig
	tokens    types.DesignTokens
	workspace *workspace.Workspace
	hub       *websocket.Hub
	exporter  *export.Exporter
	logger    logging.Logger
	errors    *errors.ErrorHandler
	router    chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server for ws. Changes to any document in ws are pushed to
// connected preview pages.
func New(cfg config.ServerConfig, tokens types.DesignTokens, ws *workspace.Workspace, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	logger = logger.WithComponent("server")

	s := &Server{
		config:    cfg,
		tokens:    tokens,
		workspace: ws,
		hub:       websocket.NewHub(websocket.NewAllowList(cfg.AllowedOrigins), logger),
		exporter:  export.New(),
		logger:    logger,
		errors:    errors.NewErrorHandler(logger),
	}

	ws.Watch(func(e workspace.Event) {
		if e.Type == workspace.EventTypeOpened {
			return
		}
		s.hub.Broadcast(websocket.ReloadMessage(e.ID))
	})

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(securityHeaders)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.hub.ServeHTTP)
	r.Get("/preview/{id}", s.handlePreview)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tokens", s.handleTokens)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(validDocumentID)

				r.Get("/", s.handleGetDocument)
				r.Put("/", s.handlePutDocument)
				r.Delete("/", s.handleDeleteDocument)
				r.Get("/components", s.handleComponents)
				r.Post("/edits", s.handleEdit)
				r.Post("/resolve", s.handleResolve)
				r.Get("/history", s.handleHistory)
				r.Get("/export", s.handleExport)
			})
		})
	})

	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub used for reload notifications.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// Start listens on the configured address and serves until ctx is cancelled
// or the server fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting requests and closes websocket connections.
func (s *Server) Shutdown(ctx context.Context) error {
	hubErr := s.hub.Shutdown(ctx)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return hubErr
}
