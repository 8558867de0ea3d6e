// Package http hosts the dashboard and inventory API servers.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stockdash/backend/inventory"
	"stockdash/frontend/dashboard"
	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/sqlite"
)

var ShutdownTimeout = 2 * time.Second

// Server owns a listener and the router serving it.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	Controller dashboard.Controller
	PageSize   int
}

func newServer(addr string) *Server {
	s := &Server{
		Addr:   addr,
		router: chi.NewRouter(),
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.server.Handler = s.router
	return s
}

// NewServer creates the dashboard server. Every page is rendered from the
// controller's current snapshot.
func NewServer(addr string, ctrl dashboard.Controller, pageSize int) *Server {
	s := newServer(addr)
	s.Controller = ctrl
	s.PageSize = pageSize

	s.router.Use(secureHeaders)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/health", health)
	s.RegisterDashboardRoutes(s.router)
	s.RegisterTransferRoutes(s.router)
	return s
}

// NewAPIServer creates the inventory API server backed by db.
func NewAPIServer(addr string, db *sqlite.DB, auditSvc *audit.Service) *Server {
	s := newServer(addr)
	s.router.Get("/health", health)
	s.router.Mount("/", inventory.NewRouter(db, auditSvc))
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Start listens on Addr and serves in the background.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// ListenAddr is the bound address once started, useful with port 0.
func (s *Server) ListenAddr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ln = nil
	return nil
}
