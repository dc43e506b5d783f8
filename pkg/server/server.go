package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"tungsten/pkg/config"
	"tungsten/pkg/logger"
)

// StatusFunc reports the current state of whatever the process is serving.
type StatusFunc func() interface{}

// Server exposes /health and a JSON /status endpoint.
type Server struct {
	config  *config.Config
	status  StatusFunc
	started time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

func NewServer(cfg *config.Config, status StatusFunc) *Server {
	return &Server{
		config: cfg,
		status: status,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	return s.withCORS(mux)
}

// Start binds the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return nil
	}

	addr := s.config.GatewayAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.started = time.Now()
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.InfoCF("server", "Starting HTTP server", map[string]interface{}{
		"addr": ln.Addr().String(),
	})

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorCF("server", "HTTP server failed", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
		}
	}()

	return nil
}

// Addr is the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv != nil {
		logger.InfoC("server", "Stopping HTTP server")
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body := map[string]interface{}{
		"time": time.Now().Format(time.RFC3339),
	}
	if !s.started.IsZero() {
		body["uptime_sec"] = int(time.Since(s.started).Seconds())
	}
	if s.status != nil {
		body["status"] = s.status()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WarnCF("server", "Failed to write status", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
