// Package api exposes a forest engine over HTTP and a websocket state stream.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"forestfire/internal/forest"

	"github.com/gorilla/websocket"
)

const maxBodyBytes = 1 << 20

// Server serializes HTTP access to a single engine.
type Server struct {
	mu     sync.Mutex
	engine *forest.Engine
	cells  []uint8

	logger   *slog.Logger
	hub      *hub
	upgrader websocket.Upgrader
}

// NewServer wraps an initialized engine.
func NewServer(engine *forest.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine: engine,
		logger: logger,
		hub:    newHub(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/simulation/init", s.handleInit)
	mux.HandleFunc("POST /api/simulation/step", s.handleStep)
	mux.HandleFunc("POST /api/simulation/run", s.handleRun)
	mux.HandleFunc("POST /api/simulation/reset", s.handleReset)
	mux.HandleFunc("GET /api/simulation/state", s.handleState)
	mux.HandleFunc("GET /api/simulation/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/simulation/config", s.handlePutConfig)
	mux.HandleFunc("GET /api/simulation/stream", s.handleStream)
	return withCORS(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	dto := configToDTO(forest.DefaultConfig())
	if !s.decode(w, r, &dto) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Initialize(dto.config()); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("simulation initialized", "height", dto.ForestHeight, "width", dto.ForestWidth,
		"probability", dto.FirePropagationProbability, "seed", s.engine.Seed())
	s.respondAndBroadcast(w)
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dto := configToDTO(s.engine.Config())
	s.mu.Unlock()
	if !s.decode(w, r, &dto) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Reconfigure(dto.config()); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("simulation reconfigured", "height", dto.ForestHeight, "width", dto.ForestWidth,
		"probability", dto.FirePropagationProbability, "seed", s.engine.Seed())
	s.respondAndBroadcast(w)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	dto := configToDTO(s.engine.Config())
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleStep(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.engine.Running()
	s.engine.Step()
	s.logCompletion(wasRunning)
	s.respondAndBroadcast(w)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("max must be a positive integer, got %q", raw)})
			return
		}
		limit = n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.engine.Running()
	for taken := 0; s.engine.Running() && (limit == 0 || taken < limit); taken++ {
		s.engine.Step()
	}
	s.logCompletion(wasRunning)
	s.respondAndBroadcast(w)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.engine.Reset(); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("simulation reset", "seed", s.engine.Seed())
	s.respondAndBroadcast(w)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var state StateDTO
	state, s.cells = stateToDTO(s.engine, s.cells)
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("stream upgrade failed", "error", err)
		return
	}
	sub := &subscriber{conn: conn, remote: conn.RemoteAddr().String(), send: make(chan StateDTO, sendBuffer)}

	s.mu.Lock()
	var state StateDTO
	state, s.cells = stateToDTO(s.engine, s.cells)
	sub.send <- state
	s.hub.add(sub)
	s.mu.Unlock()

	s.logger.Debug("stream subscriber connected", "remote", sub.remote, "subscribers", s.hub.count())
	go sub.writeLoop(s.logger)
	sub.readLoop()
	s.hub.remove(sub)
	s.logger.Debug("stream subscriber disconnected", "remote", sub.remote)
}

// respondAndBroadcast writes the current state and pushes it to stream
// subscribers. The caller holds s.mu.
func (s *Server) respondAndBroadcast(w http.ResponseWriter) {
	var state StateDTO
	state, s.cells = stateToDTO(s.engine, s.cells)
	s.hub.broadcast(state)
	s.writeJSON(w, http.StatusOK, state)
}

// logCompletion logs the transition to complete. The caller holds s.mu.
func (s *Server) logCompletion(wasRunning bool) {
	if wasRunning && !s.engine.Running() {
		counts := s.engine.Counts()
		s.logger.Info("simulation complete", "steps", s.engine.Steps(), "burned", counts.Burned, "alive", counts.Alive)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		s.logger.Warn("rejecting request body", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, forest.ErrInvalidConfig) {
		s.logger.Warn("rejecting configuration", "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error("request failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug("response write failed", "status", status, "error", err)
	}
}
