// Package relay bridges a phone posting orientation readings over HTTP to any
// number of viewers listening over WebSocket.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/network/packets"
)

// Config holds relay settings.
type Config struct {
	Addr              string        // Listen address, e.g. ":3000"
	BroadcastInterval time.Duration // Snapshot push period
	WriteTimeout      time.Duration // Per-message write deadline
}

// DefaultConfig returns the standard relay settings.
func DefaultConfig() Config {
	return Config{
		Addr:              ":3000",
		BroadcastInterval: 20 * time.Millisecond,
		WriteTimeout:      time.Second,
	}
}

// Server stores the latest reading and fans it out to listeners.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	now      func() time.Time

	mu        sync.RWMutex
	snapshot  packets.Snapshot
	listeners map[*listener]struct{}
}

// New creates a relay server.
func New(cfg Config) *Server {
	def := DefaultConfig()
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = def.BroadcastInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			// Phones and viewers connect from arbitrary origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		now:       time.Now,
		listeners: make(map[*listener]struct{}),
	}
	s.snapshot.Timestamp = s.now().UnixMilli()
	return s
}

// Handler returns the relay's HTTP routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sensor-data", s.handleSensorData)
	mux.HandleFunc("GET /sensor/connect", s.handleListen)
	mux.HandleFunc("GET /{$}", s.handleListen)
	return cors(mux)
}

// Snapshot returns the latest reading.
func (s *Server) Snapshot() packets.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Listeners returns the number of connected WebSocket listeners.
func (s *Server) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and broadcasts snapshots until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logger.StdLog("relay.http"),
	}

	logger.Info("relay listening",
		zap.String("addr", ln.Addr().String()),
		zap.Duration("broadcast", s.cfg.BroadcastInterval))

	go s.BroadcastLoop(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving relay: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down relay: %w", err)
	}
	s.closeListeners()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving relay: %w", err)
	}
	return nil
}

// BroadcastLoop pushes the snapshot to every listener each interval.
func (s *Server) BroadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Broadcast()
		}
	}
}

// Broadcast sends the current snapshot to every listener once.
func (s *Server) Broadcast() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.listeners) == 0 {
		return
	}

	msg, err := s.snapshot.Encode()
	if err != nil {
		logger.Error("encoding snapshot", zap.Error(err))
		return
	}
	for l := range s.listeners {
		l.offer(msg)
	}
}

func (s *Server) handleSensorData(w http.ResponseWriter, r *http.Request) {
	var t packets.Triple
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&t); err != nil {
		logger.Debug("rejecting sensor post", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, packets.Status{Status: "error"})
		return
	}

	s.mu.Lock()
	s.snapshot.Merge(t, s.now())
	snap := s.snapshot
	s.mu.Unlock()

	logger.Debug("sensor data",
		zap.Float64("alpha", snap.Alpha),
		zap.Float64("beta", snap.Beta),
		zap.Float64("gamma", snap.Gamma))
	writeJSON(w, http.StatusOK, packets.Status{Status: "ok"})
}

func (s *Server) handleListen(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeJSON(w, http.StatusOK, s.Snapshot())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	l := newListener(conn, s.cfg.WriteTimeout)

	s.mu.Lock()
	msg, err := s.snapshot.Encode()
	if err == nil {
		l.offer(msg)
	}
	s.listeners[l] = struct{}{}
	count := len(s.listeners)
	s.mu.Unlock()

	logger.Info("listener connected", zap.String("remote", r.RemoteAddr), zap.Int("listeners", count))

	go l.writePump()
	l.readPump()

	s.mu.Lock()
	delete(s.listeners, l)
	count = len(s.listeners)
	s.mu.Unlock()
	l.close()

	logger.Info("listener disconnected", zap.String("remote", r.RemoteAddr), zap.Int("listeners", count))
}

func (s *Server) closeListeners() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for l := range s.listeners {
		l.close()
		delete(s.listeners, l)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response", zap.Error(err))
	}
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
		if r.Method == http.MethodOptions {
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
