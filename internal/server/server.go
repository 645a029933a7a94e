// Package server exposes the War engine over WebSocket. Every connection
// plays its own game; clients drive it one request at a time.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/war/internal/statslog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Config holds server configuration
type Config struct {
	Addr        string
	Player1     string
	Player2     string
	Seed        int64         // Zero deals a random game every time
	StatsLog    *statslog.Log // Nil disables export
	ExportStats bool          // Export automatically when a game ends
	Clock       quartz.Clock
	Logger      *log.Logger
}

// Server represents the WebSocket server
type Server struct {
	config      Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	clock       quartz.Clock
	logger      *log.Logger
	mu          sync.RWMutex
}

// NewServer creates a new WebSocket server
func NewServer(config Config) *Server {
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}

	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		clock:       config.Clock,
		logger:      config.Logger.WithPrefix("server"),
	}
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.config.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down WebSocket server")
		_ = s.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Stop closes all client connections
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	return nil
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	session := NewSession(s.config, s.clock, s.logger)
	client := NewConnection(conn, session, s.clock, s.logger)
	s.register(client)

	started, err := NewMessage(MessageTypeGameStarted, session.Started(), s.clock.Now())
	if err == nil {
		_ = client.SendMessage(started)
	}
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
