// Package console serves the admin console over WebSocket, along with
// health and Prometheus endpoints.
package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lawnchairsociety/autobalance/internal/command"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/metrics"
)

// Executor runs one admin command and returns the reply.
type Executor interface {
	Execute(c *command.Command, admin string) string
}

// Server is the admin console.
type Server struct {
	cfg        Config
	exec       Executor
	gate       *sessionGate
	httpServer *http.Server
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*client
	wg       sync.WaitGroup
}

// NewServer builds the console and its routes.
func NewServer(cfg Config, exec Executor) *Server {
	s := &Server{
		cfg:      cfg,
		exec:     exec,
		gate:     newSessionGate(cfg.MaxPerIP, cfg.MaxTotal),
		sessions: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.handleWebSocketUpgrade)

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("Admin console listening", "address", s.cfg.Address)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes every open session and waits
// for their handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for _, c := range s.sessions {
		c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// Sessions returns the number of open console sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := remoteHost(r.RemoteAddr)

	if ok, reason := s.gate.admit(clientIP); !ok {
		sessions, hosts := s.gate.usage()
		metrics.ConsoleRejected.WithLabelValues(reason).Inc()
		logger.Warning("Console connection refused",
			"client_ip", clientIP,
			"limit", reason,
			"open_sessions", sessions,
			"open_hosts", hosts)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Console upgrade failed", "error", err)
		s.gate.leave(clientIP)
		return
	}

	s.wg.Add(1)
	go s.handleConnection(newClient(conn), clientIP)
}

func (s *Server) handleConnection(c *client, clientIP string) {
	id := uuid.NewString()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		metrics.ConsoleSessions.Dec()
		s.gate.leave(clientIP)
		c.Close()
		s.wg.Done()
	}()

	s.mu.Lock()
	s.sessions[id] = c
	s.mu.Unlock()
	metrics.ConsoleSessions.Inc()

	if err := c.WriteLine("Password:"); err != nil {
		return
	}
	password, err := c.ReadLine()
	if err != nil {
		return
	}
	if !s.cfg.CheckPassword(password) {
		metrics.ConsoleAuthFailures.Inc()
		logger.Warning("Console login failed", "client_ip", clientIP, "session", id)
		_ = c.WriteLine("Authentication failed.")
		return
	}

	admin := "console:" + id[:8]
	logger.Info("Console session opened", "client_ip", clientIP, "session", id)
	if err := c.WriteLine("Welcome, " + admin + ". Type 'help' for commands."); err != nil {
		return
	}

	th := newThrottle(s.cfg.Throttle)
	for {
		line, err := c.ReadLine()
		if err != nil {
			logger.Debug("Console session closed", "session", id, "error", err)
			return
		}
		switch strings.ToLower(line) {
		case "quit", "exit":
			_ = c.WriteLine("Goodbye.")
			logger.Info("Console session closed", "session", id)
			return
		}

		if ok, wait := th.Allow(); !ok {
			metrics.ConsoleThrottled.Inc()
			secs := int(wait.Seconds()) + 1
			if err := c.WriteLine(fmt.Sprintf("Too many commands. Please wait %d seconds.", secs)); err != nil {
				return
			}
			continue
		}

		reply := s.exec.Execute(command.ParseCommand(line), admin)
		if reply == "" {
			continue
		}
		if err := c.WriteLine(strings.TrimSpace(reply)); err != nil {
			return
		}
	}
}
