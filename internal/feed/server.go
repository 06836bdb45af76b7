// Package feed serves the navigation state to remote viewers: a WebSocket
// stream of state snapshots, a JSON endpoint and the Prometheus metrics.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-exoplanets/internal/logging"
	"github.com/litescript/ls-exoplanets/internal/state"
)

// Config holds feed server settings.
type Config struct {
	Addr            string
	PublishInterval time.Duration // minimum gap between broadcasts
	WriteTimeout    time.Duration
	ConnectRate     rate.Limit // new WebSocket connections per second
	ConnectBurst    int
	CommandBuffer   int
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8765",
		PublishInterval: 100 * time.Millisecond,
		WriteTimeout:    2 * time.Second,
		ConnectRate:     2,
		ConnectBurst:    5,
		CommandBuffer:   16,
	}
}

// Message is what the server sends over the WebSocket.
type Message struct {
	Type  string          `json:"type"`
	Data  *state.Snapshot `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type client struct {
	mu   sync.Mutex // serializes writes
	conn *websocket.Conn
}

// Server streams state.Manager snapshots to WebSocket clients and accepts
// navigation commands from them.
type Server struct {
	cfg     Config
	state   *state.Manager
	metrics http.Handler
	log     *logging.Logger

	upgrader  websocket.Upgrader
	connLimit *rate.Limiter
	pubLimit  *rate.Limiter

	mu       sync.RWMutex
	clients  map[*websocket.Conn]*client
	lastSeq  uint64
	commands chan Command
}

// New creates a feed server over st. metrics may be nil.
func New(cfg Config, st *state.Manager, metrics http.Handler, log *logging.Logger) *Server {
	def := DefaultConfig()
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = def.PublishInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ConnectRate <= 0 {
		cfg.ConnectRate = def.ConnectRate
	}
	if cfg.ConnectBurst <= 0 {
		cfg.ConnectBurst = def.ConnectBurst
	}
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = def.CommandBuffer
	}
	return &Server{
		cfg:     cfg,
		state:   st,
		metrics: metrics,
		log:     logging.OrDiscard(log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connLimit: rate.NewLimiter(cfg.ConnectRate, cfg.ConnectBurst),
		pubLimit:  rate.NewLimiter(rate.Every(cfg.PublishInterval), 1),
		clients:   make(map[*websocket.Conn]*client),
		commands:  make(chan Command, cfg.CommandBuffer),
	}
}

// Commands delivers navigation commands received from clients. The frame
// loop drains it; commands arriving while the buffer is full are dropped.
func (s *Server) Commands() <-chan Command { return s.commands }

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	return mux
}

// Run serves on cfg.Addr and broadcasts until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	go s.broadcastLoop(ctx)
	s.log.Info("feed listening on %s", ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		if err := s.pubLimit.Wait(ctx); err != nil {
			return
		}
		s.Broadcast()
	}
}

// Broadcast sends the current snapshot to every client if the state changed
// since the last broadcast. It returns the number of clients written to.
func (s *Server) Broadcast() int {
	seq := s.state.Seq()
	s.mu.Lock()
	if seq == s.lastSeq || len(s.clients) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.lastSeq = seq
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	snap := s.state.Snapshot()
	msg := Message{Type: "snapshot", Data: &snap}
	sent := 0
	var failed []*websocket.Conn
	for _, c := range targets {
		if err := s.write(c, msg); err != nil {
			s.log.Debug("feed write: %v", err)
			failed = append(failed, c.conn)
			continue
		}
		sent++
	}

	if len(failed) > 0 {
		s.mu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
			conn.Close()
		}
		s.mu.Unlock()
	}
	return sent
}

func (s *Server) write(c *client, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return c.conn.WriteJSON(msg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.connLimit.Allow() {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade: %v", err)
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[conn] = c
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	snap := s.state.Snapshot()
	if err := s.write(c, Message{Type: "snapshot", Data: &snap}); err != nil {
		return
	}

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.log.Debug("websocket read: %v", err)
			}
			return
		}
		if !cmd.Valid() {
			_ = s.write(c, Message{Type: "error", Error: "unknown action " + cmd.Action})
			continue
		}
		select {
		case s.commands <- cmd:
		default:
			s.log.Warn("command buffer full, dropped %s", cmd)
		}
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.state.Snapshot()); err != nil {
		s.log.Warn("encode state: %v", err)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}
