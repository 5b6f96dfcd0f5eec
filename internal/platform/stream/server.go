// Package stream serves a running Ghost Maze world over websockets. Every
// connected client receives one frame per tick; the first client steers the
// player and later ones watch.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Config holds the stream server configuration.
type Config struct {
	Level    levels.Level
	Tuning   engine.Tuning
	TickRate int
	Seed     int64
	Logger   *log.Logger
}

// client is one websocket connection. send is closed only by the run loop.
type client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

type clientInput struct {
	from *client
	msg  clientMessage
}

// Server owns one world and steps it from a single goroutine.
type Server struct {
	cfg      Config
	logger   *log.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	inputs     chan clientInput
	done       chan struct{}

	// Owned by Run.
	world   *engine.World
	clients []*client // connection order; clients[0] is the player
	pending engine.Input
}

// New builds the world for cfg.Level. The world does not advance until Run
// is called.
func New(cfg Config) (*Server, error) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	layout, err := cfg.Level.Layout()
	if err != nil {
		return nil, fmt.Errorf("stream: level %s: %w", cfg.Level.ID, err)
	}
	world, err := engine.NewWorld(layout, engine.Options{
		Tuning: cfg.Tuning,
		Rand:   rand.New(rand.NewSource(cfg.Seed)),
	})
	if err != nil {
		return nil, fmt.Errorf("stream: level %s: %w", cfg.Level.ID, err)
	}

	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		inputs:     make(chan clientInput, 16),
		done:       make(chan struct{}),
		world:      world,
	}, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok\n")
	})
	return mux
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), addr: r.RemoteAddr}
	select {
	case s.register <- c:
	case <-s.done:
		conn.Close()
		return
	}

	go c.writePump()
	s.readPump(c)
}

// readPump forwards client messages to the run loop.
func (s *Server) readPump(c *client) {
	defer func() {
		select {
		case s.unregister <- c:
		case <-s.done:
		}
		c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "remote", c.addr, "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Debug("discarding malformed message", "remote", c.addr, "error", err)
			continue
		}
		select {
		case s.inputs <- clientInput{from: c, msg: msg}:
		case <-s.done:
			return
		}
	}
}

// writePump drains the send queue into the connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
}

// Run steps the world once per tick until ctx is cancelled. It is the only
// goroutine that touches the world.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()
	defer close(s.done)
	defer s.dropAll()

	s.logger.Info("stream started", "level", s.cfg.Level.ID, "tick_rate", s.cfg.TickRate)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.register:
			s.addClient(c)
		case c := <-s.unregister:
			s.removeClient(c)
		case in := <-s.inputs:
			s.handleInput(in)
		case <-ticker.C:
			s.step()
		}
	}
}

// now converts world ticks to engine time, the same clock the terminal game
// uses.
func (s *Server) now() time.Duration {
	return time.Duration(s.world.Tick()) * time.Second / time.Duration(s.cfg.TickRate)
}

func (s *Server) step() {
	res := s.world.Step(s.now(), s.pending)
	s.pending = engine.Input{}

	if len(s.clients) == 0 {
		return
	}
	events := make([]string, len(res.Events))
	for i, ev := range res.Events {
		events[i] = ev.Kind.String()
	}
	s.broadcast(FrameMessage{
		Type:     "frame",
		Tick:     res.Tick,
		Snapshot: s.world.Snapshot(),
		Events:   events,
	})
}

func (s *Server) addClient(c *client) {
	s.clients = append(s.clients, c)
	role := RoleSpectator
	if len(s.clients) == 1 {
		role = RolePlayer
	}
	s.logger.Info("client joined", "remote", c.addr, "role", role, "clients", len(s.clients))
	s.send(c, s.hello(role))
}

func (s *Server) index(c *client) int {
	for i, other := range s.clients {
		if other == c {
			return i
		}
	}
	return -1
}

func (s *Server) removeClient(c *client) {
	idx := s.index(c)
	if idx < 0 {
		return
	}
	s.clients = append(s.clients[:idx], s.clients[idx+1:]...)
	close(c.send)
	s.logger.Info("client left", "remote", c.addr, "clients", len(s.clients))

	if idx == 0 && len(s.clients) > 0 {
		s.pending = engine.Input{}
		next := s.clients[0]
		s.logger.Info("player handed over", "remote", next.addr)
		s.send(next, s.hello(RolePlayer))
	}
}

func (s *Server) dropAll() {
	for _, c := range s.clients {
		close(c.send)
	}
	s.clients = nil
}

func (s *Server) handleInput(in clientInput) {
	switch s.index(in.from) {
	case -1:
		// Left before its message was handled.
		return
	case 0:
	default:
		s.send(in.from, ErrorMessage{Type: "error", Error: "spectators cannot steer"})
		return
	}

	switch in.msg.Type {
	case "input":
		if d := engine.ParseDir(in.msg.Dir); d != engine.DirNone {
			s.pending.Dir = d
		}
		s.pending.Hop = s.pending.Hop || in.msg.Hop
	case "reset":
		s.world.Reset()
		s.pending = engine.Input{}
		s.logger.Info("world reset", "remote", in.from.addr)
	default:
		s.send(in.from, ErrorMessage{Type: "error", Error: "unknown message type " + in.msg.Type})
	}
}

func (s *Server) hello(role string) HelloMessage {
	return HelloMessage{Type: "hello", Role: role, Level: s.cfg.Level.ID, TickRate: s.cfg.TickRate}
}

func (s *Server) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal failed", "error", err)
		return
	}
	for _, c := range s.clients {
		s.enqueue(c, data)
	}
}

func (s *Server) send(c *client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshal failed", "error", err)
		return
	}
	s.enqueue(c, data)
}

// enqueue never blocks the run loop. A client that cannot keep up loses its
// connection; its read pump then unregisters it.
func (s *Server) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		s.logger.Warn("client too slow, disconnecting", "remote", c.addr)
		c.conn.Close()
	}
}

// ListenAndServe serves the stream on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", addr)
	err := srv.ListenAndServe()
	cancel()
	<-runErr
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
