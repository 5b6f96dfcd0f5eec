package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels"
)

type incoming struct {
	Type     string          `json:"type"`
	Role     string          `json:"role"`
	Level    string          `json:"level"`
	Tick     uint64          `json:"tick"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Events   []string        `json:"events"`
	Error    string          `json:"error"`
}

func testLevel() levels.Level {
	return levels.Level{
		ID:    "corridor",
		Name:  "Corridor",
		Lines: []string{"#######", "#P....#", "#######"},
	}
}

func startServer(t *testing.T) string {
	t.Helper()
	s, err := New(Config{Level: testLevel(), Tuning: engine.DefaultTuning(), TickRate: 100, Seed: 1})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// dial connects and pumps every message into a channel so that slow test
// code never stalls the server's send queue.
func dial(t *testing.T, url string) (*websocket.Conn, <-chan incoming) {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	out := make(chan incoming, 4096)
	go func() {
		defer close(out)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg incoming
			if err := json.Unmarshal(payload, &msg); err != nil {
				continue
			}
			out <- msg
		}
	}()
	return conn, out
}

func waitFor(t *testing.T, ch <-chan incoming, what string, match func(incoming) bool) incoming {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.Fatalf("connection closed while waiting for %s", what)
			}
			if match(msg) {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
}

func isHello(role string) func(incoming) bool {
	return func(m incoming) bool { return m.Type == "hello" && m.Role == role }
}

func TestFirstClientSteers(t *testing.T) {
	url := startServer(t)

	player, pc := dial(t, url)
	hello := waitFor(t, pc, "player hello", isHello(RolePlayer))
	if hello.Level != "corridor" {
		t.Errorf("hello level = %q", hello.Level)
	}

	spectator, sc := dial(t, url)
	waitFor(t, sc, "spectator hello", isHello(RoleSpectator))

	send(t, player, map[string]any{"type": "input", "dir": "right"})
	frame := waitFor(t, pc, "pellet eaten", func(m incoming) bool {
		for _, ev := range m.Events {
			if ev == "pellet-eaten" {
				return true
			}
		}
		return false
	})
	if frame.Snapshot.Score < 1 {
		t.Errorf("score = %d after eating a pellet", frame.Snapshot.Score)
	}

	// Spectators see the same world
	waitFor(t, sc, "spectator frame with score", func(m incoming) bool {
		return m.Type == "frame" && m.Snapshot.Score >= 1
	})

	send(t, spectator, map[string]any{"type": "input", "dir": "left"})
	rejected := waitFor(t, sc, "error", func(m incoming) bool { return m.Type == "error" })
	if !strings.Contains(rejected.Error, "spectators") {
		t.Errorf("error = %q", rejected.Error)
	}
}

func TestPlayerHandover(t *testing.T) {
	url := startServer(t)

	player, pc := dial(t, url)
	waitFor(t, pc, "player hello", isHello(RolePlayer))
	_, sc := dial(t, url)
	waitFor(t, sc, "spectator hello", isHello(RoleSpectator))

	player.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	player.Close()

	waitFor(t, sc, "promotion", isHello(RolePlayer))
}

func TestReset(t *testing.T) {
	url := startServer(t)

	player, pc := dial(t, url)
	waitFor(t, pc, "player hello", isHello(RolePlayer))
	send(t, player, map[string]any{"type": "input", "dir": "right"})
	waitFor(t, pc, "score", func(m incoming) bool { return m.Type == "frame" && m.Snapshot.Score >= 1 })

	send(t, player, map[string]any{"type": "reset"})
	frame := waitFor(t, pc, "fresh round", func(m incoming) bool {
		return m.Type == "frame" && m.Tick < 5
	})
	if frame.Snapshot.Score != 0 || frame.Snapshot.Pellets != 4 {
		t.Errorf("after reset score = %d pellets = %d", frame.Snapshot.Score, frame.Snapshot.Pellets)
	}

	send(t, player, map[string]any{"type": "warp"})
	waitFor(t, pc, "unknown type error", func(m incoming) bool { return m.Type == "error" })
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{
		Level:  levels.Level{ID: "broken", Lines: []string{"###", "#.#", "###"}},
		Tuning: engine.DefaultTuning(),
	})
	if !errors.Is(err, engine.ErrNoPlayerSpawn) {
		t.Errorf("err = %v, expected ErrNoPlayerSpawn", err)
	}
}
