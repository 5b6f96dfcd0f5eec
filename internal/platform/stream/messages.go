package stream

import "github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"

// Roles sent in hello messages.
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// clientMessage is anything a client may send.
type clientMessage struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"`
	Hop  bool   `json:"hop,omitempty"`
}

// HelloMessage tells a client its role. It is sent on connect and again when
// a spectator is promoted to player.
type HelloMessage struct {
	Type     string `json:"type"`
	Role     string `json:"role"`
	Level    string `json:"level"`
	TickRate int    `json:"tick_rate"`
}

// FrameMessage carries one simulation frame.
type FrameMessage struct {
	Type     string          `json:"type"`
	Tick     uint64          `json:"tick"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Events   []string        `json:"events"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
