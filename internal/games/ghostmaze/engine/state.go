package engine

// Phase is the top-level state of a round.
type Phase uint8

const (
	PhasePlaying Phase = iota
	PhasePlayerDead
	PhaseGameOver
)

// String returns the string representation of a phase.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePlayerDead:
		return "player-dead"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// GameState gathers every round-wide flag. Fields are only changed through
// the transition methods below.
type GameState struct {
	Phase         Phase
	Score         int
	Lives         int
	GhostEatable  bool
	GatesOpened   bool
	GatesClosed   bool
	GhostsCanMove bool
}

// NewGameState returns the state at the start of a round.
func NewGameState(lives int) GameState {
	return GameState{Phase: PhasePlaying, Lives: lives}
}

// Award adds points while playing.
func (s *GameState) Award(points int) {
	if s.Phase == PhasePlaying {
		s.Score += points
	}
}

// Kill takes a life and wipes the score. It reports false if the player was
// not alive.
func (s *GameState) Kill() bool {
	if s.Phase != PhasePlaying {
		return false
	}
	s.Phase = PhasePlayerDead
	s.Lives--
	s.Score = 0
	return true
}

// Settle resolves a death: back to playing while lives remain, otherwise
// game over.
func (s *GameState) Settle() Phase {
	if s.Phase == PhasePlayerDead {
		if s.Lives > 0 {
			s.Phase = PhasePlaying
		} else {
			s.Phase = PhaseGameOver
			s.GhostEatable = false
		}
	}
	return s.Phase
}

// BeginPowerUp makes ghosts eatable.
func (s *GameState) BeginPowerUp() { s.GhostEatable = true }

// EndPowerUp makes ghosts dangerous again.
func (s *GameState) EndPowerUp() { s.GhostEatable = false }

// OpenGates latches the first gate opening. It reports whether this call
// opened them.
func (s *GameState) OpenGates() bool {
	if s.GatesOpened {
		return false
	}
	s.GatesOpened = true
	return true
}

// ReopenGates forces the gates open again after a capture, re-arming the
// close timer.
func (s *GameState) ReopenGates() {
	s.GatesOpened = true
	s.GatesClosed = false
}

// CloseGates latches the gates closed.
func (s *GameState) CloseGates() { s.GatesClosed = true }

// ReleaseGhosts lets ghosts start moving. It stays set for the round.
func (s *GameState) ReleaseGhosts() { s.GhostsCanMove = true }
