package engine

// PlayerSnapshot is the presentation view of the player.
type PlayerSnapshot struct {
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Z           float64 `json:"z" yaml:"z"`
	Row         int     `json:"row" yaml:"row"`
	Col         int     `json:"col" yaml:"col"`
	Facing      string  `json:"facing" yaml:"facing"`
	Yaw         float64 `json:"yaw" yaml:"yaw"`
	Heading     string  `json:"heading" yaml:"heading"`
	OnHalfBlock bool    `json:"on_half_block" yaml:"on_half_block"`
}

// GhostSnapshot is the presentation view of one ghost.
type GhostSnapshot struct {
	ID      int     `json:"id" yaml:"id"`
	Variant int     `json:"variant" yaml:"variant"`
	X       float64 `json:"x" yaml:"x"`
	Z       float64 `json:"z" yaml:"z"`
	Row     int     `json:"row" yaml:"row"`
	Col     int     `json:"col" yaml:"col"`
	Facing  string  `json:"facing" yaml:"facing"`
	Yaw     float64 `json:"yaw" yaml:"yaw"`
	State   string  `json:"state" yaml:"state"`
}

// GateSnapshot is the presentation view of one gate.
type GateSnapshot struct {
	Row   int     `json:"row" yaml:"row"`
	Col   int     `json:"col" yaml:"col"`
	Phase string  `json:"phase" yaml:"phase"`
	Y     float64 `json:"y" yaml:"y"`
}

// CellSnapshot addresses a map cell.
type CellSnapshot struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Snapshot captures the observable state of a world for determinism tests,
// headless runs and remote renderers.
type Snapshot struct {
	Tick            uint64          `json:"tick" yaml:"tick"`
	TimeMS          int64           `json:"time_ms" yaml:"time_ms"`
	Phase           string          `json:"phase" yaml:"phase"`
	Score           int             `json:"score" yaml:"score"`
	Lives           int             `json:"lives" yaml:"lives"`
	GhostsEatable   bool            `json:"ghosts_eatable" yaml:"ghosts_eatable"`
	PowerUpSeconds  int             `json:"power_up_seconds" yaml:"power_up_seconds"`
	Pellets         int             `json:"pellets" yaml:"pellets"`
	PendingRespawns int             `json:"pending_respawns" yaml:"pending_respawns"`
	Fruit           *CellSnapshot   `json:"fruit,omitempty" yaml:"fruit,omitempty"`
	Player          PlayerSnapshot  `json:"player" yaml:"player"`
	Ghosts          []GhostSnapshot `json:"ghosts" yaml:"ghosts"`
	Gates           []GateSnapshot  `json:"gates" yaml:"gates"`
	Stats           Stats           `json:"stats" yaml:"stats"`
}

// Snapshot returns the current observable state.
func (w *World) Snapshot() Snapshot {
	p := w.player
	pc := w.playerCell()

	snap := Snapshot{
		Tick:            w.tick,
		TimeMS:          w.now.Milliseconds(),
		Phase:           w.state.Phase.String(),
		Score:           w.state.Score,
		Lives:           w.state.Lives,
		GhostsEatable:   w.state.GhostEatable,
		PowerUpSeconds:  w.PowerUpRemaining(),
		Pellets:         len(w.grid.PelletCells()),
		PendingRespawns: len(w.sched.respawns),
		Player: PlayerSnapshot{
			X:           p.Pos.X,
			Y:           p.Pos.Y,
			Z:           p.Pos.Z,
			Row:         pc.Row,
			Col:         pc.Col,
			Facing:      p.Facing.String(),
			Yaw:         p.Facing.Yaw(),
			Heading:     p.Current.String(),
			OnHalfBlock: p.OnHalfBlock,
		},
		Ghosts: make([]GhostSnapshot, 0, len(w.ghosts)),
		Gates:  make([]GateSnapshot, 0, len(w.grid.gates)),
		Stats:  w.stats,
	}

	if f, ok := w.sched.Fruit(); ok {
		snap.Fruit = &CellSnapshot{Row: f.Cell.Row, Col: f.Cell.Col}
	}
	for _, g := range w.ghosts {
		gc := w.grid.WorldToCell(g.Pos.X, g.Pos.Z)
		snap.Ghosts = append(snap.Ghosts, GhostSnapshot{
			ID:      g.ID,
			Variant: g.Variant,
			X:       g.Pos.X,
			Z:       g.Pos.Z,
			Row:     gc.Row,
			Col:     gc.Col,
			Facing:  g.Facing.String(),
			Yaw:     g.Facing.Yaw(),
			State:   g.State.String(),
		})
	}
	for i, gate := range w.grid.gates {
		snap.Gates = append(snap.Gates, GateSnapshot{
			Row:   gate.Cell.Row,
			Col:   gate.Cell.Col,
			Phase: gate.Phase.String(),
			Y:     w.grid.GateOffset(i, w.now),
		})
	}
	return snap
}
