package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Input is the player's request for one step.
type Input struct {
	Dir Dir  // requested direction, DirNone for no change
	Hop bool // hop onto an adjacent half-block
}

// StepResult describes what happened during one step.
type StepResult struct {
	Tick   uint64
	Now    time.Duration
	Phase  Phase
	Events []Event
}

// Stats counts what happened in the current round.
type Stats struct {
	PelletsEaten   int `json:"pellets_eaten" yaml:"pellets_eaten"`
	FruitsEaten    int `json:"fruits_eaten" yaml:"fruits_eaten"`
	GhostsCaptured int `json:"ghosts_captured" yaml:"ghosts_captured"`
	Deaths         int `json:"deaths" yaml:"deaths"`
}

// Options configures a World.
type Options struct {
	Tuning Tuning
	// Rand drives ghost decisions and fruit placement. Required.
	Rand *rand.Rand
}

// World is one simulated round on one map. A World is not safe for
// concurrent use: exactly one driver calls Step.
type World struct {
	layout *Layout
	tuning Tuning
	rng    *rand.Rand

	grid        *Grid
	player      Player
	ghosts      []Ghost
	nextGhostID int
	sched       *Scheduler
	state       GameState
	stats       Stats

	tick    uint64
	now     time.Duration
	started bool
	events  []Event
}

// NewWorld builds a world from a parsed layout.
func NewWorld(l *Layout, opts Options) (*World, error) {
	if l == nil {
		return nil, ErrEmptyMap
	}
	if opts.Rand == nil {
		return nil, errors.New("engine: world needs a random source")
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		layout: l,
		tuning: opts.Tuning,
		rng:    opts.Rand,
		sched:  NewScheduler(opts.Tuning.Timings),
	}
	w.Reset()
	return w, nil
}

// Reset rebuilds the round from the layout: full lives, zero score, every
// pellet back, gates closed, ghosts in the house and the scheduler cleared.
// The random source is kept as is.
func (w *World) Reset() {
	w.grid = NewGrid(w.layout, w.tuning)
	w.state = NewGameState(w.tuning.Lives)
	w.stats = Stats{}
	w.tick = 0
	w.now = 0
	w.started = false
	w.sched = NewScheduler(w.tuning.Timings)

	w.player = Player{}
	w.placePlayerAtSpawn()

	w.nextGhostID = 0
	w.ghosts = w.ghosts[:0]
	for _, s := range w.layout.ghostSpawns {
		w.ghosts = append(w.ghosts, w.spawnGhost(s, GhostHoused, 0))
	}
}

func (w *World) placePlayerAtSpawn() {
	x, z := w.grid.CellCenter(w.layout.playerSpawn)
	w.player.Pos = Vec3{X: x, Z: z}
	w.player.OnHalfBlock = false
}

// Step advances the simulation to timestamp now. Timestamps must not go
// backwards. Once the round is over Step changes nothing until Reset.
func (w *World) Step(now time.Duration, in Input) StepResult {
	w.events = nil
	if !w.started {
		w.started = true
		w.sched.Start(now)
	}
	w.tick++
	w.now = now

	if w.state.Phase == PhaseGameOver {
		return w.result()
	}

	if in.Dir != DirNone {
		w.player.Next = in.Dir
	}
	if in.Hop && w.hop() {
		w.emit(EventHop, w.playerCell(), -1)
	}

	if w.movePlayer() {
		w.collectAtPlayer(now)
	}
	w.updateGates(now)
	if w.state.GhostsCanMove {
		w.moveGhosts(now)
	}
	w.respawnPellets(now)
	w.dropFromHalfBlock()
	w.resolveContacts(now)
	w.updatePowerUp(now)
	w.updateFruit(now)

	return w.result()
}

func (w *World) result() StepResult {
	return StepResult{
		Tick:   w.tick,
		Now:    w.now,
		Phase:  w.state.Phase,
		Events: w.events,
	}
}

func (w *World) emit(kind EventKind, c Cell, ghostID int) {
	w.events = append(w.events, Event{Kind: kind, At: w.now, Cell: c, GhostID: ghostID})
}

func (w *World) playerCell() Cell {
	return w.grid.WorldToCell(w.player.Pos.X, w.player.Pos.Z)
}

// collectAtPlayer eats the first pellet in contact and collects the fruit.
func (w *World) collectAtPlayer(now time.Duration) {
	p := w.player
	radius := w.tuning.ContactRadius
	here := w.playerCell()

	reach := int(radius/w.tuning.CellSize) + 1
pellets:
	for row := here.Row - reach; row <= here.Row+reach; row++ {
		for col := here.Col - reach; col <= here.Col+reach; col++ {
			c := C(row, col)
			if !w.grid.HasPellet(c) {
				continue
			}
			if p.Distance(w.grid.CellCenter(c)) < radius {
				w.grid.setPellet(c, false)
				w.sched.QueueRespawn(c, now)
				w.state.Award(w.tuning.PelletPoints)
				w.stats.PelletsEaten++
				w.emit(EventPelletEaten, c, -1)
				break pellets
			}
		}
	}

	if f, ok := w.sched.Fruit(); ok && p.Distance(w.grid.CellCenter(f.Cell)) < radius {
		w.sched.TakeFruit()
		w.grid.setPellet(f.Cell, true)
		w.state.Award(w.tuning.FruitPoints)
		w.state.BeginPowerUp()
		w.sched.StartPowerUp(now)
		w.stats.FruitsEaten++
		w.emit(EventFruitEaten, f.Cell, -1)
	}
}

// updateGates runs the gate cycle: open on the first directional input,
// release ghosts shortly after, close a while later.
func (w *World) updateGates(now time.Duration) {
	st := &w.state
	since := w.sched.SinceGatesOpened(now)
	wantsToMove := w.player.Current != DirNone || w.player.Next != DirNone

	switch {
	case st.GatesOpened && !st.GatesClosed && since >= w.tuning.GateOpenFor:
		w.grid.closeGates(now)
		st.CloseGates()
		w.emit(EventGatesClosed, Cell{}, -1)
	case !st.GatesOpened && wantsToMove:
		st.OpenGates()
		w.openGates(now)
	case st.GatesOpened && !st.GhostsCanMove && since >= w.tuning.ReleaseDelay:
		st.ReleaseGhosts()
		w.emit(EventGhostsReleased, Cell{}, -1)
	}
	w.grid.settleGates(now)
}

func (w *World) openGates(now time.Duration) {
	w.grid.openGates(now)
	w.sched.MarkGatesOpened(now)
	w.emit(EventGatesOpened, Cell{}, -1)
}

func (w *World) respawnPellets(now time.Duration) {
	for _, c := range w.sched.DueRespawns(now) {
		w.grid.setPellet(c, true)
		w.emit(EventPelletRespawned, c, -1)
	}
}

// resolveContacts handles ghosts touching the player: captures while ghosts
// are eatable, otherwise a death that ends ghost evaluation for the step.
func (w *World) resolveContacts(now time.Duration) {
	radius := w.tuning.ContactRadius
	var touching []int
	for _, g := range w.ghosts {
		if w.player.Distance(g.Pos.X, g.Pos.Z) < radius {
			touching = append(touching, g.ID)
		}
	}

	for _, id := range touching {
		if !w.state.GhostEatable {
			w.killPlayer()
			return
		}
		w.captureGhost(id, now)
	}
}

func (w *World) killPlayer() {
	if !w.state.Kill() {
		return
	}
	w.stats.Deaths++
	w.emit(EventPlayerDeath, w.playerCell(), -1)

	if w.state.Settle() == PhaseGameOver {
		w.player.Current = DirNone
		w.player.Next = DirNone
		w.emit(EventGameOver, w.playerCell(), -1)
		return
	}
	w.placePlayerAtSpawn()
}

// captureGhost removes a ghost and appends a fresh one at its spawn, then
// forces the gates open so it can leave again.
func (w *World) captureGhost(id int, now time.Duration) {
	idx := -1
	for i, g := range w.ghosts {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	captured := w.ghosts[idx]
	w.ghosts = append(w.ghosts[:idx], w.ghosts[idx+1:]...)

	spawn := GhostSpawn{Cell: captured.Spawn, Variant: captured.Variant}
	w.ghosts = append(w.ghosts, w.spawnGhost(spawn, GhostPreRelease, now+w.tuning.CaptureRespawn))

	w.stats.GhostsCaptured++
	w.emit(EventGhostCaptured, w.grid.WorldToCell(captured.Pos.X, captured.Pos.Z), id)

	w.state.ReopenGates()
	w.openGates(now)
}

func (w *World) updatePowerUp(now time.Duration) {
	if w.sched.PowerUpExpired(now) && w.state.GhostEatable {
		w.state.EndPowerUp()
		w.emit(EventPowerUpEnded, Cell{}, -1)
	}
}

// updateFruit expires the live fruit, then tries to spawn a new one on a
// random pellet. A spawned fruit replaces the pellet under it; the pellet
// comes back when the fruit expires or is eaten.
func (w *World) updateFruit(now time.Duration) {
	if w.sched.FruitExpired(now) {
		f, _ := w.sched.TakeFruit()
		w.grid.setPellet(f.Cell, true)
		w.emit(EventFruitExpired, f.Cell, -1)
	}

	if !w.sched.FruitDue(now) {
		return
	}
	if _, live := w.sched.Fruit(); live {
		return
	}
	cells := w.grid.PelletCells()
	if len(cells) == 0 {
		return
	}
	c := cells[w.rng.Intn(len(cells))]
	w.grid.setPellet(c, false)
	w.sched.PlaceFruit(c, now)
	w.emit(EventFruitSpawned, c, -1)
}

// Grid returns the world's grid.
func (w *World) Grid() *Grid { return w.grid }

// Player returns a copy of the player.
func (w *World) Player() Player { return w.player }

// Ghosts returns a copy of the ghosts in release order.
func (w *World) Ghosts() []Ghost {
	out := make([]Ghost, len(w.ghosts))
	copy(out, w.ghosts)
	return out
}

// State returns the round state.
func (w *World) State() GameState { return w.state }

// Stats returns the counters for the current round.
func (w *World) Stats() Stats { return w.stats }

// Fruit returns the live fruit, if any.
func (w *World) Fruit() (Fruit, bool) { return w.sched.Fruit() }

// PendingRespawns returns the pellets waiting to come back.
func (w *World) PendingRespawns() []PendingPellet { return w.sched.Pending() }

// PowerUpRemaining returns the whole seconds ghosts stay eatable, or 0.
func (w *World) PowerUpRemaining() int {
	if !w.state.GhostEatable {
		return 0
	}
	return w.sched.PowerUpRemaining(w.now)
}

// Now returns the timestamp of the last step.
func (w *World) Now() time.Duration { return w.now }

// Tick returns the number of steps taken since the last reset.
func (w *World) Tick() uint64 { return w.tick }

// Tuning returns the constants the world runs with.
func (w *World) Tuning() Tuning { return w.tuning }

// ErrInvariant wraps every error reported by CheckInvariants.
var ErrInvariant = errors.New("engine: invariant violated")

// CheckInvariants reports the first broken world invariant, or nil.
func (w *World) CheckInvariants() error {
	pending := w.sched.Pending()
	fruit, fruitLive := w.sched.Fruit()

	accounted := len(w.grid.PelletCells()) + len(pending)
	if fruitLive {
		accounted++
		if w.grid.HasPellet(fruit.Cell) {
			return fmt.Errorf("%w: fruit and pellet share cell %v", ErrInvariant, fruit.Cell)
		}
	}
	if total := w.layout.PelletCount(); accounted != total {
		return fmt.Errorf("%w: %d pellets accounted for, map has %d", ErrInvariant, accounted, total)
	}
	for _, p := range pending {
		if w.grid.HasPellet(p.Cell) {
			return fmt.Errorf("%w: pellet at %v is both live and pending", ErrInvariant, p.Cell)
		}
	}
	for row := 0; row < w.grid.Rows(); row++ {
		for col := 0; col < w.grid.Cols(); col++ {
			if w.grid.TileAt(row, col) == TilePellet && w.layout.Tile(row, col) != TilePellet {
				return fmt.Errorf("%w: pellet on non-pellet cell %v", ErrInvariant, C(row, col))
			}
		}
	}
	if w.state.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvariant, w.state.Score)
	}
	if w.state.Lives < 0 || w.state.Lives > w.tuning.Lives {
		return fmt.Errorf("%w: lives %d out of range", ErrInvariant, w.state.Lives)
	}
	return nil
}
