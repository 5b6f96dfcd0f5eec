package engine

import "time"

// PendingPellet is a consumed pellet waiting to reappear.
type PendingPellet struct {
	Cell Cell
	Due  time.Duration
}

// Fruit is the bonus collectible. At most one is live at a time.
type Fruit struct {
	Cell      Cell
	SpawnedAt time.Duration
}

// Scheduler keeps every deadline of a round. It is polled once per step with
// the current timestamp and never calls back into the world.
type Scheduler struct {
	t Timings

	gatesOpenedAt time.Duration
	respawns      []PendingPellet
	nextFruitAt   time.Duration

	fruit     Fruit
	fruitLive bool

	powerUntil  time.Duration
	powerActive bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler(t Timings) *Scheduler {
	return &Scheduler{t: t}
}

// Start clears all pending work and starts the fruit clock at now.
func (s *Scheduler) Start(now time.Duration) {
	*s = Scheduler{
		t:           s.t,
		respawns:    s.respawns[:0],
		nextFruitAt: now + s.t.FruitInterval,
	}
}

// MarkGatesOpened restarts the gate clock.
func (s *Scheduler) MarkGatesOpened(now time.Duration) {
	s.gatesOpenedAt = now
}

// SinceGatesOpened returns the time since the gates were last opened.
func (s *Scheduler) SinceGatesOpened(now time.Duration) time.Duration {
	return now - s.gatesOpenedAt
}

// QueueRespawn schedules the pellet at c to come back.
func (s *Scheduler) QueueRespawn(c Cell, now time.Duration) {
	s.respawns = append(s.respawns, PendingPellet{Cell: c, Due: now + s.t.PelletRespawn})
}

// DueRespawns removes and returns every pellet whose respawn time has come.
// The queue is ordered by due time because every respawn uses the same delay.
func (s *Scheduler) DueRespawns(now time.Duration) []Cell {
	n := 0
	for n < len(s.respawns) && s.respawns[n].Due <= now {
		n++
	}
	if n == 0 {
		return nil
	}
	due := make([]Cell, n)
	for i := 0; i < n; i++ {
		due[i] = s.respawns[i].Cell
	}
	s.respawns = append(s.respawns[:0], s.respawns[n:]...)
	return due
}

// Pending returns a copy of the respawn queue.
func (s *Scheduler) Pending() []PendingPellet {
	out := make([]PendingPellet, len(s.respawns))
	copy(out, s.respawns)
	return out
}

// FruitDue reports whether a fruit spawn attempt is due, and if so arms the
// next attempt one interval later.
func (s *Scheduler) FruitDue(now time.Duration) bool {
	if now < s.nextFruitAt {
		return false
	}
	s.nextFruitAt = now + s.t.FruitInterval
	return true
}

// PlaceFruit records a freshly spawned fruit.
func (s *Scheduler) PlaceFruit(c Cell, now time.Duration) {
	s.fruit = Fruit{Cell: c, SpawnedAt: now}
	s.fruitLive = true
}

// Fruit returns the live fruit, if any.
func (s *Scheduler) Fruit() (Fruit, bool) {
	return s.fruit, s.fruitLive
}

// TakeFruit removes and returns the live fruit.
func (s *Scheduler) TakeFruit() (Fruit, bool) {
	f, ok := s.fruit, s.fruitLive
	s.fruit, s.fruitLive = Fruit{}, false
	return f, ok
}

// FruitExpired reports whether the live fruit has outlived its lifetime.
func (s *Scheduler) FruitExpired(now time.Duration) bool {
	return s.fruitLive && now-s.fruit.SpawnedAt >= s.t.FruitLifetime
}

// StartPowerUp (re)starts the eatable window at now.
func (s *Scheduler) StartPowerUp(now time.Duration) {
	s.powerUntil = now + s.t.PowerUp
	s.powerActive = true
}

// PowerUpExpired reports, once, that an active power-up has run out.
func (s *Scheduler) PowerUpExpired(now time.Duration) bool {
	if !s.powerActive || now < s.powerUntil {
		return false
	}
	s.powerActive = false
	return true
}

// PowerUpRemaining returns the whole seconds left in the eatable window,
// rounded up, or 0 when no power-up is active.
func (s *Scheduler) PowerUpRemaining(now time.Duration) int {
	if !s.powerActive || now >= s.powerUntil {
		return 0
	}
	left := s.powerUntil - now
	return int((left + time.Second - 1) / time.Second)
}
