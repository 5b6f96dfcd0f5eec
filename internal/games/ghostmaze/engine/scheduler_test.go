package engine

import (
	"testing"
	"time"
)

func TestSchedulerRespawnQueue(t *testing.T) {
	s := NewScheduler(DefaultTuning().Timings)
	s.Start(0)

	s.QueueRespawn(C(1, 1), time.Second)
	s.QueueRespawn(C(1, 2), 2*time.Second)

	if due := s.DueRespawns(60*time.Second + 999*time.Millisecond); due != nil {
		t.Fatalf("due early: %v", due)
	}
	due := s.DueRespawns(61 * time.Second)
	if len(due) != 1 || due[0] != C(1, 1) {
		t.Fatalf("due at 61s = %v, want [(1,1)]", due)
	}
	if len(s.Pending()) != 1 {
		t.Errorf("pending = %d, want 1", len(s.Pending()))
	}
	due = s.DueRespawns(70 * time.Second)
	if len(due) != 1 || due[0] != C(1, 2) {
		t.Fatalf("due at 70s = %v", due)
	}
	if len(s.Pending()) != 0 {
		t.Error("queue not drained")
	}
}

func TestSchedulerFruitClock(t *testing.T) {
	s := NewScheduler(DefaultTuning().Timings)
	s.Start(time.Second)

	if s.FruitDue(10 * time.Second) {
		t.Fatal("fruit due before the first interval")
	}
	if !s.FruitDue(11 * time.Second) {
		t.Fatal("fruit not due after the first interval")
	}
	if s.FruitDue(11 * time.Second) {
		t.Fatal("fruit due twice for the same attempt")
	}

	s.PlaceFruit(C(2, 3), 11*time.Second)
	if f, ok := s.Fruit(); !ok || f.Cell != C(2, 3) {
		t.Fatalf("Fruit = %v,%v", f, ok)
	}
	if s.FruitExpired(20*time.Second + 990*time.Millisecond) {
		t.Error("fruit expired early")
	}
	if !s.FruitExpired(21 * time.Second) {
		t.Error("fruit did not expire after its lifetime")
	}
	if _, ok := s.TakeFruit(); !ok {
		t.Error("TakeFruit found nothing")
	}
	if _, ok := s.Fruit(); ok {
		t.Error("fruit still live after TakeFruit")
	}
}

func TestSchedulerPowerUpCountdown(t *testing.T) {
	s := NewScheduler(DefaultTuning().Timings)
	s.Start(0)
	s.StartPowerUp(0)

	tests := []struct {
		at   time.Duration
		want int
	}{
		{0, 10},
		{10 * time.Millisecond, 10},
		{time.Second, 9},
		{9 * time.Second, 1},
		{9500 * time.Millisecond, 1},
		{10 * time.Second, 0},
	}
	for _, tt := range tests {
		if got := s.PowerUpRemaining(tt.at); got != tt.want {
			t.Errorf("PowerUpRemaining(%v) = %d, want %d", tt.at, got, tt.want)
		}
	}

	if s.PowerUpExpired(9 * time.Second) {
		t.Error("expired early")
	}
	if !s.PowerUpExpired(10 * time.Second) {
		t.Error("not expired at the deadline")
	}
	if s.PowerUpExpired(11 * time.Second) {
		t.Error("expiry reported twice")
	}
}

func TestSchedulerStartClears(t *testing.T) {
	s := NewScheduler(DefaultTuning().Timings)
	s.Start(0)
	s.QueueRespawn(C(1, 1), 0)
	s.PlaceFruit(C(1, 2), 0)
	s.StartPowerUp(0)

	s.Start(5 * time.Second)
	if len(s.Pending()) != 0 {
		t.Error("respawns survived Start")
	}
	if _, ok := s.Fruit(); ok {
		t.Error("fruit survived Start")
	}
	if s.PowerUpRemaining(6*time.Second) != 0 {
		t.Error("power-up survived Start")
	}
	if s.FruitDue(14 * time.Second) {
		t.Error("fruit clock not restarted")
	}
}
