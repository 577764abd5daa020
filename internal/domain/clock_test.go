package domain

import (
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestClockInitialState(t *testing.T) {
	c := NewReplayClock(18000)
	if c.State() != ClockStopped || c.Running() {
		t.Errorf("new clock state = %s", c.State())
	}
	if c.QueryTime() != 0 {
		t.Errorf("new clock query time = %d", c.QueryTime())
	}
}

func TestClockAnchorsOnStart(t *testing.T) {
	c := NewReplayClock(18000)
	if err := c.Seek(500); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(epoch); err != nil {
		t.Fatal(err)
	}

	c.Tick(epoch.Add(10 * time.Second))
	if got := c.QueryTime(); got != 510 {
		t.Errorf("query time = %d, want 510", got)
	}
}

func TestClockDoesNotDriftWithLateTicks(t *testing.T) {
	c := NewReplayClock(18000)
	c.Start(epoch)

	// a single late tick catches up fully
	c.Tick(epoch.Add(95*time.Second + 400*time.Millisecond))
	if got := c.QueryTime(); got != 95 {
		t.Errorf("query time = %d, want 95", got)
	}
	c.Tick(epoch.Add(95*time.Second + 600*time.Millisecond))
	if got := c.QueryTime(); got != 96 {
		t.Errorf("query time = %d, want 96 after rounding", got)
	}
}

func TestClockStartTwiceKeepsAnchor(t *testing.T) {
	c := NewReplayClock(18000)
	c.Start(epoch)

	err := c.Start(epoch.Add(30 * time.Second))
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("second start: got %v", err)
	}

	c.Tick(epoch.Add(40 * time.Second))
	if got := c.QueryTime(); got != 40 {
		t.Errorf("query time = %d, want 40", got)
	}
}

func TestClockTerminalClamp(t *testing.T) {
	c := NewReplayClock(18000)
	c.Seek(17990)
	c.Start(epoch)

	if ended := c.Tick(epoch.Add(5 * time.Second)); ended {
		t.Fatal("ended too early")
	}
	if ended := c.Tick(epoch.Add(60 * time.Second)); !ended {
		t.Fatal("expected the tick to end the replay")
	}
	if c.QueryTime() != 18000 {
		t.Errorf("query time = %d, want 18000", c.QueryTime())
	}
	if c.State() != ClockStopped {
		t.Errorf("state = %s, want STOPPED", c.State())
	}

	// a tick arriving after the stop changes nothing
	if ended := c.Tick(epoch.Add(120 * time.Second)); ended {
		t.Error("stopped clock reported end again")
	}
	if c.QueryTime() != 18000 {
		t.Errorf("query time moved to %d after stop", c.QueryTime())
	}
}

func TestClockEndsWhenRoundedTimeReachesDuration(t *testing.T) {
	c := NewReplayClock(18000)
	c.Seek(17990)
	c.Start(epoch)

	if ended := c.Tick(epoch.Add(9*time.Second + 400*time.Millisecond)); ended {
		t.Fatalf("ended at %d", c.QueryTime())
	}
	if !c.Running() || c.QueryTime() != 17999 {
		t.Fatalf("t=%d state=%s, want 17999 RUNNING", c.QueryTime(), c.State())
	}

	if ended := c.Tick(epoch.Add(9*time.Second + 600*time.Millisecond)); !ended {
		t.Fatal("expected the rounded end second to stop the clock")
	}
	if c.QueryTime() != 18000 || c.Running() {
		t.Errorf("t=%d state=%s, want 18000 STOPPED", c.QueryTime(), c.State())
	}
	if err := c.Seek(100); err != nil {
		t.Errorf("seek after end: %v", err)
	}
}

func TestClockPauseAtEndStops(t *testing.T) {
	c := NewReplayClock(100)
	c.Seek(90)
	c.Start(epoch)

	if err := c.Pause(epoch.Add(30 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if c.QueryTime() != c.Duration() || c.Running() {
		t.Errorf("t=%d state=%s, want %d STOPPED", c.QueryTime(), c.State(), c.Duration())
	}
}

func TestClockSeek(t *testing.T) {
	c := NewReplayClock(1000)

	tests := []struct {
		to, want int
	}{
		{300, 300},
		{-5, 0},
		{5000, 1000},
		{0, 0},
	}
	for _, tt := range tests {
		if err := c.Seek(tt.to); err != nil {
			t.Fatalf("Seek(%d): %v", tt.to, err)
		}
		if c.QueryTime() != tt.want {
			t.Errorf("Seek(%d) -> %d, want %d", tt.to, c.QueryTime(), tt.want)
		}
	}

	c.Start(epoch)
	if err := c.Seek(10); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("seek while running: got %v", err)
	}
	if c.QueryTime() != 0 {
		t.Errorf("rejected seek moved the clock to %d", c.QueryTime())
	}
}

func TestClockPause(t *testing.T) {
	c := NewReplayClock(18000)
	if err := c.Pause(epoch); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("pause while stopped: got %v", err)
	}

	c.Start(epoch)
	if err := c.Pause(epoch.Add(42 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if c.QueryTime() != 42 || c.Running() {
		t.Fatalf("after pause: t=%d state=%s", c.QueryTime(), c.State())
	}

	// resuming anchors at the paused time, not at the original start
	c.Start(epoch.Add(100 * time.Second))
	c.Tick(epoch.Add(110 * time.Second))
	if c.QueryTime() != 52 {
		t.Errorf("after resume: t=%d, want 52", c.QueryTime())
	}
}

func TestClockMonotonicWhileRunning(t *testing.T) {
	c := NewReplayClock(18000)
	c.Start(epoch)

	c.Tick(epoch.Add(20 * time.Second))
	c.Tick(epoch.Add(10 * time.Second))
	if c.QueryTime() != 20 {
		t.Errorf("query time went back to %d", c.QueryTime())
	}
}

func TestClockStateTransitions(t *testing.T) {
	if !ClockStopped.CanTransitionTo(ClockRunning) || !ClockRunning.CanTransitionTo(ClockStopped) {
		t.Error("expected STOPPED <-> RUNNING to be allowed")
	}
	if ClockRunning.CanTransitionTo(ClockRunning) || ClockStopped.CanTransitionTo(ClockStopped) {
		t.Error("self transitions must be rejected")
	}
}
