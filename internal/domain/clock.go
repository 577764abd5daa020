package domain

import (
	"math"
	"time"
)

// ClockState represents whether the replay clock is advancing
type ClockState string

const (
	ClockStopped ClockState = "STOPPED" // query time is held fixed, seekable
	ClockRunning ClockState = "RUNNING" // query time follows wall-clock time
)

// String returns the string representation of the state
func (s ClockState) String() string {
	return string(s)
}

// CanTransitionTo checks if moving from the current state to target is valid
func (s ClockState) CanTransitionTo(target ClockState) bool {
	switch s {
	case ClockStopped:
		return target == ClockRunning
	case ClockRunning:
		return target == ClockStopped
	}
	return false
}

// ReplayClock drives the scoreboard query time. While running, the query
// time is derived from the wall-clock time elapsed since an anchor, so late
// or skipped ticks never make it drift.
//
// The clock owns no timer and no lock: the caller passes the current wall
// time into every transition and serializes access.
type ReplayClock struct {
	duration  int
	queryTime int
	state     ClockState

	anchorWall  time.Time
	anchorQuery int
}

// NewReplayClock creates a stopped clock at time zero for a contest of the
// given duration in seconds
func NewReplayClock(duration int) *ReplayClock {
	return &ReplayClock{
		duration: max(duration, 0),
		state:    ClockStopped,
	}
}

// QueryTime returns the current contest time in seconds
func (c *ReplayClock) QueryTime() int {
	return c.queryTime
}

// State returns the current clock state
func (c *ReplayClock) State() ClockState {
	return c.state
}

// Running reports whether the clock is advancing
func (c *ReplayClock) Running() bool {
	return c.state == ClockRunning
}

// Duration returns the contest duration the clock clamps at
func (c *ReplayClock) Duration() int {
	return c.duration
}

// Start anchors the clock at now and begins advancing. Starting a running
// clock is rejected and leaves the anchor untouched.
func (c *ReplayClock) Start(now time.Time) error {
	if !c.state.CanTransitionTo(ClockRunning) {
		return ErrInvalidStateTransition
	}
	c.anchorWall = now
	c.anchorQuery = c.queryTime
	c.state = ClockRunning
	return nil
}

// Pause folds the time elapsed up to now into the query time and stops
func (c *ReplayClock) Pause(now time.Time) error {
	if !c.state.CanTransitionTo(ClockStopped) {
		return ErrInvalidStateTransition
	}
	c.advance(now)
	c.state = ClockStopped
	return nil
}

// Tick recomputes the query time from the anchor. It returns true when this
// tick reached the end of the contest and stopped the clock. Ticking a
// stopped clock does nothing.
func (c *ReplayClock) Tick(now time.Time) bool {
	if c.state != ClockRunning {
		return false
	}
	return c.advance(now)
}

// Seek moves a stopped clock to t, clamped to [0, duration]. Seeking while
// running is rejected.
func (c *ReplayClock) Seek(t int) error {
	if c.state == ClockRunning {
		return ErrInvalidStateTransition
	}
	c.queryTime = clamp(t, 0, c.duration)
	return nil
}

// advance sets the query time from the anchor and reports whether the
// contest end was reached, in which case the clock is stopped
func (c *ReplayClock) advance(now time.Time) bool {
	elapsed := max(now.Sub(c.anchorWall), 0)
	t := int(math.Round(float64(c.anchorQuery) + elapsed.Seconds()))

	// A running clock never shows the final second: reaching it ends the replay.
	if t >= c.duration {
		c.queryTime = c.duration
		c.state = ClockStopped
		return true
	}

	if t > c.queryTime {
		c.queryTime = t
	}
	return false
}
