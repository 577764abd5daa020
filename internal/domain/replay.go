package domain

import "time"

// Replay is one viewer room replaying a contest. The contest and index are
// shared read-only between replays; the clock belongs to this replay alone.
type Replay struct {
	ID        string           `json:"id"`
	Contest   *Contest         `json:"-"`
	Index     *SubmissionIndex `json:"-"`
	Clock     *ReplayClock     `json:"-"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewReplay creates a stopped replay at contest time zero
func NewReplay(id string, contest *Contest, index *SubmissionIndex) *Replay {
	return &Replay{
		ID:        id,
		Contest:   contest,
		Index:     index,
		Clock:     NewReplayClock(contest.Duration),
		CreatedAt: time.Now(),
	}
}

// Scoreboard returns the board at the clock's current query time
func (r *Replay) Scoreboard() *Scoreboard {
	return NewScoreboard(r.Index, r.Contest, r.Clock.QueryTime(), r.Clock.State())
}

// ClockInfo returns the clock state for broadcasting
func (r *Replay) ClockInfo() *ClockPayload {
	t := r.Clock.QueryTime()
	return &ClockPayload{
		QueryTime: t,
		TimeLeft:  max(r.Clock.Duration()-t, 0),
		State:     r.Clock.State(),
		Frozen:    r.Contest.IsFrozen(t),
	}
}
