package domain

import "fmt"

// Scoreboard is everything a viewer needs to draw the board at one instant
type Scoreboard struct {
	Contest   string     `json:"contest"`
	Problems  []string   `json:"problems"`
	QueryTime int        `json:"queryTime"`
	TimeLeft  int        `json:"timeLeft"`
	Frozen    bool       `json:"frozen"`
	State     ClockState `json:"state"`
	Rows      []TeamRow  `json:"rows"`
}

// NewScoreboard computes the standings at queryTime and wraps them with the
// header data shown above the table
func NewScoreboard(index *SubmissionIndex, contest *Contest, queryTime int, state ClockState) *Scoreboard {
	t := contest.ClampTime(queryTime)
	return &Scoreboard{
		Contest:   contest.Name,
		Problems:  contest.Problems,
		QueryTime: t,
		TimeLeft:  max(contest.Duration-t, 0),
		Frozen:    contest.IsFrozen(t),
		State:     state,
		Rows:      StandingsAt(index, contest, t),
	}
}

// FormatClock renders seconds as HH:MM
func FormatClock(sec int) string {
	sec = max(sec, 0)
	return fmt.Sprintf("%02d:%02d", sec/3600, (sec%3600)/60)
}

// PenaltyMinutes converts a penalty or solve time in seconds to whole minutes
func PenaltyMinutes(sec int) int {
	return sec / 60
}
