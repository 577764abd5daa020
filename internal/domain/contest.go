package domain

import "fmt"

// DefaultPenaltyPerTry is the penalty in seconds for every rejected attempt
// before an accepted one.
const DefaultPenaltyPerTry = 20 * 60

// Attempt is a team's accepted submission on a problem as read from a contest
// file. Only accepted runs are modeled.
type Attempt struct {
	Time  int  `json:"time" yaml:"time"`
	Tries int  `json:"tries" yaml:"tries"`
	First bool `json:"first,omitempty" yaml:"first"`
}

// Team is a contestant with display metadata and its accepted submissions
// keyed by problem ID
type Team struct {
	Name        string             `json:"name" yaml:"name"`
	Affiliation string             `json:"affiliation" yaml:"affiliation"`
	Submissions map[string]Attempt `json:"submissions,omitempty" yaml:"submissions"`
}

// UnmarshalYAML accepts the affiliation under either "affiliation" or the
// scrapers' "university" key, preferring the former when both are set
func (t *Team) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		Name        string             `yaml:"name"`
		Affiliation string             `yaml:"affiliation"`
		University  string             `yaml:"university"`
		Submissions map[string]Attempt `yaml:"submissions"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	t.Name = raw.Name
	t.Affiliation = raw.Affiliation
	if t.Affiliation == "" {
		t.Affiliation = raw.University
	}
	t.Submissions = raw.Submissions
	return nil
}

// Contest is the static contest configuration, loaded once
type Contest struct {
	Name          string   `json:"name" yaml:"name"`
	Duration      int      `json:"duration" yaml:"duration"`
	FreezeTime    int      `json:"freeze" yaml:"freeze"`
	PenaltyPerTry int      `json:"penaltyPerTry,omitempty" yaml:"penaltyPerTry"`
	Problems      []string `json:"problems" yaml:"problems"`
	Teams         []Team   `json:"teams" yaml:"teams"`
}

// Penalty returns the per-attempt penalty in seconds
func (c *Contest) Penalty() int {
	if c.PenaltyPerTry == 0 {
		return DefaultPenaltyPerTry
	}
	return c.PenaltyPerTry
}

// ClampTime limits t to [0, Duration]
func (c *Contest) ClampTime(t int) int {
	return clamp(t, 0, c.Duration)
}

// IsFrozen reports whether the scoreboard is frozen at query time t
func (c *Contest) IsFrozen(t int) bool {
	return c.ClampTime(t) > c.FreezeTime
}

// HasProblem reports whether id is one of the contest's problem columns
func (c *Contest) HasProblem(id string) bool {
	for _, p := range c.Problems {
		if p == id {
			return true
		}
	}
	return false
}

// Validate checks the static shape of the contest
func (c *Contest) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidContest, c.Duration)
	}
	if c.FreezeTime < 0 || c.FreezeTime > c.Duration {
		return fmt.Errorf("%w: freeze time %d outside [0, %d]", ErrInvalidContest, c.FreezeTime, c.Duration)
	}
	if c.PenaltyPerTry < 0 {
		return fmt.Errorf("%w: negative penalty %d", ErrInvalidContest, c.PenaltyPerTry)
	}

	problems := make(map[string]struct{}, len(c.Problems))
	for _, p := range c.Problems {
		if p == "" {
			return fmt.Errorf("%w: empty problem id", ErrInvalidContest)
		}
		if _, ok := problems[p]; ok {
			return fmt.Errorf("%w: duplicate problem %q", ErrInvalidContest, p)
		}
		problems[p] = struct{}{}
	}

	teams := make(map[string]struct{}, len(c.Teams))
	for _, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("%w: empty team name", ErrInvalidContest)
		}
		if _, ok := teams[t.Name]; ok {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidContest, t.Name)
		}
		teams[t.Name] = struct{}{}
	}

	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
