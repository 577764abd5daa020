package domain

import (
	"fmt"
	"slices"
	"sort"
)

// Submission is an accepted run of a team on a problem
type Submission struct {
	Team    string `json:"team"`
	Problem string `json:"problem"`
	Time    int    `json:"time"`  // seconds since contest start
	Tries   int    `json:"tries"` // attempts up to and including the accepted one
	First   bool   `json:"first"` // first accepted solve of the problem contest-wide
}

// SubmissionIndex holds every submission of a contest sorted by time.
// It is immutable once built and may be shared between replays.
type SubmissionIndex struct {
	subs []Submission
}

// BuildIndex flattens the submissions carried by each team and indexes them.
// Teams are walked in contest order and problems in column order, which fixes
// the relative order of submissions sharing a timestamp.
func BuildIndex(contest *Contest) (*SubmissionIndex, error) {
	subs := make([]Submission, 0)
	for _, team := range contest.Teams {
		for pid := range team.Submissions {
			if !contest.HasProblem(pid) {
				return nil, fmt.Errorf("%w: team %q references unknown problem %q", ErrInvalidSubmission, team.Name, pid)
			}
		}
		for _, pid := range contest.Problems {
			a, ok := team.Submissions[pid]
			if !ok {
				continue
			}
			subs = append(subs, Submission{
				Team:    team.Name,
				Problem: pid,
				Time:    a.Time,
				Tries:   a.Tries,
				First:   a.First,
			})
		}
	}
	return NewIndex(contest, subs)
}

// NewIndex validates subs against the contest and returns them sorted by time.
// Submissions with equal times keep their input order.
func NewIndex(contest *Contest, subs []Submission) (*SubmissionIndex, error) {
	if err := contest.Validate(); err != nil {
		return nil, err
	}

	teams := make(map[string]struct{}, len(contest.Teams))
	for _, t := range contest.Teams {
		teams[t.Name] = struct{}{}
	}

	type pair struct{ team, problem string }
	seen := make(map[pair]struct{}, len(subs))

	for _, s := range subs {
		if _, ok := teams[s.Team]; !ok {
			return nil, fmt.Errorf("%w: unknown team %q", ErrInvalidSubmission, s.Team)
		}
		if !contest.HasProblem(s.Problem) {
			return nil, fmt.Errorf("%w: unknown problem %q for team %q", ErrInvalidSubmission, s.Problem, s.Team)
		}
		k := pair{s.Team, s.Problem}
		if _, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: duplicate submission for team %q on problem %q", ErrInvalidSubmission, s.Team, s.Problem)
		}
		seen[k] = struct{}{}
		if s.Time < 0 || s.Time > contest.Duration {
			return nil, fmt.Errorf("%w: team %q problem %q time %d outside [0, %d]", ErrInvalidSubmission, s.Team, s.Problem, s.Time, contest.Duration)
		}
		if s.Tries < 1 {
			return nil, fmt.Errorf("%w: team %q problem %q has %d tries", ErrInvalidSubmission, s.Team, s.Problem, s.Tries)
		}
	}

	sorted := slices.Clone(subs)
	slices.SortStableFunc(sorted, func(a, b Submission) int {
		return a.Time - b.Time
	})

	return &SubmissionIndex{subs: sorted}, nil
}

// Len returns the number of indexed submissions
func (x *SubmissionIndex) Len() int {
	return len(x.subs)
}

// Revealed returns the submissions visible at queryTime: those at or before
// min(queryTime, FreezeTime). The result is a prefix of the index and must
// not be modified.
func (x *SubmissionIndex) Revealed(contest *Contest, queryTime int) []Submission {
	return x.subs[:x.cutoff(contest, queryTime)]
}

// cutoff returns the number of submissions revealed at queryTime
func (x *SubmissionIndex) cutoff(contest *Contest, queryTime int) int {
	limit := min(contest.ClampTime(queryTime), contest.FreezeTime)
	return sort.Search(len(x.subs), func(i int) bool {
		return x.subs[i].Time > limit
	})
}
