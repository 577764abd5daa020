package domain

import (
	"cmp"
	"slices"
)

// Cell is a solved problem as displayed in a team's row
type Cell struct {
	Time   int  `json:"time"`   // seconds
	Minute int  `json:"minute"` // Time in whole minutes, as displayed
	Tries  int  `json:"tries"`
	First  bool `json:"first"`
}

// TeamRow is one ranked line of the scoreboard. Rows are rebuilt on every
// query and never updated in place.
type TeamRow struct {
	Rank           int             `json:"rank"`
	Name           string          `json:"name"`
	Affiliation    string          `json:"affiliation"`
	Solved         int             `json:"solved"`
	Penalty        int             `json:"penalty"` // seconds
	PenaltyMinutes int             `json:"penaltyMinutes"`
	Cells          map[string]Cell `json:"cells"`
}

// StandingsAt ranks every team of the contest using only the submissions
// revealed at queryTime. queryTime is clamped to [0, Duration].
func StandingsAt(index *SubmissionIndex, contest *Contest, queryTime int) []TeamRow {
	rows := make([]TeamRow, len(contest.Teams))
	pos := make(map[string]int, len(contest.Teams))
	for i, t := range contest.Teams {
		pos[t.Name] = i
		rows[i] = TeamRow{
			Name:        t.Name,
			Affiliation: t.Affiliation,
			Cells:       make(map[string]Cell),
		}
	}

	penalty := contest.Penalty()
	for _, s := range index.Revealed(contest, queryTime) {
		i, ok := pos[s.Team]
		if !ok {
			continue
		}
		row := &rows[i]
		if _, ok := row.Cells[s.Problem]; ok {
			continue
		}
		row.Cells[s.Problem] = Cell{
			Time:   s.Time,
			Minute: PenaltyMinutes(s.Time),
			Tries:  s.Tries,
			First:  s.First,
		}
		row.Solved++
		row.Penalty += s.Time + (s.Tries-1)*penalty
	}

	slices.SortStableFunc(rows, compareRows)
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].PenaltyMinutes = PenaltyMinutes(rows[i].Penalty)
	}

	return rows
}

// compareRows orders by solved desc, penalty asc, then name asc
func compareRows(a, b TeamRow) int {
	if c := cmp.Compare(b.Solved, a.Solved); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Penalty, b.Penalty); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
