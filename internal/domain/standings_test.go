package domain

import (
	"reflect"
	"testing"
)

func regionalContest() *Contest {
	return &Contest{
		Name:       "Regional",
		Duration:   18000,
		FreezeTime: 14400,
		Problems:   []string{"A", "B", "C"},
		Teams: []Team{
			{Name: "Zeta", Affiliation: "Z U", Submissions: map[string]Attempt{
				"A": {Time: 600, Tries: 1, First: true},
				"C": {Time: 9000, Tries: 2},
			}},
			{Name: "Alpha", Affiliation: "A U", Submissions: map[string]Attempt{
				"A": {Time: 1800, Tries: 3},
				"B": {Time: 15000, Tries: 1, First: true},
			}},
			{Name: "Mu", Affiliation: "M U", Submissions: map[string]Attempt{
				"C": {Time: 3000, Tries: 1, First: true},
			}},
			{Name: "Beta", Affiliation: "B U"},
		},
	}
}

func mustIndex(t *testing.T, c *Contest) *SubmissionIndex {
	t.Helper()
	idx, err := BuildIndex(c)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func rowByName(rows []TeamRow, name string) TeamRow {
	for _, r := range rows {
		if r.Name == name {
			return r
		}
	}
	return TeamRow{}
}

func names(rows []TeamRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestStandingsZeroState(t *testing.T) {
	c := regionalContest()
	rows := StandingsAt(mustIndex(t, c), c, 0)

	want := []string{"Alpha", "Beta", "Mu", "Zeta"}
	if got := names(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("order at t=0: got %v, want %v", got, want)
	}
	for i, r := range rows {
		if r.Solved != 0 || r.Penalty != 0 || len(r.Cells) != 0 {
			t.Errorf("%s: expected empty row, got solved=%d penalty=%d cells=%d", r.Name, r.Solved, r.Penalty, len(r.Cells))
		}
		if r.Rank != i+1 {
			t.Errorf("%s: rank %d, want %d", r.Name, r.Rank, i+1)
		}
	}
}

func TestStandingsPenaltyFormula(t *testing.T) {
	c := regionalContest()
	rows := StandingsAt(mustIndex(t, c), c, 2000)

	alpha := rowByName(rows, "Alpha")
	if alpha.Solved != 1 {
		t.Fatalf("Alpha solved = %d, want 1", alpha.Solved)
	}
	if alpha.Penalty != 4200 || alpha.PenaltyMinutes != 70 {
		t.Errorf("Alpha penalty = %d (%d min), want 4200 (70 min)", alpha.Penalty, alpha.PenaltyMinutes)
	}
	cell, ok := alpha.Cells["A"]
	if !ok || cell.Tries != 3 || cell.Time != 1800 || cell.Minute != 30 {
		t.Errorf("Alpha cell A = %+v (present=%v)", cell, ok)
	}
}

func TestStandingsCustomPenalty(t *testing.T) {
	c := regionalContest()
	c.PenaltyPerTry = 600
	rows := StandingsAt(mustIndex(t, c), c, 2000)

	if got := rowByName(rows, "Alpha").Penalty; got != 1800+2*600 {
		t.Errorf("Alpha penalty = %d, want %d", got, 1800+2*600)
	}
}

func TestStandingsRanking(t *testing.T) {
	c := regionalContest()
	rows := StandingsAt(mustIndex(t, c), c, 10000)

	// Zeta: 2 solved, 600 + 9000 + 1200 = 10800
	// Alpha: 1 solved, 4200; Mu: 1 solved, 3000; Beta: nothing
	want := []string{"Zeta", "Mu", "Alpha", "Beta"}
	if got := names(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("order: got %v, want %v", got, want)
	}
	if z := rows[0]; z.Solved != 2 || z.Penalty != 10800 {
		t.Errorf("Zeta = solved %d penalty %d", z.Solved, z.Penalty)
	}
	if !rows[0].Cells["A"].First {
		t.Error("Zeta A should be flagged first solve")
	}
}

func TestStandingsNameBreaksTies(t *testing.T) {
	c := &Contest{
		Duration:   300,
		FreezeTime: 300,
		Problems:   []string{"A"},
		Teams: []Team{
			{Name: "b", Submissions: map[string]Attempt{"A": {Time: 100, Tries: 1}}},
			{Name: "a", Submissions: map[string]Attempt{"A": {Time: 100, Tries: 1}}},
			{Name: "c"},
		},
	}
	rows := StandingsAt(mustIndex(t, c), c, 300)
	if got, want := names(rows), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
}

func TestStandingsFreezeHidesSubmission(t *testing.T) {
	c := regionalContest()
	idx := mustIndex(t, c)

	for _, q := range []int{14400, 14999, 15000, 16000, 18000, 99999} {
		alpha := rowByName(StandingsAt(idx, c, q), "Alpha")
		if _, ok := alpha.Cells["B"]; ok {
			t.Errorf("t=%d: frozen submission on B is visible", q)
		}
	}
}

func TestStandingsClampsQueryTime(t *testing.T) {
	c := regionalContest()
	idx := mustIndex(t, c)

	if got, want := StandingsAt(idx, c, -50), StandingsAt(idx, c, 0); !reflect.DeepEqual(got, want) {
		t.Error("negative query time should behave like 0")
	}
	if got, want := StandingsAt(idx, c, 1<<30), StandingsAt(idx, c, c.Duration); !reflect.DeepEqual(got, want) {
		t.Error("query time past the end should behave like duration")
	}
}

func TestStandingsDeterministic(t *testing.T) {
	c := regionalContest()
	idx := mustIndex(t, c)

	for _, q := range []int{0, 600, 3000, 9000, 14400, 18000} {
		first := StandingsAt(idx, c, q)
		for i := 0; i < 5; i++ {
			if again := StandingsAt(idx, c, q); !reflect.DeepEqual(first, again) {
				t.Fatalf("t=%d: standings differ between calls", q)
			}
		}
	}
}

func TestRevealedMonotonicUntilFreeze(t *testing.T) {
	c := regionalContest()
	idx := mustIndex(t, c)

	prev := 0
	for q := 0; q <= c.FreezeTime; q += 300 {
		n := len(idx.Revealed(c, q))
		if n < prev {
			t.Fatalf("t=%d: revealed shrank from %d to %d", q, prev, n)
		}
		prev = n
	}

	atFreeze := idx.Revealed(c, c.FreezeTime)
	for _, q := range []int{c.FreezeTime + 1, 15000, c.Duration} {
		if got := idx.Revealed(c, q); !reflect.DeepEqual(got, atFreeze) {
			t.Errorf("t=%d: revealed set changed after freeze", q)
		}
	}
}

func TestStandingsIgnoresTeamsMissingFromContest(t *testing.T) {
	idx := mustIndex(t, regionalContest())
	other := &Contest{
		Name:       "Subset",
		Duration:   18000,
		FreezeTime: 14400,
		Problems:   []string{"A", "B", "C"},
		Teams:      []Team{{Name: "Mu", Affiliation: "M U"}},
	}

	rows := StandingsAt(idx, other, 18000)
	if len(rows) != 1 || rows[0].Name != "Mu" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Solved != 1 || rows[0].Penalty != 3000 {
		t.Errorf("Mu row = %+v", rows[0])
	}
}

func TestNewScoreboard(t *testing.T) {
	c := regionalContest()
	idx := mustIndex(t, c)

	sb := NewScoreboard(idx, c, 15000, ClockRunning)
	if !sb.Frozen {
		t.Error("expected frozen at 15000")
	}
	if sb.TimeLeft != 3000 {
		t.Errorf("time left = %d, want 3000", sb.TimeLeft)
	}
	if sb.State != ClockRunning || sb.QueryTime != 15000 {
		t.Errorf("unexpected header %+v", sb)
	}

	sb = NewScoreboard(idx, c, 14400, ClockStopped)
	if sb.Frozen {
		t.Error("board is not frozen exactly at the freeze time")
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{0, "00:00"},
		{59, "00:00"},
		{3600, "01:00"},
		{18000 - 90, "04:58"},
		{-10, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.sec); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
	if got := PenaltyMinutes(4200); got != 70 {
		t.Errorf("PenaltyMinutes(4200) = %d, want 70", got)
	}
}
