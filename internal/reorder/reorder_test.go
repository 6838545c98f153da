package reorder

import (
	"testing"

	"sprintpulse/pkg/domain"
)

func ids(ts []domain.Tactic) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countTactics(s domain.AppState) int {
	n := 0
	for _, g := range s.Goals {
		n += len(g.Tactics)
	}
	return n
}

func fixture() domain.AppState {
	s := domain.DefaultState()
	s.Goals = []domain.Goal{
		{ID: "A", Tactics: []domain.Tactic{
			{ID: "a1", Week: 3},
			{ID: "a2", Week: 1},
			{ID: "a3", Week: 3},
		}},
		{ID: "B", Tactics: []domain.Tactic{
			{ID: "b1", Week: 5},
			{ID: "b2", Week: 2},
			{ID: "b3", Week: 5},
		}},
	}
	return s
}

func TestMoveAcrossGoalsOntoTactic(t *testing.T) {
	s := fixture()
	before := countTactics(s)
	if !Move(&s, Source{GoalID: "A", Week: 3, TacticID: "a1"}, Target{GoalID: "B", Week: 5, TacticID: "b3"}) {
		t.Fatalf("expected move")
	}
	if got := ids(s.Goals[1].Tactics); !equal(got, []string{"b1", "b2", "a1", "b3"}) {
		t.Fatalf("unexpected B order %v", got)
	}
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a2", "a3"}) {
		t.Fatalf("unexpected A order %v", got)
	}
	if s.Goals[1].Tactics[2].Week != 5 {
		t.Fatalf("expected week rewritten to 5, got %d", s.Goals[1].Tactics[2].Week)
	}
	if countTactics(s) != before {
		t.Fatalf("tactic count changed")
	}
}

func TestMoveWithinSameListReResolvesIndex(t *testing.T) {
	s := fixture()
	// a1 sits before a3; removing it shifts a3 left by one.
	Move(&s, Source{GoalID: "A", Week: 3, TacticID: "a1"}, Target{GoalID: "A", Week: 3, TacticID: "a3"})
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a2", "a1", "a3"}) {
		t.Fatalf("unexpected order %v", got)
	}
	// Moving later item before an earlier one.
	Move(&s, Source{GoalID: "A", Week: 3, TacticID: "a3"}, Target{GoalID: "A", Week: 1, TacticID: "a2"})
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a3", "a2", "a1"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if s.Goals[0].Tactics[0].Week != 1 {
		t.Fatalf("expected week 1 after move")
	}
}

func TestMoveOntoStaleTacticAppends(t *testing.T) {
	s := fixture()
	Move(&s, Source{GoalID: "A", TacticID: "a2"}, Target{GoalID: "B", Week: 2, TacticID: "gone"})
	if got := ids(s.Goals[1].Tactics); !equal(got, []string{"b1", "b2", "b3", "a2"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMoveOntoWeekContainerInsertsAfterLastOfWeek(t *testing.T) {
	s := fixture()
	Move(&s, Source{GoalID: "A", TacticID: "a2"}, Target{GoalID: "B", Week: 5})
	if got := ids(s.Goals[1].Tactics); !equal(got, []string{"b1", "b2", "b3", "a2"}) {
		t.Fatalf("unexpected order %v", got)
	}
	Move(&s, Source{GoalID: "A", TacticID: "a1"}, Target{GoalID: "B", Week: 2})
	if got := ids(s.Goals[1].Tactics); !equal(got, []string{"b1", "b2", "a1", "b3", "a2"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMoveIntoEmptyWeekAppends(t *testing.T) {
	s := fixture()
	Move(&s, Source{GoalID: "B", TacticID: "b2"}, Target{GoalID: "A", Week: 9})
	a := s.Goals[0]
	if got := ids(a.Tactics); !equal(got, []string{"a1", "a2", "a3", "b2"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if week := a.TacticsForWeek(9); len(week) != 1 || week[0].ID != "b2" {
		t.Fatalf("expected exactly one week 9 tactic, got %+v", week)
	}
}

func TestMoveTreatsMissingWeekAsOne(t *testing.T) {
	s := fixture()
	s.Goals[0].Tactics = append(s.Goals[0].Tactics, domain.Tactic{ID: "a4"})
	Move(&s, Source{GoalID: "B", TacticID: "b1"}, Target{GoalID: "A", Week: 1})
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a1", "a2", "a3", "a4", "b1"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMoveUnknownSourceIsNoop(t *testing.T) {
	s := fixture()
	if Move(&s, Source{GoalID: "Z", TacticID: "a1"}, Target{GoalID: "B", Week: 1}) {
		t.Fatalf("expected no move for unknown goal")
	}
	if Move(&s, Source{GoalID: "A", TacticID: "zz"}, Target{GoalID: "B", Week: 1}) {
		t.Fatalf("expected no move for unknown tactic")
	}
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a1", "a2", "a3"}) {
		t.Fatalf("state changed: %v", got)
	}
}

func TestMoveUnknownTargetGoalRestoresSource(t *testing.T) {
	s := fixture()
	if Move(&s, Source{GoalID: "A", TacticID: "a2"}, Target{GoalID: "Z", Week: 7}) {
		t.Fatalf("expected no move")
	}
	if got := ids(s.Goals[0].Tactics); !equal(got, []string{"a1", "a2", "a3"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if s.Goals[0].Tactics[1].Week != 1 {
		t.Fatalf("expected original week restored")
	}
}
