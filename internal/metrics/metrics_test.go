package metrics

import (
	"fmt"
	"testing"

	"sprintpulse/pkg/domain"
)

func stateWith(week int, tactics ...domain.Tactic) domain.AppState {
	s := domain.DefaultState()
	s.CurrentWeek = week
	s.Goals = []domain.Goal{{ID: "g", Tactics: tactics}}
	return s
}

func TestCalculateWESZeroWhenNoTacticsMatch(t *testing.T) {
	s := stateWith(3, domain.Tactic{ID: "a", Week: 2, Completed: true})
	if got := CalculateWES(s); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	s.Goals = nil
	if got := CalculateWES(s); got != 0 {
		t.Fatalf("expected 0 for empty state, got %d", got)
	}
}

func TestCalculateWESRoundsAndTreatsMissingWeekAsOne(t *testing.T) {
	s := stateWith(1,
		domain.Tactic{ID: "a", Completed: true},
		domain.Tactic{ID: "b", Week: 1},
		domain.Tactic{ID: "c", Week: 1},
		domain.Tactic{ID: "d", Week: 2, Completed: true},
	)
	if got := CalculateWES(s); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	s.Goals[0].Tactics[1].Completed = true
	if got := CalculateWES(s); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestWeekScoreDividesBeforeScaling(t *testing.T) {
	cases := []struct{ done, total, want int }{
		{23, 40, 57},
		{1, 8, 13},
		{3, 8, 38},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tc := range cases {
		var tactics []domain.Tactic
		for i := 0; i < tc.total; i++ {
			tactics = append(tactics, domain.Tactic{ID: fmt.Sprintf("t%d", i), Week: 2, Completed: i < tc.done})
		}
		if got := WeekScore(stateWith(2, tactics...), 2); got != tc.want {
			t.Fatalf("%d/%d: expected %d, got %d", tc.done, tc.total, tc.want, got)
		}
	}
}

func TestCalculateWESRangeAcrossMixes(t *testing.T) {
	for total := 1; total <= 9; total++ {
		for done := 0; done <= total; done++ {
			var tactics []domain.Tactic
			for i := 0; i < total; i++ {
				tactics = append(tactics, domain.Tactic{ID: fmt.Sprintf("t%d", i), Week: 4, Completed: i < done})
			}
			got := CalculateWES(stateWith(4, tactics...))
			if got < 0 || got > 100 {
				t.Fatalf("score %d out of range for %d/%d", got, done, total)
			}
			if done == total && got != 100 {
				t.Fatalf("expected 100 for all done, got %d", got)
			}
			if done == 0 && got != 0 {
				t.Fatalf("expected 0 for none done, got %d", got)
			}
		}
	}
}

func TestCalculateWESSpansGoals(t *testing.T) {
	s := domain.DefaultState()
	s.Goals = []domain.Goal{
		{ID: "a", Tactics: []domain.Tactic{{ID: "1", Completed: true}}},
		{ID: "b", Tactics: []domain.Tactic{{ID: "2"}}},
	}
	if got := CalculateWES(s); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestEvaluateEmotionalPhase(t *testing.T) {
	s := domain.DefaultState()
	got := EvaluateEmotionalPhase(s)
	if got.Phase != domain.PhasePeaceful || got.Message != DefaultPhasePrompt || !got.Default {
		t.Fatalf("unexpected default %+v", got)
	}
	s.EmotionalHistory[1] = domain.PhaseFrustrated
	got = EvaluateEmotionalPhase(s)
	if got.Phase != domain.PhaseFrustrated || got.Message != "" || got.Default {
		t.Fatalf("unexpected stored phase %+v", got)
	}
	s.CurrentWeek = 2
	if EvaluateEmotionalPhase(s).Phase != domain.PhasePeaceful {
		t.Fatalf("expected fallback for week without a phase")
	}
	s.EmotionalHistory = nil
	if EvaluateEmotionalPhase(s).Phase != domain.PhasePeaceful {
		t.Fatalf("expected fallback for nil history")
	}
}

func TestCalculateStrategicHours(t *testing.T) {
	s := domain.DefaultState()
	if got := CalculateStrategicHours(s); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	s.ModelWeek = map[domain.SlotKey]domain.BlockType{
		{Day: 0, Hour: 0}: domain.BlockAction,
		{Day: 0, Hour: 1}: domain.BlockAction,
		{Day: 1, Hour: 0}: domain.BlockPlan,
		{Day: 2, Hour: 0}: domain.BlockLegacyStrategic,
	}
	if got := CalculateStrategicHours(s); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestScoreTierBoundaries(t *testing.T) {
	cases := map[int]TierName{100: TierGood, 85: TierGood, 84: TierWarn, 65: TierWarn, 64: TierBad, 0: TierBad}
	for score, want := range cases {
		if got := ScoreTier(score); got.Name != want || got.Message == "" {
			t.Fatalf("ScoreTier(%d) = %+v want %s", score, got, want)
		}
	}
}

func TestSeriesAndSummary(t *testing.T) {
	s := stateWith(2, domain.Tactic{ID: "a", Week: 2, Completed: true}, domain.Tactic{ID: "b", Week: 2})
	s.Metrics.Upsert(domain.WeekSnapshot{Week: 1, Score: 70})
	s.Metrics.Set(domain.MetricKey{Week: 2, Kind: domain.MetricLead}, "5 calls")
	s.HealthLogs = []domain.HealthLog{{ID: "h2", Week: 2, Note: "slept"}, {ID: "h1", Week: 1, Note: "old"}}

	series := Series(s)
	if len(series) != 1 || series[0].Label != "W1" || series[0].Score != 70 {
		t.Fatalf("unexpected series %+v", series)
	}

	sum := Summarize(s)
	if sum.Score != 50 || sum.Tier != TierBad || sum.Tactics != 2 || sum.Completed != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Lead != "5 calls" || sum.Lag != "" {
		t.Fatalf("unexpected indicators %+v", sum)
	}
	if len(sum.HealthLogs) != 1 || sum.HealthLogs[0].ID != "h2" {
		t.Fatalf("expected only current week logs, got %+v", sum.HealthLogs)
	}
	if sum.SprintComplete {
		t.Fatalf("sprint should not be complete")
	}
	s.CurrentWeek = domain.SprintCompleteWeek
	if !Summarize(s).SprintComplete {
		t.Fatalf("expected sprint complete at week 13")
	}
}
