package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

func TestUpdateVisionAndMetric(t *testing.T) {
	ctx := context.Background()
	st := domain.DefaultState()
	st.CurrentWeek = 3
	store, _ := newTestStore(st)
	if err := store.UpdateVision(ctx, "Finish the thesis"); err != nil {
		t.Fatalf("vision: %v", err)
	}
	if err := store.UpdateMetric(ctx, domain.MetricLag, "20 pages"); err != nil {
		t.Fatalf("lag: %v", err)
	}
	if err := store.UpdateMetric(ctx, domain.MetricLead, "2h/day"); err != nil {
		t.Fatalf("lead: %v", err)
	}
	got := store.State()
	if got.Vision != "Finish the thesis" {
		t.Fatalf("unexpected vision %q", got.Vision)
	}
	if got.MetricValue(3, domain.MetricLag) != "20 pages" || got.MetricValue(3, domain.MetricLead) != "2h/day" {
		t.Fatalf("unexpected metrics %+v", got.Metrics.Values)
	}
	if err := store.UpdateMetric(ctx, "vibes", "x"); !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("expected ErrInvalidMetric, got %v", err)
	}
}

func TestSetEmotionalPhase(t *testing.T) {
	ctx := context.Background()
	st := domain.DefaultState()
	st.CurrentWeek = 5
	store, _ := newTestStore(st)
	if got := store.Summary(); got.Phase != domain.PhasePeaceful || got.PhaseMessage != metrics.DefaultPhasePrompt {
		t.Fatalf("expected default phase, got %+v", got)
	}
	if err := store.SetEmotionalPhase(ctx, domain.PhaseFrustrated); err != nil {
		t.Fatalf("phase: %v", err)
	}
	if got := store.State().EmotionalHistory; !cmp.Equal(got, map[int]domain.Phase{5: domain.PhaseFrustrated}) {
		t.Fatalf("unexpected history %v", got)
	}
	if got := store.Summary(); got.Phase != domain.PhaseFrustrated || got.PhaseMessage != "" {
		t.Fatalf("expected stored phase, got %+v", got)
	}
}

func TestHealthLogs(t *testing.T) {
	ctx := context.Background()
	captured := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	st := domain.DefaultState()
	st.CurrentWeek = 2
	store, p := newTestStore(st, WithClock(stubClock{t: captured}))

	empty, err := store.AddHealthLog(ctx, "")
	if err != nil || empty.ID != "" || p.saves != 0 {
		t.Fatalf("empty note must be a no-op: %+v err=%v saves=%d", empty, err, p.saves)
	}

	first, err := store.AddHealthLog(ctx, "slept badly")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.Week != 2 || first.Date != captured.Local().Format(HealthLogDateLayout) || first.Note != "slept badly" {
		t.Fatalf("unexpected log %+v", first)
	}
	second, err := store.AddHealthLog(ctx, "ran 5k")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	logs := store.State().HealthLogs
	if len(logs) != 2 || logs[0].ID != second.ID || logs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", logs)
	}

	// Logs stay bound to the week they were captured in.
	if err := store.completeWeek(ctx); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := store.HealthLogsForCurrentWeek(); len(got) != 0 {
		t.Fatalf("week 3 should have no logs, got %+v", got)
	}
	third, _ := store.AddHealthLog(ctx, "week three")
	if got := store.HealthLogsForCurrentWeek(); len(got) != 1 || got[0].ID != third.ID {
		t.Fatalf("unexpected week 3 logs %+v", got)
	}

	if err := store.RemoveHealthLog(ctx, first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, h := range store.State().HealthLogs {
		if h.ID == first.ID {
			t.Fatalf("log %s not removed", first.ID)
		}
	}
}

func TestDueDates(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(domain.DefaultState())
	due, err := store.AddDueDate(ctx)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if due.ID != "ddl_1" {
		t.Fatalf("unexpected id %s", due.ID)
	}
	updates := map[domain.DueDateField]string{
		domain.DueDateTitle:    "Tax return",
		domain.DueDateType:     "hard",
		domain.DueDateDuration: "3h",
	}
	for field, value := range updates {
		if err := store.UpdateDueDate(ctx, due.ID, field, value); err != nil {
			t.Fatalf("update %s: %v", field, err)
		}
	}
	if err := store.UpdateDueDate(ctx, due.ID, "colour", "red"); err != nil {
		t.Fatalf("unknown field must be ignored: %v", err)
	}
	want := []domain.DueDate{{ID: "ddl_1", Title: "Tax return", Type: "hard", Duration: "3h"}}
	if diff := cmp.Diff(want, store.State().DueDates); diff != "" {
		t.Fatalf("due dates mismatch (-want +got):\n%s", diff)
	}
	if got := store.Summary().DueDates; len(got) != 1 {
		t.Fatalf("expected due date on dashboard, got %+v", got)
	}
	if err := store.RemoveDueDate(ctx, due.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(store.State().DueDates) != 0 {
		t.Fatalf("expected due date removed")
	}
}

func TestToggleTimeBlockCyclesAndCountsHours(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(domain.DefaultState())
	slot := domain.SlotKey{Day: 2, Hour: 5}
	want := []domain.BlockType{domain.BlockPlan, domain.BlockAction, domain.BlockBreakout, domain.BlockEmpty}
	hours := []int{0, 1, 0, 0}
	for i, w := range want {
		got, err := store.ToggleTimeBlock(ctx, slot)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("toggle %d: expected %s got %s", i, w, got)
		}
		if h := store.Summary().StrategicHours; h != hours[i] {
			t.Fatalf("toggle %d: expected %d strategic hours, got %d", i, hours[i], h)
		}
	}
	if _, err := store.ToggleTimeBlock(ctx, domain.SlotKey{Day: 7, Hour: 0}); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestToggleTimeBlockNormalizesLegacyTags(t *testing.T) {
	st := domain.DefaultState()
	slot := domain.SlotKey{Day: 0, Hour: 0}
	st.ModelWeek = map[domain.SlotKey]domain.BlockType{slot: domain.BlockLegacyStrategic}
	store, _ := newTestStore(st)
	got, err := store.ToggleTimeBlock(context.Background(), slot)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != domain.BlockPlan {
		t.Fatalf("legacy tag should restart the cycle, got %s", got)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(domain.DefaultState())
	if err := store.CompleteOnboarding(ctx, "Get fit", "Run 3x a week"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	st := store.State()
	if !st.OnboardingComplete || st.Vision != "Get fit" {
		t.Fatalf("unexpected state %+v", st)
	}
	if len(st.Goals) != 1 || st.Goals[0].Title != "Run 3x a week" || len(st.Goals[0].Tactics) != 0 {
		t.Fatalf("unexpected goals %+v", st.Goals)
	}

	store, _ = newTestStore(domain.DefaultState())
	if err := store.CompleteOnboarding(ctx, "", ""); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	st = store.State()
	if st.Vision != domain.DefaultVision || len(st.Goals) != 0 || st.Goals == nil {
		t.Fatalf("empty answers keep the vision and clear goals, got %+v", st)
	}
}
