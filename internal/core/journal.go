package core

import (
	"context"
	"fmt"
	"slices"

	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

// HealthLogDateLayout formats the capture date of a health log.
const HealthLogDateLayout = "1/2/2006"

// UpdateVision replaces the 12-week vision.
func (s *Store) UpdateVision(ctx context.Context, vision string) error {
	return s.run(ctx, "update_vision", "", func(st *domain.AppState) (bool, error) {
		st.Vision = vision
		return true, nil
	})
}

// UpdateMetric records the lag or lead indicator for the current week.
func (s *Store) UpdateMetric(ctx context.Context, kind domain.MetricKind, value string) error {
	if !kind.Valid() {
		return fmt.Errorf("metric %q: %w", kind, ErrInvalidMetric)
	}
	return s.run(ctx, "update_metric", string(kind), func(st *domain.AppState) (bool, error) {
		st.Metrics.Set(domain.MetricKey{Week: st.CurrentWeek, Kind: kind}, value)
		return true, nil
	})
}

// SetEmotionalPhase stores the phase for the current week. Any name is
// accepted; domain.Phases lists the ones offered to users.
func (s *Store) SetEmotionalPhase(ctx context.Context, phase domain.Phase) error {
	return s.run(ctx, "set_phase", string(phase), func(st *domain.AppState) (bool, error) {
		st.EmotionalHistory[st.CurrentWeek] = phase
		return true, nil
	})
}

// AddHealthLog prepends a note bound to the current week. An empty note
// creates nothing and returns a zero log.
func (s *Store) AddHealthLog(ctx context.Context, note string) (domain.HealthLog, error) {
	if note == "" {
		return domain.HealthLog{}, nil
	}
	entry := domain.HealthLog{
		ID:   s.ids.NewID(HealthLogIDPrefix),
		Date: s.clock.Now().Local().Format(HealthLogDateLayout),
		Week: s.state.CurrentWeek,
		Note: note,
	}
	err := s.run(ctx, "add_health_log", entry.ID, func(st *domain.AppState) (bool, error) {
		st.HealthLogs = slices.Insert(st.HealthLogs, 0, entry)
		return true, nil
	})
	return entry, err
}

// RemoveHealthLog deletes a health log.
func (s *Store) RemoveHealthLog(ctx context.Context, id string) error {
	return s.run(ctx, "remove_health_log", id, func(st *domain.AppState) (bool, error) {
		before := len(st.HealthLogs)
		st.HealthLogs = slices.DeleteFunc(st.HealthLogs, func(h domain.HealthLog) bool { return h.ID == id })
		return len(st.HealthLogs) != before, nil
	})
}

// HealthLogsForCurrentWeek returns the current week's logs, newest first.
func (s *Store) HealthLogsForCurrentWeek() []domain.HealthLog {
	return metrics.HealthLogsForWeek(s.state, s.state.CurrentWeek)
}

// AddDueDate appends an empty due date and returns it.
func (s *Store) AddDueDate(ctx context.Context) (domain.DueDate, error) {
	due := domain.DueDate{ID: s.ids.NewID(DueDateIDPrefix)}
	err := s.run(ctx, "add_due_date", due.ID, func(st *domain.AppState) (bool, error) {
		st.DueDates = append(st.DueDates, due)
		return true, nil
	})
	return due, err
}

// UpdateDueDate sets one field of a due date. Unknown ids and field names
// are ignored.
func (s *Store) UpdateDueDate(ctx context.Context, id string, field domain.DueDateField, value string) error {
	return s.run(ctx, "update_due_date", id, func(st *domain.AppState) (bool, error) {
		for i := range st.DueDates {
			if st.DueDates[i].ID == id {
				return st.DueDates[i].Set(field, value), nil
			}
		}
		return false, nil
	})
}

// RemoveDueDate deletes a due date.
func (s *Store) RemoveDueDate(ctx context.Context, id string) error {
	return s.run(ctx, "remove_due_date", id, func(st *domain.AppState) (bool, error) {
		before := len(st.DueDates)
		st.DueDates = slices.DeleteFunc(st.DueDates, func(d domain.DueDate) bool { return d.ID == id })
		return len(st.DueDates) != before, nil
	})
}

// ToggleTimeBlock advances a model-week slot to the next block tag. Legacy
// tags restart the cycle.
func (s *Store) ToggleTimeBlock(ctx context.Context, slot domain.SlotKey) (domain.BlockType, error) {
	if !slot.Valid() {
		return "", fmt.Errorf("slot %s: %w", slot, ErrInvalidSlot)
	}
	var next domain.BlockType
	err := s.run(ctx, "toggle_time_block", slot.String(), func(st *domain.AppState) (bool, error) {
		if st.ModelWeek == nil {
			st.ModelWeek = map[domain.SlotKey]domain.BlockType{}
		}
		next = st.BlockAt(slot).Next()
		st.ModelWeek[slot] = next
		return true, nil
	})
	return next, err
}

// CompleteOnboarding finishes the first-run flow. A non-empty vision
// replaces the current one. The goal list is replaced by a single goal
// titled firstGoal, or emptied when firstGoal is empty.
func (s *Store) CompleteOnboarding(ctx context.Context, vision, firstGoal string) error {
	var goals []domain.Goal
	if firstGoal != "" {
		goals = []domain.Goal{{ID: s.ids.NewID(GoalIDPrefix), Title: firstGoal, Tactics: []domain.Tactic{}}}
	} else {
		goals = []domain.Goal{}
	}
	return s.run(ctx, "complete_onboarding", "", func(st *domain.AppState) (bool, error) {
		if vision != "" {
			st.Vision = vision
		}
		st.Goals = goals
		st.OnboardingComplete = true
		return true, nil
	})
}
