package core

import (
	"context"
	"fmt"

	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

// Prompt is what a collaborator shows before committing a pending action.
type Prompt struct {
	Title        string
	Body         string
	ConfirmLabel string
	// NeedsInput asks for a line of text that is passed to Commit.
	NeedsInput  bool
	Placeholder string
}

// PendingAction is a mutation awaiting confirmation. Pass it to Store.Commit
// to apply it; drop it to cancel.
type PendingAction interface {
	Prompt() Prompt
}

type committer interface {
	commit(ctx context.Context, s *Store, input string) error
}

// Commit applies a pending action prepared by this package. input is the
// text entered for actions whose prompt needs it.
func (s *Store) Commit(ctx context.Context, action PendingAction, input string) error {
	c, ok := action.(committer)
	if !ok {
		return ErrUnknownAction
	}
	return c.commit(ctx, s, input)
}

// PendingRemoveGoal deletes a goal and its tactics.
type PendingRemoveGoal struct {
	GoalID string
}

// Prompt implements PendingAction.
func (PendingRemoveGoal) Prompt() Prompt {
	return Prompt{
		Title:        "Delete Goal?",
		Body:         "Are you sure you want to delete this goal and all its tactics?",
		ConfirmLabel: "Delete",
	}
}

func (a PendingRemoveGoal) commit(ctx context.Context, s *Store, _ string) error {
	return s.removeGoal(ctx, a.GoalID)
}

// PendingAddTactic creates a tactic titled by the committed input. An empty
// input creates nothing.
type PendingAddTactic struct {
	GoalID    string
	Week      int
	Recurring bool
}

// Prompt implements PendingAction.
func (a PendingAddTactic) Prompt() Prompt {
	if a.Recurring {
		return Prompt{
			Title:        "Add Recurring Tactic",
			Body:         "Enter tactic to repeat across all 12 weeks:",
			ConfirmLabel: "Add Tactic",
			NeedsInput:   true,
			Placeholder:  "e.g. Read 10 pages",
		}
	}
	return Prompt{
		Title:        "Add Tactic",
		Body:         fmt.Sprintf("Enter tactic for Week %d:", a.Week),
		ConfirmLabel: "Add Tactic",
		NeedsInput:   true,
		Placeholder:  "Enter tactic...",
	}
}

func (a PendingAddTactic) commit(ctx context.Context, s *Store, input string) error {
	if input == "" {
		return nil
	}
	_, err := s.createTactic(ctx, TacticRequest{GoalID: a.GoalID, Week: a.Week, Recurring: a.Recurring, Title: input})
	return err
}

// PendingCompleteWeek archives the current week and advances to the next.
type PendingCompleteWeek struct {
	Week int
}

// Prompt implements PendingAction.
func (a PendingCompleteWeek) Prompt() Prompt {
	return Prompt{
		Title:        "Complete Week?",
		Body:         fmt.Sprintf("Finish Week %d? This will lock current stats for this week.", a.Week),
		ConfirmLabel: "Complete",
	}
}

func (PendingCompleteWeek) commit(ctx context.Context, s *Store, _ string) error {
	return s.completeWeek(ctx)
}

// PrepareCompleteWeek asks for confirmation before the current week is
// archived. Once week 12 is archived the sprint is locked and
// ErrSprintComplete is returned.
func (s *Store) PrepareCompleteWeek() (PendingAction, error) {
	if s.state.CurrentWeek >= domain.SprintCompleteWeek {
		return nil, ErrSprintComplete
	}
	return PendingCompleteWeek{Week: s.state.CurrentWeek}, nil
}

// completeWeek upserts the week's snapshot and moves to the next week,
// stopping at SprintCompleteWeek. It does nothing once the sprint is locked.
func (s *Store) completeWeek(ctx context.Context) error {
	return s.run(ctx, "complete_week", "", func(st *domain.AppState) (bool, error) {
		week := st.CurrentWeek
		if week >= domain.SprintCompleteWeek {
			return false, nil
		}
		st.Metrics.Upsert(domain.WeekSnapshot{
			Week:           week,
			Score:          metrics.CalculateWES(*st),
			StrategicHours: metrics.CalculateStrategicHours(*st),
			Lag:            st.MetricValue(week, domain.MetricLag),
			Lead:           st.MetricValue(week, domain.MetricLead),
		})
		st.CurrentWeek = min(week+1, domain.SprintCompleteWeek)
		s.logger.Info("week completed", "week", week, "next", st.CurrentWeek)
		return true, nil
	})
}

// PendingReset wipes all saved data.
type PendingReset struct{}

// Prompt implements PendingAction.
func (PendingReset) Prompt() Prompt {
	return Prompt{
		Title:        "Start Over?",
		Body:         "DANGER: This will delete ALL your goals, vision, and history. Are you sure?",
		ConfirmLabel: "Reset Everything",
	}
}

func (PendingReset) commit(ctx context.Context, s *Store, _ string) error {
	return s.reset(ctx)
}

// PrepareReset asks for confirmation before all saved data is deleted.
func (s *Store) PrepareReset() PendingAction {
	return PendingReset{}
}

// reset deletes the persisted document and returns the in-memory state to
// the defaults without saving them.
func (s *Store) reset(ctx context.Context) error {
	return s.observe(ctx, "reset", func(ctx context.Context) error {
		if err := s.persister.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		s.state = domain.DefaultState()
		s.unsaved = false
		s.logger.Warn("all data reset")
		return nil
	})
}
