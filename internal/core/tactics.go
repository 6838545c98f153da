package core

import (
	"context"
	"fmt"
	"slices"

	"sprintpulse/internal/reorder"
	"sprintpulse/pkg/domain"
)

// TacticRequest describes a tactic to add.
type TacticRequest struct {
	GoalID string
	// Week is ignored for recurring tactics.
	Week      int
	Recurring bool
	Title     string
}

// TacticResult carries either the created tactics or, when the request had
// no title, the pending action that asks for one.
type TacticResult struct {
	Created []domain.Tactic
	Pending PendingAction
}

// AddTactic creates a tactic under a goal. A recurring tactic is created once
// per week 1..12. A single tactic opens its week in the planner. Without a
// title nothing is created and the result holds a PendingAddTactic instead.
// Unknown goals are ignored.
func (s *Store) AddTactic(ctx context.Context, req TacticRequest) (TacticResult, error) {
	if !req.Recurring && !validTacticWeek(req.Week) {
		return TacticResult{}, fmt.Errorf("tactic week %d: %w", req.Week, ErrInvalidWeek)
	}
	if _, ok := s.state.FindGoal(req.GoalID); !ok {
		s.logger.Debug("add tactic: unknown goal", "goal", req.GoalID)
		return TacticResult{}, nil
	}
	if req.Title == "" {
		return TacticResult{Pending: PendingAddTactic{GoalID: req.GoalID, Week: req.Week, Recurring: req.Recurring}}, nil
	}
	created, err := s.createTactic(ctx, req)
	return TacticResult{Created: created}, err
}

func (s *Store) createTactic(ctx context.Context, req TacticRequest) ([]domain.Tactic, error) {
	if !req.Recurring && !validTacticWeek(req.Week) {
		return nil, fmt.Errorf("tactic week %d: %w", req.Week, ErrInvalidWeek)
	}
	var created []domain.Tactic
	err := s.run(ctx, "add_tactic", req.GoalID, func(st *domain.AppState) (bool, error) {
		goal, ok := st.FindGoal(req.GoalID)
		if !ok || req.Title == "" {
			return false, nil
		}
		base := s.ids.NewID(TacticIDPrefix)
		if req.Recurring {
			for week := domain.FirstWeek; week <= domain.LastWeek; week++ {
				created = append(created, domain.Tactic{ID: recurringID(base, week), Title: req.Title, Week: week})
			}
		} else {
			created = append(created, domain.Tactic{ID: base, Title: req.Title, Week: req.Week})
			if st.OpenWeeks[goal.ID] == nil {
				st.OpenWeeks[goal.ID] = map[int]bool{}
			}
			st.OpenWeeks[goal.ID][req.Week] = true
		}
		goal.Tactics = append(goal.Tactics, created...)
		return true, nil
	})
	return created, err
}

// UpdateTacticTitle renames one tactic. Copies of a recurring tactic are
// independent, so only the addressed week changes.
func (s *Store) UpdateTacticTitle(ctx context.Context, goalID, tacticID, title string) error {
	return s.run(ctx, "update_tactic_title", tacticID, func(st *domain.AppState) (bool, error) {
		tactic, ok := findTactic(st, goalID, tacticID)
		if !ok {
			return false, nil
		}
		tactic.Title = title
		return true, nil
	})
}

// ToggleTactic flips a tactic's completion.
func (s *Store) ToggleTactic(ctx context.Context, goalID, tacticID string) error {
	return s.run(ctx, "toggle_tactic", tacticID, func(st *domain.AppState) (bool, error) {
		tactic, ok := findTactic(st, goalID, tacticID)
		if !ok {
			return false, nil
		}
		tactic.Completed = !tactic.Completed
		return true, nil
	})
}

// RemoveTactic deletes one tactic.
func (s *Store) RemoveTactic(ctx context.Context, goalID, tacticID string) error {
	return s.run(ctx, "remove_tactic", tacticID, func(st *domain.AppState) (bool, error) {
		goal, ok := st.FindGoal(goalID)
		if !ok {
			return false, nil
		}
		before := len(goal.Tactics)
		goal.Tactics = slices.DeleteFunc(goal.Tactics, func(t domain.Tactic) bool { return t.ID == tacticID })
		return len(goal.Tactics) != before, nil
	})
}

// MoveTactic relocates a tactic as a drag and drop would and reports whether
// anything moved.
func (s *Store) MoveTactic(ctx context.Context, src reorder.Source, dst reorder.Target) (bool, error) {
	if !validTacticWeek(dst.Week) {
		return false, fmt.Errorf("move target week %d: %w", dst.Week, ErrInvalidWeek)
	}
	var moved bool
	err := s.run(ctx, "move_tactic", src.TacticID, func(st *domain.AppState) (bool, error) {
		moved = reorder.Move(st, src, dst)
		return moved, nil
	})
	return moved, err
}

// ToggleWeekAccordion flips whether a goal's week is expanded in the planner
// and returns the new state. The goal id is not checked.
func (s *Store) ToggleWeekAccordion(ctx context.Context, goalID string, week int) (bool, error) {
	var open bool
	err := s.run(ctx, "toggle_week", goalID, func(st *domain.AppState) (bool, error) {
		if st.OpenWeeks[goalID] == nil {
			st.OpenWeeks[goalID] = map[int]bool{}
		}
		open = !st.OpenWeeks[goalID][week]
		st.OpenWeeks[goalID][week] = open
		return true, nil
	})
	return open, err
}

// TacticsForWeek returns the goal's tactics for week in list order.
func (s *Store) TacticsForWeek(goalID string, week int) []domain.Tactic {
	goal, ok := s.state.FindGoal(goalID)
	if !ok {
		return nil
	}
	return goal.TacticsForWeek(week)
}

// OpenWeek reports whether the goal's week is expanded.
func (s *Store) OpenWeek(goalID string, week int) bool {
	return s.state.IsOpen(goalID, week)
}

func findTactic(st *domain.AppState, goalID, tacticID string) (*domain.Tactic, bool) {
	goal, ok := st.FindGoal(goalID)
	if !ok {
		return nil, false
	}
	return goal.FindTactic(tacticID)
}

func validTacticWeek(week int) bool {
	return week >= domain.FirstWeek && week <= domain.LastWeek
}
