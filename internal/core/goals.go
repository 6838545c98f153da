package core

import (
	"context"
	"slices"

	"sprintpulse/pkg/domain"
)

// AddGoal appends an untitled goal without tactics and returns it.
func (s *Store) AddGoal(ctx context.Context) (domain.Goal, error) {
	goal := domain.Goal{ID: s.ids.NewID(GoalIDPrefix), Tactics: []domain.Tactic{}}
	err := s.run(ctx, "add_goal", goal.ID, func(st *domain.AppState) (bool, error) {
		st.Goals = append(st.Goals, goal)
		return true, nil
	})
	return goal, err
}

// UpdateGoalTitle renames a goal. Unknown ids are ignored.
func (s *Store) UpdateGoalTitle(ctx context.Context, goalID, title string) error {
	return s.run(ctx, "update_goal_title", goalID, func(st *domain.AppState) (bool, error) {
		goal, ok := st.FindGoal(goalID)
		if !ok {
			return false, nil
		}
		goal.Title = title
		return true, nil
	})
}

// PrepareRemoveGoal asks for confirmation before a goal and all its tactics
// are deleted.
func (s *Store) PrepareRemoveGoal(goalID string) (PendingAction, error) {
	if _, ok := s.state.FindGoal(goalID); !ok {
		return nil, ErrNotFound{Entity: EntityGoal, ID: goalID}
	}
	return PendingRemoveGoal{GoalID: goalID}, nil
}

func (s *Store) removeGoal(ctx context.Context, goalID string) error {
	return s.run(ctx, "remove_goal", goalID, func(st *domain.AppState) (bool, error) {
		before := len(st.Goals)
		st.Goals = slices.DeleteFunc(st.Goals, func(g domain.Goal) bool { return g.ID == goalID })
		return len(st.Goals) != before, nil
	})
}

// Goal returns a copy of the goal with id.
func (s *Store) Goal(goalID string) (domain.Goal, error) {
	goal, ok := s.state.FindGoal(goalID)
	if !ok {
		return domain.Goal{}, ErrNotFound{Entity: EntityGoal, ID: goalID}
	}
	out := *goal
	out.Tactics = slices.Clone(goal.Tactics)
	return out, nil
}
