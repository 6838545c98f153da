// Package reorder implements drag-and-drop moves of tactics between and
// within goals.
//
// A goal keeps the tactics of all twelve weeks in one flat, ordered list that
// is filtered by week at read time. A move therefore has to place the tactic
// at a list position that keeps each week's visible order stable.
package reorder

import "sprintpulse/pkg/domain"

// Source identifies the dragged tactic.
type Source struct {
	GoalID   string
	Week     int
	TacticID string
}

// Target identifies where the tactic was dropped. An empty TacticID means the
// drop landed on the week container rather than on a tactic.
type Target struct {
	GoalID   string
	Week     int
	TacticID string
}

// Move relocates the source tactic to the target goal and week and reports
// whether the state changed. Unknown source goals or tactics are ignored.
func Move(state *domain.AppState, src Source, dst Target) bool {
	from, ok := state.FindGoal(src.GoalID)
	if !ok {
		return false
	}
	idx := from.TacticIndex(src.TacticID)
	if idx < 0 {
		return false
	}
	moved := from.Tactics[idx]
	originalWeek := moved.Week
	from.Tactics = remove(from.Tactics, idx)
	moved.Week = dst.Week

	// Looked up after the removal: from and to may be the same goal.
	to, ok := state.FindGoal(dst.GoalID)
	if !ok {
		moved.Week = originalWeek
		from.Tactics = insert(from.Tactics, idx, moved)
		return false
	}

	if dst.TacticID != "" {
		// Resolve against the list as it is now; indices taken before the
		// removal are stale when source and target share a list.
		if at := to.TacticIndex(dst.TacticID); at >= 0 {
			to.Tactics = insert(to.Tactics, at, moved)
		} else {
			to.Tactics = append(to.Tactics, moved)
		}
		return true
	}

	last := -1
	for i, t := range to.Tactics {
		if t.EffectiveWeek() == dst.Week {
			last = i
		}
	}
	if last >= 0 {
		to.Tactics = insert(to.Tactics, last+1, moved)
	} else {
		to.Tactics = append(to.Tactics, moved)
	}
	return true
}

func remove(list []domain.Tactic, i int) []domain.Tactic {
	return append(list[:i:i], list[i+1:]...)
}

func insert(list []domain.Tactic, i int, t domain.Tactic) []domain.Tactic {
	out := make([]domain.Tactic, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, t)
	return append(out, list[i:]...)
}
