package core

import (
	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

// State returns a deep copy of the state tree.
func (s *Store) State() domain.AppState {
	return s.state.Clone()
}

// Summary returns the dashboard view of the current week.
func (s *Store) Summary() metrics.Summary {
	return metrics.Summarize(s.state)
}

// Series returns the archived scores as chart points.
func (s *Store) Series() []metrics.Point {
	return metrics.Series(s.state)
}

// CurrentWeek returns the week counter, 13 once the sprint is complete.
func (s *Store) CurrentWeek() int {
	return s.state.CurrentWeek
}
