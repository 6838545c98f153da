package core

import (
	"errors"
	"fmt"
)

var (
	// ErrSprintComplete is returned when a week is completed after week 12
	// was archived. The sprint is locked at that point.
	ErrSprintComplete = errors.New("sprint complete: all 12 weeks are archived")
	// ErrUnknownAction is returned by Commit for actions the store did not prepare.
	ErrUnknownAction = errors.New("unknown pending action")
	// ErrInvalidWeek is wrapped when a tactic week lies outside 1..12.
	ErrInvalidWeek = errors.New("week out of range")
	// ErrInvalidSlot is wrapped when a slot lies outside the planner grid.
	ErrInvalidSlot = errors.New("slot outside the planner grid")
	// ErrInvalidMetric is wrapped for indicator kinds other than lag and lead.
	ErrInvalidMetric = errors.New("unknown metric kind")
)

// Entity names a kind of record in the state tree.
type Entity string

// Entity kinds.
const (
	EntityGoal      Entity = "goal"
	EntityTactic    Entity = "tactic"
	EntityHealthLog Entity = "health log"
	EntityDueDate   Entity = "due date"
)

// ErrNotFound reports a lookup miss on a query.
type ErrNotFound struct {
	Entity Entity
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// SaveError reports that an operation was applied in memory but could not be
// persisted. The in-memory state keeps the change.
type SaveError struct {
	Operation string
	Err       error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save after %s: %v", e.Operation, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
