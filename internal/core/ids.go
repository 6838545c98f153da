package core

import (
	"strconv"

	"github.com/google/uuid"
)

// Id prefixes per entity kind.
const (
	GoalIDPrefix      = "g_"
	TacticIDPrefix    = "t_"
	HealthLogIDPrefix = "h_"
	DueDateIDPrefix   = "ddl_"
)

// IDGenerator mints identifiers. Generated ids must never repeat within a
// state tree.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator appends a random UUID to the prefix.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + uuid.NewString()
}

// recurringID derives the id of the week's copy of a recurring tactic.
func recurringID(base string, week int) string {
	return base + "_w" + strconv.Itoa(week)
}
