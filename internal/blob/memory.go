package blob

import (
	memorystore "sprintpulse/internal/infra/blob/memory"
)

// NewMemory returns an in-memory blob.Store. Contents die with the process.
func NewMemory() Store { return memorystore.New() }
