// Package persist saves, loads and exports the application state as one JSON
// document stored under a fixed key.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written or
// was deleted.
var ErrNotFound = errors.New("persist: key not found")

// KV is the key-value port the adapter writes the state document through.
// Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Logger is the structured logging surface used by the adapter.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
