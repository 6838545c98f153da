// Package core owns the sprintpulse state tree. A Store applies every
// mutation to its in-memory AppState and persists the whole tree afterwards.
package core

import (
	"context"
	"fmt"
	"time"

	"sprintpulse/internal/blob"
	"sprintpulse/pkg/domain"
)

// Persister moves the state tree to and from durable storage.
// *persist.Adapter implements it.
type Persister interface {
	Save(ctx context.Context, state domain.AppState) error
	Load(ctx context.Context) (domain.AppState, error)
	Export(ctx context.Context, state domain.AppState) (blob.Info, error)
	Reset(ctx context.Context) error
}

// Store is the single owner of the application state. It is not safe for
// concurrent use.
type Store struct {
	state     domain.AppState
	persister Persister

	clock    Clock
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	audit    AuditRecorder
	ids      IDGenerator
	notifier Notifier

	// unsaved is set while the in-memory state holds changes a failed save
	// did not persist.
	unsaved bool
}

// NewStore wraps an already loaded state.
func NewStore(persister Persister, state domain.AppState, opts ...Option) *Store {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	state = state.Clone()
	state.Normalize()
	return &Store{
		state:     state,
		persister: persister,
		clock:     o.clock,
		logger:    o.logger,
		metrics:   o.metrics,
		tracer:    o.tracer,
		audit:     o.audit,
		ids:       o.ids,
		notifier:  o.notifier,
	}
}

// Open loads the persisted state and returns a store over it. Storage read
// failures are returned; a corrupt document loads as the default state.
func Open(ctx context.Context, persister Persister, opts ...Option) (*Store, error) {
	state, err := persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return NewStore(persister, state, opts...), nil
}

// run wraps one operation with tracing, metrics and audit. fn reports
// whether it changed the state; only changes are saved.
func (s *Store) run(ctx context.Context, op, entityID string, fn func(*domain.AppState) (bool, error)) error {
	started := s.clock.Now()
	week := s.state.CurrentWeek
	ctx, span := s.tracer.Start(ctx, op)

	changed, err := fn(&s.state)
	status := AuditStatusSuccess
	switch {
	case err != nil:
		status = AuditStatusError
	case !changed:
		status = AuditStatusNoop
		s.logger.Debug("nothing to change", "operation", op, "id", entityID)
	default:
		if err = s.save(ctx, op); err != nil {
			status = AuditStatusError
		}
	}

	s.record(ctx, op, entityID, week, started, status, err)
	span.End(err)
	return err
}

// observe wraps an operation that does not go through save, such as an
// export or a reset.
func (s *Store) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	started := s.clock.Now()
	week := s.state.CurrentWeek
	ctx, span := s.tracer.Start(ctx, op)
	err := fn(ctx)
	status := AuditStatusSuccess
	if err != nil {
		status = AuditStatusError
	}
	s.record(ctx, op, "", week, started, status, err)
	span.End(err)
	return err
}

func (s *Store) record(ctx context.Context, op, entityID string, week int, started time.Time, status AuditStatus, err error) {
	ended := s.clock.Now()
	duration := ended.Sub(started)
	s.metrics.Observe(ctx, op, err == nil, duration)
	entry := AuditEntry{
		Operation:  op,
		Status:     status,
		EntityID:   entityID,
		Week:       week,
		Duration:   duration,
		OccurredAt: ended,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	s.audit.Record(ctx, entry)
}

func (s *Store) save(ctx context.Context, op string) error {
	if err := s.persister.Save(ctx, s.state); err != nil {
		saveErr := &SaveError{Operation: op, Err: err}
		s.unsaved = true
		s.logger.Error("save failed", "operation", op, "error", err)
		s.notifier.Notify(ctx, Notice{
			Title:   "Storage Error",
			Message: "Could not save data. Storage might be full or unavailable.",
			Err:     saveErr,
		})
		return saveErr
	}
	s.unsaved = false
	s.logger.Debug("state saved", "operation", op)
	return nil
}

// Flush saves the current state unconditionally. Callers use it when the
// process is about to be suspended or exit.
func (s *Store) Flush(ctx context.Context) error {
	return s.run(ctx, "flush", "", func(*domain.AppState) (bool, error) { return true, nil })
}

// Unsaved reports whether a failed save left changes only in memory.
func (s *Store) Unsaved() bool { return s.unsaved }

// Export writes the current state to the export store.
func (s *Store) Export(ctx context.Context) (blob.Info, error) {
	var info blob.Info
	err := s.observe(ctx, "export", func(ctx context.Context) error {
		var err error
		info, err = s.persister.Export(ctx, s.state)
		return err
	})
	return info, err
}
