package core

import (
	"context"
	"fmt"
	"time"

	"sprintpulse/internal/blob"
	"sprintpulse/pkg/domain"
)

// memPersister keeps the last saved state in memory.
type memPersister struct {
	saved     *domain.AppState
	saves     int
	saveErr   error
	loadErr   error
	resetErr  error
	resets    int
	exportErr error
	exported  []domain.AppState
}

func (m *memPersister) Save(_ context.Context, state domain.AppState) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := state.Clone()
	m.saved = &cp
	return nil
}

func (m *memPersister) Load(context.Context) (domain.AppState, error) {
	if m.loadErr != nil {
		return domain.AppState{}, m.loadErr
	}
	if m.saved == nil {
		return domain.DefaultState(), nil
	}
	return m.saved.Clone(), nil
}

func (m *memPersister) Export(_ context.Context, state domain.AppState) (blob.Info, error) {
	if m.exportErr != nil {
		return blob.Info{}, m.exportErr
	}
	m.exported = append(m.exported, state.Clone())
	return blob.Info{Key: fmt.Sprintf("sprintpulse_week%d.json", state.CurrentWeek)}, nil
}

func (m *memPersister) Reset(context.Context) error {
	m.resets++
	if m.resetErr != nil {
		return m.resetErr
	}
	m.saved = nil
	return nil
}

// seqIDs hands out prefix1, prefix2, ...
type seqIDs struct{ n int }

func (s *seqIDs) NewID(prefix string) string {
	s.n++
	return fmt.Sprintf("%s%d", prefix, s.n)
}

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}

// emptyState is a fresh state without the example goal.
func emptyState() domain.AppState {
	st := domain.DefaultState()
	st.Goals = []domain.Goal{}
	return st
}

func newTestStore(state domain.AppState, opts ...Option) (*Store, *memPersister) {
	p := &memPersister{}
	opts = append([]Option{WithIDGenerator(&seqIDs{})}, opts...)
	return NewStore(p, state, opts...), p
}

func tacticIDs(ts []domain.Tactic) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}
