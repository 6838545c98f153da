package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"sprintpulse/internal/blob"
	"sprintpulse/pkg/domain"
)

// StorageKey is the key the state document lives under.
const StorageKey = "sprintpulse_data"

const exportContentType = "application/json"

// ErrNoExportStore is returned by Export when no export store was configured.
var ErrNoExportStore = errors.New("persist: no export store configured")

// Adapter moves the state tree between memory and a KV backend.
type Adapter struct {
	kv      KV
	exports blob.Store
	logger  Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithExportStore sets the blob store Export writes to.
func WithExportStore(store blob.Store) Option {
	return func(a *Adapter) { a.exports = store }
}

// WithLogger sets the adapter logger. A nil logger keeps the no-op default.
func WithLogger(logger Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter returns an adapter over kv.
func NewAdapter(kv KV, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, logger: noopLogger{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save writes the full state document, replacing the previous one.
func (a *Adapter) Save(ctx context.Context, state domain.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := a.kv.Put(ctx, StorageKey, payload); err != nil {
		return fmt.Errorf("write %s: %w", StorageKey, err)
	}
	a.logger.Debug("state saved", "bytes", len(payload))
	return nil
}

// Load reads the stored document and shallow-merges its top-level members
// over the default state: a member present in the document replaces the
// default wholesale, a missing member keeps its default. A member that does
// not decode keeps its default and is logged. A document that is not a JSON
// object is logged and ignored. Backend read failures are returned.
func (a *Adapter) Load(ctx context.Context) (domain.AppState, error) {
	payload, err := a.kv.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		a.logger.Info("no saved state, starting from defaults")
		return domain.DefaultState(), nil
	}
	if err != nil {
		return domain.AppState{}, fmt.Errorf("read %s: %w", StorageKey, err)
	}
	state, skipped, err := mergeOverDefaults(payload)
	if err != nil {
		a.logger.Error("saved state is corrupt, starting from defaults", "error", err, "bytes", len(payload))
		return domain.DefaultState(), nil
	}
	for _, name := range slices.Sorted(maps.Keys(skipped)) {
		a.logger.Warn("saved member unreadable, keeping default", "member", name, "error", skipped[name])
	}
	return state, nil
}

// Export writes the state as sprintpulse_week<N>.json to the export store.
// Exporting the same week again replaces the earlier file.
func (a *Adapter) Export(ctx context.Context, state domain.AppState) (blob.Info, error) {
	if a.exports == nil {
		return blob.Info{}, ErrNoExportStore
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode state: %w", err)
	}
	name := ExportName(state.CurrentWeek)
	info, err := a.exports.Put(ctx, name, bytes.NewReader(payload), blob.PutOptions{
		ContentType: exportContentType,
		Metadata:    map[string]string{"week": fmt.Sprint(state.CurrentWeek)},
		Replace:     true,
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("export %s: %w", name, err)
	}
	if info.URL == "" {
		if url, err := a.exports.PresignURL(ctx, name, blob.SignedURLOptions{Method: "GET"}); err == nil {
			info.URL = url
		}
	}
	a.logger.Info("state exported", "key", name, "driver", string(a.exports.Driver()))
	return info, nil
}

// Reset deletes the stored document.
func (a *Adapter) Reset(ctx context.Context) error {
	if err := a.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("delete %s: %w", StorageKey, err)
	}
	a.logger.Warn("saved state deleted")
	return nil
}

// Close releases the KV backend.
func (a *Adapter) Close() error { return a.kv.Close() }

// ExportName is the file name an export of week is written under.
func ExportName(week int) string {
	return fmt.Sprintf("sprintpulse_week%d.json", week)
}

// mergeOverDefaults decodes each top-level member on its own. A member that
// does not decode keeps its default and is reported in skipped, so one bad
// field never discards the rest of the document.
func mergeOverDefaults(payload []byte) (state domain.AppState, skipped map[string]error, err error) {
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(payload, &stored); err != nil {
		return domain.AppState{}, nil, err
	}
	if stored == nil {
		return domain.AppState{}, nil, errors.New("document is null")
	}
	defaults, err := json.Marshal(domain.DefaultState())
	if err != nil {
		return domain.AppState{}, nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(defaults, &merged); err != nil {
		return domain.AppState{}, nil, err
	}
	for k, v := range stored {
		member, err := json.Marshal(map[string]json.RawMessage{k: v})
		if err != nil {
			return domain.AppState{}, nil, err
		}
		var probe domain.AppState
		if err := json.Unmarshal(member, &probe); err != nil {
			if skipped == nil {
				skipped = make(map[string]error)
			}
			skipped[k] = err
			continue
		}
		merged[k] = v
	}
	combined, err := json.Marshal(merged)
	if err != nil {
		return domain.AppState{}, nil, err
	}
	if err := json.Unmarshal(combined, &state); err != nil {
		return domain.AppState{}, nil, err
	}
	state.Normalize()
	return state, skipped, nil
}
