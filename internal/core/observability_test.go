package core

import (
	"bytes"
	"context"
	"errors"
	"expvar"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"sprintpulse/pkg/domain"
)

type captureAuditRecorder struct {
	entries []AuditEntry
}

func (c *captureAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAuditRecorder) has(op string, status AuditStatus, predicate func(AuditEntry) bool) bool {
	for _, entry := range c.entries {
		if entry.Operation == op && entry.Status == status {
			if predicate == nil || predicate(entry) {
				return true
			}
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

type spanRecord struct {
	op  string
	err error
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestStoreObservability(t *testing.T) {
	ctx := context.Background()
	audit := &captureAuditRecorder{}
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	store, p := newTestStore(domain.DefaultState(),
		WithAuditRecorder(audit),
		WithMetricsRecorder(metrics),
		WithTracer(tracer),
	)

	goal, err := store.AddGoal(ctx)
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}
	if !audit.has("add_goal", AuditStatusSuccess, func(e AuditEntry) bool { return e.EntityID == goal.ID && e.Week == 1 }) {
		t.Fatalf("expected audit entry for add_goal, got %+v", audit.entries)
	}
	if err := store.ToggleTactic(ctx, "g1", "missing"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !audit.has("toggle_tactic", AuditStatusNoop, nil) || !metrics.has("toggle_tactic", true) {
		t.Fatalf("expected noop toggle recorded")
	}

	p.saveErr = errors.New("disk full")
	if err := store.UpdateVision(ctx, "x"); err == nil {
		t.Fatalf("expected save error")
	}
	if !audit.has("update_vision", AuditStatusError, func(e AuditEntry) bool { return strings.Contains(e.Error, "disk full") }) {
		t.Fatalf("expected audit error entry")
	}
	if !metrics.has("update_vision", false) || !tracer.has("update_vision", false) {
		t.Fatalf("expected failed update_vision in metrics and traces")
	}
	p.saveErr = nil

	if _, err := store.AddTactic(ctx, TacticRequest{GoalID: "g1", Week: 14, Title: "x"}); err == nil {
		t.Fatalf("expected invalid week")
	}
	if _, err := store.Export(ctx); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := store.Commit(ctx, store.PrepareReset(), ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	for _, op := range []string{"add_goal", "export", "reset"} {
		if !metrics.has(op, true) || !tracer.has(op, true) {
			t.Fatalf("expected success entries for %s", op)
		}
	}
	if len(tracer.started) != len(tracer.ended) {
		t.Fatalf("every span must end: started=%d ended=%d", len(tracer.started), len(tracer.ended))
	}
}

func TestDefaultStoreOptions(t *testing.T) {
	opts := defaultStoreOptions()
	if opts.clock == nil || opts.logger == nil || opts.audit == nil || opts.metrics == nil || opts.tracer == nil || opts.ids == nil || opts.notifier == nil {
		t.Fatalf("expected defaults populated")
	}
	_ = opts.clock.Now()
	opts.audit.Record(context.Background(), AuditEntry{})
	opts.metrics.Observe(context.Background(), "noop", true, 0)
	opts.notifier.Notify(context.Background(), Notice{})
	_, span := opts.tracer.Start(context.Background(), "noop")
	span.End(nil)
	if id := opts.ids.NewID(GoalIDPrefix); !strings.HasPrefix(id, GoalIDPrefix) || len(id) != len(GoalIDPrefix)+36 {
		t.Fatalf("unexpected uuid id %q", id)
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	opts := defaultStoreOptions()
	for _, opt := range []Option{WithClock(nil), WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), WithAuditRecorder(nil), WithIDGenerator(nil), WithNotifier(nil)} {
		opt(&opts)
	}
	if opts.clock == nil || opts.logger == nil || opts.metrics == nil || opts.tracer == nil || opts.audit == nil || opts.ids == nil || opts.notifier == nil {
		t.Fatalf("nil options must not clear defaults")
	}
	NotifierFunc(nil).Notify(context.Background(), Notice{})
}

func TestNoopLoggerMethods(_ *testing.T) {
	var l noopLogger
	l.Debug("d", "k", 1)
	l.Info("i", "k2", 2)
	l.Warn("w", "k3", 3)
	l.Error("e", "k4", 4)
}

func TestClockFuncNowNilFallsBackToUTCTime(t *testing.T) {
	got := ClockFunc(nil).Now()
	if got.IsZero() {
		t.Fatal("expected non-zero time from nil ClockFunc")
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", got.Location())
	}
}

func TestClockFuncNowDelegatesToFunction(t *testing.T) {
	expected := time.Date(2024, 7, 4, 12, 34, 56, 0, time.FixedZone("offset", -5*3600))
	fn := ClockFunc(func() time.Time { return expected })
	if got := fn.Now(); !got.Equal(expected.UTC()) || got.Location() != time.UTC {
		t.Fatalf("expected %s, got %s", expected.UTC(), got)
	}
}

func TestUUIDGeneratorIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := UUIDGenerator{}.NewID(TacticIDPrefix)
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if got := recurringID("t_abc", 7); got != "t_abc_w7" {
		t.Fatalf("unexpected recurring id %s", got)
	}
}

const entryStatusSuccess = "success"
const entryStatusError = "error"

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(recorder.Name(), "sprintpulse_store_metrics_") {
		t.Fatalf("unexpected export name %q", recorder.Name())
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)
	recorder.Observe(context.Background(), "", true, time.Second)

	snapshot := recorder.Snapshot()
	if snapshot.DurationsMS["test_op"] != 15 {
		t.Fatalf("expected 15ms total, snapshot=%+v", snapshot)
	}
	if snapshot.Results["test_op"][entryStatusSuccess] != 1 || snapshot.Results["test_op"][entryStatusError] != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}
	if _, ok := snapshot.Results[""]; ok {
		t.Fatalf("empty operations must be ignored")
	}

	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}

	var buf bytes.Buffer
	if _, err := recorder.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"durations_ms_total":{"test_op":15}`) {
		t.Fatalf("unexpected snapshot json %s", buf.String())
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	recorder := NewPrometheusMetricsRecorder()
	ctx := context.Background()
	recorder.Observe(ctx, "toggle_tactic", true, 2*time.Millisecond)
	recorder.Observe(ctx, "toggle_tactic", true, 3*time.Millisecond)
	recorder.Observe(ctx, "toggle_tactic", false, time.Millisecond)
	recorder.Observe(ctx, "", true, time.Millisecond)

	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("toggle_tactic", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("toggle_tactic", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if n, err := testutil.GatherAndCount(recorder.Gatherer(), "sprintpulse_store_operation_duration_seconds"); err != nil || n != 1 {
		t.Fatalf("expected one histogram series, got %d err=%v", n, err)
	}

	path := filepath.Join(t.TempDir(), "sprintpulse.prom")
	if err := recorder.WriteTextfile(path); err != nil {
		t.Fatalf("textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `sprintpulse_store_operations_total{operation="toggle_tactic",status="success"} 2`) {
		t.Fatalf("unexpected textfile:\n%s", data)
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "trace_op")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "trace_fail")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two span entries, got %d", len(entries))
	}
	if entries[0].Operation != "trace_op" || entries[0].Status != entryStatusSuccess {
		t.Fatalf("unexpected span entry: %+v", entries[0])
	}
	if entries[1].Status != entryStatusError || entries[1].Error != "boom" {
		t.Fatalf("unexpected failed span: %+v", entries[1])
	}
	if !strings.Contains(buf.String(), "\"operation\":\"trace_op\"") {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}

	silent := NewJSONTracer(nil)
	_, span = silent.Start(context.Background(), "quiet")
	span.End(nil)
	if len(silent.Entries()) != 1 {
		t.Fatalf("expected entry retained without writer")
	}
}
