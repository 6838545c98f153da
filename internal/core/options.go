package core

type storeOptions struct {
	clock    Clock
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	audit    AuditRecorder
	ids      IDGenerator
	notifier Notifier
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		clock:    ClockFunc(nil),
		logger:   noopLogger{},
		metrics:  noopMetricsRecorder{},
		tracer:   noopTracer{},
		audit:    noopAuditRecorder{},
		ids:      UUIDGenerator{},
		notifier: noopNotifier{},
	}
}

// Option customises a Store. Nil arguments keep the default.
type Option func(*storeOptions)

// WithClock sets the time source used for health log dates and audit entries.
func WithClock(clock Clock) Option {
	return func(o *storeOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder sets the recorder observing every operation.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(o *storeOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer sets the tracer wrapping every operation.
func WithTracer(tracer Tracer) Option {
	return func(o *storeOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithAuditRecorder sets the recorder receiving one entry per operation.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(o *storeOptions) {
		if recorder != nil {
			o.audit = recorder
		}
	}
}

// WithIDGenerator sets the generator for new goal, tactic, log and due date ids.
func WithIDGenerator(ids IDGenerator) Option {
	return func(o *storeOptions) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithNotifier sets the collaborator told about failed saves.
func WithNotifier(notifier Notifier) Option {
	return func(o *storeOptions) {
		if notifier != nil {
			o.notifier = notifier
		}
	}
}
