package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sprintpulse/internal/config"
	"sprintpulse/internal/core"
	"sprintpulse/internal/persist"
)

// app carries the flags and the resources opened for one invocation.
type app struct {
	configPath string
	yes        bool
	asJSON     bool
	verbose    bool

	cfg     config.Config
	logger  *zap.Logger
	adapter *persist.Adapter
	store   *core.Store
	prom    *core.PrometheusMetricsRecorder
	expvar  *core.ExpvarMetricsRecorder

	in     *bufio.Reader
	errOut io.Writer
}

// run executes one command line and releases everything it opened, whether
// or not the command succeeded. Changes a failed save left in memory get one
// more save attempt on the way out.
func run(args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{in: bufio.NewReader(in), errOut: errOut, logger: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(context.Background())
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sprintpulse",
		Short: "Plan and score a 12-week year",
		Long: `SprintPulse tracks one 12-week sprint: a vision, goals with weekly tactics,
lag and lead indicators, a model week of time blocks, and the weekly
execution score that comes out of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := newLogger(cfg.Logging, a.verbose)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: $"+config.EnvConfig+")")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "Confirm destructive actions without asking")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print machine-readable JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newStatusCmd(a),
		newVisionCmd(a),
		newGoalCmd(a),
		newTacticCmd(a),
		newWeekCmd(a),
		newMetricCmd(a),
		newPhaseCmd(a),
		newHealthCmd(a),
		newDueCmd(a),
		newBlockCmd(a),
		newOnboardCmd(a),
		newExportCmd(a),
		newResetCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// open loads the store on first use.
func (a *app) open(ctx context.Context) (*core.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	log := zapLogger{s: a.logger.Sugar()}
	adapter, err := core.OpenAdapter(ctx, a.cfg, log)
	if err != nil {
		return nil, err
	}
	a.adapter = adapter

	opts := []core.Option{
		core.WithLogger(log),
		core.WithAuditRecorder(auditLogger{log: a.logger}),
		core.WithNotifier(core.NotifierFunc(func(_ context.Context, n core.Notice) {
			fmt.Fprintln(a.errOut, styleBad.Render(n.Title+": ")+n.Message)
		})),
	}
	switch a.cfg.Observability.Metrics {
	case "prometheus":
		a.prom = core.NewPrometheusMetricsRecorder()
		opts = append(opts, core.WithMetricsRecorder(a.prom))
	case "expvar":
		a.expvar = core.NewExpvarMetricsRecorder("")
		opts = append(opts, core.WithMetricsRecorder(a.expvar))
	}
	if a.cfg.Observability.Trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(a.errOut)))
	}

	store, err := core.Open(ctx, adapter, opts...)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) close() error {
	var errs []error
	if a.store != nil && a.store.Unsaved() {
		errs = append(errs, a.store.Flush(context.Background()))
	}
	if path := a.cfg.Observability.Textfile; path != "" {
		switch {
		case a.prom != nil:
			errs = append(errs, a.prom.WriteTextfile(path))
		case a.expvar != nil:
			errs = append(errs, writeFile(path, a.expvar))
		}
	}
	if a.adapter != nil {
		errs = append(errs, a.adapter.Close())
		a.adapter = nil
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	if _, err := w.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write metrics: %w", err)
	}
	return f.Close()
}
