package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/smoracle/internal/canon"
	"github.com/roach88/smoracle/internal/market"
)

// Oracle drives validation runs: each trial draws an instance, invokes the
// solver under test and checks the result.
//
// An Oracle keeps no state between runs other than its instance source, so a
// seeded generator continues its stream across consecutive runs.
type Oracle struct {
	cfg      Config
	source   market.Source
	logger   *slog.Logger
	recorder Recorder
	metrics  *Metrics
	runIDs   RunIDGenerator
}

// New builds an Oracle. Returns an error if the configuration is invalid.
func New(opts ...Option) (*Oracle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid oracle config: %w", err)
	}
	if o.source == nil {
		o.source = market.NewGenerator(o.cfg.Seed)
	}
	return &Oracle{
		cfg:      o.cfg,
		source:   o.source,
		logger:   o.logger,
		recorder: o.recorder,
		metrics:  o.metrics,
		runIDs:   o.runIDs,
	}, nil
}

// Config returns the run configuration.
func (o *Oracle) Config() Config {
	return o.cfg
}

// Matching runs the full-property oracle against solver.
// Returns nil if every trial passes, otherwise the first *Violation.
func (o *Oracle) Matching(ctx context.Context, solver market.Solver) error {
	return o.run(ctx, OracleMatching, func(inst market.Instance) (string, error) {
		given := inst.Clone()
		hires := solver(given.Companies, given.Candidates)
		return canon.MatchingFingerprint(hires), CheckMatching(inst, hires)
	})
}

// Trace runs the run oracle against a traced solver.
// Returns nil if every trial passes, otherwise the first *Violation.
func (o *Oracle) Trace(ctx context.Context, solver market.TracedSolver) error {
	return o.run(ctx, OracleTrace, func(inst market.Instance) (string, error) {
		given := inst.Clone()
		result := solver(given.Companies, given.Candidates)
		return canon.TraceFingerprint(result.Trace), CheckTrace(inst, result)
	})
}

// run executes the trial loop. solveAndCheck invokes the solver on a copy of
// the instance, checks its output against the original and returns the
// output's fingerprint. It is timed as a whole
// because the checks are linear while solvers are not.
//
// The context is only forwarded to the recorder; a trial is never interrupted.
func (o *Oracle) run(ctx context.Context, name string, solveAndCheck func(market.Instance) (string, error)) error {
	runID := o.runIDs.Generate()
	logger := o.logger.With("run_id", runID, "oracle", name)

	if o.recorder != nil {
		if err := o.recorder.BeginRun(ctx, RunInfo{
			RunID:  runID,
			Oracle: name,
			Trials: o.cfg.Trials,
			Size:   o.cfg.Size,
			Seed:   o.cfg.Seed,
		}); err != nil {
			return fmt.Errorf("begin run %s: %w", runID, err)
		}
	}

	logger.Info("validation run started", "trials", o.cfg.Trials, "size", o.cfg.Size)

	for trial := 0; trial < o.cfg.Trials; trial++ {
		inst := o.source.Instance(o.cfg.Size)
		fingerprint := canon.InstanceFingerprint(inst)

		start := time.Now()
		output, err := solveAndCheck(inst)
		o.metrics.observeTrial(name, time.Since(start))

		rec := TrialRecord{
			RunID:       runID,
			Trial:       trial,
			Fingerprint: fingerprint,
			Output:      output,
			Pass:        err == nil,
		}
		if err != nil {
			var v *Violation
			if errors.As(err, &v) {
				v.Trial = trial
				v.Fingerprint = fingerprint
				rec.Kind = v.Kind
			}
			rec.Message = err.Error()
			o.metrics.observeViolation(name, rec.Kind)
		}

		if o.recorder != nil {
			if rerr := o.recorder.RecordTrial(ctx, rec); rerr != nil {
				return fmt.Errorf("record trial %d: %w", trial, rerr)
			}
		}

		if err != nil {
			logger.Warn("violation detected",
				"trial", trial,
				"kind", rec.Kind,
				"instance", canon.Short(fingerprint),
				"error", err,
			)
			return err
		}

		logger.Debug("trial passed", "trial", trial, "instance", canon.Short(fingerprint))
	}

	logger.Info("validation run passed", "trials", o.cfg.Trials)
	return nil
}

// RunMatching validates solver with a fresh Oracle built from opts.
// Defaults to 100 trials of size 20.
func RunMatching(solver market.Solver, opts ...Option) error {
	o, err := New(opts...)
	if err != nil {
		return err
	}
	return o.Matching(context.Background(), solver)
}

// RunTrace validates a traced solver with a fresh Oracle built from opts.
// Defaults to 100 trials of size 20.
func RunTrace(solver market.TracedSolver, opts ...Option) error {
	o, err := New(opts...)
	if err != nil {
		return err
	}
	return o.Trace(context.Background(), solver)
}
