package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/smoracle/internal/journal"
	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
	"github.com/roach88/smoracle/internal/solver"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Trials  int
	Size    int
	Seed    uint64
	Metrics bool

	// Solver and TracedSolver override the reference solvers (for testing).
	Solver       market.Solver
	TracedSolver market.TracedSolver

	// RunIDs overrides the run ID generator (for testing).
	// If nil, runs get UUIDv7 IDs.
	RunIDs oracle.RunIDGenerator
}

// RunSummary is the journal view of one oracle run.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	Oracle     string         `json:"oracle"`
	Trials     int            `json:"trials"`
	Size       int            `json:"size"`
	Seed       uint64         `json:"seed"`
	Executed   int            `json:"executed"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	Violations []string       `json:"violations,omitempty"`
	ByKind     map[string]int `json:"by_kind,omitempty"`
	ByCategory map[string]int `json:"by_category,omitempty"`
}

// RunResult holds the outcome of every oracle run in one invocation.
type RunResult struct {
	Runs    []RunSummary `json:"runs"`
	Metrics string       `json:"metrics,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [matching|trace|all]",
		Short: "Run the oracles against the reference solvers",
		Long: `Run randomized validation trials against the built-in deferred
acceptance solvers.

The matching oracle checks every returned matching for cardinality,
coverage and stability. The trace oracle additionally checks the offer and
acceptance protocol reported by the traced solver. With no argument both
oracles run.

Trial outcomes are kept in an in-memory journal for the duration of the
command and summarized at the end.

Exit codes:
  0 - All trials passed
  1 - A violation was found
  2 - Command error (invalid flags, etc.)

Examples:
  smoracle run
  smoracle run matching --trials 1000 --size 50
  smoracle run trace --seed 42 --metrics
  smoracle run --format json`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     []string{oracle.OracleMatching, oracle.OracleTrace, "all"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}
			return runOracles(cmd.Context(), opts, which, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Trials, "trials", oracle.DefaultTrials, "number of trials per oracle")
	cmd.Flags().IntVar(&opts.Size, "size", oracle.DefaultSize, "instance size N")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", oracle.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics after the summary")

	return cmd
}

func runOracles(ctx context.Context, opts *RunOptions, which string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var names []string
	switch which {
	case oracle.OracleMatching, oracle.OracleTrace:
		names = []string{which}
	case "all":
		names = []string{oracle.OracleMatching, oracle.OracleTrace}
	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown oracle %q: must be matching, trace or all", which))
	}

	cfg := oracle.Config{Trials: opts.Trials, Size: opts.Size, Seed: opts.Seed}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid run configuration", err)
	}

	j, err := journal.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	reg := prometheus.NewRegistry()
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	oracleOpts := []oracle.Option{
		oracle.WithConfig(cfg),
		oracle.WithLogger(logger),
		oracle.WithRecorder(j),
		oracle.WithMetrics(oracle.NewMetrics(reg)),
	}
	if opts.RunIDs != nil {
		oracleOpts = append(oracleOpts, oracle.WithRunIDs(opts.RunIDs))
	}

	o, err := oracle.New(oracleOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid run configuration", err)
	}

	matchingSolver := opts.Solver
	if matchingSolver == nil {
		matchingSolver = solver.DeferredAcceptance
	}
	tracedSolver := opts.TracedSolver
	if tracedSolver == nil {
		tracedSolver = solver.TracedDeferredAcceptance
	}

	var firstViolation error
	for _, name := range names {
		var runErr error
		switch name {
		case oracle.OracleMatching:
			runErr = o.Matching(ctx, matchingSolver)
		case oracle.OracleTrace:
			runErr = o.Trace(ctx, tracedSolver)
		}
		if runErr == nil {
			continue
		}
		var v *oracle.Violation
		if !errors.As(runErr, &v) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("%s run failed", name), runErr)
		}
		if firstViolation == nil {
			firstViolation = runErr
		}
	}

	result, err := summarize(ctx, j)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if opts.Metrics {
		families, err := reg.Gather()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
		var buf strings.Builder
		if err := writeMetrics(&buf, families); err != nil {
			return WrapExitError(ExitCommandError, "failed to encode metrics", err)
		}
		result.Metrics = buf.String()
	}

	f := newFormatter(cmd, opts.RootOptions)
	if f.JSON() {
		if firstViolation != nil {
			if err := f.Report(result, CodeViolation, firstViolation.Error()); err != nil {
				return err
			}
		} else if err := f.Success(result); err != nil {
			return err
		}
	} else {
		writeRunText(cmd.OutOrStdout(), result)
	}

	if firstViolation != nil {
		return WrapExitError(ExitFailure, "violation found", firstViolation)
	}
	return nil
}

// summarize reads every run back from the journal.
func summarize(ctx context.Context, j *journal.Journal) (RunResult, error) {
	runs, err := j.Runs(ctx)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		s, err := j.Summary(ctx, run.RunID)
		if err != nil {
			return RunResult{}, err
		}
		violations, err := j.Violations(ctx, run.RunID)
		if err != nil {
			return RunResult{}, err
		}

		rs := RunSummary{
			RunID:    run.RunID,
			Oracle:   run.Oracle,
			Trials:   run.Trials,
			Size:     run.Size,
			Seed:     run.Seed,
			Executed: s.Executed,
			Passed:   s.Passed,
			Failed:   s.Failed,
		}
		for _, v := range violations {
			rs.Violations = append(rs.Violations, v.Message)
		}
		if len(s.ByKind) > 0 {
			rs.ByKind = make(map[string]int, len(s.ByKind))
			rs.ByCategory = make(map[string]int)
			for k, n := range s.ByKind {
				rs.ByKind[string(k)] = n
				rs.ByCategory[string(k.Category())] += n
			}
		}
		result.Runs = append(result.Runs, rs)
	}
	return result, nil
}

// writeMetrics renders families in the Prometheus text exposition format,
// sorted by name.
func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// categoryPrefix names the violation categories seen in a run, e.g.
// "semantic ".
func categoryPrefix(byCategory map[string]int) string {
	if len(byCategory) == 0 {
		return ""
	}
	names := make([]string, 0, len(byCategory))
	for c := range byCategory {
		names = append(names, c)
	}
	sort.Strings(names)
	return strings.Join(names, "/") + " "
}

func writeRunText(w io.Writer, result RunResult) {
	for _, rs := range result.Runs {
		if rs.Failed == 0 && rs.Executed == rs.Trials {
			fmt.Fprintf(w, "✓ %s: %d/%d trials passed (size=%d seed=%d)\n",
				rs.Oracle, rs.Passed, rs.Trials, rs.Size, rs.Seed)
			continue
		}
		fmt.Fprintf(w, "✗ %s: %sviolation after %d/%d trials (size=%d seed=%d)\n",
			rs.Oracle, categoryPrefix(rs.ByCategory), rs.Executed, rs.Trials, rs.Size, rs.Seed)
		for _, msg := range rs.Violations {
			fmt.Fprintf(w, "  %s\n", msg)
		}
	}

	if result.Metrics != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, result.Metrics)
	}
}
