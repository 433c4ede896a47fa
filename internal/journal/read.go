package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/smoracle/internal/oracle"
)

// ErrRunNotFound is returned when a run ID has no journal entry.
var ErrRunNotFound = errors.New("run not found")

// Summary aggregates the trials of one run.
type Summary struct {
	oracle.RunInfo

	// Executed is the number of trials that ran. A failing run stops early,
	// so Executed may be less than Trials.
	Executed int
	Passed   int
	Failed   int

	// ByKind counts failed trials per violation kind.
	ByKind map[oracle.Kind]int
}

// OK reports whether every executed trial passed and the run completed.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Executed == s.Trials
}

// Runs returns every run in the order it was started.
func (j *Journal) Runs(ctx context.Context) ([]oracle.RunInfo, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, oracle, trials, size, seed
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []oracle.RunInfo{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (oracle.RunInfo, error) {
	var run oracle.RunInfo
	var seed int64
	if err := row.Scan(&run.RunID, &run.Oracle, &run.Trials, &run.Size, &seed); err != nil {
		return oracle.RunInfo{}, fmt.Errorf("scan run: %w", err)
	}
	run.Seed = uint64(seed)
	return run, nil
}

// Summary returns the aggregate outcome of runID.
// Returns ErrRunNotFound if the run was never started.
func (j *Journal) Summary(ctx context.Context, runID string) (Summary, error) {
	run, err := scanRun(j.db.QueryRowContext(ctx, `
		SELECT run_id, oracle, trials, size, seed
		FROM runs
		WHERE run_id = ?
	`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, fmt.Errorf("summary %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return Summary{}, err
	}

	s := Summary{RunInfo: run, ByKind: map[oracle.Kind]int{}}

	rows, err := j.db.QueryContext(ctx, `
		SELECT pass, kind, COUNT(*)
		FROM trials
		WHERE run_id = ?
		GROUP BY pass, kind
	`, runID)
	if err != nil {
		return Summary{}, fmt.Errorf("query trial counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pass bool
		var kind string
		var count int
		if err := rows.Scan(&pass, &kind, &count); err != nil {
			return Summary{}, fmt.Errorf("scan trial counts: %w", err)
		}
		s.Executed += count
		if pass {
			s.Passed += count
			continue
		}
		s.Failed += count
		s.ByKind[oracle.Kind(kind)] += count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate trial counts: %w", err)
	}

	return s, nil
}

// Violations returns the failed trials of runID ordered by trial index.
// Returns an empty slice, not nil, when there are none.
func (j *Journal) Violations(ctx context.Context, runID string) ([]oracle.TrialRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, trial, fingerprint, output, pass, kind, message
		FROM trials
		WHERE run_id = ? AND pass = 0
		ORDER BY trial ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query violations: %w", err)
	}
	defer rows.Close()

	recs := []oracle.TrialRecord{}
	for rows.Next() {
		var rec oracle.TrialRecord
		var kind string
		if err := rows.Scan(&rec.RunID, &rec.Trial, &rec.Fingerprint, &rec.Output, &rec.Pass, &kind, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan violation: %w", err)
		}
		rec.Kind = oracle.Kind(kind)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate violations: %w", err)
	}
	return recs, nil
}
