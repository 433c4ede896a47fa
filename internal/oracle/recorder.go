package oracle

import "context"

// Oracle names used in logs, metrics labels and journal rows.
const (
	OracleMatching = "matching"
	OracleTrace    = "trace"
)

// RunInfo describes a validation run as it starts.
type RunInfo struct {
	RunID  string
	Oracle string
	Trials int
	Size   int
	Seed   uint64
}

// TrialRecord is the outcome of a single trial.
// Kind and Message are empty when the trial passed.
type TrialRecord struct {
	RunID string
	Trial int

	// Fingerprint identifies the instance; Output identifies what the
	// solver returned (the matching, or the trace for traced solvers).
	Fingerprint string
	Output      string

	Pass    bool
	Kind    Kind
	Message string
}

// Recorder receives run and trial outcomes as they happen.
type Recorder interface {
	BeginRun(ctx context.Context, run RunInfo) error
	RecordTrial(ctx context.Context, rec TrialRecord) error
}
