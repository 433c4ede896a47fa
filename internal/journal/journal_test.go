package journal

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
	"github.com/roach88/smoracle/internal/solver"
	"github.com/roach88/smoracle/internal/testutil"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenIsEmpty(t *testing.T) {
	j := openJournal(t)

	runs, err := j.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)
}

func TestJournalsAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := openJournal(t)
	b := openJournal(t)

	require.NoError(t, a.BeginRun(ctx, oracle.RunInfo{RunID: "r1", Oracle: oracle.OracleMatching, Trials: 1}))

	runs, err := b.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBeginRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	first := oracle.RunInfo{RunID: "r1", Oracle: oracle.OracleMatching, Trials: 10, Size: 5, Seed: math.MaxUint64}
	second := oracle.RunInfo{RunID: "r2", Oracle: oracle.OracleTrace, Trials: 3, Size: 2, Seed: 7}
	require.NoError(t, j.BeginRun(ctx, first))
	require.NoError(t, j.BeginRun(ctx, second))

	runs, err := j.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []oracle.RunInfo{first, second}, runs)

	err = j.BeginRun(ctx, first)
	assert.ErrorContains(t, err, "begin run")
}

func TestRecordTrialRequiresRun(t *testing.T) {
	j := openJournal(t)
	err := j.RecordTrial(context.Background(), oracle.TrialRecord{RunID: "missing", Trial: 0, Pass: true})
	assert.ErrorContains(t, err, "record trial")
}

func TestSummaryAndViolations(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	require.NoError(t, j.BeginRun(ctx, oracle.RunInfo{RunID: "r1", Oracle: oracle.OracleMatching, Trials: 4, Size: 3, Seed: 1}))
	require.NoError(t, j.RecordTrial(ctx, oracle.TrialRecord{RunID: "r1", Trial: 0, Fingerprint: "aa", Pass: true}))
	require.NoError(t, j.RecordTrial(ctx, oracle.TrialRecord{RunID: "r1", Trial: 1, Fingerprint: "bb", Pass: true}))
	require.NoError(t, j.RecordTrial(ctx, oracle.TrialRecord{
		RunID: "r1", Trial: 2, Fingerprint: "cc", Kind: oracle.KindUnstable, Message: "UNSTABLE: blocking pair",
	}))

	s, err := j.Summary(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Executed)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, map[oracle.Kind]int{oracle.KindUnstable: 1}, s.ByKind)
	assert.False(t, s.OK())

	vs, err := j.Violations(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, oracle.TrialRecord{
		RunID: "r1", Trial: 2, Fingerprint: "cc", Pass: false, Kind: oracle.KindUnstable, Message: "UNSTABLE: blocking pair",
	}, vs[0])
}

func TestSummaryUnknownRun(t *testing.T) {
	_, err := openJournal(t).Summary(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestJournalAsRecorder(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	o, err := oracle.New(
		oracle.WithTrials(5),
		oracle.WithSize(4),
		oracle.WithRecorder(j),
		oracle.WithRunIDs(testutil.NewFixedRunIDGenerator("journal-run")),
	)
	require.NoError(t, err)
	require.NoError(t, o.Matching(ctx, solver.DeferredAcceptance))

	s, err := j.Summary(ctx, "journal-run")
	require.NoError(t, err)
	assert.True(t, s.OK())
	assert.Equal(t, 5, s.Passed)
	assert.Empty(t, s.ByKind)

	vs, err := j.Violations(ctx, "journal-run")
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestJournalRecordsFailingRun(t *testing.T) {
	ctx := context.Background()
	j := openJournal(t)

	reversed := func(companies, candidates market.Side) market.Matching {
		out := solver.DeferredAcceptance(companies, candidates)
		for i := range out {
			out[i].Candidate = len(out) - 1 - out[i].Candidate
		}
		return out
	}

	err := oracle.RunMatching(reversed,
		oracle.WithTrials(50),
		oracle.WithSize(6),
		oracle.WithRecorder(j),
		oracle.WithRunIDs(testutil.NewFixedRunIDGenerator("bad-run")))
	require.Error(t, err)

	s, serr := j.Summary(ctx, "bad-run")
	require.NoError(t, serr)
	assert.Equal(t, 1, s.Failed)
	assert.False(t, s.OK())

	vs, verr := j.Violations(ctx, "bad-run")
	require.NoError(t, verr)
	require.Len(t, vs, 1)
	assert.Equal(t, oracle.KindOf(err), vs[0].Kind)
	assert.Equal(t, err.Error(), vs[0].Message)
}
