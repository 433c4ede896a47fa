package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/solver"
)

func tracedFor(inst market.Instance) market.TracedResult {
	return solver.TracedDeferredAcceptance(inst.Companies, inst.Candidates)
}

func TestCheckTraceAcceptsReference(t *testing.T) {
	gen := market.NewGenerator(21)
	for n := 0; n <= 8; n++ {
		inst := gen.Instance(n)
		assert.NoError(t, CheckTrace(inst, tracedFor(inst)), "n=%d", n)
	}
}

func TestCheckTraceLiteral(t *testing.T) {
	result := market.TracedResult{
		Trace: market.Trace{
			{From: 0, To: 0, FromCompany: true},
			{From: 0, To: 1, FromCompany: true},
			{From: 0, To: 0},
			{From: 1, To: 1, FromCompany: true},
			{From: 1, To: 0, FromCompany: true},
			{From: 1, To: 1},
		},
		Out: market.Matching{{Company: 0, Candidate: 0}, {Company: 1, Candidate: 1}},
	}
	assert.NoError(t, CheckTrace(literal, result))
}

func TestCheckTraceViolations(t *testing.T) {
	inst := market.NewGenerator(6).Instance(4)
	good := tracedFor(inst)

	withTrace := func(f func(tr market.Trace) market.Trace) market.TracedResult {
		tr := append(market.Trace(nil), good.Trace...)
		return market.TracedResult{Trace: f(tr), Out: good.Out}
	}

	tests := []struct {
		name   string
		inst   market.Instance
		result market.TracedResult
		kind   Kind
	}{
		{
			name: "missing final acceptance",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				return tr[:len(tr)-1]
			}),
			kind: KindCountMismatch,
		},
		{
			name: "missing offer",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				return tr[1:]
			}),
			kind: KindCountMismatch,
		},
		{
			name: "offer from inactive company",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				tr[0].From = 1
				return tr
			}),
			kind: KindOutOfOrder,
		},
		{
			name: "acceptance for inactive company",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				tr[4].To = 2
				return tr
			}),
			kind: KindOutOfOrder,
		},
		{
			name: "companies processed out of order",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				out := append(market.Trace(nil), tr[5:10]...)
				out = append(out, tr[:5]...)
				return append(out, tr[10:]...)
			}),
			kind: KindOutOfOrder,
		},
		{
			name: "offer to unknown candidate",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				tr[0].To = 4
				return tr
			}),
			kind: KindUnknownReference,
		},
		{
			name: "acceptance by unknown candidate",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				tr[4].From = -1
				return tr
			}),
			kind: KindUnknownReference,
		},
		{
			name: "offer after final acceptance",
			inst: inst,
			result: withTrace(func(tr market.Trace) market.Trace {
				return append(tr, market.TraceEvent{From: 4, To: 0, FromCompany: true})
			}),
			kind: KindUnknownReference,
		},
		{
			name: "output index out of range",
			inst: inst,
			result: market.TracedResult{
				Trace: good.Trace,
				Out:   market.Matching{{Company: 0, Candidate: 9}},
			},
			kind: KindIndexOutOfRange,
		},
		{
			name: "output rank inversion",
			inst: literal,
			result: market.TracedResult{
				Out: market.Matching{{Company: 0, Candidate: 1}, {Company: 0, Candidate: 0}},
			},
			kind: KindUnstable,
		},
		{
			name: "candidate rank inversion",
			inst: literal,
			result: market.TracedResult{
				Out: market.Matching{{Company: 0, Candidate: 1}, {Company: 1, Candidate: 1}},
			},
			kind: KindUnstable,
		},
		{
			name: "malformed instance",
			inst: market.Instance{
				Companies:  market.Side{{0, 1}, {1, 1}},
				Candidates: market.Side{{0, 1}, {1, 0}},
			},
			result: market.TracedResult{},
			kind:   KindIncompletePreferences,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTrace(tt.inst, tt.result)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err), "got %v", err)
		})
	}
}

// A later, less preferred duplicate is tolerated: only rank inversions
// against the recorded partner are reported.
func TestCheckTraceToleratesDuplicates(t *testing.T) {
	result := tracedFor(literal)
	result.Out = append(result.Out, market.Hire{Company: 0, Candidate: 1})

	assert.NoError(t, CheckTrace(literal, result))
}

func TestCheckTraceCountsAcceptances(t *testing.T) {
	inst := market.NewGenerator(30).Instance(3)
	result := tracedFor(inst)

	// Dropping the last acceptance keeps all N*N offers.
	trimmed := append(market.Trace(nil), result.Trace[:len(result.Trace)-1]...)
	err := CheckTrace(inst, market.TracedResult{Trace: trimmed, Out: result.Out})

	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindCountMismatch, v.Kind)
	assert.Equal(t, "3", v.Details["expected"])
	assert.Equal(t, "2", v.Details["actual"])
	assert.Equal(t, CategoryProtocol, v.Kind.Category())
}
