package solver

import "github.com/roach88/smoracle/internal/market"

// TracedDeferredAcceptance computes the same matching as DeferredAcceptance
// and reports it through the exhaustive sequential protocol.
//
// Companies are finalized strictly in index order. Company k first offers to
// every candidate in its preference order, then its partner accepts. A
// market of size N therefore yields N*N offers and N acceptances.
func TracedDeferredAcceptance(companies, candidates market.Side) market.TracedResult {
	out := DeferredAcceptance(companies, candidates)
	n := len(companies)

	partner := make([]int, n)
	for _, h := range out {
		partner[h.Company] = h.Candidate
	}

	trace := make(market.Trace, 0, n*n+n)
	for c := 0; c < n; c++ {
		for _, k := range companies[c] {
			trace = append(trace, market.TraceEvent{From: c, To: k, FromCompany: true})
		}
		trace = append(trace, market.TraceEvent{From: partner[c], To: c, FromCompany: false})
	}

	return market.TracedResult{Trace: trace, Out: out}
}
