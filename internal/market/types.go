package market

import "fmt"

// PreferenceList is an ordered permutation of opposite-side indices.
// Position encodes rank: index 0 is the most preferred.
type PreferenceList []int

// IndexOf returns the position of v in the list, or -1 if v is absent.
func (p PreferenceList) IndexOf(v int) int {
	for i, x := range p {
		if x == v {
			return i
		}
	}
	return -1
}

// IsPermutation reports whether p holds every index in [0,n) exactly once.
func (p PreferenceList) IsPermutation(n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Side maps an entity index to its preference list.
type Side []PreferenceList

// Instance is one complete preference profile for both sides of the market.
type Instance struct {
	Companies  Side `json:"companies" yaml:"companies"`
	Candidates Side `json:"candidates" yaml:"candidates"`
}

// N returns the size of the market.
func (in Instance) N() int {
	return len(in.Companies)
}

// Hire pairs one company with one candidate.
type Hire struct {
	Company   int `json:"company" yaml:"company"`
	Candidate int `json:"candidate" yaml:"candidate"`
}

func (h Hire) String() string {
	return fmt.Sprintf("(%d,%d)", h.Company, h.Candidate)
}

// Matching is the sequence of hires returned by a solver.
type Matching []Hire

// TraceEvent is one protocol step.
//
// When FromCompany is true, company From makes an offer to candidate To.
// When false, the event is an acceptance finalizing company To, with From
// naming the accepting candidate.
type TraceEvent struct {
	From        int  `json:"from" yaml:"from"`
	To          int  `json:"to" yaml:"to"`
	FromCompany bool `json:"from_company" yaml:"from_company"`
}

// IsOffer reports whether the event is an offer rather than an acceptance.
func (e TraceEvent) IsOffer() bool {
	return e.FromCompany
}

func (e TraceEvent) String() string {
	if e.FromCompany {
		return fmt.Sprintf("offer company=%d -> candidate=%d", e.From, e.To)
	}
	return fmt.Sprintf("accept candidate=%d -> company=%d", e.From, e.To)
}

// Trace is an ordered sequence of protocol events. Order is significant.
type Trace []TraceEvent

// TracedResult is what a traced solver returns: the protocol steps it took
// and the matching it settled on.
type TracedResult struct {
	Trace Trace    `json:"trace" yaml:"trace"`
	Out   Matching `json:"out" yaml:"out"`
}

// Solver computes a matching for the given preferences.
type Solver func(companies, candidates Side) Matching

// TracedSolver computes a matching and reports the protocol events it performed.
type TracedSolver func(companies, candidates Side) TracedResult
