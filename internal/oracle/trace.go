package oracle

import (
	"fmt"

	"github.com/roach88/smoracle/internal/market"
)

// CheckTrace verifies a traced solver's result against inst.
//
// The instance itself is checked first, then the output matching is scanned
// for rank inversions among repeated entries, and finally the trace is
// folded left to right through the offer/acceptance protocol. The first failure is returned as a *Violation.
func CheckTrace(inst market.Instance, result market.TracedResult) error {
	if err := checkPreferences(inst); err != nil {
		return err
	}
	if err := checkOutputStability(inst, result.Out); err != nil {
		return err
	}
	return checkProtocol(inst, result.Trace)
}

// checkOutputStability scans out in order, recording the first partner seen
// for every company and candidate. When a key reappears with a different
// partner, the recorded partner must not rank strictly below the new one.
//
// It does not require out to be a bijection.
func checkOutputStability(inst market.Instance, out market.Matching) error {
	n := inst.N()
	candidateOf := make(map[int]int, n)
	companyOf := make(map[int]int, n)

	for i, h := range out {
		if h.Company < 0 || h.Company >= n || h.Candidate < 0 || h.Candidate >= n {
			return newViolation(KindIndexOutOfRange,
				fmt.Sprintf("output hire %d %s references an index outside [0,%d)", i, h, n),
				"hire", i, "company", h.Company, "candidate", h.Candidate)
		}

		if prev, ok := candidateOf[h.Company]; !ok {
			candidateOf[h.Company] = h.Candidate
		} else if prev != h.Candidate {
			prefs := inst.Companies[h.Company]
			if prefs.IndexOf(prev) > prefs.IndexOf(h.Candidate) {
				return newViolation(KindUnstable,
					fmt.Sprintf("company %d holds candidate %d but prefers candidate %d", h.Company, prev, h.Candidate),
					"hire", i, "company", h.Company)
			}
		}

		if prev, ok := companyOf[h.Candidate]; !ok {
			companyOf[h.Candidate] = h.Company
		} else if prev != h.Company {
			prefs := inst.Candidates[h.Candidate]
			if prefs.IndexOf(prev) > prefs.IndexOf(h.Company) {
				return newViolation(KindUnstable,
					fmt.Sprintf("candidate %d holds company %d but prefers company %d", h.Candidate, prev, h.Company),
					"hire", i, "candidate", h.Candidate)
			}
		}
	}
	return nil
}

// protocolState is the fold accumulator for the trace scan. hireIndex is the
// active company; it only advances on acceptance.
type protocolState struct {
	hireIndex int
	numOffers int
}

// step applies one event to the state, returning the next state or the
// violation the event causes.
func (s protocolState) step(inst market.Instance, pos int, ev market.TraceEvent) (protocolState, error) {
	n := inst.N()
	if ev.IsOffer() {
		if ev.From != s.hireIndex {
			return s, newViolation(KindOutOfOrder,
				fmt.Sprintf("event %d: offer from company %d while company %d is active", pos, ev.From, s.hireIndex),
				"event", pos, "company", ev.From, "active", s.hireIndex)
		}
		if ev.To < 0 || ev.To >= n || inst.Candidates[ev.To].IndexOf(ev.From) == -1 {
			return s, newViolation(KindUnknownReference,
				fmt.Sprintf("event %d: company %d is not on candidate %d's list", pos, ev.From, ev.To),
				"event", pos, "company", ev.From, "candidate", ev.To)
		}
		s.numOffers++
		return s, nil
	}

	if ev.To != s.hireIndex {
		return s, newViolation(KindOutOfOrder,
			fmt.Sprintf("event %d: acceptance for company %d while company %d is active", pos, ev.To, s.hireIndex),
			"event", pos, "company", ev.To, "active", s.hireIndex)
	}
	// Only the accepting candidate's list is consulted. checkPreferences has
	// made every company list a permutation, so an in-range candidate is
	// always on company To's list.
	if ev.From < 0 || ev.From >= n || inst.Candidates[ev.From].IndexOf(ev.To) == -1 {
		return s, newViolation(KindUnknownReference,
			fmt.Sprintf("event %d: company %d is not on candidate %d's list", pos, ev.To, ev.From),
			"event", pos, "company", ev.To, "candidate", ev.From)
	}
	s.hireIndex++
	return s, nil
}

// checkProtocol folds the trace through protocolState and checks the final
// counts: every company makes N offers and every company is accepted once.
func checkProtocol(inst market.Instance, trace market.Trace) error {
	n := inst.N()
	var s protocolState
	for i, ev := range trace {
		next, err := s.step(inst, i, ev)
		if err != nil {
			return err
		}
		s = next
	}

	if s.numOffers != n*n {
		return newViolation(KindCountMismatch,
			fmt.Sprintf("expected %d offers, trace has %d", n*n, s.numOffers),
			"expected", n*n, "actual", s.numOffers)
	}
	if s.hireIndex != n {
		return newViolation(KindCountMismatch,
			fmt.Sprintf("expected %d acceptances, trace has %d", n, s.hireIndex),
			"expected", n, "actual", s.hireIndex)
	}
	return nil
}
