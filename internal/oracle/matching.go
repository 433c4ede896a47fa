package oracle

import (
	"fmt"

	"github.com/roach88/smoracle/internal/market"
)

// CheckMatching verifies that hires is a complete, stable matching for inst.
//
// Checks run in a fixed order so each failure is reported under the most
// specific kind: cardinality, index range, double booking, preference
// completeness, coverage and finally stability. The first failure is
// returned as a *Violation.
func CheckMatching(inst market.Instance, hires market.Matching) error {
	n := inst.N()

	if len(hires) != n {
		return newViolation(KindCardinality,
			fmt.Sprintf("expected %d hires, got %d", n, len(hires)),
			"expected", n, "actual", len(hires))
	}

	for i, h := range hires {
		if h.Company < 0 || h.Company >= n || h.Candidate < 0 || h.Candidate >= n {
			return newViolation(KindIndexOutOfRange,
				fmt.Sprintf("hire %d %s references an index outside [0,%d)", i, h, n),
				"hire", i, "company", h.Company, "candidate", h.Candidate)
		}
	}

	companyOf := make([]int, n)
	candidateOf := make([]int, n)
	for i := 0; i < n; i++ {
		companyOf[i] = -1
		candidateOf[i] = -1
	}
	for i, h := range hires {
		if candidateOf[h.Company] != -1 {
			return newViolation(KindDoubleBooking,
				fmt.Sprintf("company %d hired twice (candidates %d and %d)", h.Company, candidateOf[h.Company], h.Candidate),
				"hire", i, "company", h.Company)
		}
		if companyOf[h.Candidate] != -1 {
			return newViolation(KindDoubleBooking,
				fmt.Sprintf("candidate %d hired twice (companies %d and %d)", h.Candidate, companyOf[h.Candidate], h.Company),
				"hire", i, "candidate", h.Candidate)
		}
		candidateOf[h.Company] = h.Candidate
		companyOf[h.Candidate] = h.Company
	}

	if err := checkPreferences(inst); err != nil {
		return err
	}

	for c := 0; c < n; c++ {
		if candidateOf[c] == -1 {
			return newViolation(KindMissingCoverage,
				fmt.Sprintf("company %d is not matched", c), "company", c)
		}
		if companyOf[c] == -1 {
			return newViolation(KindMissingCoverage,
				fmt.Sprintf("candidate %d is not matched", c), "candidate", c)
		}
	}

	return checkStability(inst, hires, candidateOf)
}

// checkPreferences verifies that every list on both sides is a permutation
// of [0,N). Generated instances always satisfy this.
func checkPreferences(inst market.Instance) error {
	n := inst.N()
	if len(inst.Candidates) != n {
		return newViolation(KindIncompletePreferences,
			fmt.Sprintf("%d companies but %d candidates", n, len(inst.Candidates)))
	}
	for i, list := range inst.Companies {
		if !list.IsPermutation(n) {
			return newViolation(KindIncompletePreferences,
				fmt.Sprintf("company %d preferences %v are not a permutation of [0,%d)", i, []int(list), n),
				"company", i)
		}
	}
	for i, list := range inst.Candidates {
		if !list.IsPermutation(n) {
			return newViolation(KindIncompletePreferences,
				fmt.Sprintf("candidate %d preferences %v are not a permutation of [0,%d)", i, []int(list), n),
				"candidate", i)
		}
	}
	return nil
}

// checkStability applies the immediate-predecessor blocking-pair check.
//
// For each hire (c,k) where k does not rank c first, c' is the company k
// ranks immediately ahead of c. The pair (c',k) blocks when c' also prefers
// k to its own partner.
func checkStability(inst market.Instance, hires market.Matching, candidateOf []int) error {
	for _, h := range hires {
		prefs := inst.Candidates[h.Candidate]
		rank := prefs.IndexOf(h.Company)
		if rank <= 0 {
			continue
		}
		rival := prefs[rank-1]
		rivalPartner := candidateOf[rival]
		rivalPrefs := inst.Companies[rival]
		if rivalPrefs.IndexOf(h.Candidate) < rivalPrefs.IndexOf(rivalPartner) {
			return newViolation(KindUnstable,
				fmt.Sprintf("company %d and candidate %d prefer each other over their partners (candidate %d, company %d)",
					rival, h.Candidate, rivalPartner, h.Company),
				"company", rival, "candidate", h.Candidate)
		}
	}
	return nil
}
