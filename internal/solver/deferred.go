package solver

import "github.com/roach88/smoracle/internal/market"

// DeferredAcceptance computes the company-optimal stable matching with the
// company-proposing Gale–Shapley algorithm.
//
// Free companies wait in a FIFO queue. Each proposes to the best candidate it
// has not yet approached; the candidate keeps whichever company it ranks
// higher and the other company rejoins the queue.
func DeferredAcceptance(companies, candidates market.Side) market.Matching {
	n := len(companies)
	rank := rankTable(candidates)

	next := make([]int, n)
	companyOf := make([]int, n)
	for i := range companyOf {
		companyOf[i] = -1
	}

	free := make([]int, n)
	for i := range free {
		free[i] = i
	}

	for len(free) > 0 {
		c := free[0]
		free = free[1:]

		k := companies[c][next[c]]
		next[c]++

		held := companyOf[k]
		switch {
		case held == -1:
			companyOf[k] = c
		case rank[k][c] < rank[k][held]:
			companyOf[k] = c
			free = append(free, held)
		default:
			free = append(free, c)
		}
	}

	hires := make(market.Matching, 0, n)
	candidateOf := invert(companyOf)
	for c := 0; c < n; c++ {
		hires = append(hires, market.Hire{Company: c, Candidate: candidateOf[c]})
	}
	return hires
}

// rankTable returns rank[k][c], the position of company c on candidate k's list.
func rankTable(candidates market.Side) [][]int {
	rank := make([][]int, len(candidates))
	for k, list := range candidates {
		rank[k] = make([]int, len(list))
		for pos, c := range list {
			rank[k][c] = pos
		}
	}
	return rank
}

func invert(companyOf []int) []int {
	candidateOf := make([]int, len(companyOf))
	for k, c := range companyOf {
		candidateOf[c] = k
	}
	return candidateOf
}
