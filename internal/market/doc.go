// Package market defines the two-sided market model checked by the oracle.
//
// A market has N companies and N candidates. Each side holds a total, strict
// preference order over every member of the other side, stored as a
// PreferenceList: a permutation of [0,N) where earlier entries are preferred.
//
// Instances are produced by a Generator, which draws every list independently
// with a Fisher–Yates shuffle so that each of the N! orders is equally likely.
//
//	gen := market.NewGenerator(42)
//	inst := gen.Instance(20)
//	hires := mySolver(inst.Companies, inst.Candidates)
//
// Matchings and traces are plain slices. They are created per trial and
// discarded, so nothing in this package is safe for concurrent mutation.
package market
