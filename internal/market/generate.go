package market

import (
	"fmt"
	"math/rand/v2"
)

// GenerateSide returns n independent uniform random permutations of [0,n),
// one per entity on a side of the market.
//
// Panics if n is negative.
func GenerateSide(rng *rand.Rand, n int) Side {
	if n < 0 {
		panic(fmt.Sprintf("market: negative side size %d", n))
	}
	side := make(Side, n)
	for i := range side {
		side[i] = shuffled(rng, n)
	}
	return side
}

// shuffled builds the identity permutation of [0,n) and applies an in-place
// Fisher–Yates shuffle.
func shuffled(rng *rand.Rand, n int) PreferenceList {
	list := make(PreferenceList, n)
	for i := range list {
		list[i] = i
	}
	for j := n - 1; j >= 1; j-- {
		k := rng.IntN(j + 1)
		list[j], list[k] = list[k], list[j]
	}
	return list
}

// Source supplies the instances a validation run checks.
type Source interface {
	Instance(n int) Instance
}

// Generator draws random instances from a seeded PCG stream.
// The same seed always yields the same sequence of instances.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Side returns one freshly shuffled side of size n.
func (g *Generator) Side(n int) Side {
	return GenerateSide(g.rng, n)
}

// Instance returns a fresh instance of size n. Companies are drawn first.
func (g *Generator) Instance(n int) Instance {
	companies := g.Side(n)
	candidates := g.Side(n)
	return Instance{Companies: companies, Candidates: candidates}
}

// FixedSource replays the same instance on every draw.
// The requested size is ignored.
type FixedSource struct {
	inst Instance
}

// NewFixedSource returns a Source that always yields a copy of inst.
func NewFixedSource(inst Instance) *FixedSource {
	return &FixedSource{inst: inst}
}

// Instance returns a deep copy of the fixed instance so solvers cannot
// corrupt later trials.
func (s *FixedSource) Instance(int) Instance {
	return s.inst.Clone()
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	return Instance{
		Companies:  in.Companies.Clone(),
		Candidates: in.Candidates.Clone(),
	}
}

// Clone returns a deep copy of the side.
func (s Side) Clone() Side {
	if s == nil {
		return nil
	}
	out := make(Side, len(s))
	for i, list := range s {
		out[i] = append(PreferenceList(nil), list...)
	}
	return out
}
