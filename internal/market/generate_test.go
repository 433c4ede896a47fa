package market

import (
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSidePermutationProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("every list is a permutation of [0,n)", prop.ForAll(
		func(n int, seed uint64) bool {
			side := GenerateSide(rand.New(rand.NewPCG(seed, 7)), n)
			if len(side) != n {
				return false
			}
			for _, list := range side {
				if !list.IsPermutation(n) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

func TestGenerateSideEmpty(t *testing.T) {
	side := GenerateSide(rand.New(rand.NewPCG(1, 2)), 0)
	assert.Empty(t, side)
}

func TestGenerateSideSingleton(t *testing.T) {
	side := GenerateSide(rand.New(rand.NewPCG(1, 2)), 1)
	require.Len(t, side, 1)
	assert.Equal(t, PreferenceList{0}, side[0])
}

func TestGenerateSideNegativePanics(t *testing.T) {
	assert.Panics(t, func() {
		GenerateSide(rand.New(rand.NewPCG(1, 2)), -1)
	})
}

// TestGenerateSideUniformity runs a chi-square goodness-of-fit test over the
// 3! orders of a three-entity side. The seed is fixed, so the statistic is
// deterministic; the bound is the 0.001 critical value for 5 degrees of freedom.
func TestGenerateSideUniformity(t *testing.T) {
	const (
		n        = 3
		draws    = 6000
		critical = 20.515
	)
	rng := rand.New(rand.NewPCG(2024, 11))
	counts := map[int]int{}
	samples := 0
	for i := 0; i < draws; i++ {
		for _, list := range GenerateSide(rng, n) {
			counts[list[0]*9+list[1]*3+list[2]]++
			samples++
		}
	}
	require.Len(t, counts, 6, "every permutation should appear")

	expected := float64(samples) / 6
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	assert.Less(t, chi, critical, "chi-square statistic %.3f over counts %v", chi, counts)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(99).Instance(12)
	b := NewGenerator(99).Instance(12)
	assert.Equal(t, a, b)

	c := NewGenerator(100).Instance(12)
	assert.NotEqual(t, a, c)
}

func TestGeneratorInstanceShape(t *testing.T) {
	inst := NewGenerator(5).Instance(20)
	assert.Equal(t, 20, inst.N())
	require.Len(t, inst.Candidates, 20)
	for i := 0; i < 20; i++ {
		assert.True(t, inst.Companies[i].IsPermutation(20), "company %d", i)
		assert.True(t, inst.Candidates[i].IsPermutation(20), "candidate %d", i)
	}
}

func TestFixedSourceReturnsCopies(t *testing.T) {
	inst := Instance{
		Companies:  Side{{0, 1}, {1, 0}},
		Candidates: Side{{0, 1}, {1, 0}},
	}
	src := NewFixedSource(inst)

	first := src.Instance(0)
	first.Companies[0][0] = 7

	second := src.Instance(0)
	assert.Equal(t, inst, second)
	assert.Equal(t, 0, inst.Companies[0][0])
}
