package casefile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
	"github.com/roach88/smoracle/internal/solver"
)

func TestCheckRecordedCases(t *testing.T) {
	cases, err := LoadDir(filepath.Join("testdata", "cases"), "")
	require.NoError(t, err)
	require.Len(t, cases, 6)

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			res := Check(c)
			assert.True(t, res.Pass, "expected %s, got %s: %s", res.Expected, res.Actual, res.Message())
			assert.Equal(t, c.Expect, res.Actual)
		})
	}
}

func TestCheckMismatch(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "cases", "literal-identity.yaml"))
	require.NoError(t, err)
	c.Expect = string(oracle.KindUnstable)

	res := Check(c)
	assert.False(t, res.Pass)
	assert.Equal(t, ExpectPass, res.Actual)
	assert.Equal(t, "expected UNSTABLE, but the case passed", res.Message())
}

func TestCheckReportsViolation(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "cases", "literal-swapped.yaml"))
	require.NoError(t, err)
	c.Expect = ExpectPass

	res := Check(c)
	assert.False(t, res.Pass)
	assert.Equal(t, string(oracle.KindUnstable), res.Actual)
	assert.True(t, oracle.IsViolation(res.Err, oracle.KindUnstable))
	assert.Contains(t, res.Message(), "expected pass, got UNSTABLE")
}

func TestCheckReferenceSolverOutputs(t *testing.T) {
	gen := market.NewGenerator(77)
	for n := 0; n < 6; n++ {
		inst := gen.Instance(n)
		traced := solver.TracedDeferredAcceptance(inst.Companies, inst.Candidates)

		c := &Case{
			Name:     "generated",
			Mode:     ModeTrace,
			Instance: inst,
			Hires:    traced.Out,
			Trace:    traced.Trace,
			Expect:   ExpectPass,
		}
		assert.True(t, Check(c).Pass, "n=%d", n)

		c.Mode = ModeMatching
		assert.True(t, Check(c).Pass, "n=%d", n)
	}
}
