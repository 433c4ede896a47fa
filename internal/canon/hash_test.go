package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/smoracle/internal/market"
)

func TestInstanceFingerprintStable(t *testing.T) {
	inst := market.NewGenerator(3).Instance(8)

	a := InstanceFingerprint(inst)
	b := InstanceFingerprint(inst.Clone())
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	changed := inst.Clone()
	changed.Companies[0][0], changed.Companies[0][1] = changed.Companies[0][1], changed.Companies[0][0]
	assert.NotEqual(t, a, InstanceFingerprint(changed))
}

func TestFingerprintDomainSeparation(t *testing.T) {
	v := []any{}
	m, err := Fingerprint(DomainMatching, v)
	require.NoError(t, err)
	tr, err := Fingerprint(DomainTrace, v)
	require.NoError(t, err)

	assert.NotEqual(t, m, tr)
	assert.Equal(t, m, MatchingFingerprint(market.Matching{}))
	assert.Equal(t, tr, TraceFingerprint(market.Trace{}))
}

func TestFingerprintError(t *testing.T) {
	_, err := Fingerprint(DomainInstance, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainInstance)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456789ab", Short("0123456789abcdef"))
	assert.Equal(t, "abc", Short("abc"))
}
