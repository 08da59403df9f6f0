package params

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredSets(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)

	for _, name := range names {
		set, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, set.Name)
		assert.NoError(t, set.Validate(), name)
		assert.Equal(t, set.Rounds()*set.Width, len(set.RoundConstants), name)
		assert.Equal(t, set.Width, len(set.Mds), name)
		for _, row := range set.Mds {
			assert.Equal(t, set.Width, len(row), name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("poseidon-bn254-x5-99")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestDerivationIsDeterministic(t *testing.T) {
	a, err := NewPoseidon("determinism-check", ecc.BN254, 3, 2, 8, 57, 5)
	require.NoError(t, err)
	b, err := NewPoseidon("determinism-check", ecc.BN254, 3, 2, 8, 57, 5)
	require.NoError(t, err)

	for i := range a.RoundConstants {
		assert.Zero(t, a.RoundConstants[i].Cmp(&b.RoundConstants[i]), "round constant %d", i)
	}
	for i := range a.Mds {
		for j := range a.Mds[i] {
			assert.Zero(t, a.Mds[i][j].Cmp(&b.Mds[i][j]), "mds entry (%d,%d)", i, j)
		}
	}

	// A different seed must give a different stream.
	c, err := NewPoseidon("determinism-check-2", ecc.BN254, 3, 2, 8, 57, 5)
	require.NoError(t, err)
	assert.NotZero(t, a.RoundConstants[0].Cmp(&c.RoundConstants[0]))
}

func TestUnsupportedExponent(t *testing.T) {
	// No multiplication chain.
	_, err := NewPoseidon("bad-exp-9", ecc.BN254, 3, 2, 8, 57, 9)
	assert.ErrorIs(t, err, ErrUnsupportedExponent)

	// Even exponents can never be coprime with r-1.
	_, err = NewPoseidon("bad-exp-4", ecc.BN254, 3, 2, 8, 57, 4)
	assert.ErrorIs(t, err, ErrUnsupportedExponent)

	// x^5 is not a bijection over the BLS12-377 scalar field (5 | r-1).
	_, err = NewPoseidon("bad-exp-377", ecc.BLS12_377, 3, 2, 8, 57, 5)
	assert.ErrorIs(t, err, ErrUnsupportedExponent)
}

func TestRateBounds(t *testing.T) {
	_, err := NewPoseidon("bad-rate-eq", ecc.BN254, 3, 3, 8, 57, 5)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewPoseidon("bad-rate-zero", ecc.BN254, 3, 0, 8, 57, 5)
	assert.ErrorIs(t, err, ErrConfig)

	// Degenerate but legal: width 1, rate 1.
	set, err := NewPoseidon("degenerate-w1", ecc.BN254, 1, 1, 8, 20, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Width)
}

func TestOddFullRounds(t *testing.T) {
	_, err := NewPoseidon("odd-full", ecc.BN254, 3, 2, 7, 57, 5)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestHandBuiltSetValidation(t *testing.T) {
	base, err := NewPoseidon("tamper-base", ecc.BN254, 3, 2, 8, 57, 5)
	require.NoError(t, err)

	short := *base
	short.RoundConstants = base.RoundConstants[:len(base.RoundConstants)-1]
	assert.ErrorIs(t, short.Validate(), ErrConfig)

	ragged := *base
	ragged.Mds = [][]big.Int{base.Mds[0], base.Mds[1]}
	assert.ErrorIs(t, ragged.Validate(), ErrConfig)

	unreduced := *base
	unreduced.RoundConstants = append([]big.Int{}, base.RoundConstants...)
	unreduced.RoundConstants[0].Set(unreduced.Modulus())
	assert.ErrorIs(t, unreduced.Validate(), ErrConfig)
}

func TestMimcSetShape(t *testing.T) {
	set, err := Lookup(MimcBn254X7)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Width)
	assert.Equal(t, 0, set.PartialRounds)
	assert.Equal(t, 91, set.FullRounds)
	assert.Equal(t, 91, len(set.RoundConstants))

	// x^7 must be rejected where 7 divides r-1; it does not on BN254, and
	// the registered set relies on that.
	assert.NoError(t, set.Validate())
}
