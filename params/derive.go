package params

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"golang.org/x/crypto/sha3"
)

// NewPoseidon builds a Poseidon parameter set. Round constants are derived
// from a Keccak-256 stream seeded with the set name, reduced into the scalar
// field; the diffusion matrix is the Cauchy matrix m[i][j] = 1/(x_i + y_j)
// with x_i = i and y_j = width + j.
func NewPoseidon(name string, curve ecc.ID, width, rate, fullRounds, partialRounds, exponent int) (*ParameterSet, error) {
	q := curve.ScalarField()
	if q == nil || q.Sign() == 0 {
		return nil, fmt.Errorf("%w: %q: unknown curve %v", ErrConfig, name, curve)
	}
	p := &ParameterSet{
		Name:           name,
		Curve:          curve,
		Width:          width,
		Rate:           rate,
		FullRounds:     fullRounds,
		PartialRounds:  partialRounds,
		SboxExponent:   exponent,
		RoundConstants: deriveConstants(name, (fullRounds+partialRounds)*width, q),
	}
	mds, err := cauchyMatrix(name, width, q)
	if err != nil {
		return nil, err
	}
	p.Mds = mds
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewMimc builds a MiMC parameter set: width 1, no partial rounds, identity
// diffusion layer. The constrained and native evaluations both skip the
// constant addition in the final round.
func NewMimc(name string, curve ecc.ID, rounds, exponent int) (*ParameterSet, error) {
	q := curve.ScalarField()
	if q == nil || q.Sign() == 0 {
		return nil, fmt.Errorf("%w: %q: unknown curve %v", ErrConfig, name, curve)
	}
	p := &ParameterSet{
		Name:           name,
		Curve:          curve,
		Width:          1,
		Rate:           1,
		FullRounds:     rounds,
		PartialRounds:  0,
		SboxExponent:   exponent,
		RoundConstants: deriveConstants(name, rounds, q),
		Mds:            [][]big.Int{{*big.NewInt(1)}},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// deriveConstants expands a seed string into n reduced field elements by
// iterating Keccak-256 over its own output. The stream depends only on the
// seed, so two derivations of the same set are identical.
func deriveConstants(seed string, n int, q *big.Int) []big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(seed))
	buf := h.Sum(nil)

	res := make([]big.Int, n)
	for i := range res {
		h.Reset()
		h.Write(buf)
		buf = h.Sum(nil)
		res[i].SetBytes(buf)
		res[i].Mod(&res[i], q)
	}
	return res
}

// cauchyMatrix returns the width x width matrix with entries 1/(x_i + y_j),
// x_i = i, y_j = width + j. All denominators are in [width, 3*width-2], far
// below any scalar field modulus, so the inversions cannot fail for a sane
// width; a non-invertible denominator is still reported rather than ignored.
func cauchyMatrix(name string, width int, q *big.Int) ([][]big.Int, error) {
	m := make([][]big.Int, width)
	for i := 0; i < width; i++ {
		m[i] = make([]big.Int, width)
		for j := 0; j < width; j++ {
			d := big.NewInt(int64(i + width + j))
			if d.ModInverse(d, q) == nil {
				return nil, fmt.Errorf("%w: %q: diffusion entry (%d,%d) is not invertible", ErrConfig, name, i, j)
			}
			m[i][j] = *d
		}
	}
	return m, nil
}
