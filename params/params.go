// Package params holds the immutable parameter sets of the hash permutations:
// round constants, diffusion matrices, round counts and S-box exponents, per
// (curve, width, rate) configuration. Sets are built and validated once, at
// registry initialization, and are read-only afterwards.
package params

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

var (
	// ErrConfig reports an inconsistent parameter set. It is always raised
	// before any constraint is emitted.
	ErrConfig = errors.New("params: invalid configuration")

	// ErrUnsupportedExponent reports an S-box exponent that is either not
	// coprime with the multiplicative group order (the S-box would not be a
	// bijection) or has no registered multiplication chain.
	ErrUnsupportedExponent = errors.New("params: unsupported sbox exponent")
)

// sboxExponents are the exponents with a known minimal multiplication chain.
// Coprimality with r-1 is checked per curve in Validate.
var sboxExponents = map[int]bool{3: true, 5: true, 7: true, 17: true}

// ParameterSet describes one permutation instance. A MiMC-style set is the
// width-1 special case: PartialRounds is zero, FullRounds is the round count
// and the diffusion matrix is the 1x1 identity.
//
// A ParameterSet is shared by reference between concurrent circuit
// constructions; callers must treat every field as read-only.
type ParameterSet struct {
	Name          string
	Curve         ecc.ID
	Width         int
	Rate          int
	FullRounds    int
	PartialRounds int
	SboxExponent  int

	// RoundConstants holds Rounds()*Width elements, consumed in order: one
	// per state element per round.
	RoundConstants []big.Int

	// Mds is the Width x Width diffusion matrix.
	Mds [][]big.Int
}

// Rounds returns the total round count.
func (p *ParameterSet) Rounds() int { return p.FullRounds + p.PartialRounds }

// Modulus returns the scalar field modulus of the configured curve.
func (p *ParameterSet) Modulus() *big.Int { return p.Curve.ScalarField() }

// ByteLen returns the canonical (big-endian, fixed width) encoding size of a
// field element under this set.
func (p *ParameterSet) ByteLen() int { return (p.Modulus().BitLen() + 7) / 8 }

// Validate checks the structural invariants of the set. Registered sets are
// validated at init; hand-built sets must be validated before use.
func (p *ParameterSet) Validate() error {
	q := p.Curve.ScalarField()
	if q == nil || q.Sign() == 0 {
		return fmt.Errorf("%w: %q: unknown curve %v", ErrConfig, p.Name, p.Curve)
	}
	if p.Width < 1 {
		return fmt.Errorf("%w: %q: width %d", ErrConfig, p.Name, p.Width)
	}
	switch {
	case p.Width == 1:
		if p.Rate != 1 {
			return fmt.Errorf("%w: %q: width 1 requires rate 1, got %d", ErrConfig, p.Name, p.Rate)
		}
	case p.Rate < 1 || p.Rate >= p.Width:
		return fmt.Errorf("%w: %q: rate %d out of range for width %d", ErrConfig, p.Name, p.Rate, p.Width)
	}
	if p.FullRounds < 1 {
		return fmt.Errorf("%w: %q: full rounds %d", ErrConfig, p.Name, p.FullRounds)
	}
	if p.PartialRounds < 0 {
		return fmt.Errorf("%w: %q: partial rounds %d", ErrConfig, p.Name, p.PartialRounds)
	}
	// The full rounds are split in two halves around the partial rounds.
	if p.PartialRounds > 0 && p.FullRounds%2 != 0 {
		return fmt.Errorf("%w: %q: full rounds %d must be even", ErrConfig, p.Name, p.FullRounds)
	}
	if err := p.validateExponent(q); err != nil {
		return err
	}
	if want, got := p.Rounds()*p.Width, len(p.RoundConstants); want != got {
		return fmt.Errorf("%w: %q: %d round constants, want %d", ErrConfig, p.Name, got, want)
	}
	for i := range p.RoundConstants {
		if p.RoundConstants[i].Sign() < 0 || p.RoundConstants[i].Cmp(q) >= 0 {
			return fmt.Errorf("%w: %q: round constant %d not reduced", ErrConfig, p.Name, i)
		}
	}
	if len(p.Mds) != p.Width {
		return fmt.Errorf("%w: %q: diffusion matrix has %d rows, want %d", ErrConfig, p.Name, len(p.Mds), p.Width)
	}
	for i, row := range p.Mds {
		if len(row) != p.Width {
			return fmt.Errorf("%w: %q: diffusion matrix row %d has %d entries, want %d", ErrConfig, p.Name, i, len(row), p.Width)
		}
		for j := range row {
			if row[j].Sign() < 0 || row[j].Cmp(q) >= 0 {
				return fmt.Errorf("%w: %q: diffusion matrix entry (%d,%d) not reduced", ErrConfig, p.Name, i, j)
			}
		}
	}
	return nil
}

func (p *ParameterSet) validateExponent(q *big.Int) error {
	if !sboxExponents[p.SboxExponent] {
		return fmt.Errorf("%w: %q: x^%d has no multiplication chain", ErrUnsupportedExponent, p.Name, p.SboxExponent)
	}
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))
	gcd := new(big.Int).GCD(nil, nil, big.NewInt(int64(p.SboxExponent)), qMinusOne)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return fmt.Errorf("%w: %q: gcd(%d, r-1) = %v, sbox is not a bijection over %v",
			ErrUnsupportedExponent, p.Name, p.SboxExponent, gcd, p.Curve)
	}
	return nil
}
