// Package hash implements the native reference evaluation of the Poseidon
// and MiMC permutations. Every function here has a constraint-form mirror in
// package snark; the two must agree on every input, which is what the snark
// package tests check.
package hash

import (
	"fmt"
	"math/big"

	"github.com/mixbridge/zk-gadgets/params"
)

// Poseidon evaluates the Poseidon permutation and its sponge-style hash over
// a fixed parameter set.
//
// Hash convention (interoperability contract, do not change): state[0] is the
// capacity slot and starts at zero, the inputs occupy state[1..], unused rate
// slots are padded with zero, and the digest is state[1] after one
// permutation. The width-1 degenerate configuration has no capacity slot: the
// single input sits in state[0] and the digest is state[0].
type Poseidon struct {
	set *params.ParameterSet
	q   *big.Int
}

// NewPoseidon validates the set and returns an evaluator. The evaluator is
// stateless and safe for concurrent use.
func NewPoseidon(set *params.ParameterSet) (*Poseidon, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &Poseidon{set: set, q: set.Modulus()}, nil
}

// Set returns the parameter set the evaluator was built from.
func (h *Poseidon) Set() *params.ParameterSet { return h.set }

// Permute applies the full permutation to state and returns a fresh slice;
// the input slice is left untouched.
func (h *Poseidon) Permute(state []*big.Int) ([]*big.Int, error) {
	set := h.set
	if len(state) != set.Width {
		return nil, fmt.Errorf("%w: %q: state length %d, want width %d",
			params.ErrConfig, set.Name, len(state), set.Width)
	}
	cur := make([]*big.Int, set.Width)
	for i, x := range state {
		cur[i] = new(big.Int).Mod(x, h.q)
	}

	offset := 0
	half := set.FullRounds / 2
	if set.PartialRounds == 0 {
		half = set.FullRounds
	}
	for r := 0; r < half; r++ {
		cur = h.fullRound(cur, &offset)
	}
	for r := 0; r < set.PartialRounds; r++ {
		cur = h.partialRound(cur, &offset)
	}
	if set.PartialRounds > 0 {
		for r := 0; r < half; r++ {
			cur = h.fullRound(cur, &offset)
		}
	}
	return cur, nil
}

// Hash absorbs up to Rate inputs into one permutation call and returns the
// digest element.
func (h *Poseidon) Hash(inputs ...*big.Int) (*big.Int, error) {
	out, err := h.Squeeze(inputs...)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Squeeze is Hash exposing the full rate-sized digest section of the state.
func (h *Poseidon) Squeeze(inputs ...*big.Int) ([]*big.Int, error) {
	set := h.set
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: %q: no inputs", params.ErrConfig, set.Name)
	}
	if len(inputs) > set.Rate {
		return nil, fmt.Errorf("%w: %q: %d inputs exceed rate %d",
			params.ErrConfig, set.Name, len(inputs), set.Rate)
	}
	state := make([]*big.Int, set.Width)
	for i := range state {
		state[i] = new(big.Int)
	}
	base := 1
	if set.Width == 1 {
		base = 0
	}
	for i, in := range inputs {
		state[base+i].Mod(in, h.q)
	}
	out, err := h.Permute(state)
	if err != nil {
		return nil, err
	}
	return out[base : base+set.Rate], nil
}

func (h *Poseidon) fullRound(state []*big.Int, offset *int) []*big.Int {
	for i := range state {
		state[i].Add(state[i], &h.set.RoundConstants[*offset])
		state[i].Mod(state[i], h.q)
		state[i] = h.sbox(state[i])
		*offset++
	}
	return h.mix(state)
}

// partialRound adds a round constant to every element but applies the S-box
// to the first element only.
func (h *Poseidon) partialRound(state []*big.Int, offset *int) []*big.Int {
	for i := range state {
		state[i].Add(state[i], &h.set.RoundConstants[*offset])
		state[i].Mod(state[i], h.q)
		*offset++
	}
	state[0] = h.sbox(state[0])
	return h.mix(state)
}

func (h *Poseidon) sbox(x *big.Int) *big.Int {
	return x.Exp(x, big.NewInt(int64(h.set.SboxExponent)), h.q)
}

func (h *Poseidon) mix(state []*big.Int) []*big.Int {
	next := make([]*big.Int, len(state))
	tmp := new(big.Int)
	for i := range next {
		acc := new(big.Int)
		for j := range state {
			tmp.Mul(&h.set.Mds[i][j], state[j])
			acc.Add(acc, tmp)
		}
		next[i] = acc.Mod(acc, h.q)
	}
	return next
}
