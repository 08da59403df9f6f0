// Package snark holds the constraint-form gadgets: the Poseidon and MiMC
// permutations, the fixed-arity hasher, the Merkle path check and the mixer
// membership/nullifier circuit. Each gadget mirrors a native evaluation in
// package hash; additions and diffusion layers stay inside linear
// combinations, only the S-boxes spend multiplication constraints.
package snark

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/mixbridge/zk-gadgets/params"
)

// Permute emits the constraints of one Poseidon permutation and returns the
// output state. The caller is expected to have validated the set (NewHasher
// does); the state length is still checked so a shape mismatch fails before
// any constraint is emitted.
func Permute(api frontend.API, set *params.ParameterSet, state []frontend.Variable) ([]frontend.Variable, error) {
	if len(state) != set.Width {
		return nil, fmt.Errorf("%w: %q: state length %d, want width %d",
			params.ErrConfig, set.Name, len(state), set.Width)
	}
	cur := make([]frontend.Variable, len(state))
	copy(cur, state)

	offset := 0
	half := set.FullRounds / 2
	if set.PartialRounds == 0 {
		half = set.FullRounds
	}
	for r := 0; r < half; r++ {
		cur = fullRound(api, set, cur, &offset)
	}
	for r := 0; r < set.PartialRounds; r++ {
		cur = partialRound(api, set, cur, &offset)
	}
	if set.PartialRounds > 0 {
		for r := 0; r < half; r++ {
			cur = fullRound(api, set, cur, &offset)
		}
	}
	return cur, nil
}

func fullRound(api frontend.API, set *params.ParameterSet, state []frontend.Variable, offset *int) []frontend.Variable {
	for i := range state {
		state[i] = api.Add(state[i], &set.RoundConstants[*offset])
		state[i] = sbox(api, set.SboxExponent, state[i])
		*offset++
	}
	return mix(api, set, state)
}

// partialRound adds a round constant to every element but applies the S-box
// to the first element only, matching the native evaluation.
func partialRound(api frontend.API, set *params.ParameterSet, state []frontend.Variable, offset *int) []frontend.Variable {
	for i := range state {
		state[i] = api.Add(state[i], &set.RoundConstants[*offset])
		*offset++
	}
	state[0] = sbox(api, set.SboxExponent, state[0])
	return mix(api, set, state)
}

// sbox raises x to a validated exponent with the minimal multiplication
// chain: 2 constraints for x^3, 3 for x^5, 4 for x^7, 5 for x^17.
// Unsupported exponents are rejected when the parameter set is validated,
// long before this point.
func sbox(api frontend.API, exponent int, x frontend.Variable) frontend.Variable {
	switch exponent {
	case 3:
		x2 := api.Mul(x, x)
		return api.Mul(x2, x)
	case 5:
		x2 := api.Mul(x, x)
		x4 := api.Mul(x2, x2)
		return api.Mul(x4, x)
	case 7:
		x2 := api.Mul(x, x)
		x3 := api.Mul(x2, x)
		x6 := api.Mul(x3, x3)
		return api.Mul(x6, x)
	case 17:
		x2 := api.Mul(x, x)
		x4 := api.Mul(x2, x2)
		x8 := api.Mul(x4, x4)
		x16 := api.Mul(x8, x8)
		return api.Mul(x16, x)
	default:
		panic(fmt.Sprintf("snark: sbox exponent %d escaped parameter validation", exponent))
	}
}

// mix multiplies the state by the diffusion matrix. Matrix entries are
// constants, so the whole layer folds into linear combinations and costs no
// constraints.
func mix(api frontend.API, set *params.ParameterSet, state []frontend.Variable) []frontend.Variable {
	next := make([]frontend.Variable, len(state))
	for i := range next {
		acc := frontend.Variable(0)
		for j := range state {
			acc = api.Add(acc, api.Mul(&set.Mds[i][j], state[j]))
		}
		next[i] = acc
	}
	return next
}
