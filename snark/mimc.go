package snark

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/mixbridge/zk-gadgets/params"
)

// EncryptMimc emits the constraints of the MiMC keyed permutation. As in the
// native evaluation, the final round skips the constant addition.
func EncryptMimc(api frontend.API, set *params.ParameterSet, key, plaintext frontend.Variable) (frontend.Variable, error) {
	if set.Width != 1 || set.PartialRounds != 0 {
		return nil, fmt.Errorf("%w: %q: not a MiMC-style set (width %d, partial rounds %d)",
			params.ErrConfig, set.Name, set.Width, set.PartialRounds)
	}
	rounds := set.FullRounds
	state := plaintext
	for i := 0; i < rounds; i++ {
		if i < rounds-1 {
			state = api.Add(state, key, &set.RoundConstants[i])
		} else {
			state = api.Add(state, key)
		}
		state = sbox(api, set.SboxExponent, state)
	}
	return state, nil
}

// HashMimc emits the Miyaguchi-Preneel chain over the blocks, mirroring the
// native Mimc.Hash.
func HashMimc(api frontend.API, set *params.ParameterSet, blocks ...frontend.Variable) (frontend.Variable, error) {
	state := frontend.Variable(0)
	for _, block := range blocks {
		r, err := EncryptMimc(api, set, block, state)
		if err != nil {
			return nil, err
		}
		state = api.Add(state, r, block)
	}
	return state, nil
}
