package hash

import (
	"fmt"
	"math/big"

	"github.com/mixbridge/zk-gadgets/params"
)

// Mimc evaluates the MiMC block cipher and the Miyaguchi-Preneel hash built
// on it. The round function is state = (state + key + c[i])^e; the final
// round omits the constant addition. Changing either side of that convention
// changes the function and invalidates any verifying key fixed against it.
type Mimc struct {
	set *params.ParameterSet
	q   *big.Int
}

// NewMimc validates the set and returns an evaluator. The set must be a
// width-1 configuration with no partial rounds.
func NewMimc(set *params.ParameterSet) (*Mimc, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if set.Width != 1 || set.PartialRounds != 0 {
		return nil, fmt.Errorf("%w: %q: not a MiMC-style set (width %d, partial rounds %d)",
			params.ErrConfig, set.Name, set.Width, set.PartialRounds)
	}
	return &Mimc{set: set, q: set.Modulus()}, nil
}

// Set returns the parameter set the evaluator was built from.
func (m *Mimc) Set() *params.ParameterSet { return m.set }

// Encrypt runs the keyed permutation on plaintext.
func (m *Mimc) Encrypt(key, plaintext *big.Int) *big.Int {
	rounds := m.set.FullRounds
	e := big.NewInt(int64(m.set.SboxExponent))
	k := new(big.Int).Mod(key, m.q)
	state := new(big.Int).Mod(plaintext, m.q)
	for i := 0; i < rounds; i++ {
		state.Add(state, k)
		if i < rounds-1 {
			state.Add(state, &m.set.RoundConstants[i])
		}
		state.Mod(state, m.q)
		state.Exp(state, e, m.q)
	}
	return state
}

// Hash chains the blocks through the Miyaguchi-Preneel construction: for
// each block, state = Encrypt(block, state) + state + block. An empty input
// hashes to zero.
func (m *Mimc) Hash(inputs ...*big.Int) *big.Int {
	state := new(big.Int)
	for _, block := range inputs {
		b := new(big.Int).Mod(block, m.q)
		r := m.Encrypt(b, state)
		state.Add(state, r)
		state.Add(state, b)
		state.Mod(state, m.q)
	}
	return state
}
