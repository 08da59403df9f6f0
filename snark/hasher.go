package snark

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/mixbridge/zk-gadgets/params"
)

// Hasher is the fixed-arity hash gadget over a Poseidon parameter set. It
// follows the same padding and offset convention as hash.Poseidon: capacity
// slot zero, inputs from slot one, digest at slot one.
type Hasher struct {
	api frontend.API
	set *params.ParameterSet
}

// NewHasher validates the set against the constraint system's field and
// returns a hasher bound to api. A set built for a different curve is a
// configuration error, caught here rather than at proof time.
func NewHasher(api frontend.API, set *params.ParameterSet) (*Hasher, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if field := api.Compiler().Field(); field.Cmp(set.Modulus()) != 0 {
		return nil, fmt.Errorf("%w: %q: set is for %v, constraint system field differs",
			params.ErrConfig, set.Name, set.Curve)
	}
	return &Hasher{api: api, set: set}, nil
}

// Set returns the parameter set the hasher is bound to.
func (h *Hasher) Set() *params.ParameterSet { return h.set }

// Hash absorbs up to Rate inputs into one permutation and returns the digest
// variable.
func (h *Hasher) Hash(inputs ...frontend.Variable) (frontend.Variable, error) {
	set := h.set
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: %q: no inputs", params.ErrConfig, set.Name)
	}
	if len(inputs) > set.Rate {
		return nil, fmt.Errorf("%w: %q: %d inputs exceed rate %d",
			params.ErrConfig, set.Name, len(inputs), set.Rate)
	}
	state := make([]frontend.Variable, set.Width)
	for i := range state {
		state[i] = frontend.Variable(0)
	}
	base := 1
	if set.Width == 1 {
		base = 0
	}
	copy(state[base:], inputs)
	out, err := Permute(h.api, set, state)
	if err != nil {
		return nil, err
	}
	return out[base], nil
}
