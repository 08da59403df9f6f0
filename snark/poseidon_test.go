package snark

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"

	"github.com/mixbridge/zk-gadgets/common"
	"github.com/mixbridge/zk-gadgets/hash"
	"github.com/mixbridge/zk-gadgets/params"
)

// permuteCircuit asserts Out = Permute(In) for a registered parameter set.
type permuteCircuit struct {
	In  []frontend.Variable
	Out []frontend.Variable `gnark:",public"`

	ParamsName string `gnark:"-"`
}

func (c *permuteCircuit) Define(api frontend.API) error {
	set, err := params.Lookup(c.ParamsName)
	if err != nil {
		return err
	}
	state, err := Permute(api, set, c.In)
	if err != nil {
		return err
	}
	for i := range state {
		api.AssertIsEqual(state[i], c.Out[i])
	}
	return nil
}

func allocatePermute(name string, width int) *permuteCircuit {
	return &permuteCircuit{
		In:         make([]frontend.Variable, width),
		Out:        make([]frontend.Variable, width),
		ParamsName: name,
	}
}

// assignPermute fills a witness with a pseudo-random input and its
// natively-computed image.
func assignPermute(t *testing.T, set *params.ParameterSet) *permuteCircuit {
	t.Helper()
	h, err := hash.NewPoseidon(set)
	require.NoError(t, err)

	in := common.PseudoRandomScalars(set.Width, set.Modulus())
	out, err := h.Permute(in)
	require.NoError(t, err)

	w := allocatePermute(set.Name, set.Width)
	for i := range in {
		w.In[i] = in[i]
		w.Out[i] = out[i]
	}
	return w
}

func TestPermuteMatchesNative(t *testing.T) {
	cases := []struct {
		name  string
		curve ecc.ID
	}{
		{params.PoseidonBn254X5W1, ecc.BN254},
		{params.PoseidonBn254X5W2, ecc.BN254},
		{params.PoseidonBn254X5W3, ecc.BN254},
		{params.PoseidonBn254X5W5, ecc.BN254},
		{params.PoseidonBls12381X5W3, ecc.BLS12_381},
		{params.PoseidonBls12381X5W5, ecc.BLS12_381},
		{params.PoseidonBls12377X17W3, ecc.BLS12_377},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert := test.NewAssert(t)
			set, err := params.Lookup(tc.name)
			require.NoError(t, err)

			circuit := allocatePermute(set.Name, set.Width)
			witness := assignPermute(t, set)
			assert.SolvingSucceeded(circuit, witness,
				test.WithBackends(backend.GROTH16), test.WithCurves(tc.curve))
		})
	}
}

func TestPermuteRejectsWrongImage(t *testing.T) {
	assert := test.NewAssert(t)
	set, err := params.Lookup(params.PoseidonBn254X5W3)
	require.NoError(t, err)

	circuit := allocatePermute(set.Name, set.Width)
	witness := assignPermute(t, set)
	// Shift one claimed output off the true image.
	witness.Out[1] = 12345

	assert.SolvingFailed(circuit, witness,
		test.WithBackends(backend.GROTH16), test.WithCurves(ecc.BN254))
}

// hashCircuit asserts Digest = Hasher(In...).
type hashCircuit struct {
	In     []frontend.Variable
	Digest frontend.Variable `gnark:",public"`

	ParamsName string `gnark:"-"`
}

func (c *hashCircuit) Define(api frontend.API) error {
	set, err := params.Lookup(c.ParamsName)
	if err != nil {
		return err
	}
	h, err := NewHasher(api, set)
	if err != nil {
		return err
	}
	digest, err := h.Hash(c.In...)
	if err != nil {
		return err
	}
	api.AssertIsEqual(digest, c.Digest)
	return nil
}

func TestHasherMatchesNative(t *testing.T) {
	cases := []struct {
		name   string
		curve  ecc.ID
		inputs int
	}{
		{params.PoseidonBn254X5W1, ecc.BN254, 1}, // no capacity slot
		{params.PoseidonBn254X5W3, ecc.BN254, 2},
		{params.PoseidonBn254X5W5, ecc.BN254, 4},
		{params.PoseidonBn254X5W5, ecc.BN254, 3}, // padded rate slot
		{params.PoseidonBls12381X5W3, ecc.BLS12_381, 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert := test.NewAssert(t)
			set, err := params.Lookup(tc.name)
			require.NoError(t, err)

			h, err := hash.NewPoseidon(set)
			require.NoError(t, err)
			in := common.PseudoRandomScalars(tc.inputs, set.Modulus())
			digest, err := h.Hash(in...)
			require.NoError(t, err)

			circuit := &hashCircuit{In: make([]frontend.Variable, tc.inputs), ParamsName: set.Name}
			witness := &hashCircuit{In: make([]frontend.Variable, tc.inputs), ParamsName: set.Name, Digest: digest}
			for i := range in {
				witness.In[i] = in[i]
			}
			assert.SolvingSucceeded(circuit, witness,
				test.WithBackends(backend.GROTH16), test.WithCurves(tc.curve))
		})
	}
}

// A set bound to the wrong constraint-system field must fail at gadget
// construction, not at proof time.
func TestHasherRejectsForeignCurve(t *testing.T) {
	set, err := params.Lookup(params.PoseidonBls12381X5W3)
	require.NoError(t, err)

	circuit := &hashCircuit{In: make([]frontend.Variable, 2), ParamsName: set.Name}
	witness := &hashCircuit{In: []frontend.Variable{1, 2}, ParamsName: set.Name, Digest: 3}
	err = test.IsSolved(circuit, witness, ecc.BN254.ScalarField())
	require.Error(t, err)
}
