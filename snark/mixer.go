package snark

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/mixbridge/zk-gadgets/hash"
	"github.com/mixbridge/zk-gadgets/params"
)

// MixerCircuit proves membership of a hidden commitment in a Merkle tree and
// correct derivation of its nullifier:
//
//	leaf          = H_leaf(R, Nullifier, Rho)
//	NullifierHash = H_leaf(Nullifier, Nullifier)
//	root(leaf, Siblings, IsLeft) == Root
//
// The circuit proves derivation only; rejecting a reused NullifierHash is
// the surrounding ledger's job. The leaf hash needs arity three, so
// LeafParams must name a set with rate >= 3; TreeParams needs rate >= 2.
type MixerCircuit struct {
	R         frontend.Variable `gnark:",secret"`
	Nullifier frontend.Variable `gnark:",secret"`
	Rho       frontend.Variable `gnark:",secret"`

	Siblings []frontend.Variable `gnark:",secret"`
	IsLeft   []frontend.Variable `gnark:",secret"`

	Root          frontend.Variable `gnark:",public"`
	NullifierHash frontend.Variable `gnark:",public"`

	LeafParams string `gnark:"-"`
	TreeParams string `gnark:"-"`
}

// NewMixerCircuit returns a compile-time placeholder with the path slices
// sized for depth. Depth is part of the circuit shape: a proving key built
// from this placeholder only accepts witnesses of the same depth.
func NewMixerCircuit(leafParams, treeParams string, depth int) *MixerCircuit {
	return &MixerCircuit{
		Siblings:   make([]frontend.Variable, depth),
		IsLeft:     make([]frontend.Variable, depth),
		LeafParams: leafParams,
		TreeParams: treeParams,
	}
}

// CacheKey identifies the circuit shape for compiled-artifact caching.
func (c *MixerCircuit) CacheKey() string {
	return fmt.Sprintf("mixer-%s-%s-%d", c.LeafParams, c.TreeParams, len(c.Siblings))
}

// Define declares the mixer constraints.
func (c *MixerCircuit) Define(api frontend.API) error {
	leafSet, err := params.Lookup(c.LeafParams)
	if err != nil {
		return err
	}
	treeSet, err := params.Lookup(c.TreeParams)
	if err != nil {
		return err
	}
	leafHasher, err := NewHasher(api, leafSet)
	if err != nil {
		return err
	}
	treeHasher, err := NewHasher(api, treeSet)
	if err != nil {
		return err
	}

	leaf, err := leafHasher.Hash(c.R, c.Nullifier, c.Rho)
	if err != nil {
		return err
	}
	nullifierHash, err := leafHasher.Hash(c.Nullifier, c.Nullifier)
	if err != nil {
		return err
	}
	api.AssertIsEqual(nullifierHash, c.NullifierHash)

	return VerifyPath(api, treeHasher, leaf, c.Siblings, c.IsLeft, c.Root)
}

// MixerSecrets are the private opening of one commitment.
type MixerSecrets struct {
	R         *big.Int
	Nullifier *big.Int
	Rho       *big.Int
}

// Leaf computes the commitment leaf natively.
func (s MixerSecrets) Leaf(set *params.ParameterSet) (*big.Int, error) {
	hasher, err := hash.NewPoseidon(set)
	if err != nil {
		return nil, err
	}
	return hasher.Hash(s.R, s.Nullifier, s.Rho)
}

// NullifierHash computes the nullifier natively. The secret is hashed with
// itself, which separates the nullifier domain from the leaf domain (a leaf
// preimage has three slots, a nullifier preimage two).
func (s MixerSecrets) NullifierHash(set *params.ParameterSet) (*big.Int, error) {
	hasher, err := hash.NewPoseidon(set)
	if err != nil {
		return nil, err
	}
	return hasher.Hash(s.Nullifier, s.Nullifier)
}

// NewMixerAssignment prepares a full witness natively. Malformed inputs,
// like a path whose length differs from the placeholder depth, fail here,
// before any constraint system is involved.
func NewMixerAssignment(leafSet, treeSet *params.ParameterSet, depth int, secrets MixerSecrets, siblings []*big.Int, isLeft []bool, root *big.Int) (*MixerCircuit, error) {
	if len(siblings) != depth || len(isLeft) != depth {
		return nil, fmt.Errorf("%w: path length %d/%d, configured depth %d",
			params.ErrConfig, len(siblings), len(isLeft), depth)
	}
	nullifierHash, err := secrets.NullifierHash(leafSet)
	if err != nil {
		return nil, err
	}

	a := &MixerCircuit{
		R:             secrets.R,
		Nullifier:     secrets.Nullifier,
		Rho:           secrets.Rho,
		Siblings:      make([]frontend.Variable, depth),
		IsLeft:        make([]frontend.Variable, depth),
		Root:          root,
		NullifierHash: nullifierHash,
		LeafParams:    leafSet.Name,
		TreeParams:    treeSet.Name,
	}
	for i := 0; i < depth; i++ {
		a.Siblings[i] = siblings[i]
		if isLeft[i] {
			a.IsLeft[i] = 1
		} else {
			a.IsLeft[i] = 0
		}
	}
	return a, nil
}
