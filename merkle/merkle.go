// Package merkle builds fixed-depth binary Merkle trees over the native
// Poseidon 2-to-1 compression and produces the sibling paths consumed by the
// snark path gadget.
package merkle

import (
	"fmt"
	"math/big"

	"github.com/mixbridge/zk-gadgets/hash"
	"github.com/mixbridge/zk-gadgets/params"
)

// Tree is a complete binary tree of fixed depth. Missing leaves are padded
// with the zero leaf. The depth is fixed at construction because the circuit
// shape of the matching path gadget is fixed per proving key.
type Tree struct {
	depth  int
	hasher *hash.Poseidon

	// levels[0] holds the 1<<depth padded leaves, levels[depth] the root.
	levels [][]*big.Int
}

// NewTree hashes leaves into a tree of the given depth. The set must offer a
// rate of at least two for the 2-to-1 compression.
func NewTree(set *params.ParameterSet, depth int, leaves []*big.Int) (*Tree, error) {
	if depth < 1 {
		return nil, fmt.Errorf("%w: %q: tree depth %d", params.ErrConfig, set.Name, depth)
	}
	if set.Rate < 2 {
		return nil, fmt.Errorf("%w: %q: rate %d cannot compress two children",
			params.ErrConfig, set.Name, set.Rate)
	}
	size := 1 << depth
	if len(leaves) > size {
		return nil, fmt.Errorf("%w: %q: %d leaves exceed capacity %d of depth %d",
			params.ErrConfig, set.Name, len(leaves), size, depth)
	}
	hasher, err := hash.NewPoseidon(set)
	if err != nil {
		return nil, err
	}

	t := &Tree{depth: depth, hasher: hasher, levels: make([][]*big.Int, depth+1)}
	q := set.Modulus()
	t.levels[0] = make([]*big.Int, size)
	for i := 0; i < size; i++ {
		if i < len(leaves) {
			t.levels[0][i] = new(big.Int).Mod(leaves[i], q)
		} else {
			t.levels[0][i] = new(big.Int)
		}
	}
	for lvl := 1; lvl <= depth; lvl++ {
		prev := t.levels[lvl-1]
		t.levels[lvl] = make([]*big.Int, len(prev)/2)
		for i := range t.levels[lvl] {
			parent, err := hasher.Hash(prev[2*i], prev[2*i+1])
			if err != nil {
				return nil, err
			}
			t.levels[lvl][i] = parent
		}
	}
	return t, nil
}

// Depth returns the configured depth.
func (t *Tree) Depth() int { return t.depth }

// Root returns the tree root.
func (t *Tree) Root() *big.Int { return t.levels[t.depth][0] }

// Leaf returns the (padded) leaf at index.
func (t *Tree) Leaf(index int) *big.Int { return t.levels[0][index] }

// Proof returns the sibling path for the leaf at index, bottom-up. isLeft[i]
// reports whether the sibling at level i is the left child.
func (t *Tree) Proof(index int) (siblings []*big.Int, isLeft []bool, err error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, nil, fmt.Errorf("%w: leaf index %d out of range [0,%d)",
			params.ErrConfig, index, len(t.levels[0]))
	}
	siblings = make([]*big.Int, t.depth)
	isLeft = make([]bool, t.depth)
	for lvl := 0; lvl < t.depth; lvl++ {
		siblings[lvl] = t.levels[lvl][index^1]
		isLeft[lvl] = index%2 == 1
		index >>= 1
	}
	return siblings, isLeft, nil
}

// VerifyProof recomputes the root from a leaf and its sibling path and
// compares it against root. This is the native mirror of the path gadget.
func VerifyProof(set *params.ParameterSet, root, leaf *big.Int, siblings []*big.Int, isLeft []bool) (bool, error) {
	if len(siblings) != len(isLeft) {
		return false, fmt.Errorf("%w: %q: %d siblings but %d direction bits",
			params.ErrConfig, set.Name, len(siblings), len(isLeft))
	}
	hasher, err := hash.NewPoseidon(set)
	if err != nil {
		return false, err
	}
	current := new(big.Int).Mod(leaf, set.Modulus())
	for i := range siblings {
		left, right := current, siblings[i]
		if isLeft[i] {
			left, right = siblings[i], current
		}
		current, err = hasher.Hash(left, right)
		if err != nil {
			return false, fmt.Errorf("path position %d: %w", i, err)
		}
	}
	return current.Cmp(new(big.Int).Mod(root, set.Modulus())) == 0, nil
}
