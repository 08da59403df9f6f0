package snark

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/mixbridge/zk-gadgets/params"
)

// VerifyPath walks a sibling path from leaf to root and enforces that the
// recomputed root equals root. isLeft[i] selects whether the sibling at
// level i is the left child; each direction bit is boolean-constrained
// before it drives the one-multiplication mux on either side.
func VerifyPath(api frontend.API, h *Hasher, leaf frontend.Variable, siblings, isLeft []frontend.Variable, root frontend.Variable) error {
	if len(siblings) != len(isLeft) {
		return fmt.Errorf("%w: %q: %d siblings but %d direction bits",
			params.ErrConfig, h.set.Name, len(siblings), len(isLeft))
	}
	current := leaf
	for i := range siblings {
		api.AssertIsBoolean(isLeft[i])
		left := api.Select(isLeft[i], siblings[i], current)
		right := api.Select(isLeft[i], current, siblings[i])
		parent, err := h.Hash(left, right)
		if err != nil {
			return fmt.Errorf("path position %d: %w", i, err)
		}
		current = parent
	}
	api.AssertIsEqual(current, root)
	return nil
}
