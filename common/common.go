// Package common holds the small helpers shared by tests and benchmarks.
package common

import (
	"fmt"
	"math/big"
)

// PseudoRandomScalars returns a deterministic array of reduced field
// elements. Deterministic on purpose: the same vector reproduces the same
// circuit assignment across runs.
func PseudoRandomScalars(n int, q *big.Int) []*big.Int {
	res := make([]*big.Int, n)
	for i := range res {
		v := uint64(i)*uint64(i) ^ 0xf45c9df123f
		res[i] = new(big.Int).SetUint64(v)
		res[i].Mul(res[i], res[i])
		res[i].Mod(res[i], q)
	}
	return res
}

// ScalarSliceToString pretty prints a slice of field elements to ease
// debugging.
func ScalarSliceToString(slice []*big.Int) string {
	res := "["
	for _, x := range slice {
		res += fmt.Sprintf("%v, ", x.String())
	}
	res += "]"
	return res
}
