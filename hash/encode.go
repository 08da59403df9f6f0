package hash

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/mixbridge/zk-gadgets/params"
)

// ErrEncoding reports an invalid canonical representation: wrong length or a
// value outside the field. It signals caller error and is never recovered.
var ErrEncoding = errors.New("hash: invalid canonical encoding")

// Encode returns the canonical encoding of x under set: big-endian, fixed
// width sized by the field modulus.
func Encode(set *params.ParameterSet, x *big.Int) []byte {
	v := new(big.Int).Mod(x, set.Modulus())
	buf := make([]byte, set.ByteLen())
	v.FillBytes(buf)
	return buf
}

// Decode parses a canonical encoding, rejecting wrong lengths and
// non-reduced values.
func Decode(set *params.ParameterSet, b []byte) (*big.Int, error) {
	if len(b) != set.ByteLen() {
		return nil, fmt.Errorf("%w: %q: %d bytes, want %d", ErrEncoding, set.Name, len(b), set.ByteLen())
	}
	v := new(big.Int).SetBytes(b)
	if v.Cmp(set.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %q: value not reduced", ErrEncoding, set.Name)
	}
	return v, nil
}
