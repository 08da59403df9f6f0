package params

import (
	"fmt"
	"sort"

	"github.com/consensys/gnark-crypto/ecc"
)

// Registered configuration names. The naming follows the x<exponent>_<width>
// convention of the classic Poseidon parameter tables.
const (
	PoseidonBn254X5W1     = "poseidon-bn254-x5-1"
	PoseidonBn254X5W2     = "poseidon-bn254-x5-2"
	PoseidonBn254X5W3     = "poseidon-bn254-x5-3"
	PoseidonBn254X5W5     = "poseidon-bn254-x5-5"
	PoseidonBls12381X5W3  = "poseidon-bls12381-x5-3"
	PoseidonBls12381X5W5  = "poseidon-bls12381-x5-5"
	PoseidonBls12377X17W3 = "poseidon-bls12377-x17-3"

	MimcBn254X7     = "mimc-bn254-x7-91"
	MimcBls12377X17 = "mimc-bls12377-x17-62"
)

// registry is populated once, below, and never written again; concurrent
// lookups from parallel circuit constructions are safe without locking.
var registry = map[string]*ParameterSet{}

func mustRegister(p *ParameterSet, err error) {
	if err != nil {
		panic(fmt.Sprintf("params: registry init: %v", err))
	}
	if _, dup := registry[p.Name]; dup {
		panic(fmt.Sprintf("params: registry init: duplicate set %q", p.Name))
	}
	registry[p.Name] = p
}

func init() {
	// Poseidon round counts follow the published x5/x17 instances for the
	// respective widths; MiMC counts follow the classic x^7 (91 rounds) and
	// x^17 (62 rounds) instances.
	mustRegister(NewPoseidon(PoseidonBn254X5W1, ecc.BN254, 1, 1, 8, 20, 5))
	mustRegister(NewPoseidon(PoseidonBn254X5W2, ecc.BN254, 2, 1, 8, 56, 5))
	mustRegister(NewPoseidon(PoseidonBn254X5W3, ecc.BN254, 3, 2, 8, 57, 5))
	mustRegister(NewPoseidon(PoseidonBn254X5W5, ecc.BN254, 5, 4, 8, 60, 5))
	mustRegister(NewPoseidon(PoseidonBls12381X5W3, ecc.BLS12_381, 3, 2, 8, 57, 5))
	mustRegister(NewPoseidon(PoseidonBls12381X5W5, ecc.BLS12_381, 5, 4, 8, 60, 5))
	mustRegister(NewPoseidon(PoseidonBls12377X17W3, ecc.BLS12_377, 3, 2, 8, 31, 17))

	mustRegister(NewMimc(MimcBn254X7, ecc.BN254, 91, 7))
	mustRegister(NewMimc(MimcBls12377X17, ecc.BLS12_377, 62, 17))
}

// Lookup returns the registered set for name. The returned set is shared;
// callers must not modify it.
func Lookup(name string) (*ParameterSet, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: no registered parameter set %q", ErrConfig, name)
	}
	return p, nil
}

// Names returns the registered configuration names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
