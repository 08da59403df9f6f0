// Package prover drives the external Groth16 pipeline for the top-level
// circuits: compile, one-time setup, prove and verify, with compiled
// artifacts cached per circuit shape.
package prover

import (
	"fmt"
	"sync"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CacheKeyer lets a circuit name its own shape. Circuits with slice-typed
// variables must implement it, since two depths of the same Go type are
// different circuits.
type CacheKeyer interface {
	CacheKey() string
}

// Proof bundles a Groth16 proof with the public witness it verifies against
// and the cache key of the circuit it was produced from.
type Proof struct {
	Proof  groth16.Proof
	Public witness.Witness
	Key    string
}

type artifact struct {
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// Groth16 is a proving session factory for one curve. Independent Prove
// calls may run concurrently; they share only the immutable compiled
// artifacts.
type Groth16 struct {
	curve ecc.ID
	log   zerolog.Logger

	compiled sync.Map // cache key -> *artifact
	mu       sync.Mutex
}

// NewGroth16 returns a driver over the given curve.
func NewGroth16(curve ecc.ID) *Groth16 {
	return &Groth16{
		curve: curve,
		log:   log.With().Str("component", "prover").Str("curve", curve.String()).Logger(),
	}
}

// Prove compiles and sets up the circuit on first use, then proves the
// assignment against it.
func (p *Groth16) Prove(circuit, assignment frontend.Circuit) (*Proof, error) {
	art, key, err := p.getOrCompile(circuit)
	if err != nil {
		return nil, err
	}

	full, err := frontend.NewWitness(assignment, p.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("build witness for %q: %w", key, err)
	}

	start := time.Now()
	proof, err := groth16.Prove(art.cs, art.pk, full)
	if err != nil {
		return nil, fmt.Errorf("prove %q: %w", key, err)
	}
	p.log.Debug().Str("circuit", key).Dur("took", time.Since(start)).Msg("proved")

	public, err := full.Public()
	if err != nil {
		return nil, fmt.Errorf("extract public witness for %q: %w", key, err)
	}
	return &Proof{Proof: proof, Public: public, Key: key}, nil
}

// Verify checks a proof produced by this driver.
func (p *Groth16) Verify(proof *Proof) error {
	cached, ok := p.compiled.Load(proof.Key)
	if !ok {
		return fmt.Errorf("no compiled circuit %q", proof.Key)
	}
	return groth16.Verify(proof.Proof, cached.(*artifact).vk, proof.Public)
}

func (p *Groth16) getOrCompile(circuit frontend.Circuit) (*artifact, string, error) {
	key := cacheKey(circuit)
	if cached, ok := p.compiled.Load(key); ok {
		return cached.(*artifact), key, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.compiled.Load(key); ok {
		return cached.(*artifact), key, nil
	}

	start := time.Now()
	cs, err := frontend.Compile(p.curve.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, key, fmt.Errorf("compile %q: %w", key, err)
	}
	p.log.Info().Str("circuit", key).
		Int("constraints", cs.GetNbConstraints()).
		Dur("took", time.Since(start)).
		Msg("compiled")

	start = time.Now()
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, key, fmt.Errorf("setup %q: %w", key, err)
	}
	p.log.Info().Str("circuit", key).Dur("took", time.Since(start)).Msg("setup done")

	art := &artifact{cs: cs, pk: pk, vk: vk}
	p.compiled.Store(key, art)
	return art, key, nil
}

func cacheKey(circuit frontend.Circuit) string {
	if ck, ok := circuit.(CacheKeyer); ok {
		return ck.CacheKey()
	}
	return fmt.Sprintf("%T", circuit)
}
