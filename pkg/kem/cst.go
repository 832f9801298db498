// Conditional self-tests for key generation.
//
// FIPS 140-3 requires a pairwise consistency test on every freshly generated
// key pair: the new public key must encapsulate a secret that the new private
// key recovers. Unlike the power-on self-tests, these run per operation, not
// at module initialization.
//
// In FIPS mode a failed consistency test panics to prevent use of a
// potentially corrupted key pair. In standard mode it returns an error.

package kem

import (
	"fmt"

	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/crypto"
)

// ConsistencyResult reports the outcome of a pairwise consistency test.
type ConsistencyResult struct {
	Passed bool
	Error  error
}

// PairwiseConsistencyTest verifies that kp's halves correspond: a secret
// encapsulated against the public key must be recovered exactly by the
// private key, and must not be all zeros. Both recovered secrets are wiped
// before returning.
func (a *Adapter) PairwiseConsistencyTest(kp *KeyPair) *ConsistencyResult {
	if kp == nil || len(kp.PublicKey) == 0 || len(kp.PrivateKey) == 0 {
		return &ConsistencyResult{Passed: false, Error: fmt.Errorf("invalid key pair")}
	}

	kemCiphertext, secret1, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		return &ConsistencyResult{Passed: false, Error: fmt.Errorf("encapsulation failed: %w", err)}
	}
	defer crypto.Zeroize(secret1)

	secret2, err := a.Decapsulate(kp.PrivateKey, kemCiphertext)
	if err != nil {
		return &ConsistencyResult{Passed: false, Error: fmt.Errorf("decapsulation failed: %w", err)}
	}
	defer crypto.Zeroize(secret2)

	if !crypto.ConstantTimeCompare(secret1, secret2) {
		return &ConsistencyResult{Passed: false, Error: fmt.Errorf("shared secrets do not match")}
	}

	allZeros := true
	for _, b := range secret1 {
		if b != 0 {
			allZeros = false
			break
		}
	}
	if allZeros {
		return &ConsistencyResult{Passed: false, Error: fmt.Errorf("shared secret is all zeros")}
	}

	return &ConsistencyResult{Passed: true}
}

// GenerateKeyPairWithCST generates a key pair and runs the pairwise
// consistency test on it before handing it out. On failure the defective
// pair is zeroized and discarded; in FIPS mode the failure panics instead.
func (a *Adapter) GenerateKeyPairWithCST() (*KeyPair, error) {
	kp, err := a.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	if err := a.checkConsistency(kp); err != nil {
		kp.Zeroize()
		return nil, err
	}
	return kp, nil
}

func (a *Adapter) checkConsistency(kp *KeyPair) error {
	result := a.PairwiseConsistencyTest(kp)
	if result.Passed {
		return nil
	}
	if crypto.FIPSMode() {
		panic(fmt.Sprintf("FIPS CST failed: pairwise consistency test: %v", result.Error))
	}
	return perrors.NewCryptoError("KEM.ConsistencyCheck",
		fmt.Errorf("%w: %v", perrors.ErrConsistencyCheck, result.Error))
}
