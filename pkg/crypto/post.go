// post.go implements Power-On Self-Tests (POST) for FIPS 140-3 compliance.
//
// IMPORTANT: POST is production code, not test code. FIPS 140-3 requires self-tests
// to run at module load time (not just during development testing) to verify the
// cryptographic implementation before any operations are performed. This catches
// issues like corrupted binaries, hardware failures, or tampered code.
//
// POST runs automatically when the crypto package is loaded and verifies the
// symmetric layer before any sealing happens:
//
//   - AES-256-GCM against the known-answer vectors from the GCM specification
//   - ChaCha20-Poly1305 seal/open consistency, including tamper rejection
//     (skipped in FIPS mode, where the suite is unavailable)
//   - CSPRNG health: non-zero, non-repeating output with byte variation
//
// In FIPS mode, POST failures cause a panic to prevent use of potentially
// compromised cryptographic implementations. In standard mode, failures are
// reported through POSTPassed but do not prevent operation.
package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/pqseal/pqseal/internal/constants"
)

// POST KAT (Known Answer Test) values for AES-256-GCM, from the GCM
// specification's 256-bit test cases: all-zero key, all-zero nonce.
var (
	postKATAESKey   = make([]byte, constants.AEADKeySize)
	postKATAESNonce = make([]byte, constants.AEADNonceSize)

	// Empty plaintext: the sealed output is the 16-byte tag alone.
	postKATAESEmptyExpected, _ = hex.DecodeString("530f8afbc74536b9a963b4f1c4cb738b")

	// 16 zero bytes of plaintext: ciphertext block followed by the tag.
	postKATAESBlockPlaintext   = make([]byte, 16)
	postKATAESBlockExpected, _ = hex.DecodeString(
		"cea7403d4d606b6e074ec5d3baf39d18" + "d0d1c8a799996bf0265b98b5d48ab919")
)

// POSTResult contains the results of Power-On Self-Tests
type POSTResult struct {
	Passed       bool
	AESPassed    bool
	ChaChaPassed bool
	RNGPassed    bool
	Errors       []string
}

// postResult stores the cached POST result
var (
	postResult     *POSTResult
	postResultOnce sync.Once
	postRan        bool
)

// RunPOST executes the Power-On Self-Tests and returns the results.
// This function is safe to call multiple times; tests only run once.
func RunPOST() *POSTResult {
	postResultOnce.Do(func() {
		postResult = &POSTResult{
			Passed: true,
		}

		// Run AES-256-GCM KAT
		if err := runAESGCMKAT(); err != nil {
			postResult.AESPassed = false
			postResult.Passed = false
			postResult.Errors = append(postResult.Errors, fmt.Sprintf("AES-GCM KAT failed: %v", err))
		} else {
			postResult.AESPassed = true
		}

		// Run ChaCha20-Poly1305 consistency check. The suite does not exist
		// in FIPS builds, so the check is treated as passed there.
		if FIPSMode() {
			postResult.ChaChaPassed = true
		} else if err := runChaChaConsistency(); err != nil {
			postResult.ChaChaPassed = false
			postResult.Passed = false
			postResult.Errors = append(postResult.Errors, fmt.Sprintf("ChaCha20-Poly1305 consistency failed: %v", err))
		} else {
			postResult.ChaChaPassed = true
		}

		// Run RNG health check
		if err := runRNGHealthCheck(); err != nil {
			postResult.RNGPassed = false
			postResult.Passed = false
			postResult.Errors = append(postResult.Errors, fmt.Sprintf("RNG health check failed: %v", err))
		} else {
			postResult.RNGPassed = true
		}

		postRan = true

		// In FIPS mode, POST failures are fatal
		if FIPSMode() && !postResult.Passed {
			panic(fmt.Sprintf("FIPS POST failed: %v", postResult.Errors))
		}
	})

	return postResult
}

// POSTRan returns true if POST has been executed
func POSTRan() bool {
	return postRan
}

// POSTPassed returns true if POST has run and all tests passed
func POSTPassed() bool {
	if postResult == nil {
		return false
	}
	return postResult.Passed
}

// runAESGCMKAT verifies AES-256-GCM against the specification vectors.
// Note: Hardcoded nonces are intentional for KAT; deterministic values are
// required to verify the implementation produces expected outputs.
func runAESGCMKAT() error {
	a, err := NewAEAD(constants.CipherSuiteAES256GCM, postKATAESKey)
	if err != nil {
		return fmt.Errorf("NewAEAD failed: %w", err)
	}

	// Empty plaintext
	sealed, err := a.Seal(postKATAESNonce, nil)
	if err != nil {
		return fmt.Errorf("Seal(empty) failed: %w", err)
	}
	if !bytes.Equal(sealed, postKATAESEmptyExpected) {
		return fmt.Errorf("Seal(empty) mismatch: got %x, want %x", sealed, postKATAESEmptyExpected)
	}

	// One zero block
	sealed, err = a.Seal(postKATAESNonce, postKATAESBlockPlaintext)
	if err != nil {
		return fmt.Errorf("Seal(block) failed: %w", err)
	}
	if !bytes.Equal(sealed, postKATAESBlockExpected) {
		return fmt.Errorf("Seal(block) mismatch: got %x, want %x", sealed, postKATAESBlockExpected)
	}

	// And back
	plaintext, err := a.Open(postKATAESNonce, sealed)
	if err != nil {
		return fmt.Errorf("Open failed: %w", err)
	}
	if !bytes.Equal(plaintext, postKATAESBlockPlaintext) {
		return fmt.Errorf("Open mismatch: got %x, want %x", plaintext, postKATAESBlockPlaintext)
	}

	return nil
}

// runChaChaConsistency verifies ChaCha20-Poly1305 by sealing and opening a
// fixed message, then confirming that a corrupted ciphertext is rejected.
// ChaCha20-Poly1305 has no vectors in the GCM specification; a seal/open
// round trip with tamper rejection exercises the same failure surface.
func runChaChaConsistency() error {
	key := make([]byte, constants.AEADKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	nonce := make([]byte, constants.AEADNonceSize)
	message := []byte("pqseal-post-chacha20poly1305")

	a, err := NewAEAD(constants.CipherSuiteChaCha20Poly1305, key)
	if err != nil {
		return fmt.Errorf("NewAEAD failed: %w", err)
	}

	sealed, err := a.Seal(nonce, message)
	if err != nil {
		return fmt.Errorf("Seal failed: %w", err)
	}
	if len(sealed) != len(message)+constants.AEADTagSize {
		return fmt.Errorf("sealed length mismatch: got %d, want %d", len(sealed), len(message)+constants.AEADTagSize)
	}

	plaintext, err := a.Open(nonce, sealed)
	if err != nil {
		return fmt.Errorf("Open failed: %w", err)
	}
	if !bytes.Equal(plaintext, message) {
		return fmt.Errorf("round trip mismatch: got %x, want %x", plaintext, message)
	}

	sealed[0] ^= 0x01
	if _, err := a.Open(nonce, sealed); err == nil {
		return fmt.Errorf("tampered ciphertext was accepted")
	}

	return nil
}

// runRNGHealthCheck verifies that the random number generator produces
// non-zero, non-repeating output with byte variation.
func runRNGHealthCheck() error {
	sample1 := make([]byte, 32)
	sample2 := make([]byte, 32)

	if err := SecureRandom(sample1); err != nil {
		return fmt.Errorf("RNG read 1 failed: %w", err)
	}
	if err := SecureRandom(sample2); err != nil {
		return fmt.Errorf("RNG read 2 failed: %w", err)
	}

	for _, sample := range [][]byte{sample1, sample2} {
		allZeros := true
		allSame := true
		for i := range sample {
			if sample[i] != 0 {
				allZeros = false
			}
			if sample[i] != sample[0] {
				allSame = false
			}
		}
		if allZeros {
			return fmt.Errorf("RNG produced an all-zero sample")
		}
		if allSame {
			return fmt.Errorf("RNG sample has no variation")
		}
	}

	if bytes.Equal(sample1, sample2) {
		return fmt.Errorf("RNG produced identical consecutive samples")
	}

	return nil
}

// init runs POST automatically when the package is loaded
func init() {
	RunPOST()
}
