// Package errors defines custom error types for the pqseal hybrid encryption
// scheme. These errors provide detailed information for debugging while
// maintaining security by not leaking sensitive information in error messages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for KEM operations
var (
	// ErrInvalidPublicKey indicates a public key has the wrong size or
	// structure for the selected parameter set
	ErrInvalidPublicKey = errors.New("kem: invalid public key")

	// ErrInvalidPrivateKey indicates a private key has the wrong size or
	// structure for the selected parameter set
	ErrInvalidPrivateKey = errors.New("kem: invalid private key")

	// ErrInvalidCiphertext indicates a KEM ciphertext has the wrong size
	ErrInvalidCiphertext = errors.New("kem: invalid ciphertext size")

	// ErrKemFault indicates an internal failure of the KEM primitive,
	// non-recoverable for that call
	ErrKemFault = errors.New("kem: primitive fault")

	// ErrInvalidSeed indicates a derivation seed has the wrong size for
	// the selected parameter set
	ErrInvalidSeed = errors.New("kem: invalid seed size")
)

// Sentinel errors for AEAD operations
var (
	// ErrInvalidKeySize indicates the symmetric key is not exactly 32 bytes
	ErrInvalidKeySize = errors.New("aead: invalid key size")

	// ErrInvalidNonce indicates the nonce size is incorrect
	ErrInvalidNonce = errors.New("aead: invalid nonce size")

	// ErrAuthenticationFailed indicates AEAD tag verification failed: wrong
	// key, wrong nonce, tampered data, or a mismatched KEM key pair
	ErrAuthenticationFailed = errors.New("aead: authentication failed")

	// ErrUnsupportedCipherSuite indicates an unsupported or, in FIPS mode,
	// unapproved cipher suite
	ErrUnsupportedCipherSuite = errors.New("aead: unsupported cipher suite")
)

// Sentinel errors for envelope operations
var (
	// ErrTruncatedEnvelope indicates a structural parse failure: the buffer
	// is too short for the declared KEM ciphertext length
	ErrTruncatedEnvelope = errors.New("envelope: truncated")

	// ErrInvalidEncoding indicates malformed base64 input on the textual
	// transport surface
	ErrInvalidEncoding = errors.New("envelope: invalid base64 encoding")

	// ErrCiphertextTooLarge indicates a KEM ciphertext too large for the
	// 4-byte length prefix
	ErrCiphertextTooLarge = errors.New("envelope: kem ciphertext exceeds length prefix range")
)

// Sentinel errors for key generation
var (
	// ErrGeneratorClosed indicates the background generator has been closed
	ErrGeneratorClosed = errors.New("keygen: generator closed")

	// ErrConsistencyCheck indicates a fresh key pair failed its pairwise
	// consistency check
	ErrConsistencyCheck = errors.New("keygen: pairwise consistency check failed")
)

// ErrDecryptionFailed is the single outcome the composed decrypt operation
// reports for every failure downstream of structural parsing. Collapsing the
// failure modes keeps the API from acting as a padding or key oracle; the
// specific kind remains available to internal components for logs and tests.
var ErrDecryptionFailed = errors.New("pqseal: decryption failed")

// CryptoError wraps a cryptographic error with additional context
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// EnvelopeError tags a failure of the composed encrypt/decrypt pipeline with
// the stage that produced it. It matches ErrDecryptionFailed under errors.Is,
// so internal callers see the stage while the collapsed sentinel still
// satisfies boundary checks.
type EnvelopeError struct {
	Stage string // Pipeline stage (e.g., "unpack", "decapsulate", "open")
	Err   error  // Underlying error
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("envelope %s: %v", e.Stage, e.Err)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches target. Every EnvelopeError matches
// ErrDecryptionFailed in addition to its wrapped chain.
func (e *EnvelopeError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// NewEnvelopeError creates a new EnvelopeError
func NewEnvelopeError(stage string, err error) *EnvelopeError {
	return &EnvelopeError{Stage: stage, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
