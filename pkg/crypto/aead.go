// aead.go implements the symmetric layer: Authenticated Encryption with
// Associated Data (AEAD) under an explicit 96-bit nonce.
//
// This package supports two AEAD algorithms:
//   - AES-256-GCM: FIPS-approved, hardware-accelerated on modern CPUs
//   - ChaCha20-Poly1305: High performance without hardware support
//
// Both share the same externally visible parameters: 32-byte key, 12-byte
// nonce, 16-byte authentication tag. No associated data is used by this
// protocol; the envelope carries nothing outside the sealed payload that
// needs binding.
//
// CRITICAL: Nonce reuse completely breaks security. Each (key, nonce) pair
// MUST be used at most once. In this scheme every key is single-use (a fresh
// KEM shared secret per encryption) and every nonce is drawn fresh from the
// CSPRNG, so uniqueness holds with overwhelming probability.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/pqseal/pqseal/internal/constants"
	perrors "github.com/pqseal/pqseal/internal/errors"
)

// AEAD is an authenticated cipher bound to a single 32-byte key.
type AEAD struct {
	cipher cipher.AEAD
	suite  constants.CipherSuite
}

// NewAEAD creates a new AEAD cipher with the specified suite and key.
//
// Parameters:
//   - suite: CipherSuiteAES256GCM or CipherSuiteChaCha20Poly1305
//   - key: 32-byte encryption key
//
// Returns:
//   - AEAD: The initialized cipher
//   - error: Non-nil if the key size is wrong or the suite is unsupported
//     (in FIPS mode, non-approved suites are rejected here)
func NewAEAD(suite constants.CipherSuite, key []byte) (*AEAD, error) {
	if len(key) != constants.AEADKeySize {
		return nil, perrors.ErrInvalidKeySize
	}
	if FIPSMode() && !suite.IsFIPSApproved() {
		return nil, perrors.ErrUnsupportedCipherSuite
	}

	var aeadCipher cipher.AEAD

	switch suite {
	case constants.CipherSuiteAES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, perrors.NewCryptoError("aead.new", err)
		}
		aeadCipher, err = cipher.NewGCM(block)
		if err != nil {
			return nil, perrors.NewCryptoError("aead.new", err)
		}

	case constants.CipherSuiteChaCha20Poly1305:
		c, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, perrors.NewCryptoError("aead.new", err)
		}
		aeadCipher = c

	default:
		return nil, perrors.ErrUnsupportedCipherSuite
	}

	return &AEAD{cipher: aeadCipher, suite: suite}, nil
}

// Seal encrypts and authenticates plaintext under the given nonce.
//
// The caller supplies the nonce explicitly and is responsible for its
// uniqueness; NewNonce provides a fresh CSPRNG draw.
//
// Parameters:
//   - nonce: 12-byte unique nonce
//   - plaintext: Data to encrypt (may be empty)
//
// Returns:
//   - sealed: encrypted_data || auth_tag (nonce not included)
//   - error: Non-nil if the nonce size is wrong
func (a *AEAD) Seal(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != constants.AEADNonceSize {
		return nil, perrors.ErrInvalidNonce
	}

	return a.cipher.Seal(nil, nonce, plaintext, nil), nil
}

// Open decrypts and verifies sealed data under the given nonce.
//
// Parameters:
//   - nonce: 12-byte nonce used during sealing
//   - sealed: encrypted_data || auth_tag (nonce not included)
//
// Returns:
//   - plaintext: Decrypted data
//   - error: ErrAuthenticationFailed whenever the tag does not verify; this
//     covers a wrong key, a wrong nonce, tampered data, a sealed buffer too
//     short to hold a tag, and a mismatched KEM key pair upstream
func (a *AEAD) Open(nonce, sealed []byte) ([]byte, error) {
	if len(nonce) != constants.AEADNonceSize {
		return nil, perrors.ErrInvalidNonce
	}

	plaintext, err := a.cipher.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, perrors.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// Suite returns the cipher suite identifier.
func (a *AEAD) Suite() constants.CipherSuite {
	return a.suite
}

// Overhead returns the number of bytes added by sealing: the tag size.
func (a *AEAD) Overhead() int {
	return a.cipher.Overhead()
}

// NonceSize returns the required nonce size in bytes.
func (a *AEAD) NonceSize() int {
	return a.cipher.NonceSize()
}

// Seal authenticated-encrypts plaintext with the default cipher suite.
// It is the stateless form of AEAD.Seal for callers that hold a raw key,
// such as the hybrid envelope consuming a fresh KEM shared secret.
func Seal(key, nonce, plaintext []byte) ([]byte, error) {
	a, err := NewAEAD(DefaultCipherSuite(), key)
	if err != nil {
		return nil, err
	}
	return a.Seal(nonce, plaintext)
}

// Open authenticated-decrypts sealed data with the default cipher suite.
// It is the stateless form of AEAD.Open.
func Open(key, nonce, sealed []byte) ([]byte, error) {
	a, err := NewAEAD(DefaultCipherSuite(), key)
	if err != nil {
		return nil, err
	}
	return a.Open(nonce, sealed)
}
