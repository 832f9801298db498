// Package constants defines the security parameters and wire-format constants
// for the pqseal hybrid encryption scheme.
//
// Security Level: NIST Category 5 (equivalent to AES-256 against quantum adversaries).
// The default KEM parameter set is Classic McEliece 8192128; the symmetric layer
// is a 256-bit-key, 96-bit-nonce AEAD.
package constants

// Scheme identification
const (
	// SchemeName identifies the hybrid scheme in logs and user agents.
	SchemeName = "pqseal-v1"
)

// Classic McEliece 8192128 parameters (round-4 NIST submission)
// This is the default KEM parameter set.
const (
	// McEliecePublicKeySize is the size of a Classic McEliece 8192128
	// public key in bytes.
	McEliecePublicKeySize = 1357824

	// McEliecePrivateKeySize is the size of a Classic McEliece 8192128
	// private key in bytes.
	McEliecePrivateKeySize = 14120

	// McElieceCiphertextSize is the size of a Classic McEliece 8192128
	// ciphertext in bytes.
	McElieceCiphertextSize = 240

	// McElieceSharedSecretSize is the size of the encapsulated shared
	// secret in bytes.
	McElieceSharedSecretSize = 32
)

// ML-KEM-768 parameters (NIST FIPS 203)
// Alternate KEM parameter set, selectable behind the same adapter.
const (
	// MLKEMPublicKeySize is the size of an ML-KEM-768 encapsulation key in bytes.
	MLKEMPublicKeySize = 1184

	// MLKEMPrivateKeySize is the size of an ML-KEM-768 decapsulation key in bytes.
	MLKEMPrivateKeySize = 2400

	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088

	// MLKEMSharedSecretSize is the size of the shared secret from ML-KEM in bytes.
	MLKEMSharedSecretSize = 32
)

// Symmetric layer parameters
// Both supported AEAD suites share these sizes.
const (
	// AEADKeySize is the size of the symmetric key in bytes. The KEM shared
	// secret is used directly as the AEAD key, so the two sizes must match.
	AEADKeySize = 32

	// AEADNonceSize is the size of the AEAD nonce in bytes (96 bits).
	AEADNonceSize = 12

	// AEADTagSize is the size of the AEAD authentication tag in bytes.
	AEADTagSize = 16
)

// Envelope wire-format parameters
const (
	// EnvelopeLengthPrefixSize is the size of the big-endian length prefix
	// describing the KEM ciphertext field.
	EnvelopeLengthPrefixSize = 4

	// EnvelopeMinSize is the smallest structurally valid envelope: a length
	// prefix declaring zero KEM ciphertext bytes followed by a nonce. The
	// sealed field may be structurally empty; shorter-than-tag sealed data
	// is caught by AEAD open, not by the parser.
	EnvelopeMinSize = EnvelopeLengthPrefixSize + AEADNonceSize

	// MaxKEMCiphertextSize is the largest KEM ciphertext length the 4-byte
	// prefix can represent. Packing a longer ciphertext is a caller error.
	MaxKEMCiphertextSize = 1<<32 - 1
)

// Fingerprint parameters
const (
	// FingerprintSize is the size of a key fingerprint in bytes
	// (SHAKE-256 output, displayed as hex).
	FingerprintSize = 16

	// FingerprintDomain is the domain separator for key fingerprints.
	FingerprintDomain = "pqseal-v1-Fingerprint"
)

// CipherSuite identifiers
type CipherSuite uint16

const (
	// CipherSuiteAES256GCM uses AES-256-GCM for the symmetric layer.
	CipherSuiteAES256GCM CipherSuite = 0x0001

	// CipherSuiteChaCha20Poly1305 uses ChaCha20-Poly1305 for the symmetric layer.
	CipherSuiteChaCha20Poly1305 CipherSuite = 0x0002
)

// String returns a human-readable name for the cipher suite
func (cs CipherSuite) String() string {
	switch cs {
	case CipherSuiteAES256GCM:
		return "AES-256-GCM"
	case CipherSuiteChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	default:
		return "Unknown"
	}
}

// IsSupported returns true if the cipher suite is supported
func (cs CipherSuite) IsSupported() bool {
	return cs == CipherSuiteAES256GCM || cs == CipherSuiteChaCha20Poly1305
}

// IsFIPSApproved returns true if the cipher suite is FIPS 140-3 approved.
// Currently only AES-256-GCM is FIPS approved; ChaCha20-Poly1305 is not.
func (cs CipherSuite) IsFIPSApproved() bool {
	return cs == CipherSuiteAES256GCM
}
