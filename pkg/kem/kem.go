// Package kem adapts post-quantum key encapsulation mechanisms to the
// byte-oriented contract consumed by the envelope layer.
//
// An Adapter wraps one KEM parameter set and exposes key generation,
// encapsulation, and decapsulation over raw byte slices. Keys and KEM
// ciphertexts have fixed sizes determined by the parameter set; the adapter
// validates sizes before handing material to the underlying primitive, so
// malformed input is rejected with a typed error instead of surfacing as a
// library fault.
//
// The default parameter set is Classic McEliece 8192128 (NIST security
// category 5). ML-KEM-768 is available as a faster alternate with much
// smaller keys; both produce a 32-byte shared secret suitable for direct use
// as an AEAD key.
//
// Decapsulation with a well-formed but mismatched key/ciphertext pair does
// not reliably fail: the underlying schemes use implicit rejection and
// return a wrong-but-valid shared secret. Callers must treat the recovered
// secret as unverified until it opens an authenticated payload.
package kem

import (
	"fmt"

	circlkem "github.com/katzenpost/circl/kem"
	"github.com/katzenpost/circl/kem/mceliece/mceliece8192128"
	"github.com/katzenpost/circl/kem/mlkem/mlkem768"

	"github.com/pqseal/pqseal/internal/constants"
	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/crypto"
)

// Registered parameter set names, usable with ByName.
const (
	SchemeMcEliece8192128 = "mceliece8192128"
	SchemeMLKEM768        = "mlkem768"
)

// Adapter binds one KEM parameter set behind the byte-oriented interface.
// Adapters are immutable and safe for concurrent use.
type Adapter struct {
	name   string
	scheme circlkem.Scheme
}

// McEliece8192128 returns the adapter for Classic McEliece 8192128, the
// default parameter set. Key generation for this set takes several seconds;
// see the Generator type for running it off the caller's goroutine.
func McEliece8192128() *Adapter {
	return &Adapter{name: SchemeMcEliece8192128, scheme: mceliece8192128.Scheme()}
}

// MLKEM768 returns the adapter for ML-KEM-768, an alternate parameter set
// with millisecond key generation and 1 KiB keys.
func MLKEM768() *Adapter {
	return &Adapter{name: SchemeMLKEM768, scheme: mlkem768.Scheme()}
}

// Default returns the adapter for the default parameter set.
func Default() *Adapter {
	return McEliece8192128()
}

// ByName returns the adapter registered under name.
func ByName(name string) (*Adapter, error) {
	switch name {
	case SchemeMcEliece8192128:
		return McEliece8192128(), nil
	case SchemeMLKEM768:
		return MLKEM768(), nil
	default:
		return nil, fmt.Errorf("kem: unknown scheme %q", name)
	}
}

// Names lists the registered parameter set names in preference order.
func Names() []string {
	return []string{SchemeMcEliece8192128, SchemeMLKEM768}
}

// NewAdapter wraps an externally supplied scheme. The scheme must produce
// shared secrets of exactly the AEAD key size; anything else cannot key the
// symmetric layer and is rejected here rather than at first use.
func NewAdapter(name string, scheme circlkem.Scheme) (*Adapter, error) {
	if scheme == nil {
		return nil, fmt.Errorf("kem: nil scheme")
	}
	if scheme.SharedKeySize() != constants.AEADKeySize {
		return nil, fmt.Errorf("kem: scheme %q produces %d-byte shared secrets, need %d",
			name, scheme.SharedKeySize(), constants.AEADKeySize)
	}
	return &Adapter{name: name, scheme: scheme}, nil
}

// Name returns the registered parameter set name.
func (a *Adapter) Name() string { return a.name }

// PublicKeySize returns the exact public key length in bytes.
func (a *Adapter) PublicKeySize() int { return a.scheme.PublicKeySize() }

// PrivateKeySize returns the exact private key length in bytes.
func (a *Adapter) PrivateKeySize() int { return a.scheme.PrivateKeySize() }

// CiphertextSize returns the exact KEM ciphertext length in bytes.
func (a *Adapter) CiphertextSize() int { return a.scheme.CiphertextSize() }

// SharedSecretSize returns the shared secret length in bytes. For every
// registered parameter set this equals the AEAD key size.
func (a *Adapter) SharedSecretSize() int { return a.scheme.SharedKeySize() }

// SeedSize returns the seed length DeriveKeyPair expects.
func (a *Adapter) SeedSize() int { return a.scheme.SeedSize() }

// KeyPair holds the byte form of a generated key pair. The two halves are
// generated together and are only meaningful as a pair.
type KeyPair struct {
	// PublicKey is shareable without restriction.
	PublicKey []byte

	// PrivateKey must be kept secret and zeroized after use.
	PrivateKey []byte
}

// Zeroize overwrites the private key material. The public key is left
// intact. Safe to call multiple times.
func (kp *KeyPair) Zeroize() {
	if kp == nil {
		return
	}
	crypto.Zeroize(kp.PrivateKey)
}

// Fingerprint returns a short hex digest of the public key for display and
// logging. It is not a substitute for comparing full keys.
func (kp *KeyPair) Fingerprint() string {
	if kp == nil {
		return ""
	}
	return crypto.FingerprintHex(kp.PublicKey)
}

// GenerateKeyPair generates a fresh key pair from the system CSPRNG.
//
// For Classic McEliece this is a multi-second operation with no internal
// cancellation point; once entered it runs to completion. Callers that must
// stay responsive should use a Generator instead of calling this directly.
func (a *Adapter) GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := a.scheme.GenerateKeyPair()
	if err != nil {
		return nil, perrors.NewCryptoError("KEM.GenerateKeyPair",
			fmt.Errorf("%w: %v", perrors.ErrKemFault, err))
	}
	return a.marshalKeyPair(pub, priv)
}

// DeriveKeyPair deterministically derives a key pair from seed. The seed
// must be exactly SeedSize bytes and must come from a CSPRNG or a key
// backup; it is as sensitive as the private key itself.
func (a *Adapter) DeriveKeyPair(seed []byte) (*KeyPair, error) {
	if len(seed) != a.scheme.SeedSize() {
		return nil, perrors.NewCryptoError("KEM.DeriveKeyPair", perrors.ErrInvalidSeed)
	}
	pub, priv := a.scheme.DeriveKeyPair(seed)
	return a.marshalKeyPair(pub, priv)
}

func (a *Adapter) marshalKeyPair(pub circlkem.PublicKey, priv circlkem.PrivateKey) (*KeyPair, error) {
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, perrors.NewCryptoError("KEM.GenerateKeyPair",
			fmt.Errorf("%w: marshal public key: %v", perrors.ErrKemFault, err))
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, perrors.NewCryptoError("KEM.GenerateKeyPair",
			fmt.Errorf("%w: marshal private key: %v", perrors.ErrKemFault, err))
	}
	return &KeyPair{PublicKey: pubBytes, PrivateKey: privBytes}, nil
}

// Encapsulate generates a fresh shared secret against publicKey and returns
// the KEM ciphertext that transports it, followed by the secret itself. The
// secret is single-use: consume it as an AEAD key and zeroize it.
func (a *Adapter) Encapsulate(publicKey []byte) (kemCiphertext, sharedSecret []byte, err error) {
	if len(publicKey) != a.scheme.PublicKeySize() {
		return nil, nil, perrors.NewCryptoError("KEM.Encapsulate", perrors.ErrInvalidPublicKey)
	}
	pub, err := a.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, perrors.NewCryptoError("KEM.Encapsulate",
			fmt.Errorf("%w: %v", perrors.ErrInvalidPublicKey, err))
	}
	kemCiphertext, sharedSecret, err = a.scheme.Encapsulate(pub)
	if err != nil {
		return nil, nil, perrors.NewCryptoError("KEM.Encapsulate",
			fmt.Errorf("%w: %v", perrors.ErrKemFault, err))
	}
	return kemCiphertext, sharedSecret, nil
}

// Decapsulate recovers the shared secret transported by kemCiphertext using
// privateKey.
//
// Size and structure problems are reported as typed errors. A well-formed
// ciphertext that was encapsulated against a different key pair is another
// matter: the schemes reject it implicitly, returning a uniformly random
// wrong secret with no error. The mismatch only becomes observable when the
// secret fails to open the authenticated payload it was supposed to key.
func (a *Adapter) Decapsulate(privateKey, kemCiphertext []byte) ([]byte, error) {
	if len(privateKey) != a.scheme.PrivateKeySize() {
		return nil, perrors.NewCryptoError("KEM.Decapsulate", perrors.ErrInvalidPrivateKey)
	}
	if len(kemCiphertext) != a.scheme.CiphertextSize() {
		return nil, perrors.NewCryptoError("KEM.Decapsulate", perrors.ErrInvalidCiphertext)
	}
	priv, err := a.scheme.UnmarshalBinaryPrivateKey(privateKey)
	if err != nil {
		return nil, perrors.NewCryptoError("KEM.Decapsulate",
			fmt.Errorf("%w: %v", perrors.ErrInvalidPrivateKey, err))
	}
	sharedSecret, err := a.scheme.Decapsulate(priv, kemCiphertext)
	if err != nil {
		return nil, perrors.NewCryptoError("KEM.Decapsulate",
			fmt.Errorf("%w: %v", perrors.ErrKemFault, err))
	}
	return sharedSecret, nil
}
