// Package keyfile stores key material on disk as plain text: the standard
// base64 form of the raw key bytes and nothing else. No PEM armor, no JSON
// framing, no comments. A key file is self-describing only through its
// length; the reader validates the decoded size against the KEM parameter
// set it expects.
//
// Private key files are written with mode 0600. The package never logs or
// returns key material in error messages.
package keyfile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/crypto"
	"github.com/pqseal/pqseal/pkg/kem"
)

const (
	publicKeyMode  = 0o644
	privateKeyMode = 0o600
)

// WritePublicKey writes the base64 form of key to path, world readable.
func WritePublicKey(path string, key []byte) error {
	return writeKey(path, key, publicKeyMode)
}

// WritePrivateKey writes the base64 form of key to path with mode 0600.
// The mode applies on creation; an existing file keeps its permissions.
func WritePrivateKey(path string, key []byte) error {
	return writeKey(path, key, privateKeyMode)
}

func writeKey(path string, key []byte, mode os.FileMode) error {
	text := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("keyfile: write %s: %w", path, err)
	}
	return nil
}

// WriteKeyPair writes both halves of kp. The private key is written first
// so a failure cannot leave a public key pointing at a missing private key.
func WriteKeyPair(publicPath, privatePath string, kp *kem.KeyPair) error {
	if kp == nil {
		return fmt.Errorf("keyfile: nil key pair")
	}
	if err := WritePrivateKey(privatePath, kp.PrivateKey); err != nil {
		return err
	}
	return WritePublicKey(publicPath, kp.PublicKey)
}

// ReadPublicKey reads a public key file and validates the decoded length
// against adapter's parameter set. Malformed base64 fails with
// ErrInvalidEncoding; a wrong-size key fails with ErrInvalidPublicKey.
func ReadPublicKey(path string, adapter *kem.Adapter) ([]byte, error) {
	key, err := readKey(path)
	if err != nil {
		return nil, err
	}
	if len(key) != adapter.PublicKeySize() {
		return nil, fmt.Errorf("keyfile: %s: %w: decoded %d bytes, want %d",
			path, perrors.ErrInvalidPublicKey, len(key), adapter.PublicKeySize())
	}
	return key, nil
}

// ReadPrivateKey reads a private key file and validates the decoded length
// against adapter's parameter set. The caller owns the returned bytes and
// should zeroize them after use.
func ReadPrivateKey(path string, adapter *kem.Adapter) ([]byte, error) {
	key, err := readKey(path)
	if err != nil {
		return nil, err
	}
	if len(key) != adapter.PrivateKeySize() {
		crypto.Zeroize(key)
		return nil, fmt.Errorf("keyfile: %s: %w: decoded %d bytes, want %d",
			path, perrors.ErrInvalidPrivateKey, len(key), adapter.PrivateKeySize())
	}
	return key, nil
}

func readKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyfile: read %s: %w", path, err)
	}

	// Decode from the byte form directly; a string conversion would leave
	// an unwipeable copy of the key text behind.
	trimmed := bytes.TrimSpace(raw)
	key := make([]byte, base64.StdEncoding.DecodedLen(len(trimmed)))
	n, err := base64.StdEncoding.Decode(key, trimmed)
	crypto.Zeroize(raw)
	if err != nil {
		crypto.Zeroize(key)
		return nil, fmt.Errorf("keyfile: %s: %w: %v", path, perrors.ErrInvalidEncoding, err)
	}
	return key[:n], nil
}

// Fingerprint reads a public key file and returns its hex fingerprint.
func Fingerprint(path string, adapter *kem.Adapter) (string, error) {
	key, err := ReadPublicKey(path, adapter)
	if err != nil {
		return "", err
	}
	return crypto.FingerprintHex(key), nil
}
