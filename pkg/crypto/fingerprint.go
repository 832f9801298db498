// fingerprint.go computes short key fingerprints using SHAKE-256 (SHA-3 XOF).
//
// Fingerprints give users a compact, collision-resistant handle on a key that
// is safe to display, log, and compare out of band. They are not secrets: a
// fingerprint is derived from public or private key bytes but reveals nothing
// useful about the key itself beyond its identity.
//
// The construction is SHAKE-256 over a length-prefixed domain separator and
// the length-prefixed key bytes. Length prefixes are 4-byte big-endian
// integers to ensure unambiguous parsing; the domain separator prevents a
// fingerprint computed here from colliding with any other use of SHAKE-256
// over the same bytes.
package crypto

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/pqseal/pqseal/internal/constants"
)

// Fingerprint computes the 16-byte fingerprint of the given key material.
//
// The same input always yields the same fingerprint, and fingerprints of a
// public key and its exported base64 form agree as long as both decode to the
// same raw bytes.
func Fingerprint(keyMaterial []byte) []byte {
	h := sha3.NewShake256()
	lenBuf := make([]byte, 4)

	domain := []byte(constants.FingerprintDomain)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(domain)))
	h.Write(lenBuf)
	h.Write(domain)

	binary.BigEndian.PutUint32(lenBuf, uint32(len(keyMaterial)))
	h.Write(lenBuf)
	h.Write(keyMaterial)

	out := make([]byte, constants.FingerprintSize)
	_, _ = h.Read(out) // SHAKE256.Read never fails

	return out
}

// FingerprintHex returns the fingerprint of the given key material as a
// lowercase hex string, the form shown to users.
func FingerprintHex(keyMaterial []byte) string {
	return hex.EncodeToString(Fingerprint(keyMaterial))
}
