// Package envelope implements the hybrid encryption envelope: a KEM
// ciphertext transporting a fresh shared secret, followed by an AEAD payload
// sealed under that secret.
//
// Wire Format:
//
// A packed envelope is a single self-delimiting blob:
//
//	+--------+---------------+-------+------------+
//	| Length | KEMCiphertext | Nonce | SealedData |
//	| 4B BE  | Variable      | 12B   | Variable   |
//	+--------+---------------+-------+------------+
//
// Length is a big-endian uint32 covering only the KEM ciphertext. The nonce
// is fixed at 12 bytes and the sealed data extends to the end of the buffer,
// so no second length field is needed. There is no version or suite field:
// both ends of a deployment must agree on the KEM parameter set and cipher
// suite out of band.
//
// Pack and Unpack are purely structural. They move bytes and validate
// layout; they never touch key material, so a malformed buffer is rejected
// before any cryptographic work. Unpack of a packed envelope returns the
// original three fields byte for byte.
package envelope

import (
	"encoding/binary"

	"github.com/pqseal/pqseal/internal/constants"
	perrors "github.com/pqseal/pqseal/internal/errors"
)

// Envelope is the parsed form of a packed blob. Fields are freshly
// allocated copies; mutating the source buffer after Unpack does not affect
// them.
type Envelope struct {
	// KEMCiphertext transports the encapsulated shared secret. Its length
	// is fixed by the KEM parameter set, but structurally any length that
	// fits the prefix is representable.
	KEMCiphertext []byte

	// Nonce is the 12-byte AEAD nonce, generated fresh per envelope.
	Nonce []byte

	// SealedData is the AEAD output: ciphertext plus authentication tag.
	SealedData []byte
}

// Size returns the packed size of the envelope in bytes.
func (e *Envelope) Size() int {
	return constants.EnvelopeLengthPrefixSize + len(e.KEMCiphertext) +
		constants.AEADNonceSize + len(e.SealedData)
}

// Pack serializes the three envelope fields into the wire form. It is
// deterministic: equal inputs produce byte-identical output.
//
// Pack validates structure only. The nonce must be exactly 12 bytes and the
// KEM ciphertext must fit the 4-byte length prefix; the contents are not
// interpreted.
func Pack(kemCiphertext, nonce, sealedData []byte) ([]byte, error) {
	if len(nonce) != constants.AEADNonceSize {
		return nil, perrors.ErrInvalidNonce
	}
	if uint64(len(kemCiphertext)) > constants.MaxKEMCiphertextSize {
		return nil, perrors.ErrCiphertextTooLarge
	}

	buf := make([]byte, constants.EnvelopeLengthPrefixSize+len(kemCiphertext)+
		constants.AEADNonceSize+len(sealedData))
	offset := 0

	binary.BigEndian.PutUint32(buf[offset:], uint32(len(kemCiphertext)))
	offset += constants.EnvelopeLengthPrefixSize

	copy(buf[offset:], kemCiphertext)
	offset += len(kemCiphertext)

	copy(buf[offset:], nonce)
	offset += constants.AEADNonceSize

	copy(buf[offset:], sealedData)

	return buf, nil
}

// Unpack parses a packed envelope. It fails with ErrTruncatedEnvelope when
// the buffer is too short for the length prefix, the declared KEM
// ciphertext, or the nonce. Everything after the nonce is sealed data; its
// integrity is checked by the AEAD open, not here.
func Unpack(data []byte) (*Envelope, error) {
	if len(data) < constants.EnvelopeLengthPrefixSize {
		return nil, perrors.ErrTruncatedEnvelope
	}

	kemLen := binary.BigEndian.Uint32(data)
	// uint64 arithmetic so a hostile length prefix cannot overflow.
	need := uint64(constants.EnvelopeLengthPrefixSize) + uint64(kemLen) +
		uint64(constants.AEADNonceSize)
	if uint64(len(data)) < need {
		return nil, perrors.ErrTruncatedEnvelope
	}

	offset := constants.EnvelopeLengthPrefixSize
	e := &Envelope{}

	e.KEMCiphertext = make([]byte, kemLen)
	copy(e.KEMCiphertext, data[offset:offset+int(kemLen)])
	offset += int(kemLen)

	e.Nonce = make([]byte, constants.AEADNonceSize)
	copy(e.Nonce, data[offset:offset+constants.AEADNonceSize])
	offset += constants.AEADNonceSize

	e.SealedData = make([]byte, len(data)-offset)
	copy(e.SealedData, data[offset:])

	return e, nil
}
