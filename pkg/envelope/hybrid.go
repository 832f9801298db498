// hybrid.go composes the KEM and AEAD layers into the public encrypt and
// decrypt operations.
//
// Encrypt runs encapsulate, seal, pack; Decrypt runs unpack, decapsulate,
// open. The composition is where the error boundary lives: structural
// failures (truncation, bad base64) surface with their specific kind before
// any cryptographic work, while every failure after a successful unpack
// collapses into the single ErrDecryptionFailed outcome. A caller who feeds
// attacker-controlled envelopes to Decrypt therefore cannot be used as an
// oracle that distinguishes a wrong key from a forged payload.

package envelope

import (
	"context"
	"fmt"

	"github.com/pqseal/pqseal/internal/constants"
	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/crypto"
	"github.com/pqseal/pqseal/pkg/kem"
)

// SealerConfig holds configuration for a Sealer.
type SealerConfig struct {
	// Adapter selects the KEM parameter set.
	// Default: kem.Default()
	Adapter *kem.Adapter

	// Suite selects the AEAD cipher suite. The envelope format carries no
	// suite identifier, so both ends of a deployment must configure the
	// same value.
	// Default: crypto.DefaultCipherSuite()
	Suite constants.CipherSuite

	// Observer receives operation lifecycle events.
	// Optional - if nil, events are not reported.
	Observer Observer
}

// DefaultSealerConfig returns a SealerConfig with sensible defaults.
func DefaultSealerConfig() SealerConfig {
	return SealerConfig{
		Adapter: kem.Default(),
		Suite:   crypto.DefaultCipherSuite(),
	}
}

func (c *SealerConfig) applyDefaults() {
	if c.Adapter == nil {
		c.Adapter = kem.Default()
	}
	if c.Suite == 0 {
		c.Suite = crypto.DefaultCipherSuite()
	}
}

// Validate checks the configuration for errors.
func (c *SealerConfig) Validate() error {
	supported := false
	for _, s := range crypto.SupportedCipherSuites() {
		if s == c.Suite {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %v", perrors.ErrUnsupportedCipherSuite, c.Suite)
	}
	return nil
}

// Sealer binds a KEM parameter set and a cipher suite into a reusable
// encrypt/decrypt surface. A Sealer is immutable and safe for concurrent
// use; it holds no per-message state.
type Sealer struct {
	cfg SealerConfig
}

// NewSealer returns a Sealer using cfg. Zero-value fields are filled with
// defaults before validation.
func NewSealer(cfg SealerConfig) (*Sealer, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sealer{cfg: cfg}, nil
}

// Adapter returns the KEM adapter this sealer encrypts with.
func (s *Sealer) Adapter() *kem.Adapter { return s.cfg.Adapter }

// Suite returns the configured cipher suite.
func (s *Sealer) Suite() constants.CipherSuite { return s.cfg.Suite }

func (s *Sealer) observer() Observer {
	if s.cfg.Observer != nil {
		return s.cfg.Observer
	}
	return NopObserver{}
}

// Encrypt seals plaintext for the holder of publicKey and returns the
// packed envelope.
//
// Each call encapsulates a fresh shared secret and draws a fresh nonce, so
// encrypting the same plaintext twice produces unrelated envelopes. Key
// validation failures and primitive faults surface with their specific
// kind; unlike Decrypt, Encrypt has no oracle concern because the caller
// already holds every input.
func (s *Sealer) Encrypt(ctx context.Context, publicKey, plaintext []byte) ([]byte, error) {
	_, done := s.observer().OnEncrypt(ctx, len(plaintext))

	packed, err := s.seal(publicKey, plaintext)
	done(err)
	return packed, err
}

func (s *Sealer) seal(publicKey, plaintext []byte) ([]byte, error) {
	kemCiphertext, sharedSecret, err := s.cfg.Adapter.Encapsulate(publicKey)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(sharedSecret)

	aead, err := crypto.NewAEAD(s.cfg.Suite, sharedSecret)
	if err != nil {
		return nil, err
	}

	nonce, err := crypto.NewNonce()
	if err != nil {
		return nil, err
	}

	sealedData, err := aead.Seal(nonce, plaintext)
	if err != nil {
		return nil, err
	}

	return Pack(kemCiphertext, nonce, sealedData)
}

// Decrypt opens a packed envelope with privateKey and returns the
// plaintext.
//
// Structural failures are reported specifically: ErrTruncatedEnvelope means
// the buffer does not parse, and no cryptographic work was attempted. Every
// failure after a successful parse, whether a malformed key, a mismatched
// key pair, a tampered payload, or a primitive fault, is reported as the
// single ErrDecryptionFailed. The collapsed cases are indistinguishable on
// purpose; detail is available only through the Observer.
func (s *Sealer) Decrypt(ctx context.Context, privateKey, data []byte) ([]byte, error) {
	obs := s.observer()
	_, done := obs.OnDecrypt(ctx, len(data))

	env, err := Unpack(data)
	if err != nil {
		obs.OnStructuralError(err)
		done(err)
		return nil, err
	}

	plaintext, err := s.open(privateKey, env)
	if err != nil {
		if perrors.Is(err, perrors.ErrAuthenticationFailed) {
			obs.OnAuthFailure()
		}
		done(err)
		return nil, perrors.ErrDecryptionFailed
	}

	done(nil)
	return plaintext, nil
}

// open runs the cryptographic half of Decrypt. Its errors carry the failure
// stage for observers and tests; Decrypt flattens them at the boundary.
func (s *Sealer) open(privateKey []byte, env *Envelope) ([]byte, error) {
	sharedSecret, err := s.cfg.Adapter.Decapsulate(privateKey, env.KEMCiphertext)
	if err != nil {
		return nil, perrors.NewEnvelopeError("decapsulate", err)
	}
	defer crypto.Zeroize(sharedSecret)

	aead, err := crypto.NewAEAD(s.cfg.Suite, sharedSecret)
	if err != nil {
		return nil, perrors.NewEnvelopeError("key", err)
	}

	plaintext, err := aead.Open(env.Nonce, env.SealedData)
	if err != nil {
		return nil, perrors.NewEnvelopeError("open", err)
	}

	return plaintext, nil
}

// EncryptToString encrypts plaintext and returns the envelope in textual
// form for transports that cannot carry binary.
func (s *Sealer) EncryptToString(ctx context.Context, publicKey, plaintext []byte) (string, error) {
	packed, err := s.Encrypt(ctx, publicKey, plaintext)
	if err != nil {
		return "", err
	}
	return EncodeToString(packed), nil
}

// DecryptString decodes the textual form and decrypts it. Malformed base64
// fails with ErrInvalidEncoding, distinct from the structural and collapsed
// cryptographic failures behind it.
func (s *Sealer) DecryptString(ctx context.Context, privateKey []byte, text string) ([]byte, error) {
	data, err := DecodeString(text)
	if err != nil {
		s.observer().OnStructuralError(err)
		return nil, err
	}
	return s.Decrypt(ctx, privateKey, data)
}

// Encrypt seals plaintext for the holder of publicKey using the default
// KEM parameter set and cipher suite.
func Encrypt(publicKey, plaintext []byte) ([]byte, error) {
	s, err := NewSealer(DefaultSealerConfig())
	if err != nil {
		return nil, err
	}
	return s.Encrypt(context.Background(), publicKey, plaintext)
}

// Decrypt opens a packed envelope using the default KEM parameter set and
// cipher suite.
func Decrypt(privateKey, data []byte) ([]byte, error) {
	s, err := NewSealer(DefaultSealerConfig())
	if err != nil {
		return nil, err
	}
	return s.Decrypt(context.Background(), privateKey, data)
}
