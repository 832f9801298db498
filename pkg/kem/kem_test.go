package kem_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/katzenpost/circl/kem/mlkem/mlkem768"

	"github.com/pqseal/pqseal/internal/constants"
	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/kem"
)

func TestAdapterParameters(t *testing.T) {
	tests := []struct {
		name             string
		adapter          *kem.Adapter
		publicKeySize    int
		privateKeySize   int
		ciphertextSize   int
		sharedSecretSize int
	}{
		{
			name:             kem.SchemeMcEliece8192128,
			adapter:          kem.McEliece8192128(),
			publicKeySize:    constants.McEliecePublicKeySize,
			privateKeySize:   constants.McEliecePrivateKeySize,
			ciphertextSize:   constants.McElieceCiphertextSize,
			sharedSecretSize: constants.McElieceSharedSecretSize,
		},
		{
			name:             kem.SchemeMLKEM768,
			adapter:          kem.MLKEM768(),
			publicKeySize:    constants.MLKEMPublicKeySize,
			privateKeySize:   constants.MLKEMPrivateKeySize,
			ciphertextSize:   constants.MLKEMCiphertextSize,
			sharedSecretSize: constants.MLKEMSharedSecretSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.adapter
			if a.Name() != tt.name {
				t.Errorf("Name: got %q, want %q", a.Name(), tt.name)
			}
			if a.PublicKeySize() != tt.publicKeySize {
				t.Errorf("PublicKeySize: got %d, want %d", a.PublicKeySize(), tt.publicKeySize)
			}
			if a.PrivateKeySize() != tt.privateKeySize {
				t.Errorf("PrivateKeySize: got %d, want %d", a.PrivateKeySize(), tt.privateKeySize)
			}
			if a.CiphertextSize() != tt.ciphertextSize {
				t.Errorf("CiphertextSize: got %d, want %d", a.CiphertextSize(), tt.ciphertextSize)
			}
			if a.SharedSecretSize() != tt.sharedSecretSize {
				t.Errorf("SharedSecretSize: got %d, want %d", a.SharedSecretSize(), tt.sharedSecretSize)
			}
			// Every registered set must key the AEAD layer directly.
			if a.SharedSecretSize() != constants.AEADKeySize {
				t.Errorf("SharedSecretSize %d does not match AEAD key size %d",
					a.SharedSecretSize(), constants.AEADKeySize)
			}
			if a.SeedSize() <= 0 {
				t.Errorf("SeedSize: got %d, want > 0", a.SeedSize())
			}
		})
	}
}

func TestDefaultAdapter(t *testing.T) {
	a := kem.Default()
	if a.Name() != kem.SchemeMcEliece8192128 {
		t.Errorf("Default adapter: got %q, want %q", a.Name(), kem.SchemeMcEliece8192128)
	}
}

func TestByName(t *testing.T) {
	for _, name := range kem.Names() {
		a, err := kem.ByName(name)
		if err != nil {
			t.Errorf("ByName(%q) failed: %v", name, err)
			continue
		}
		if a.Name() != name {
			t.Errorf("ByName(%q).Name(): got %q", name, a.Name())
		}
	}

	if _, err := kem.ByName("rsa2048"); err == nil {
		t.Error("ByName with unknown scheme should fail")
	}
	if _, err := kem.ByName(""); err == nil {
		t.Error("ByName with empty name should fail")
	}
}

func TestNames(t *testing.T) {
	names := kem.Names()
	if len(names) != 2 {
		t.Fatalf("Names: got %d entries, want 2", len(names))
	}
	if names[0] != kem.SchemeMcEliece8192128 {
		t.Errorf("Names[0]: got %q, want default scheme first", names[0])
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := kem.NewAdapter("custom", mlkem768.Scheme())
	if err != nil {
		t.Fatalf("NewAdapter failed: %v", err)
	}
	if a.Name() != "custom" {
		t.Errorf("Name: got %q, want %q", a.Name(), "custom")
	}
	if a.SharedSecretSize() != constants.AEADKeySize {
		t.Errorf("SharedSecretSize: got %d, want %d", a.SharedSecretSize(), constants.AEADKeySize)
	}

	if _, err := kem.NewAdapter("nil", nil); err == nil {
		t.Error("NewAdapter with nil scheme should fail")
	}
}

func TestGenerateKeyPair(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if kp == nil {
		t.Fatal("GenerateKeyPair returned nil")
	}

	if len(kp.PublicKey) != a.PublicKeySize() {
		t.Errorf("Public key size: got %d, want %d", len(kp.PublicKey), a.PublicKeySize())
	}
	if len(kp.PrivateKey) != a.PrivateKeySize() {
		t.Errorf("Private key size: got %d, want %d", len(kp.PrivateKey), a.PrivateKeySize())
	}
}

func TestEncapsulateDecapsulate(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	kemCiphertext, sharedSecretEnc, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(kemCiphertext) != a.CiphertextSize() {
		t.Errorf("Ciphertext size: got %d, want %d", len(kemCiphertext), a.CiphertextSize())
	}
	if len(sharedSecretEnc) != a.SharedSecretSize() {
		t.Errorf("Shared secret size: got %d, want %d", len(sharedSecretEnc), a.SharedSecretSize())
	}

	sharedSecretDec, err := a.Decapsulate(kp.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(sharedSecretEnc, sharedSecretDec) {
		t.Error("Shared secrets do not match")
	}
}

func TestMultipleEncapsulations(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	ct1, ss1, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("First Encapsulate failed: %v", err)
	}
	ct2, ss2, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Second Encapsulate failed: %v", err)
	}

	// Encapsulation is randomized; repeats must not collide.
	if bytes.Equal(ct1, ct2) {
		t.Error("Two encapsulations produced identical ciphertexts")
	}
	if bytes.Equal(ss1, ss2) {
		t.Error("Two encapsulations produced identical shared secrets")
	}
}

func TestDecapsulateDeterministic(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	kemCiphertext, _, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	ss1, err := a.Decapsulate(kp.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("First Decapsulate failed: %v", err)
	}
	ss2, err := a.Decapsulate(kp.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("Second Decapsulate failed: %v", err)
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("Decapsulation is not deterministic")
	}
}

func TestMismatchedKeyPair(t *testing.T) {
	a := kem.MLKEM768()

	kpA, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair A failed: %v", err)
	}
	kpB, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair B failed: %v", err)
	}

	kemCiphertext, sharedSecret, err := a.Encapsulate(kpA.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	// Implicit rejection: decapsulating with the wrong private key succeeds
	// but yields a different secret. The mismatch is only detectable when
	// the secret fails downstream authentication.
	wrongSecret, err := a.Decapsulate(kpB.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate with mismatched key returned error: %v", err)
	}
	if bytes.Equal(sharedSecret, wrongSecret) {
		t.Error("Mismatched private key recovered the correct shared secret")
	}
}

func TestEncapsulateInvalidPublicKey(t *testing.T) {
	a := kem.MLKEM768()

	sizes := []int{0, 1, a.PublicKeySize() - 1, a.PublicKeySize() + 1}
	for _, size := range sizes {
		_, _, err := a.Encapsulate(make([]byte, size))
		if !errors.Is(err, perrors.ErrInvalidPublicKey) {
			t.Errorf("Encapsulate with %d-byte key: got %v, want ErrInvalidPublicKey", size, err)
		}
	}
}

func TestDecapsulateInvalidInputs(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	kemCiphertext, _, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}

	for _, size := range []int{0, 1, a.PrivateKeySize() - 1, a.PrivateKeySize() + 1} {
		_, err := a.Decapsulate(make([]byte, size), kemCiphertext)
		if !errors.Is(err, perrors.ErrInvalidPrivateKey) {
			t.Errorf("Decapsulate with %d-byte private key: got %v, want ErrInvalidPrivateKey", size, err)
		}
	}

	for _, size := range []int{0, 1, a.CiphertextSize() - 1, a.CiphertextSize() + 1} {
		_, err := a.Decapsulate(kp.PrivateKey, make([]byte, size))
		if !errors.Is(err, perrors.ErrInvalidCiphertext) {
			t.Errorf("Decapsulate with %d-byte ciphertext: got %v, want ErrInvalidCiphertext", size, err)
		}
	}
}

func TestDeriveKeyPair(t *testing.T) {
	a := kem.MLKEM768()

	seed := make([]byte, a.SeedSize())
	for i := range seed {
		seed[i] = byte(i)
	}

	kp1, err := a.DeriveKeyPair(seed)
	if err != nil {
		t.Fatalf("DeriveKeyPair failed: %v", err)
	}
	kp2, err := a.DeriveKeyPair(seed)
	if err != nil {
		t.Fatalf("Second DeriveKeyPair failed: %v", err)
	}

	if !bytes.Equal(kp1.PublicKey, kp2.PublicKey) {
		t.Error("Derived public keys differ for the same seed")
	}
	if !bytes.Equal(kp1.PrivateKey, kp2.PrivateKey) {
		t.Error("Derived private keys differ for the same seed")
	}

	// Derived pairs must work like generated ones.
	kemCiphertext, ssEnc, err := a.Encapsulate(kp1.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate with derived key failed: %v", err)
	}
	ssDec, err := a.Decapsulate(kp1.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate with derived key failed: %v", err)
	}
	if !bytes.Equal(ssEnc, ssDec) {
		t.Error("Derived key pair round trip failed")
	}
}

func TestDeriveKeyPairInvalidSeed(t *testing.T) {
	a := kem.MLKEM768()

	for _, size := range []int{0, 1, a.SeedSize() - 1, a.SeedSize() + 1} {
		_, err := a.DeriveKeyPair(make([]byte, size))
		if !errors.Is(err, perrors.ErrInvalidSeed) {
			t.Errorf("DeriveKeyPair with %d-byte seed: got %v, want ErrInvalidSeed", size, err)
		}
	}
}

func TestKeyPairZeroize(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	publicCopy := make([]byte, len(kp.PublicKey))
	copy(publicCopy, kp.PublicKey)

	kp.Zeroize()

	for i, b := range kp.PrivateKey {
		if b != 0 {
			t.Fatalf("Private key byte %d not zeroized", i)
		}
	}
	if !bytes.Equal(kp.PublicKey, publicCopy) {
		t.Error("Zeroize modified the public key")
	}

	// Second call and nil receiver must not panic.
	kp.Zeroize()
	var nilKP *kem.KeyPair
	nilKP.Zeroize()
}

func TestKeyPairFingerprint(t *testing.T) {
	a := kem.MLKEM768()

	kp1, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	kp2, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	fp1 := kp1.Fingerprint()
	fp2 := kp2.Fingerprint()

	if len(fp1) != constants.FingerprintSize*2 {
		t.Errorf("Fingerprint length: got %d, want %d", len(fp1), constants.FingerprintSize*2)
	}
	if fp1 == fp2 {
		t.Error("Distinct key pairs produced identical fingerprints")
	}
	if fp1 != kp1.Fingerprint() {
		t.Error("Fingerprint is not deterministic")
	}

	var nilKP *kem.KeyPair
	if nilKP.Fingerprint() != "" {
		t.Error("Fingerprint of nil key pair should be empty")
	}
}

func TestMcElieceRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-second Classic McEliece key generation")
	}

	a := kem.McEliece8192128()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if len(kp.PublicKey) != constants.McEliecePublicKeySize {
		t.Errorf("Public key size: got %d, want %d", len(kp.PublicKey), constants.McEliecePublicKeySize)
	}
	if len(kp.PrivateKey) != constants.McEliecePrivateKeySize {
		t.Errorf("Private key size: got %d, want %d", len(kp.PrivateKey), constants.McEliecePrivateKeySize)
	}

	kemCiphertext, ssEnc, err := a.Encapsulate(kp.PublicKey)
	if err != nil {
		t.Fatalf("Encapsulate failed: %v", err)
	}
	if len(kemCiphertext) != constants.McElieceCiphertextSize {
		t.Errorf("Ciphertext size: got %d, want %d", len(kemCiphertext), constants.McElieceCiphertextSize)
	}

	ssDec, err := a.Decapsulate(kp.PrivateKey, kemCiphertext)
	if err != nil {
		t.Fatalf("Decapsulate failed: %v", err)
	}
	if !bytes.Equal(ssEnc, ssDec) {
		t.Error("Shared secrets do not match")
	}
}
