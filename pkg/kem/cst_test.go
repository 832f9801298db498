package kem_test

import (
	"testing"

	"github.com/pqseal/pqseal/pkg/kem"
)

func TestPairwiseConsistencyTest(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	result := a.PairwiseConsistencyTest(kp)
	if !result.Passed {
		t.Errorf("Consistency test failed for a valid pair: %v", result.Error)
	}
	if result.Error != nil {
		t.Errorf("Passed result carries error: %v", result.Error)
	}
}

func TestPairwiseConsistencyTestInvalidPair(t *testing.T) {
	a := kem.MLKEM768()

	tests := []struct {
		name string
		kp   *kem.KeyPair
	}{
		{"nil pair", nil},
		{"empty pair", &kem.KeyPair{}},
		{"missing private key", &kem.KeyPair{PublicKey: make([]byte, a.PublicKeySize())}},
		{"missing public key", &kem.KeyPair{PrivateKey: make([]byte, a.PrivateKeySize())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.PairwiseConsistencyTest(tt.kp)
			if result.Passed {
				t.Error("Consistency test passed for an invalid pair")
			}
			if result.Error == nil {
				t.Error("Failed result carries no error")
			}
		})
	}
}

func TestPairwiseConsistencyTestMismatchedHalves(t *testing.T) {
	a := kem.MLKEM768()

	kpA, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair A failed: %v", err)
	}
	kpB, err := a.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair B failed: %v", err)
	}

	// A public key paired with an unrelated private key must never pass,
	// whether decapsulation fails overtly or returns a wrong secret.
	franken := &kem.KeyPair{PublicKey: kpA.PublicKey, PrivateKey: kpB.PrivateKey}
	result := a.PairwiseConsistencyTest(franken)
	if result.Passed {
		t.Error("Consistency test passed for mismatched key halves")
	}
}

func TestGenerateKeyPairWithCST(t *testing.T) {
	a := kem.MLKEM768()

	kp, err := a.GenerateKeyPairWithCST()
	if err != nil {
		t.Fatalf("GenerateKeyPairWithCST failed: %v", err)
	}
	if len(kp.PublicKey) != a.PublicKeySize() {
		t.Errorf("Public key size: got %d, want %d", len(kp.PublicKey), a.PublicKeySize())
	}
	if len(kp.PrivateKey) != a.PrivateKeySize() {
		t.Errorf("Private key size: got %d, want %d", len(kp.PrivateKey), a.PrivateKeySize())
	}

	result := a.PairwiseConsistencyTest(kp)
	if !result.Passed {
		t.Errorf("Checked pair failed a second consistency test: %v", result.Error)
	}
}
