package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pqseal/pqseal/internal/constants"
	"github.com/pqseal/pqseal/pkg/envelope"
	"github.com/pqseal/pqseal/pkg/kem"
)

func runInspect(inPath string) {
	text, err := readInput(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	trimmed := strings.TrimSpace(string(text))

	data, err := envelope.DecodeString(trimmed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	env, err := envelope.Unpack(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Envelope: %d bytes (%d base64 characters)\n", env.Size(), len(trimmed))
	fmt.Printf("  KEM ciphertext: %d bytes%s\n", len(env.KEMCiphertext), schemeHint(len(env.KEMCiphertext)))
	fmt.Printf("  Nonce:          %s\n", hex.EncodeToString(env.Nonce))

	sealed := len(env.SealedData)
	if sealed >= constants.AEADTagSize {
		fmt.Printf("  Sealed data:    %d bytes (%d payload + %d tag)\n",
			sealed, sealed-constants.AEADTagSize, constants.AEADTagSize)
	} else {
		fmt.Printf("  Sealed data:    %d bytes (shorter than the %d-byte tag)\n",
			sealed, constants.AEADTagSize)
	}
}

// schemeHint names the registered scheme whose KEM ciphertext size matches,
// if any. The envelope itself carries no scheme identifier.
func schemeHint(ctLen int) string {
	for _, name := range kem.Names() {
		adapter, err := kem.ByName(name)
		if err != nil {
			continue
		}
		if adapter.CiphertextSize() == ctLen {
			return fmt.Sprintf(" (matches %s)", name)
		}
	}
	return " (no registered scheme match)"
}
