package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pqseal/pqseal/pkg/crypto"
	"github.com/pqseal/pqseal/pkg/envelope"
	"github.com/pqseal/pqseal/pkg/kem"
	"github.com/pqseal/pqseal/pkg/keyfile"
	"github.com/pqseal/pqseal/pkg/metrics"
)

func runDecrypt(keyPath, inPath, outPath, schemeName, suiteName, logLevel, logFormat, tracing string) {
	collector, logger, err := setupObservability(logLevel, logFormat, tracing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	adapter, err := kem.ByName(schemeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	suite, err := parseSuite(suiteName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	observer := metrics.NewEnvelopeObserver(metrics.EnvelopeObserverConfig{
		Collector: collector,
		Logger:    logger,
		Suite:     suite.String(),
	})

	sealer, err := envelope.NewSealer(envelope.SealerConfig{
		Adapter:  adapter,
		Suite:    suite,
		Observer: observer,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	text, err := readInput(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	privateKey, err := keyfile.ReadPrivateKey(keyPath, adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plaintext, err := sealer.DecryptString(context.Background(), privateKey, strings.TrimSpace(string(text)))
	crypto.Zeroize(privateKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutput(outPath, plaintext); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outPath != "" && outPath != "-" {
		fmt.Printf("✓ Decrypted %d bytes → %s\n", len(plaintext), outPath)
	}
}
