package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pqseal/pqseal/pkg/envelope"
	"github.com/pqseal/pqseal/pkg/kem"
	"github.com/pqseal/pqseal/pkg/keyfile"
	"github.com/pqseal/pqseal/pkg/metrics"
)

func runEncrypt(pubPath, inPath, outPath, schemeName, suiteName, logLevel, logFormat, tracing string) {
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

	publicKey, err := keyfile.ReadPublicKey(pubPath, adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plaintext, err := readInput(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	text, err := sealer.EncryptToString(context.Background(), publicKey, plaintext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutput(outPath, []byte(text+"\n")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outPath != "" && outPath != "-" {
		fmt.Printf("✓ Encrypted %d bytes → %s (%d base64 characters)\n", len(plaintext), outPath, len(text))
	}
}

// readInput reads all of path, or stdin when path is "-" or empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes data to path, or stdout when path is "-" or empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
