package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pqseal/pqseal/pkg/kem"
	"github.com/pqseal/pqseal/pkg/keyfile"
	"github.com/pqseal/pqseal/pkg/metrics"
)

func runKeygen(schemeName, outPrefix string, cst, force bool, timeout time.Duration, logLevel, logFormat, tracing string) {
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

	pubPath := outPrefix + ".pub"
	keyPath := outPrefix + ".key"

	if !force {
		for _, path := range []string{pubPath, keyPath} {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
				os.Exit(1)
			}
		}
	}

	observer := metrics.NewKeygenObserver(metrics.KeygenObserverConfig{
		Collector: collector,
		Logger:    logger,
		Scheme:    adapter.Name(),
	})

	gen := kem.NewGenerator(kem.GeneratorConfig{
		Adapter:          adapter,
		ConsistencyCheck: cst,
		Observer:         observer,
	})
	defer func() { _ = gen.Close() }()

	fmt.Printf("Generating %s key pair...\n", adapter.Name())
	if adapter.Name() == kem.SchemeMcEliece8192128 {
		fmt.Println("(Classic McEliece key generation takes several seconds)")
	}

	ch, err := gen.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	start := time.Now()
	var res kem.Result
wait:
	for {
		select {
		case res = <-ch:
			break wait
		case <-ticker.C:
			fmt.Printf("  elapsed: %v\r", time.Since(start).Round(time.Second))
		case <-timeoutCh:
			fmt.Println()
			fmt.Fprintf(os.Stderr, "Error: timed out after %v waiting for key generation\n", timeout)
			os.Exit(1)
		case <-sigCh:
			fmt.Println()
			fmt.Fprintln(os.Stderr, "Interrupted")
			os.Exit(1)
		}
	}

	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: key generation failed: %v\n", res.Err)
		os.Exit(1)
	}

	kp := res.KeyPair
	fingerprint := kp.Fingerprint()

	if err := keyfile.WriteKeyPair(pubPath, keyPath, kp); err != nil {
		kp.Zeroize()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	kp.Zeroize()

	fmt.Printf("✓ Key pair generated in %v\n", res.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Scheme:      %s\n", adapter.Name())
	fmt.Printf("  Public key:  %s (%d bytes)\n", pubPath, adapter.PublicKeySize())
	fmt.Printf("  Private key: %s (%d bytes, mode 0600)\n", keyPath, adapter.PrivateKeySize())
	fmt.Printf("  Fingerprint: %s\n", fingerprint)
	if cst {
		fmt.Println("  Consistency: verified")
	}
}
