package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pqseal/pqseal/internal/constants"
	"github.com/pqseal/pqseal/pkg/envelope"
	"github.com/pqseal/pqseal/pkg/kem"
	"github.com/pqseal/pqseal/pkg/metrics"
)

func runBench(iterations, keygens int, sizeStr, schemeName, suiteName string) {
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║      pqseal Benchmark                                     ║")
	fmt.Println("║      Hybrid Envelope: KEM + AEAD                          ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

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

	size := parseSize(sizeStr)
	if size <= 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid size: %s\n", sizeStr)
		os.Exit(2)
	}

	if iterations <= 0 && keygens <= 0 {
		fmt.Println("No benchmarks specified. Use --iterations or --keygens")
		fmt.Println("Run 'pqseal bench --help' for usage")
		os.Exit(2)
	}

	collector := metrics.NewCollector(metrics.Labels{"service": "pqseal"})
	logger := metrics.NullLogger()

	if keygens > 0 {
		benchKeygen(adapter, keygens, collector, logger)
		fmt.Println()
	}

	if iterations > 0 {
		benchEnvelope(adapter, suite, int(size), iterations, collector, logger)
		fmt.Println()
		benchPack(adapter, int(size), iterations)
		fmt.Println()
	}

	fmt.Println("Collector Output (Prometheus text format)")
	fmt.Println(strings.Repeat("─", 60))
	metrics.NewPrometheusExporter(collector, "pqseal").WriteMetrics(os.Stdout)
}

func benchKeygen(adapter *kem.Adapter, count int, collector *metrics.Collector, logger *metrics.Logger) {
	fmt.Printf("Benchmarking Key Generation (%d iterations, %s)\n", count, adapter.Name())
	fmt.Println(strings.Repeat("─", 60))

	observer := metrics.NewKeygenObserver(metrics.KeygenObserverConfig{
		Collector: collector,
		Logger:    logger,
		Scheme:    adapter.Name(),
	})
	gen := kem.NewGenerator(kem.GeneratorConfig{
		Adapter:  adapter,
		Observer: observer,
	})
	defer func() { _ = gen.Close() }()

	durations := make([]time.Duration, 0, count)
	failures := 0

	startTime := time.Now()
	for i := 0; i < count; i++ {
		iterStart := time.Now()
		kp, err := gen.Generate(context.Background())
		if err != nil {
			failures++
			continue
		}
		durations = append(durations, time.Since(iterStart))
		kp.Zeroize()

		step := count / 10
		if step == 0 {
			step = 1
		}
		if (i+1)%step == 0 || i == count-1 {
			fmt.Printf("Progress: %d/%d (%.0f%%)\r", i+1, count, float64(i+1)/float64(count)*100)
		}
	}
	fmt.Println()
	totalTime := time.Since(startTime)

	if len(durations) == 0 {
		fmt.Fprintf(os.Stderr, "All key generations failed\n")
		os.Exit(1)
	}

	var sum, min, max time.Duration
	min = time.Hour // Initialize to large value

	for _, d := range durations {
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}

	avg := sum / time.Duration(len(durations))

	fmt.Println("\nResults:")
	fmt.Printf("  Generations: %d\n", count)
	fmt.Printf("  Failed: %d\n", failures)
	fmt.Printf("  Total time: %v\n", totalTime)
	fmt.Println()
	fmt.Println("Key Generation Performance:")
	fmt.Printf("  Average: %v\n", avg)
	fmt.Printf("  Minimum: %v\n", min)
	fmt.Printf("  Maximum: %v\n", max)
}

func benchEnvelope(adapter *kem.Adapter, suite constants.CipherSuite, size, iterations int, collector *metrics.Collector, logger *metrics.Logger) {
	fmt.Printf("Benchmarking Encrypt/Decrypt (%d iterations)\n", iterations)
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Scheme: %s\n", adapter.Name())
	fmt.Printf("Suite: %v\n", suite)
	fmt.Printf("Payload: %s\n\n", formatSize(int64(size)))

	if adapter.Name() == kem.SchemeMcEliece8192128 {
		fmt.Println("Generating key pair (several seconds for this scheme)...")
	} else {
		fmt.Println("Generating key pair...")
	}
	kp, err := adapter.GenerateKeyPair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: key generation failed: %v\n", err)
		os.Exit(1)
	}
	defer kp.Zeroize()

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
		os.Exit(1)
	}

	plaintext := make([]byte, size)
	for i := range plaintext {
		plaintext[i] = byte(i % 256)
	}

	ctx := context.Background()

	var sealed []byte
	encStart := time.Now()
	for i := 0; i < iterations; i++ {
		sealed, err = sealer.Encrypt(ctx, kp.PublicKey, plaintext)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: encrypt failed: %v\n", err)
			os.Exit(1)
		}

		step := iterations / 10
		if step == 0 {
			step = 1
		}
		if (i+1)%step == 0 || i == iterations-1 {
			fmt.Printf("Encrypt: %d/%d (%.0f%%)\r", i+1, iterations, float64(i+1)/float64(iterations)*100)
		}
	}
	encElapsed := time.Since(encStart)
	fmt.Println()

	decStart := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := sealer.Decrypt(ctx, kp.PrivateKey, sealed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: decrypt failed: %v\n", err)
			os.Exit(1)
		}

		step := iterations / 10
		if step == 0 {
			step = 1
		}
		if (i+1)%step == 0 || i == iterations-1 {
			fmt.Printf("Decrypt: %d/%d (%.0f%%)\r", i+1, iterations, float64(i+1)/float64(iterations)*100)
		}
	}
	decElapsed := time.Since(decStart)
	fmt.Println()

	encAvg := encElapsed / time.Duration(iterations)
	decAvg := decElapsed / time.Duration(iterations)
	encMBps := float64(size) * float64(iterations) / encElapsed.Seconds() / 1024 / 1024
	decMBps := float64(size) * float64(iterations) / decElapsed.Seconds() / 1024 / 1024

	fmt.Println("\nResults:")
	fmt.Printf("  Envelope size: %s (%d bytes overhead)\n", formatSize(int64(len(sealed))), len(sealed)-size)
	fmt.Println()
	fmt.Println("Encrypt Performance:")
	fmt.Printf("  Average: %v\n", encAvg)
	fmt.Printf("  Throughput: %.0f ops/sec (%.2f MB/s)\n", float64(iterations)/encElapsed.Seconds(), encMBps)
	fmt.Println()
	fmt.Println("Decrypt Performance:")
	fmt.Printf("  Average: %v\n", decAvg)
	fmt.Printf("  Throughput: %.0f ops/sec (%.2f MB/s)\n", float64(iterations)/decElapsed.Seconds(), decMBps)
	fmt.Println()

	printSealRating(encAvg)
}

func printSealRating(avg time.Duration) {
	if avg < 100*time.Microsecond {
		fmt.Println("✓ Performance: Excellent (< 100µs avg seal)")
	} else if avg < time.Millisecond {
		fmt.Println("✓ Performance: Good (< 1ms avg seal)")
	} else if avg < 10*time.Millisecond {
		fmt.Println("⚠ Performance: Acceptable (< 10ms avg seal)")
	} else {
		fmt.Println("⚠ Performance: Slow (> 10ms avg seal)")
	}
}

func benchPack(adapter *kem.Adapter, size, iterations int) {
	fmt.Printf("Benchmarking Pack/Unpack (%d iterations)\n", iterations)
	fmt.Println(strings.Repeat("─", 60))

	kemCt := make([]byte, adapter.CiphertextSize())
	nonce := make([]byte, constants.AEADNonceSize)
	sealedData := make([]byte, size+constants.AEADTagSize)
	for i := range sealedData {
		sealedData[i] = byte(i % 256)
	}

	var packed []byte
	var err error
	packStart := time.Now()
	for i := 0; i < iterations; i++ {
		packed, err = envelope.Pack(kemCt, nonce, sealedData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: pack failed: %v\n", err)
			os.Exit(1)
		}
	}
	packElapsed := time.Since(packStart)

	unpackStart := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := envelope.Unpack(packed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: unpack failed: %v\n", err)
			os.Exit(1)
		}
	}
	unpackElapsed := time.Since(unpackStart)

	fmt.Println("Results:")
	fmt.Printf("  Envelope size: %s\n", formatSize(int64(len(packed))))
	fmt.Printf("  Pack: %v avg, %.0f ops/sec\n",
		packElapsed/time.Duration(iterations), float64(iterations)/packElapsed.Seconds())
	fmt.Printf("  Unpack: %v avg, %.0f ops/sec\n",
		unpackElapsed/time.Duration(iterations), float64(iterations)/unpackElapsed.Seconds())
}

func parseSize(s string) int64 {
	// Simple parser for sizes like "4KB", "1MB"
	var value int64
	var unit string
	_, _ = fmt.Sscanf(s, "%d%s", &value, &unit)

	switch unit {
	case "KB", "kb", "K", "k":
		return value * 1024
	case "MB", "mb", "M", "m":
		return value * 1024 * 1024
	case "GB", "gb", "G", "g":
		return value * 1024 * 1024 * 1024
	default:
		return value
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := []string{"KB", "MB", "GB", "TB"}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), units[exp])
}
