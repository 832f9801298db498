package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pqseal/pqseal/internal/constants"
	"github.com/pqseal/pqseal/pkg/crypto"
	"github.com/pqseal/pqseal/pkg/kem"
	"github.com/pqseal/pqseal/pkg/metrics"
	pkgversion "github.com/pqseal/pqseal/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command := os.Args[1]

	switch command {
	case "keygen":
		keygenCommand()
	case "encrypt":
		encryptCommand()
	case "decrypt":
		decryptCommand()
	case "inspect":
		inspectCommand()
	case "bench":
		benchCommand()
	case "version":
		fmt.Printf("pqseal version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
		if crypto.FIPSMode() {
			fmt.Println("FIPS mode: enabled")
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`pqseal - Post-Quantum Hybrid Encryption Tool

USAGE:
    pqseal <command> [options]

COMMANDS:
    keygen    Generate a KEM key pair and write key files
    encrypt   Encrypt a file or stdin for a public key
    decrypt   Decrypt an envelope with a private key
    inspect   Show the structure of an envelope without decrypting
    bench     Run micro-benchmarks and print collector metrics
    version   Print version information
    help      Show this help message

Run 'pqseal <command> --help' for more information on a command.

EXAMPLES:
    # Generate a Classic McEliece key pair (takes several seconds)
    pqseal keygen --out alice

    # Encrypt a message for alice
    echo "meet at dawn" | pqseal encrypt --pub alice.pub > msg.pqs

    # Decrypt it
    pqseal decrypt --key alice.key --in msg.pqs

    # Look inside an envelope without a key
    pqseal inspect --in msg.pqs

    # Benchmark seal/open with ML-KEM-768
    pqseal bench --iterations 1000 --size 4KB

PROJECT:
    pqseal - Hybrid Post-Quantum Public-Key Encryption
    https://github.com/pqseal/pqseal

    KEM: Classic McEliece 8192128 (NIST Category 5) or ML-KEM-768
    AEAD: AES-256-GCM or ChaCha20-Poly1305`)
}

func keygenCommand() {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	scheme := fs.String("scheme", kem.SchemeMcEliece8192128, "KEM scheme: mceliece8192128 or mlkem768")
	out := fs.String("out", "pqseal", "Output path prefix (writes <prefix>.pub and <prefix>.key)")
	cst := fs.Bool("cst", crypto.FIPSMode(), "Verify the fresh pair with an encapsulate/decapsulate self-check")
	force := fs.Bool("force", false, "Overwrite existing key files")
	timeout := fs.Duration("timeout", 0, "Give up waiting after this long (0 = wait indefinitely)")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	tracing := fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqseal keygen [options]

Generate a KEM key pair and write it as base64 text files. The private
key file is created with mode 0600.

Classic McEliece key generation takes several seconds; it runs on a
background worker, and the wait can be bounded with --timeout.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Default scheme, writes alice.pub and alice.key
    pqseal keygen --out alice

    # Fast scheme with kilobyte-sized keys
    pqseal keygen --scheme mlkem768 --out alice

    # Self-check the pair and give up after a minute
    pqseal keygen --cst --timeout 1m --out alice`)
	}

	_ = fs.Parse(os.Args[2:])

	runKeygen(*scheme, *out, *cst, *force, *timeout, *logLevel, *logFormat, *tracing)
}

func encryptCommand() {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	pub := fs.String("pub", "", "Public key file (required)")
	in := fs.String("in", "-", "Plaintext file ('-' = stdin)")
	out := fs.String("out", "-", "Envelope output file ('-' = stdout)")
	scheme := fs.String("scheme", kem.SchemeMcEliece8192128, "KEM scheme the key belongs to")
	suite := fs.String("suite", "aes-gcm", "Cipher suite: aes-gcm or chacha20")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	tracing := fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqseal encrypt --pub <file> [options]

Encrypt a file or stdin for the holder of a public key. The output is a
single-line base64 envelope safe for textual transport.

Both ends of a deployment must agree on the cipher suite; the envelope
does not carry a suite identifier.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Encrypt stdin to stdout
    echo "meet at dawn" | pqseal encrypt --pub alice.pub

    # Encrypt a file to a file
    pqseal encrypt --pub alice.pub --in report.pdf --out report.pqs

    # ChaCha20-Poly1305 instead of AES-256-GCM
    pqseal encrypt --pub alice.pub --suite chacha20 --in report.pdf`)
	}

	_ = fs.Parse(os.Args[2:])

	if *pub == "" {
		fmt.Fprintln(os.Stderr, "Error: --pub is required")
		fmt.Fprintln(os.Stderr)
		fs.Usage()
		os.Exit(2)
	}

	runEncrypt(*pub, *in, *out, *scheme, *suite, *logLevel, *logFormat, *tracing)
}

func decryptCommand() {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	key := fs.String("key", "", "Private key file (required)")
	in := fs.String("in", "-", "Envelope file ('-' = stdin)")
	out := fs.String("out", "-", "Plaintext output file ('-' = stdout)")
	scheme := fs.String("scheme", kem.SchemeMcEliece8192128, "KEM scheme the key belongs to")
	suite := fs.String("suite", "aes-gcm", "Cipher suite: aes-gcm or chacha20")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	tracing := fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqseal decrypt --key <file> [options]

Decrypt a base64 envelope with a private key and write the plaintext.

A wrong key, a tampered envelope, and a wrong cipher suite are
indistinguishable by design; all of them report the same decryption
failure.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Decrypt a file to stdout
    pqseal decrypt --key alice.key --in msg.pqs

    # Decrypt stdin to a file
    cat report.pqs | pqseal decrypt --key alice.key --out report.pdf`)
	}

	_ = fs.Parse(os.Args[2:])

	if *key == "" {
		fmt.Fprintln(os.Stderr, "Error: --key is required")
		fmt.Fprintln(os.Stderr)
		fs.Usage()
		os.Exit(2)
	}

	runDecrypt(*key, *in, *out, *scheme, *suite, *logLevel, *logFormat, *tracing)
}

func inspectCommand() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	in := fs.String("in", "-", "Envelope file ('-' = stdin)")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqseal inspect [options]

Show the structure of a base64 envelope without decrypting it: the
declared KEM ciphertext length, the nonce, and the sealed data size.
No key is needed and no cryptography runs.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    pqseal inspect --in msg.pqs
    cat msg.pqs | pqseal inspect`)
	}

	_ = fs.Parse(os.Args[2:])

	runInspect(*in)
}

func benchCommand() {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	iterations := fs.Int("iterations", 1000, "Encrypt/decrypt and pack/unpack iterations")
	keygens := fs.Int("keygens", 0, "Number of key generations to benchmark (0 = skip)")
	size := fs.String("size", "1KB", "Plaintext size per operation (e.g., 1KB, 64KB)")
	scheme := fs.String("scheme", kem.SchemeMLKEM768, "KEM scheme: mceliece8192128 or mlkem768")
	suite := fs.String("suite", "aes-gcm", "Cipher suite: aes-gcm or chacha20")

	fs.Usage = func() {
		fmt.Println(`USAGE: pqseal bench [options]

Run micro-benchmarks for encrypt/decrypt and envelope pack/unpack, then
print the metrics collector state in Prometheus text format.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Seal/open 1000 4KB payloads with ML-KEM-768
    pqseal bench --iterations 1000 --size 4KB

    # Include 5 Classic McEliece key generations
    pqseal bench --scheme mceliece8192128 --keygens 5 --iterations 100

    # ChaCha20-Poly1305 suite
    pqseal bench --suite chacha20 --size 64KB`)
	}

	_ = fs.Parse(os.Args[2:])

	runBench(*iterations, *keygens, *size, *scheme, *suite)
}

func setupObservability(logLevel, logFormat, tracing string) (*metrics.Collector, *metrics.Logger, error) {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	format, err := parseLogFormat(logFormat)
	if err != nil {
		return nil, nil, err
	}

	logger := metrics.NewLogger(
		metrics.WithOutput(os.Stderr),
		metrics.WithLevel(level),
		metrics.WithFormat(format),
		metrics.WithFields(metrics.Fields{"app": "pqseal"}),
	)
	metrics.SetLogger(logger)

	switch strings.ToLower(tracing) {
	case "none":
		metrics.SetTracer(metrics.NoOpTracer{})
	case "simple":
		metrics.SetTracer(metrics.NewSimpleTracer())
	case "otel":
		if !metrics.OTelEnabled() {
			return nil, nil, fmt.Errorf("otel tracing not enabled (build with -tags otel)")
		}
		metrics.SetTracer(metrics.NewOTelTracer("pqseal"))
	default:
		return nil, nil, fmt.Errorf("invalid tracing mode: %s (use none, simple, or otel)", tracing)
	}

	collector := metrics.NewCollector(metrics.Labels{
		"service": "pqseal",
	})
	metrics.SetGlobal(collector)

	return collector, logger, nil
}

func parseLogLevel(level string) (metrics.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return metrics.LevelDebug, nil
	case "info":
		return metrics.LevelInfo, nil
	case "warn", "warning":
		return metrics.LevelWarn, nil
	case "error":
		return metrics.LevelError, nil
	case "silent", "off", "none":
		return metrics.LevelSilent, nil
	default:
		return metrics.LevelInfo, fmt.Errorf("invalid log level: %s (use debug, info, warn, error, silent)", level)
	}
}

func parseLogFormat(format string) (metrics.Format, error) {
	switch strings.ToLower(format) {
	case "text":
		return metrics.FormatText, nil
	case "json":
		return metrics.FormatJSON, nil
	default:
		return metrics.FormatText, fmt.Errorf("invalid log format: %s (use text or json)", format)
	}
}

func parseSuite(s string) (constants.CipherSuite, error) {
	switch strings.ToLower(s) {
	case "aes-gcm", "aes-256-gcm":
		return constants.CipherSuiteAES256GCM, nil
	case "chacha20", "chacha20-poly1305":
		return constants.CipherSuiteChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("invalid cipher suite: %s (use aes-gcm or chacha20)", s)
	}
}
