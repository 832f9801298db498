//go:build !fips
// +build !fips

// This file is compiled when the "fips" build tag is NOT specified.
// In standard mode, all supported cipher suites are available.
package crypto

import "github.com/pqseal/pqseal/internal/constants"

// SupportedCipherSuites returns the list of cipher suites supported in standard mode.
// Both AES-256-GCM and ChaCha20-Poly1305 are available.
func SupportedCipherSuites() []constants.CipherSuite {
	return []constants.CipherSuite{
		constants.CipherSuiteAES256GCM,
		constants.CipherSuiteChaCha20Poly1305,
	}
}

// DefaultCipherSuite returns the cipher suite used by the stateless Seal and
// Open helpers and by the composed envelope operations.
// AES-256-GCM is preferred due to hardware acceleration on modern CPUs. The
// envelope format carries no suite identifier, so both ends of an exchange
// must be built with the same default.
func DefaultCipherSuite() constants.CipherSuite {
	return constants.CipherSuiteAES256GCM
}
