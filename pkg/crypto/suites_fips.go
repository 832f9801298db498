//go:build fips
// +build fips

// This file is compiled when the "fips" build tag is specified.
// In FIPS mode, only FIPS 140-3 approved cipher suites are available.
package crypto

import "github.com/pqseal/pqseal/internal/constants"

// SupportedCipherSuites returns the list of cipher suites supported in FIPS mode.
// In FIPS mode, only AES-256-GCM is available as it is FIPS 140-3 approved.
func SupportedCipherSuites() []constants.CipherSuite {
	return []constants.CipherSuite{constants.CipherSuiteAES256GCM}
}

// DefaultCipherSuite returns the cipher suite used by the stateless Seal and
// Open helpers and by the composed envelope operations.
// In FIPS mode, AES-256-GCM is the only option.
func DefaultCipherSuite() constants.CipherSuite {
	return constants.CipherSuiteAES256GCM
}
