// Package metrics provides observability primitives for the pqseal library.
//
// The package includes:
//   - Counter and Histogram metric types
//   - Prometheus-compatible metrics export
//   - OpenTelemetry tracing support
//   - Structured logging with levels
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from key generation and envelope operations.
type Collector struct {
	// Key generation metrics
	keygenStarted   atomic.Uint64
	keygenCompleted atomic.Uint64
	keygenFailed    atomic.Uint64
	keygenAbandoned atomic.Uint64
	keygenLatency   *Histogram

	// Envelope metrics
	encryptsTotal atomic.Uint64
	decryptsTotal atomic.Uint64
	bytesSealed   atomic.Uint64
	bytesOpened   atomic.Uint64

	// Failure metrics
	encryptErrors    atomic.Uint64
	decryptErrors    atomic.Uint64
	authFailures     atomic.Uint64
	structuralErrors atomic.Uint64

	// Performance histograms
	encryptLatency *Histogram
	decryptLatency *Histogram

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		keygenLatency:  NewHistogram(KeygenLatencyBuckets),
		encryptLatency: NewHistogram(LatencyBuckets),
		decryptLatency: NewHistogram(LatencyBuckets),
		createdAt:      time.Now(),
		labels:         labels,
	}
}

// Default bucket configurations for histograms.
var (
	// KeygenLatencyBuckets for key generation duration (milliseconds).
	// Classic McEliece key generation runs for several seconds, so the
	// buckets reach far beyond interactive latencies.
	KeygenLatencyBuckets = []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000}

	// LatencyBuckets for encrypt/decrypt operations (microseconds).
	LatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// --- Key Generation Metrics ---

// KeygenStarted increments the started key generation counter.
func (c *Collector) KeygenStarted() {
	c.keygenStarted.Add(1)
}

// KeygenCompleted records a successfully completed key generation.
func (c *Collector) KeygenCompleted() {
	c.keygenCompleted.Add(1)
}

// RecordKeygenFailure records a failed key generation attempt.
func (c *Collector) RecordKeygenFailure() {
	c.keygenFailed.Add(1)
}

// RecordKeygenAbandoned records a key pair discarded because its caller
// stopped waiting.
func (c *Collector) RecordKeygenAbandoned() {
	c.keygenAbandoned.Add(1)
}

// RecordKeygenLatency records a key generation duration.
func (c *Collector) RecordKeygenLatency(d time.Duration) {
	c.keygenLatency.Observe(float64(d.Milliseconds()))
}

// --- Envelope Metrics ---

// RecordEncrypt increments the completed encryption counter.
func (c *Collector) RecordEncrypt() {
	c.encryptsTotal.Add(1)
}

// RecordDecrypt increments the completed decryption counter.
func (c *Collector) RecordDecrypt() {
	c.decryptsTotal.Add(1)
}

// RecordBytesSealed adds to the plaintext bytes sealed counter.
func (c *Collector) RecordBytesSealed(n uint64) {
	c.bytesSealed.Add(n)
}

// RecordBytesOpened adds to the envelope bytes opened counter.
func (c *Collector) RecordBytesOpened(n uint64) {
	c.bytesOpened.Add(n)
}

// --- Failure Metrics ---

// RecordEncryptError increments the encryption error counter.
func (c *Collector) RecordEncryptError() {
	c.encryptErrors.Add(1)
}

// RecordDecryptError increments the decryption error counter.
func (c *Collector) RecordDecryptError() {
	c.decryptErrors.Add(1)
}

// RecordAuthFailure increments the authentication failure counter.
// Authentication failures are counted separately from other decrypt errors
// because a burst of them usually means tampering or a key mismatch rather
// than operator error.
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Add(1)
}

// RecordStructuralError increments the malformed envelope counter.
func (c *Collector) RecordStructuralError() {
	c.structuralErrors.Add(1)
}

// --- Performance Metrics ---

// RecordEncryptLatency records an encryption operation latency.
func (c *Collector) RecordEncryptLatency(d time.Duration) {
	c.encryptLatency.Observe(float64(d.Microseconds()))
}

// RecordDecryptLatency records a decryption operation latency.
func (c *Collector) RecordDecryptLatency(d time.Duration) {
	c.decryptLatency.Observe(float64(d.Microseconds()))
}

// --- Snapshot ---

// Snapshot returns a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp of the snapshot
	Timestamp time.Time

	// Uptime since collector creation
	Uptime time.Duration

	// Key generation metrics
	KeygenStarted   uint64
	KeygenCompleted uint64
	KeygenFailed    uint64
	KeygenAbandoned uint64

	// Envelope metrics
	EncryptsTotal uint64
	DecryptsTotal uint64
	BytesSealed   uint64
	BytesOpened   uint64

	// Failure metrics
	EncryptErrors    uint64
	DecryptErrors    uint64
	AuthFailures     uint64
	StructuralErrors uint64

	// Histogram summaries
	KeygenLatency  HistogramSummary
	EncryptLatency HistogramSummary
	DecryptLatency HistogramSummary

	// Labels
	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:        time.Now(),
		Uptime:           time.Since(c.createdAt),
		KeygenStarted:    c.keygenStarted.Load(),
		KeygenCompleted:  c.keygenCompleted.Load(),
		KeygenFailed:     c.keygenFailed.Load(),
		KeygenAbandoned:  c.keygenAbandoned.Load(),
		EncryptsTotal:    c.encryptsTotal.Load(),
		DecryptsTotal:    c.decryptsTotal.Load(),
		BytesSealed:      c.bytesSealed.Load(),
		BytesOpened:      c.bytesOpened.Load(),
		EncryptErrors:    c.encryptErrors.Load(),
		DecryptErrors:    c.decryptErrors.Load(),
		AuthFailures:     c.authFailures.Load(),
		StructuralErrors: c.structuralErrors.Load(),
		KeygenLatency:    c.keygenLatency.Summary(),
		EncryptLatency:   c.encryptLatency.Summary(),
		DecryptLatency:   c.decryptLatency.Summary(),
		Labels:           c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.keygenStarted.Store(0)
	c.keygenCompleted.Store(0)
	c.keygenFailed.Store(0)
	c.keygenAbandoned.Store(0)
	c.encryptsTotal.Store(0)
	c.decryptsTotal.Store(0)
	c.bytesSealed.Store(0)
	c.bytesOpened.Store(0)
	c.encryptErrors.Store(0)
	c.decryptErrors.Store(0)
	c.authFailures.Store(0)
	c.structuralErrors.Store(0)
	c.keygenLatency.Reset()
	c.encryptLatency.Reset()
	c.decryptLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector.
// Creates one with default settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector.
// Should be called during initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollector = c
}
