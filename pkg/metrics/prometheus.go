package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given collector.
// The namespace is prepended to all metric names (e.g., "pqseal").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Key Generation Metrics ---
	e.writeHelp(w, "keygen_started_total", "Total key generation attempts started")
	e.writeType(w, "keygen_started_total", "counter")
	e.writeMetric(w, "keygen_started_total", labels, float64(snap.KeygenStarted))

	e.writeHelp(w, "keygen_completed_total", "Total key generations completed successfully")
	e.writeType(w, "keygen_completed_total", "counter")
	e.writeMetric(w, "keygen_completed_total", labels, float64(snap.KeygenCompleted))

	e.writeHelp(w, "keygen_failed_total", "Total key generations that failed")
	e.writeType(w, "keygen_failed_total", "counter")
	e.writeMetric(w, "keygen_failed_total", labels, float64(snap.KeygenFailed))

	e.writeHelp(w, "keygen_abandoned_total", "Total generated key pairs discarded because the caller stopped waiting")
	e.writeType(w, "keygen_abandoned_total", "counter")
	e.writeMetric(w, "keygen_abandoned_total", labels, float64(snap.KeygenAbandoned))

	// --- Envelope Metrics ---
	e.writeHelp(w, "encrypts_total", "Total envelopes sealed")
	e.writeType(w, "encrypts_total", "counter")
	e.writeMetric(w, "encrypts_total", labels, float64(snap.EncryptsTotal))

	e.writeHelp(w, "decrypts_total", "Total envelopes opened")
	e.writeType(w, "decrypts_total", "counter")
	e.writeMetric(w, "decrypts_total", labels, float64(snap.DecryptsTotal))

	e.writeHelp(w, "bytes_sealed_total", "Total plaintext bytes sealed")
	e.writeType(w, "bytes_sealed_total", "counter")
	e.writeMetric(w, "bytes_sealed_total", labels, float64(snap.BytesSealed))

	e.writeHelp(w, "bytes_opened_total", "Total envelope bytes opened")
	e.writeType(w, "bytes_opened_total", "counter")
	e.writeMetric(w, "bytes_opened_total", labels, float64(snap.BytesOpened))

	// --- Failure Metrics ---
	e.writeHelp(w, "encrypt_errors_total", "Total encryption errors")
	e.writeType(w, "encrypt_errors_total", "counter")
	e.writeMetric(w, "encrypt_errors_total", labels, float64(snap.EncryptErrors))

	e.writeHelp(w, "decrypt_errors_total", "Total decryption errors")
	e.writeType(w, "decrypt_errors_total", "counter")
	e.writeMetric(w, "decrypt_errors_total", labels, float64(snap.DecryptErrors))

	e.writeHelp(w, "auth_failures_total", "Total authentication failures during envelope opening")
	e.writeType(w, "auth_failures_total", "counter")
	e.writeMetric(w, "auth_failures_total", labels, float64(snap.AuthFailures))

	e.writeHelp(w, "structural_errors_total", "Total malformed envelopes rejected before decryption")
	e.writeType(w, "structural_errors_total", "counter")
	e.writeMetric(w, "structural_errors_total", labels, float64(snap.StructuralErrors))

	// --- Uptime ---
	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Histograms ---
	e.writeHistogram(w, "keygen_duration_milliseconds", "Key generation duration in milliseconds", labels, snap.KeygenLatency)
	e.writeHistogram(w, "encrypt_duration_microseconds", "Encryption duration in microseconds", labels, snap.EncryptLatency)
	e.writeHistogram(w, "decrypt_duration_microseconds", "Decryption duration in microseconds", labels, snap.DecryptLatency)
}

// writeHelp writes a HELP line.
func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

// writeType writes a TYPE line.
func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

// writeMetric writes a single metric line.
func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

// writeHistogram writes a histogram in Prometheus format.
func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	// Write bucket counts
	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	// Write sum and count
	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		// Escape label values
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

// escapePromValue escapes a string for use as a Prometheus label value.
func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
