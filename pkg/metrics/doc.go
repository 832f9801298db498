// Package metrics provides observability primitives for the pqseal library.
//
// # Overview
//
// The metrics package offers a complete observability solution including:
//   - Metrics collection (counters, histograms)
//   - Prometheus-compatible metrics export
//   - Distributed tracing support (OpenTelemetry-compatible interface)
//   - Structured logging with levels
//
// # Quick Start
//
// Basic usage with the global collector:
//
//	import "github.com/pqseal/pqseal/pkg/metrics"
//
//	// Record metrics
//	metrics.Global().KeygenStarted()
//	metrics.Global().RecordKeygenLatency(8 * time.Second)
//	metrics.Global().RecordBytesSealed(1024)
//
// # Metrics Collection
//
// The Collector type aggregates metrics from key generation and envelope
// operations:
//
//	collector := metrics.NewCollector(metrics.Labels{
//		"instance": "node-1",
//	})
//
//	// Key generation metrics
//	collector.KeygenStarted()
//	collector.KeygenCompleted()
//	collector.RecordKeygenLatency(d)
//
//	// Envelope metrics
//	collector.RecordEncrypt()
//	collector.RecordBytesSealed(n)
//
//	// Security metrics
//	collector.RecordAuthFailure()
//	collector.RecordStructuralError()
//
//	// Get snapshot
//	snap := collector.Snapshot()
//
// # Observer Bridges
//
// EnvelopeObserver and KeygenObserver connect the library's observer hooks
// to a collector, tracer, and logger:
//
//	obs := metrics.NewEnvelopeObserver(metrics.EnvelopeObserverConfig{
//		Collector: collector,
//		Suite:     "AES-256-GCM",
//	})
//	sealer, err := envelope.NewSealer(envelope.SealerConfig{Observer: obs})
//
//	keygenObs := metrics.NewKeygenObserver(metrics.KeygenObserverConfig{
//		Collector: collector,
//		Scheme:    "mceliece8192128",
//	})
//	gen := kem.NewGenerator(kem.GeneratorConfig{Observer: keygenObs})
//
// # Prometheus Export
//
// Export metrics in Prometheus text format to any writer, or mount the
// handler if the embedding process runs an HTTP server:
//
//	exporter := metrics.NewPrometheusExporter(collector, "pqseal")
//	exporter.WriteMetrics(os.Stdout)
//	http.Handle("/metrics", exporter.Handler())
//
// # Tracing
//
// The package provides a Tracer interface compatible with OpenTelemetry:
//
//	// Use the simple tracer for testing
//	tracer := metrics.NewSimpleTracer()
//	metrics.SetTracer(tracer)
//
//	// OpenTelemetry adapter (uses global provider)
//	otelTracer := metrics.NewOTelTracer("pqseal")
//	metrics.SetTracer(otelTracer)
//	// Build with -tags otel to enable the adapter.
//
//	// Start spans
//	ctx, end := metrics.StartSpan(ctx, metrics.SpanEncrypt)
//	defer end(nil) // or end(err) on error
//
// # Structured Logging
//
// The Logger provides structured logging with levels:
//
//	logger := metrics.NewLogger(
//		metrics.WithLevel(metrics.LevelInfo),
//		metrics.WithFormat(metrics.FormatJSON),
//		metrics.WithFields(metrics.Fields{"service": "pqseal"}),
//	)
//
//	logger.Info("envelope sealed", metrics.Fields{
//		"scheme": "mceliece8192128",
//		"bytes":  1024,
//	})
//
//	// Child loggers
//	opLog := logger.Named("envelope").With(metrics.Fields{"suite": "AES-256-GCM"})
//	opLog.Debug("sealing plaintext")
//
// Log lines never carry key material, shared secrets, or plaintext; only
// lengths, names, fingerprints, and durations.
package metrics
