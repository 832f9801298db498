package metrics

import (
	"context"
	"time"

	"github.com/pqseal/pqseal/pkg/envelope"
)

// EnvelopeObserver implements envelope.Observer and records metrics, traces,
// and log lines for seal and open operations. Attach it to a Sealer through
// SealerConfig.Observer.
type EnvelopeObserver struct {
	collector *Collector
	tracer    Tracer
	logger    *Logger
}

// EnvelopeObserverConfig configures an envelope observer.
type EnvelopeObserverConfig struct {
	Collector *Collector
	Tracer    Tracer
	Logger    *Logger

	// Suite is a display name attached to log lines, e.g. "AES-256-GCM".
	Suite string
}

// NewEnvelopeObserver creates a new envelope observer.
func NewEnvelopeObserver(cfg EnvelopeObserverConfig) *EnvelopeObserver {
	if cfg.Collector == nil {
		cfg.Collector = Global()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = GetTracer()
	}
	if cfg.Logger == nil {
		cfg.Logger = GetLogger()
	}

	logger := cfg.Logger.Named("envelope")
	if cfg.Suite != "" {
		logger = logger.With(Fields{"suite": cfg.Suite})
	}

	return &EnvelopeObserver{
		collector: cfg.Collector,
		tracer:    cfg.Tracer,
		logger:    logger,
	}
}

// Ensure EnvelopeObserver implements envelope.Observer.
var _ envelope.Observer = (*EnvelopeObserver)(nil)

// OnEncrypt implements envelope.Observer.
func (o *EnvelopeObserver) OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error)) {
	start := time.Now()
	ctx, endSpan := o.tracer.StartSpan(ctx, SpanEncrypt)

	return ctx, func(err error) {
		duration := time.Since(start)
		o.collector.RecordEncryptLatency(duration)

		if err != nil {
			o.collector.RecordEncryptError()
			o.logger.Debug("encrypt failed", Fields{"error": err.Error()})
		} else {
			o.collector.RecordEncrypt()
			o.collector.RecordBytesSealed(uint64(plaintextLen))
		}

		endSpan(err)
	}
}

// OnDecrypt implements envelope.Observer.
//
// The completion error is the detailed internal error, not the single
// collapsed error the Decrypt boundary returns to callers, so spans and log
// lines show the failing stage.
func (o *EnvelopeObserver) OnDecrypt(ctx context.Context, envelopeLen int) (context.Context, func(error)) {
	start := time.Now()
	ctx, endSpan := o.tracer.StartSpan(ctx, SpanDecrypt)

	return ctx, func(err error) {
		duration := time.Since(start)
		o.collector.RecordDecryptLatency(duration)

		if err != nil {
			o.collector.RecordDecryptError()
			o.logger.Debug("decrypt failed", Fields{"error": err.Error()})
		} else {
			o.collector.RecordDecrypt()
			o.collector.RecordBytesOpened(uint64(envelopeLen))
		}

		endSpan(err)
	}
}

// OnAuthFailure implements envelope.Observer.
func (o *EnvelopeObserver) OnAuthFailure() {
	o.collector.RecordAuthFailure()
	o.logger.Warn("authentication failed")
}

// OnStructuralError implements envelope.Observer.
func (o *EnvelopeObserver) OnStructuralError(err error) {
	o.collector.RecordStructuralError()
	o.logger.Warn("malformed envelope", Fields{"error": err.Error()})
}

// Logger returns the observer's logger for custom logging.
func (o *EnvelopeObserver) Logger() *Logger {
	return o.logger
}
