package metrics

import (
	"time"

	"github.com/pqseal/pqseal/pkg/kem"
)

// KeygenObserver implements kem.GeneratorObserver and records metrics and
// log lines for background key generation. Attach it through
// GeneratorConfig.Observer.
type KeygenObserver struct {
	collector *Collector
	logger    *Logger
}

// KeygenObserverConfig configures a keygen observer.
type KeygenObserverConfig struct {
	Collector *Collector
	Logger    *Logger

	// Scheme is a display name attached to log lines, e.g. "mceliece8192128".
	Scheme string
}

// NewKeygenObserver creates a new keygen observer.
func NewKeygenObserver(cfg KeygenObserverConfig) *KeygenObserver {
	if cfg.Collector == nil {
		cfg.Collector = Global()
	}
	if cfg.Logger == nil {
		cfg.Logger = GetLogger()
	}

	logger := cfg.Logger.Named("keygen")
	if cfg.Scheme != "" {
		logger = logger.With(Fields{"scheme": cfg.Scheme})
	}

	return &KeygenObserver{
		collector: cfg.Collector,
		logger:    logger,
	}
}

// Ensure KeygenObserver implements kem.GeneratorObserver.
var _ kem.GeneratorObserver = (*KeygenObserver)(nil)

// OnGenerateStart implements kem.GeneratorObserver.
func (o *KeygenObserver) OnGenerateStart() {
	o.collector.KeygenStarted()
	o.logger.Debug("key generation started")
}

// OnGenerateComplete implements kem.GeneratorObserver.
func (o *KeygenObserver) OnGenerateComplete(elapsed time.Duration, err error) {
	o.collector.RecordKeygenLatency(elapsed)

	if err != nil {
		o.collector.RecordKeygenFailure()
		o.logger.Error("key generation failed", Fields{
			"error":    err.Error(),
			"duration": elapsed.String(),
		})
		return
	}

	o.collector.KeygenCompleted()
	o.logger.Info("key generation completed", Fields{
		"duration": elapsed.String(),
	})
}

// OnResultAbandoned implements kem.GeneratorObserver.
func (o *KeygenObserver) OnResultAbandoned() {
	o.collector.RecordKeygenAbandoned()
	o.logger.Warn("generated key pair abandoned by caller")
}

// Logger returns the observer's logger for custom logging.
func (o *KeygenObserver) Logger() *Logger {
	return o.logger
}
