package kem

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	perrors "github.com/pqseal/pqseal/internal/errors"
	"github.com/pqseal/pqseal/pkg/crypto"
)

// GeneratorObserver provides hooks for key generation lifecycle events.
// Implementations should be lightweight; callbacks run on the worker
// goroutine.
type GeneratorObserver interface {
	OnGenerateStart()
	OnGenerateComplete(elapsed time.Duration, err error)
	OnResultAbandoned()
}

// GeneratorConfig holds configuration for a Generator.
type GeneratorConfig struct {
	// Adapter selects the KEM parameter set.
	// Default: Default()
	Adapter *Adapter

	// ConsistencyCheck runs a pairwise consistency test on every fresh
	// pair before it is handed out.
	// Default: enabled in FIPS mode, disabled otherwise
	ConsistencyCheck bool

	// Observer receives generation lifecycle events.
	// Optional - if nil, events are not reported.
	Observer GeneratorObserver
}

// DefaultGeneratorConfig returns a GeneratorConfig with sensible defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Adapter:          Default(),
		ConsistencyCheck: crypto.FIPSMode(),
	}
}

func (c *GeneratorConfig) applyDefaults() {
	if c.Adapter == nil {
		c.Adapter = Default()
	}
}

// Generator runs key generation on worker goroutines so that callers can
// bound their wait. The underlying primitive has no cancellation point;
// for the default parameter set a single generation takes several seconds
// and, once entered, always runs to completion. The Generator's job is to
// keep that fact away from callers: waits are context-bounded, and a pair
// whose caller gave up waiting is zeroized and discarded when it finishes.
type Generator struct {
	cfg GeneratorConfig

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	started   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	abandoned atomic.Uint64
}

// Result carries one finished generation.
type Result struct {
	KeyPair *KeyPair
	Err     error
	Elapsed time.Duration
}

// NewGenerator returns a Generator using cfg. Zero-value fields are filled
// with defaults.
func NewGenerator(cfg GeneratorConfig) *Generator {
	cfg.applyDefaults()
	return &Generator{cfg: cfg}
}

// Adapter returns the adapter this generator produces keys for.
func (g *Generator) Adapter() *Adapter {
	return g.cfg.Adapter
}

// Start launches one generation and returns the channel that will deliver
// its result. The channel is buffered, so the worker never blocks on
// delivery and an uncollected result is simply held until read. Start
// itself returns immediately; it fails only after Close.
func (g *Generator) Start() (<-chan Result, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, perrors.ErrGeneratorClosed
	}
	g.wg.Add(1)
	g.mu.Unlock()

	ch := make(chan Result, 1)
	go g.run(ch)
	return ch, nil
}

func (g *Generator) run(ch chan<- Result) {
	defer g.wg.Done()

	g.started.Add(1)
	if obs := g.cfg.Observer; obs != nil {
		obs.OnGenerateStart()
	}

	startTime := time.Now()
	var kp *KeyPair
	var err error
	if g.cfg.ConsistencyCheck {
		kp, err = g.cfg.Adapter.GenerateKeyPairWithCST()
	} else {
		kp, err = g.cfg.Adapter.GenerateKeyPair()
	}
	elapsed := time.Since(startTime)

	if err != nil {
		g.failed.Add(1)
	} else {
		g.completed.Add(1)
	}
	if obs := g.cfg.Observer; obs != nil {
		obs.OnGenerateComplete(elapsed, err)
	}

	ch <- Result{KeyPair: kp, Err: err, Elapsed: elapsed}
}

// Generate runs one key generation and waits for it. The context bounds
// only the wait, not the work: when ctx expires the generation keeps
// running on its worker, and the pair it eventually produces is zeroized
// and discarded. Abandoning a wait therefore costs a wasted generation,
// never a leaked key.
func (g *Generator) Generate(ctx context.Context) (*KeyPair, error) {
	ch, err := g.Start()
	if err != nil {
		return nil, err
	}
	select {
	case r := <-ch:
		return r.KeyPair, r.Err
	case <-ctx.Done():
		go g.discard(ch)
		return nil, ctx.Err()
	}
}

// discard drains an abandoned result channel and wipes the key material.
func (g *Generator) discard(ch <-chan Result) {
	r := <-ch
	if r.KeyPair != nil {
		r.KeyPair.Zeroize()
	}
	g.abandoned.Add(1)
	if obs := g.cfg.Observer; obs != nil {
		obs.OnResultAbandoned()
	}
}

// Close marks the generator closed and waits for in-flight generations to
// finish. Their results are still delivered to the channels Start handed
// out. Close is idempotent.
func (g *Generator) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()
	return nil
}

// GeneratorStats is a snapshot of generation counters. Abandoned counts
// pairs that finished after their caller stopped waiting; those pairs were
// zeroized on arrival.
type GeneratorStats struct {
	Started   uint64
	Completed uint64
	Failed    uint64
	Abandoned uint64
}

// Stats returns a snapshot of the generation counters.
func (g *Generator) Stats() GeneratorStats {
	return GeneratorStats{
		Started:   g.started.Load(),
		Completed: g.completed.Load(),
		Failed:    g.failed.Load(),
		Abandoned: g.abandoned.Load(),
	}
}
