package envelope

import "context"

// Observer provides hooks for envelope operation lifecycle, metrics, and
// tracing. Implementations should be lightweight; callbacks run inline with
// the operation.
//
// OnEncrypt and OnDecrypt return a context for the operation and a
// completion callback. The completion callback receives the detailed
// internal error, including failure stages that the public Decrypt boundary
// deliberately collapses; observers are in-process diagnostics and sit
// inside that boundary.
type Observer interface {
	OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error))
	OnDecrypt(ctx context.Context, envelopeLen int) (context.Context, func(error))
	OnAuthFailure()
	OnStructuralError(err error)
}

// NopObserver is an Observer that does nothing.
type NopObserver struct{}

func (NopObserver) OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error)) {
	return ctx, func(error) {}
}

func (NopObserver) OnDecrypt(ctx context.Context, envelopeLen int) (context.Context, func(error)) {
	return ctx, func(error) {}
}

func (NopObserver) OnAuthFailure() {}

func (NopObserver) OnStructuralError(err error) {}

// MultiObserver fans callbacks out to several observers in order. The
// context returned by each OnEncrypt/OnDecrypt feeds the next, so tracing
// and metrics observers compose.
type MultiObserver []Observer

func (m MultiObserver) OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error)) {
	dones := make([]func(error), 0, len(m))
	for _, o := range m {
		var done func(error)
		ctx, done = o.OnEncrypt(ctx, plaintextLen)
		dones = append(dones, done)
	}
	return ctx, func(err error) {
		// Completion runs in reverse so the first observer closes last.
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](err)
		}
	}
}

func (m MultiObserver) OnDecrypt(ctx context.Context, envelopeLen int) (context.Context, func(error)) {
	dones := make([]func(error), 0, len(m))
	for _, o := range m {
		var done func(error)
		ctx, done = o.OnDecrypt(ctx, envelopeLen)
		dones = append(dones, done)
	}
	return ctx, func(err error) {
		for i := len(dones) - 1; i >= 0; i-- {
			dones[i](err)
		}
	}
}

func (m MultiObserver) OnAuthFailure() {
	for _, o := range m {
		o.OnAuthFailure()
	}
}

func (m MultiObserver) OnStructuralError(err error) {
	for _, o := range m {
		o.OnStructuralError(err)
	}
}
