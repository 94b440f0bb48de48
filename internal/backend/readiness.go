package backend

import (
	"context"
	"sync"
)

// Readiness is a one-way latch: closed until the actor session is
// established, open forever after.
type Readiness struct {
	once sync.Once
	ch   chan struct{}
}

func NewReadiness() *Readiness {
	return &Readiness{ch: make(chan struct{})}
}

func (r *Readiness) MarkReady() {
	r.once.Do(func() { close(r.ch) })
}

func (r *Readiness) Ready() bool {
	select {
	case <-r.ch:
		return true
	default:
		return false
	}
}

// Done is closed once the session is ready.
func (r *Readiness) Done() <-chan struct{} {
	return r.ch
}

// Wait blocks until the session is ready or ctx ends. A cancelled wait is
// reported as ErrNotReady: the call was deferred, not failed.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.ch:
		return nil
	default:
	}
	select {
	case <-r.ch:
		return nil
	case <-ctx.Done():
		return ErrNotReady
	}
}
