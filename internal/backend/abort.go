package backend

import (
	"context"
	"sync"
)

// AbortController exposes an idempotent Abort() and a clonable Signal(),
// per spec.md §5's "Cancellation semantics". Shared between the event loop
// and the backend stream; a single Abort() call is enough regardless of how
// many times it's invoked or how many Signal() clones are in circulation.
type AbortController struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewAbortController creates a controller bound to parent.
func NewAbortController(parent context.Context) *AbortController {
	ctx, cancel := context.WithCancel(parent)
	return &AbortController{ctx: ctx, cancel: cancel}
}

// Abort cancels the controller's context. Safe to call more than once; only
// the first call has an effect.
func (a *AbortController) Abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancel()
}

// Signal returns the controller's context, which a Backend propagates into
// its transport layer. Every caller observes the same cancellation.
func (a *AbortController) Signal() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctx
}

// Aborted reports whether Abort has been called.
func (a *AbortController) Aborted() bool {
	select {
	case <-a.Signal().Done():
		return true
	default:
		return false
	}
}
