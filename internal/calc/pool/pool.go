// Package pool reuses evaluator handles across evaluations.
//
// Handle construction dominates single-call overhead, so finished callers
// park their handles here instead of destroying them. The pool's slice is
// the only shared mutable state in the pipeline; its mutex is held only for
// a pop or push, never across an evaluation.
package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/msdcalc/internal/calc"
	"github.com/okian/msdcalc/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultRetryInterval = time.Millisecond
	defaultMaxIdle       = 64
)

// Pool is a mutex-guarded LIFO of idle evaluator handles.
type Pool struct {
	mu      sync.Mutex
	idle    []calc.Handle
	engine  calc.Engine
	retry   time.Duration
	maxIdle int
}

// New creates a pool that constructs fresh handles from engine when empty.
func New(engine calc.Engine, opts ...Option) *Pool {
	p := &Pool{
		engine:  engine,
		retry:   defaultRetryInterval,
		maxIdle: defaultMaxIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire returns a pooled handle if a valid one exists, otherwise
// constructs a fresh one. It never returns an invalid handle.
func (p *Pool) Acquire(ctx context.Context) (calc.Handle, error) {
	for {
		h, ok := p.pop()
		if !ok {
			break
		}
		if h.Valid() {
			metrics.RecordPoolAcquire(true)
			return h, nil
		}
		// Stale handle: discard and keep looking. Reconstructing is the
		// recovery, so this is not reported to the caller.
		h.Close()
		metrics.RecordPoolDiscard()
	}

	h, err := p.engine.Construct(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", calc.ErrConstructionFailed, err)
	}
	if h == nil || !h.Valid() {
		return nil, calc.ErrConstructionFailed
	}
	metrics.RecordPoolAcquire(false)
	metrics.RecordPoolConstruction()
	return h, nil
}

// AcquireWithTimeout retries Acquire with a short sleep between attempts
// until a handle is obtained or the deadline elapses. The timeout failure is
// distinct from construction failure so callers can retry with backoff.
func (p *Pool) AcquireWithTimeout(ctx context.Context, timeout time.Duration) (calc.Handle, error) {
	deadline := time.Now().Add(timeout)
	for {
		h, err := p.Acquire(ctx)
		if err == nil {
			return h, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if time.Now().After(deadline) {
			metrics.RecordPoolTimeout()
			return nil, fmt.Errorf("%w after %s: %w", ErrAcquireTimeout, timeout, err)
		}
		time.Sleep(p.retry)
	}
}

// Release returns a handle to the pool. Invalid handles are destroyed
// instead of pooled; when the pool is already at its idle cap the handle is
// destroyed rather than grown into.
func (p *Pool) Release(h calc.Handle) {
	if h == nil {
		return
	}
	if !h.Valid() {
		h.Close()
		metrics.RecordPoolDiscard()
		return
	}

	p.mu.Lock()
	if len(p.idle) >= p.maxIdle {
		p.mu.Unlock()
		h.Close()
		metrics.RecordPoolDiscard()
		return
	}
	p.idle = append(p.idle, h)
	size := len(p.idle)
	p.mu.Unlock()

	metrics.UpdatePoolSize(size)
}

// Prepopulate constructs count handles up front to take construction cost
// out of the first real requests. All-or-nothing: on any failure the handles
// already built are destroyed and none are pooled.
func (p *Pool) Prepopulate(ctx context.Context, count int) error {
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	built := make([]calc.Handle, 0, count)
	for i := 0; i < count; i++ {
		h, err := p.engine.Construct(ctx)
		if err != nil || h == nil || !h.Valid() {
			for _, b := range built {
				b.Close()
			}
			if err != nil {
				return fmt.Errorf("%w: handle %d: %w", calc.ErrConstructionFailed, i, err)
			}
			return fmt.Errorf("%w: handle %d", calc.ErrConstructionFailed, i)
		}
		metrics.RecordPoolConstruction()
		built = append(built, h)
	}

	p.mu.Lock()
	p.idle = append(p.idle, built...)
	size := len(p.idle)
	p.mu.Unlock()

	metrics.UpdatePoolSize(size)
	return nil
}

// Size returns the number of idle handles.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Clear destroys every idle handle.
func (p *Pool) Clear() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, h := range idle {
		h.Close()
	}
	metrics.UpdatePoolSize(0)
}

// pop removes and returns the most recently released handle.
func (p *Pool) pop() (calc.Handle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.idle)
	if n == 0 {
		return nil, false
	}
	h := p.idle[n-1]
	p.idle[n-1] = nil
	p.idle = p.idle[:n-1]
	metrics.UpdatePoolSize(n - 1)
	return h, true
}
