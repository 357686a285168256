package startup

import (
	"context"
	"sync"
	"time"
)

// Gate blocks the interactive surface until the startup load settles. Once
// open it stays open.
type Gate struct {
	once   sync.Once
	mu     sync.RWMutex
	result Result
	ready  chan struct{}
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// Open records the load result and releases waiters. Later calls are ignored.
func (g *Gate) Open(r Result) {
	g.once.Do(func() {
		g.mu.Lock()
		g.result = r
		g.mu.Unlock()
		close(g.ready)
	})
}

// Ready is closed once the gate opens.
func (g *Gate) Ready() <-chan struct{} { return g.ready }

// IsOpen reports whether the gate has opened.
func (g *Gate) IsOpen() bool {
	select {
	case <-g.ready:
		return true
	default:
		return false
	}
}

// Result returns the recorded result; the zero Result while closed.
func (g *Gate) Result() Result {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.result
}

// Wait blocks until the gate opens or ctx is done.
func (g *Gate) Wait(ctx context.Context) (Result, error) {
	select {
	case <-g.ready:
		return g.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Run loads and opens the gate with the result.
func (l *Loader) Run(ctx context.Context, g *Gate, maxAttempts int, delay time.Duration) Result {
	r := l.Load(ctx, maxAttempts, delay)
	g.Open(r)
	return r
}
