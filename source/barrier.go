package source

import (
	"context"
	"sync"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Ready is a readiness barrier that is always resolved.
var Ready types.ReadinessBarrier = readyBarrier{}

type readyBarrier struct{}

func (readyBarrier) AwaitReady(ctx context.Context) error {
	return ctx.Err()
}

// Gate is a readiness barrier opened and closed by the host, for example
// when web fonts start and finish loading.
//
// A new Gate is closed.
type Gate struct {
	mu     sync.Mutex
	open   bool
	openCh chan struct{}
}

var _ types.ReadinessBarrier = (*Gate)(nil)

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{openCh: make(chan struct{})}
}

// Open resolves the barrier and releases all waiters.
func (g *Gate) Open() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.open {
		return
	}
	g.open = true
	close(g.openCh)
}

// Close makes later AwaitReady calls block again.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.open {
		return
	}
	g.open = false
	g.openCh = make(chan struct{})
}

// IsOpen reports whether the gate is open.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.open
}

// AwaitReady blocks until the gate opens or ctx is done.
func (g *Gate) AwaitReady(ctx context.Context) error {
	g.mu.Lock()
	ch := g.openCh
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
