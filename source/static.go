package source

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Static implements a measurement provider over in-memory geometry.
type Static struct {
	mu       sync.RWMutex
	height   float64
	blocks   []types.AtomicBlock
	detached bool

	listeners *xsync.Map[uint64, func()]
	nextID    atomic.Uint64
	barrier   types.ReadinessBarrier
}

var _ types.MeasurementProvider = (*Static)(nil)

// StaticOption configures a Static provider.
type StaticOption func(*Static)

// WithBarrier sets the readiness barrier. The default is Ready.
func WithBarrier(b types.ReadinessBarrier) StaticOption {
	return func(s *Static) {
		if b != nil {
			s.barrier = b
		}
	}
}

// NewStatic creates a new static measurement provider.
//
// The geometry only changes through Update, which notifies every
// registered change listener. Useful for tests, for precomputed geometry
// files, and for hosts that measure content themselves.
//
// Parameters:
//   - height: Total flowed content height in pixels
//   - blocks: Atomic blocks in document order
//   - opts: Optional configuration (WithBarrier)
//
// Returns:
//   - *Static: Initialized static provider
//
// Example:
//
//	src := source.NewStatic(1800, []types.AtomicBlock{
//	    {Top: 0, Bottom: 240},
//	    {Top: 900, Bottom: 1150},
//	})
//	ctrl, err := pagination.NewController(&cfg, src)
//	if err != nil { /* handle */ }
func NewStatic(height float64, blocks []types.AtomicBlock, opts ...StaticOption) *Static {
	s := &Static{
		height:    height,
		blocks:    cloneBlocks(blocks),
		listeners: xsync.NewMap[uint64, func()](),
		barrier:   Ready,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewStaticFromGeometry creates a static provider from loaded geometry.
func NewStaticFromGeometry(g *Geometry, opts ...StaticOption) *Static {
	return NewStatic(g.ContentHeight, g.Blocks, opts...)
}

// MeasureContentHeight returns the current content height.
//
// Returns:
//   - float64: Content height in pixels
//   - error: types.ErrMeasurementUnavailable after Detach
func (s *Static) MeasureContentHeight(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detached {
		return 0, fmt.Errorf("static content detached: %w", types.ErrMeasurementUnavailable)
	}

	return s.height, nil
}

// MeasureAtomicBlocks returns a copy of the current atomic blocks.
func (s *Static) MeasureAtomicBlocks(_ context.Context) ([]types.AtomicBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.detached {
		return nil, fmt.Errorf("static content detached: %w", types.ErrMeasurementUnavailable)
	}

	return cloneBlocks(s.blocks), nil
}

// AwaitReady delegates to the configured barrier.
func (s *Static) AwaitReady(ctx context.Context) error {
	return s.barrier.AwaitReady(ctx)
}

// OnChange registers a change listener.
func (s *Static) OnChange(callback func()) func() {
	id := s.nextID.Add(1)
	s.listeners.Store(id, callback)

	return func() { s.listeners.Delete(id) }
}

// Update replaces the geometry and notifies listeners.
//
// Example:
//
//	src := source.NewStatic(900, nil)
//	// Later: the user added an entry
//	src.Update(1400, []types.AtomicBlock{{Top: 850, Bottom: 1100}})
func (s *Static) Update(height float64, blocks []types.AtomicBlock) {
	s.mu.Lock()
	s.height = height
	s.blocks = cloneBlocks(blocks)
	s.detached = false
	s.mu.Unlock()

	s.notify()
}

// Detach makes every measurement fail with types.ErrMeasurementUnavailable
// until the next Update, as if the content region had been removed.
// Listeners are notified.
func (s *Static) Detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()

	s.notify()
}

// ListenerCount returns the number of registered change listeners.
func (s *Static) ListenerCount() int {
	return s.listeners.Size()
}

func (s *Static) notify() {
	s.listeners.Range(func(_ uint64, cb func()) bool {
		cb()
		return true
	})
}

func cloneBlocks(blocks []types.AtomicBlock) []types.AtomicBlock {
	if blocks == nil {
		return nil
	}
	out := make([]types.AtomicBlock, len(blocks))
	copy(out, blocks)

	return out
}
