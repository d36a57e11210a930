package reflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/strategy"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// fakeProvider is a scriptable MeasurementProvider.
type fakeProvider struct {
	mu        sync.Mutex
	height    float64
	blocks    []types.AtomicBlock
	heightErr error
	blocksErr error
	barrier   func(ctx context.Context) error
	callbacks map[int]func()
	nextID    int

	measureCalls atomic.Int32
	barrierCalls atomic.Int32
}

func newFakeProvider(height float64, blocks ...types.AtomicBlock) *fakeProvider {
	return &fakeProvider{height: height, blocks: blocks, callbacks: make(map[int]func())}
}

func (p *fakeProvider) MeasureContentHeight(ctx context.Context) (float64, error) {
	p.measureCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.height, p.heightErr
}

func (p *fakeProvider) MeasureAtomicBlocks(_ context.Context) ([]types.AtomicBlock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]types.AtomicBlock(nil), p.blocks...), p.blocksErr
}

func (p *fakeProvider) AwaitReady(ctx context.Context) error {
	p.barrierCalls.Add(1)

	p.mu.Lock()
	barrier := p.barrier
	p.mu.Unlock()

	if barrier == nil {
		return nil
	}

	return barrier(ctx)
}

func (p *fakeProvider) OnChange(callback func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.callbacks[id] = callback

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.callbacks, id)
	}
}

func (p *fakeProvider) setHeight(h float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.height = h
}

func (p *fakeProvider) setBarrier(fn func(ctx context.Context) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.barrier = fn
}

// change fires every registered callback, as a content mutation would.
func (p *fakeProvider) change() {
	p.mu.Lock()
	cbs := make([]func(), 0, len(p.callbacks))
	for _, cb := range p.callbacks {
		cbs = append(cbs, cb)
	}
	p.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

func (p *fakeProvider) subscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.callbacks)
}

// layoutRecorder collects layouts handed to OnLayout.
type layoutRecorder struct {
	mu      sync.Mutex
	layouts []types.Layout
}

func (r *layoutRecorder) record(_ context.Context, l types.Layout) types.Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts = append(r.layouts, l)

	return l
}

func (r *layoutRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.layouts)
}

func (r *layoutRecorder) last() types.Layout {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.layouts[len(r.layouts)-1]
}

var a4Settings = types.PageSettings{
	PageSize: types.PageSizeA4,
	Margins:  types.Margins{Top: 10, Bottom: 10, Left: 10, Right: 10},
}

// a4PageHeight is the A4 content height with 10mm margins: 277mm at 96dpi.
const a4PageHeight = 277 * 96 / 25.4

func newTestLoop(t *testing.T, p *fakeProvider, rec *layoutRecorder, mutate ...func(*Config)) *Loop {
	t.Helper()

	cfg := &Config{
		Provider:         p,
		Strategy:         strategy.NewAvoidSplit(),
		Settings:         a4Settings,
		Debounce:         50 * time.Millisecond,
		ReadinessTimeout: time.Second,
		OperationTimeout: time.Second,
		OnLayout:         rec.record,
		Logger:           logging.NewTest(t),
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	l, err := NewLoop(cfg)
	require.NoError(t, err)

	return l
}

func startLoop(t *testing.T, l *Loop) types.Layout {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	layout, err := l.Start(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = l.Stop(stopCtx)
	})

	return layout
}
