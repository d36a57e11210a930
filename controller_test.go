package pagination

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/source"
	"github.com/srbhr/Resume-Matcher-sub001/strategy"
)

// a4PageHeight is the A4 content height with 10mm margins, in pixels.
var a4PageHeight = 277 * 96 / 25.4

type recordingSink struct {
	mu      sync.Mutex
	layouts []Layout
	err     error
}

func (s *recordingSink) PublishLayout(_ context.Context, layout Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts = append(s.layouts, layout)

	return s.err
}

func (s *recordingSink) versions() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int64, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, l.Version)
	}

	return out
}

func newTestController(t *testing.T, provider MeasurementProvider, opts ...Option) *Controller {
	t.Helper()

	cfg := TestConfig()
	opts = append([]Option{WithLogger(logging.NewTest(t))}, opts...)

	ctrl, err := NewController(&cfg, provider, opts...)
	require.NoError(t, err)

	return ctrl
}

func startController(t *testing.T, ctrl *Controller) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	require.NoError(t, ctrl.Start(ctx))
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = ctrl.Stop(stopCtx)
	})
}

func TestNewController_Validation(t *testing.T) {
	provider := source.NewStatic(100, nil)

	_, err := NewController(nil, provider)
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg := TestConfig()
	_, err = NewController(&cfg, nil)
	require.ErrorIs(t, err, ErrProviderRequired)

	cfg = TestConfig()
	cfg.Margins.Top = 30
	_, err = NewController(&cfg, provider)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.ErrorIs(t, err, ErrMarginOutOfRange)

	cfg = TestConfig()
	cfg.PageSize = "A3"
	_, err = NewController(&cfg, provider)
	require.ErrorIs(t, err, ErrUnknownPageSize)
}

func TestNewController_AppliesDefaults(t *testing.T) {
	cfg := Config{}
	ctrl, err := NewController(&cfg, source.NewStatic(100, nil))
	require.NoError(t, err)

	require.Equal(t, PageSizeA4, ctrl.Settings().PageSize)
	require.Equal(t, Margins{Top: 10, Bottom: 10, Left: 10, Right: 10}, ctrl.Settings().Margins)
	require.IsType(t, &strategy.AvoidSplit{}, ctrl.Strategy())
	require.Equal(t, ControllerIdle, ctrl.State())
}

func TestController_BeforeStart(t *testing.T) {
	ctrl := newTestController(t, source.NewStatic(100, nil))

	layout := ctrl.Layout()
	require.Equal(t, EmptyLayout().Pages, layout.Pages)
	require.Zero(t, layout.Version)

	require.ErrorIs(t, ctrl.Refresh(), ErrNotStarted)
	require.ErrorIs(t, ctrl.Stop(t.Context()), ErrNotStarted)

	_, err := ctrl.Configure(t.Context(), PageSettings{PageSize: PageSizeLetter})
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestController_InitialLayout(t *testing.T) {
	provider := source.NewStatic(2500, nil)
	ctrl := newTestController(t, provider)
	startController(t, ctrl)

	layout := ctrl.Layout()
	require.Equal(t, int64(1), layout.Version)
	require.Equal(t, ReasonInitial, layout.Reason)
	require.Equal(t, 2500.0, layout.TotalContentHeight)
	require.Equal(t, 3, layout.PageCount())
	require.InDelta(t, a4PageHeight, layout.ContentArea.Height, 1e-9)
	require.False(t, layout.IsCalculating)

	require.Equal(t, 0.0, layout.Pages[0].ContentOffset)
	require.Equal(t, 2500.0, layout.Pages[2].ContentEnd)
	require.Equal(t, 1, provider.ListenerCount())

	require.ErrorIs(t, ctrl.Start(t.Context()), ErrAlreadyStarted)
}

func TestController_KeepsAtomicBlocksWhole(t *testing.T) {
	// The block straddles the first natural break at ~1046.9px.
	block := AtomicBlock{Top: 900, Bottom: 1200}
	ctrl := newTestController(t, source.NewStatic(1800, []AtomicBlock{block}))
	startController(t, ctrl)

	layout := ctrl.Layout()
	require.Equal(t, 2, layout.PageCount())
	require.Equal(t, 900.0, layout.Pages[0].ContentEnd)
	require.Equal(t, 900.0, layout.Pages[1].ContentOffset)
	require.Equal(t, 1800.0, layout.Pages[1].ContentEnd)
}

func TestController_ChangesAreDebounced(t *testing.T) {
	provider := source.NewStatic(500, nil)
	ctrl := newTestController(t, provider)
	startController(t, ctrl)

	for _, h := range []float64{800, 1500, 2200} {
		provider.Update(h, nil)
	}

	require.Eventually(t, func() bool {
		return ctrl.Layout().Version == 2
	}, 2*time.Second, 5*time.Millisecond)

	layout := ctrl.Layout()
	require.Equal(t, ReasonContentChanged, layout.Reason)
	require.Equal(t, 2200.0, layout.TotalContentHeight)
	require.Equal(t, 3, layout.PageCount())

	require.Never(t, func() bool {
		return ctrl.Layout().Version > 2
	}, 150*time.Millisecond, 10*time.Millisecond)
}

func TestController_Configure(t *testing.T) {
	ctrl := newTestController(t, source.NewStatic(1000, nil))
	startController(t, ctrl)
	require.Equal(t, 1, ctrl.Layout().PageCount())

	settings := PageSettings{
		PageSize: PageSizeLetter,
		Margins:  Margins{Top: 25, Bottom: 25, Left: 25, Right: 25},
	}
	layout, err := ctrl.Configure(t.Context(), settings)
	require.NoError(t, err)

	// Letter is 279.4mm tall; 50mm of margins leaves 229.4mm.
	require.InDelta(t, 229.4*96/25.4, layout.ContentArea.Height, 1e-9)
	require.InDelta(t, (215.9-50)*96/25.4, layout.ContentArea.Width, 1e-9)
	require.Equal(t, 2, layout.PageCount())
	require.Equal(t, ReasonSettingsChanged, layout.Reason)
	require.Equal(t, int64(2), layout.Version)

	require.Equal(t, settings, ctrl.Settings())
	require.Equal(t, layout.Version, ctrl.Layout().Version)
}

func TestController_Recalculate(t *testing.T) {
	provider := source.NewStatic(1000, nil)
	ctrl := newTestController(t, provider)
	startController(t, ctrl)

	layout, err := ctrl.Recalculate(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(2), layout.Version)
	require.Equal(t, ReasonManual, layout.Reason)
	require.Equal(t, ctrl.Layout().Fingerprint(), layout.Fingerprint())
}

func TestController_Refresh(t *testing.T) {
	ctrl := newTestController(t, source.NewStatic(1000, nil))
	startController(t, ctrl)

	require.NoError(t, ctrl.Refresh())
	require.NoError(t, ctrl.Refresh())

	require.Eventually(t, func() bool {
		return ctrl.Layout().Version == 2
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, ReasonManual, ctrl.Layout().Reason)
}

func TestController_HooksFireOnGeometryChangeOnly(t *testing.T) {
	var (
		mu      sync.Mutex
		changes [][2]int64
	)
	hooks := &Hooks{
		OnLayoutChanged: func(_ context.Context, prev, next Layout) error {
			mu.Lock()
			defer mu.Unlock()
			changes = append(changes, [2]int64{prev.Version, next.Version})

			return errors.New("ignored")
		},
	}

	provider := source.NewStatic(1000, nil)
	ctrl := newTestController(t, provider, WithHooks(hooks))
	startController(t, ctrl)

	changeCount := func() int {
		mu.Lock()
		defer mu.Unlock()

		return len(changes)
	}

	require.Eventually(t, func() bool { return changeCount() == 1 }, time.Second, 5*time.Millisecond)

	// Same geometry: published, but not a change.
	_, err := ctrl.Recalculate(t.Context())
	require.NoError(t, err)
	require.Never(t, func() bool { return changeCount() > 1 }, 100*time.Millisecond, 10*time.Millisecond)

	provider.Update(3000, nil)
	require.Eventually(t, func() bool { return changeCount() == 2 }, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	require.Equal(t, [2]int64{0, 1}, changes[0])
	require.Equal(t, [2]int64{2, 3}, changes[1])
	mu.Unlock()
}

func TestController_StateHooks(t *testing.T) {
	var calculating, idle atomic.Int32
	hooks := &Hooks{
		OnStateChanged: func(_ context.Context, _, to ControllerState) error {
			if to == ControllerCalculating {
				calculating.Add(1)
			} else {
				idle.Add(1)
			}

			return nil
		},
	}

	ctrl := newTestController(t, source.NewStatic(1000, nil), WithHooks(hooks))
	startController(t, ctrl)

	require.Eventually(t, func() bool {
		return calculating.Load() == 1 && idle.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestController_IsCalculatingWhileAwaitingReadiness(t *testing.T) {
	gate := source.NewGate()
	gate.Open()

	cfg := TestConfig()
	cfg.ReadinessTimeout = 5 * time.Second
	ctrl, err := NewController(&cfg, source.NewStatic(1000, nil, source.WithBarrier(gate)),
		WithLogger(logging.NewTest(t)))
	require.NoError(t, err)
	startController(t, ctrl)

	gate.Close()
	require.NoError(t, ctrl.Refresh())

	require.Eventually(t, ctrl.IsCalculating, time.Second, 5*time.Millisecond)

	// The previous layout stays visible, flagged as stale.
	layout := ctrl.Layout()
	require.True(t, layout.IsCalculating)
	require.Equal(t, int64(1), layout.Version)

	gate.Open()
	require.Eventually(t, func() bool {
		l := ctrl.Layout()
		return l.Version == 2 && !l.IsCalculating
	}, time.Second, 5*time.Millisecond)
}

func TestController_MeasurementFailure(t *testing.T) {
	errCh := make(chan error, 4)
	hooks := &Hooks{
		OnError: func(_ context.Context, err error) error {
			errCh <- err
			return nil
		},
	}

	provider := source.NewStatic(3000, nil)
	ctrl := newTestController(t, provider, WithHooks(hooks))
	startController(t, ctrl)
	require.Equal(t, 3, ctrl.Layout().PageCount())

	provider.Detach()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrMeasurementUnavailable)
	case <-time.After(2 * time.Second):
		t.Fatal("expected OnError")
	}

	require.Eventually(t, func() bool {
		return ctrl.Layout().Version == 2
	}, time.Second, 5*time.Millisecond)

	layout := ctrl.Layout()
	require.Equal(t, EmptyLayout().Pages, layout.Pages)
	require.Zero(t, layout.TotalContentHeight)
}

func TestController_Sinks(t *testing.T) {
	good := &recordingSink{}
	bad := &recordingSink{err: errors.New("bucket unavailable")}

	errCh := make(chan error, 8)
	hooks := &Hooks{
		OnError: func(_ context.Context, err error) error {
			errCh <- err
			return nil
		},
	}

	ctrl := newTestController(t, source.NewStatic(1000, nil),
		WithLayoutSink(bad),
		WithLayoutSink(nil),
		WithLayoutSink(good),
		WithHooks(hooks),
	)
	startController(t, ctrl)

	_, err := ctrl.Recalculate(t.Context())
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2}, good.versions())
	require.Equal(t, []int64{1, 2}, bad.versions())

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrPublishFailed)
		require.ErrorContains(t, err, "bucket unavailable")
	case <-time.After(time.Second):
		t.Fatal("expected OnError for failing sink")
	}
}

func TestController_Subscribe(t *testing.T) {
	provider := source.NewStatic(1000, nil)
	ctrl := newTestController(t, provider)

	early, unsubscribeEarly := ctrl.Subscribe()
	defer unsubscribeEarly()

	startController(t, ctrl)

	select {
	case layout := <-early:
		require.Equal(t, int64(1), layout.Version)
	case <-time.After(time.Second):
		t.Fatal("expected initial layout")
	}

	late, unsubscribeLate := ctrl.Subscribe()
	defer unsubscribeLate()

	select {
	case layout := <-late:
		require.Equal(t, int64(1), layout.Version)
	case <-time.After(time.Second):
		t.Fatal("expected current layout on subscribe")
	}

	// Nobody reads early while two more layouts are published; it keeps
	// only the newest.
	for range 2 {
		_, err := ctrl.Recalculate(t.Context())
		require.NoError(t, err)
	}

	layout := <-early
	require.Equal(t, int64(3), layout.Version)
	select {
	case extra := <-early:
		t.Fatalf("unexpected stale layout %d", extra.Version)
	default:
	}
}

func TestController_SubscribeDuringPublishKeepsNewest(t *testing.T) {
	ctrl := newTestController(t, source.NewStatic(2500, nil))
	startController(t, ctrl)

	const recalculations, subscribers = 20, 64

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		channels []<-chan Layout
	)
	for range recalculations {
		wg.Go(func() {
			_, err := ctrl.Recalculate(t.Context())
			assert.NoError(t, err)
		})
	}
	for range subscribers {
		wg.Go(func() {
			ch, unsubscribe := ctrl.Subscribe()
			t.Cleanup(unsubscribe)

			mu.Lock()
			channels = append(channels, ch)
			mu.Unlock()
		})
	}
	wg.Wait()

	want := ctrl.Layout().Version
	require.Equal(t, int64(1+recalculations), want)

	for _, ch := range channels {
		select {
		case layout := <-ch:
			require.Equal(t, want, layout.Version)
		default:
			t.Fatal("subscriber has no layout")
		}
	}
}

func TestController_SubscriberMutationIsIsolated(t *testing.T) {
	ctrl := newTestController(t, source.NewStatic(2500, nil))
	startController(t, ctrl)

	ch, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	layout := <-ch
	layout.Pages[0].ContentEnd = math.Inf(1)

	require.Equal(t, 0.0, ctrl.Layout().Pages[0].ContentOffset)
	require.False(t, math.IsInf(ctrl.Layout().Pages[0].ContentEnd, 1))
}

func TestController_Stop(t *testing.T) {
	var changes atomic.Int32
	hooks := &Hooks{
		OnLayoutChanged: func(context.Context, Layout, Layout) error {
			changes.Add(1)
			return nil
		},
	}

	provider := source.NewStatic(1000, nil)
	ctrl := newTestController(t, provider, WithHooks(hooks))

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Start(ctx))

	layouts, _ := ctrl.Subscribe()
	states, _ := ctrl.SubscribeToStateChanges()

	// A pending debounce window is dropped by Stop.
	provider.Update(5000, nil)
	require.NoError(t, ctrl.Stop(ctx))

	require.Equal(t, 0, provider.ListenerCount())
	require.ErrorIs(t, ctrl.Stop(ctx), ErrControllerStopped)
	require.ErrorIs(t, ctrl.Refresh(), ErrControllerStopped)

	_, err := ctrl.Recalculate(ctx)
	require.ErrorIs(t, err, ErrControllerStopped)

	published := ctrl.Layout().Version
	provider.Update(7000, nil)
	require.Never(t, func() bool {
		return ctrl.Layout().Version != published
	}, 100*time.Millisecond, 10*time.Millisecond)
	require.Equal(t, int32(published), changes.Load()) //nolint:gosec // G115: small test value

	// Subscriber channels are closed once drained.
	for range layouts {
	}
	for range states {
	}

	closed, _ := ctrl.Subscribe()
	_, ok := <-closed
	require.False(t, ok)
}
