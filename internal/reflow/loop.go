package reflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/srbhr/Resume-Matcher-sub001/dimension"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// request is an explicit, non-coalescing computation request.
type request struct {
	settings *types.PageSettings // nil keeps the current settings
	reason   string
	reply    chan types.Layout // buffered (1)
}

// Loop serializes all layout computations on one goroutine.
type Loop struct {
	provider types.MeasurementProvider
	strategy types.BreakStrategy

	debounce         time.Duration
	readinessTimeout time.Duration
	operationTimeout time.Duration

	onLayout      func(ctx context.Context, layout types.Layout) types.Layout
	onStateChange func(from, to types.ControllerState)
	onError       func(err error)

	logger  types.Logger
	metrics types.ControllerMetrics

	state    *StateMachine
	settings atomic.Pointer[types.PageSettings]

	notifyCh  chan string // capacity 1; a full channel means a trigger is already queued
	requestCh chan request

	started     atomic.Bool
	alive       atomic.Bool
	cancel      context.CancelFunc
	unsubscribe func()
	doneCh      chan struct{}
}

// NewLoop creates a loop with validated configuration.
//
// Parameters:
//   - cfg: Loop configuration (Provider, Strategy and Settings are required)
//
// Returns:
//   - *Loop: New loop ready to start
//   - error: Validation error wrapping types.ErrInvalidConfig
func NewLoop(cfg *Config) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, types.ErrProviderRequired) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}
	cfg.SetDefaults()

	l := &Loop{
		provider:         cfg.Provider,
		strategy:         cfg.Strategy,
		debounce:         cfg.Debounce,
		readinessTimeout: cfg.ReadinessTimeout,
		operationTimeout: cfg.OperationTimeout,
		onLayout:         cfg.OnLayout,
		onStateChange:    cfg.OnStateChange,
		onError:          cfg.OnError,
		logger:           cfg.Logger,
		metrics:          cfg.Metrics,
		state:            NewStateMachine(cfg.Logger, cfg.Metrics),
		notifyCh:         make(chan string, 1),
		requestCh:        make(chan request),
		doneCh:           make(chan struct{}),
	}

	settings := cfg.Settings
	l.settings.Store(&settings)

	return l, nil
}

// Start subscribes to provider changes, starts the loop goroutine and
// computes the initial layout.
//
// Start returns once the initial layout has been published. If ctx ends
// first the loop is torn down and ctx's error is returned.
//
// Returns:
//   - types.Layout: The initial layout
//   - error: types.ErrAlreadyStarted, or ctx's error
func (l *Loop) Start(ctx context.Context) (types.Layout, error) {
	if !l.started.CompareAndSwap(false, true) {
		return types.Layout{}, types.ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l.cancel = cancel
	l.unsubscribe = l.provider.OnChange(func() { l.Notify(ReasonContentChanged) })
	l.alive.Store(true)

	go l.run(loopCtx)

	layout, err := l.Submit(ctx, nil, ReasonInitial)
	if err != nil {
		l.teardown()
		<-l.doneCh

		return types.Layout{}, fmt.Errorf("initial layout: %w", err)
	}

	return layout, nil
}

// Stop tears the loop down.
//
// It cancels the pending debounce window and any in-flight readiness wait,
// unsubscribes from the provider and waits for the loop goroutine to exit.
// Results of an interrupted computation are dropped. After Stop returns,
// OnLayout, OnStateChange and OnError are never called again.
//
// Returns:
//   - error: types.ErrNotStarted, types.ErrControllerStopped on a second
//     call, or ctx's error if the loop did not exit in time
func (l *Loop) Stop(ctx context.Context) error {
	if !l.started.Load() {
		return types.ErrNotStarted
	}
	if !l.teardown() {
		return types.ErrControllerStopped
	}

	select {
	case <-l.doneCh:
	case <-ctx.Done():
		return fmt.Errorf("waiting for reflow loop: %w", ctx.Err())
	}

	l.state.Close()

	return nil
}

// teardown flips the liveness flag and cancels the loop. It reports whether
// this call performed the teardown.
func (l *Loop) teardown() bool {
	if !l.alive.CompareAndSwap(true, false) {
		return false
	}

	if l.unsubscribe != nil {
		l.unsubscribe()
	}
	l.cancel()

	return true
}

// Notify schedules a debounced recomputation.
//
// Notifications inside one quiet window collapse into a single computation
// that runs once the window elapses. Safe to call from any goroutine.
func (l *Loop) Notify(reason string) {
	if !l.alive.Load() {
		return
	}

	select {
	case l.notifyCh <- reason:
	default:
		l.metrics.RecordNotificationCoalesced()
	}
}

// Submit runs an immediate computation, bypassing the debounce.
//
// Requests are never coalesced: every call gets its own computation, queued
// behind the one in flight. If ctx ends while queued or computing, Submit
// returns early but an accepted request still runs to completion.
//
// Parameters:
//   - ctx: Bounds how long the caller waits
//   - settings: New page settings, or nil to keep the current ones
//   - reason: Trigger reason recorded on the layout
//
// Returns:
//   - types.Layout: The layout computed for this request
//   - error: types.ErrControllerStopped, types.ErrNotStarted, or ctx's error
func (l *Loop) Submit(ctx context.Context, settings *types.PageSettings, reason string) (types.Layout, error) {
	if !l.started.Load() {
		return types.Layout{}, types.ErrNotStarted
	}
	if !l.alive.Load() {
		return types.Layout{}, types.ErrControllerStopped
	}

	req := request{reason: reason, reply: make(chan types.Layout, 1)}
	if settings != nil {
		s := *settings
		req.settings = &s
	}

	select {
	case l.requestCh <- req:
	case <-l.doneCh:
		return types.Layout{}, types.ErrControllerStopped
	case <-ctx.Done():
		return types.Layout{}, ctx.Err()
	}

	select {
	case layout := <-req.reply:
		return layout, nil
	case <-l.doneCh:
		return types.Layout{}, types.ErrControllerStopped
	case <-ctx.Done():
		return types.Layout{}, ctx.Err()
	}
}

// State returns the current controller state.
func (l *Loop) State() types.ControllerState {
	return l.state.State()
}

// SubscribeToStateChanges returns a channel of state transitions.
func (l *Loop) SubscribeToStateChanges() (<-chan types.ControllerState, func()) {
	return l.state.Subscribe()
}

// Settings returns the page settings used by the most recent request.
func (l *Loop) Settings() types.PageSettings {
	return *l.settings.Load()
}

// IsAlive reports whether the loop has started and not been torn down.
func (l *Loop) IsAlive() bool {
	return l.alive.Load()
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.doneCh)

	deb := newDebouncer(l.debounce)
	defer deb.stop()

	pendingReason := ReasonContentChanged

	for {
		if ctx.Err() != nil {
			return
		}

		// Explicit requests take priority over a debounce window that fired
		// at the same time.
		select {
		case req := <-l.requestCh:
			l.serve(ctx, req)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return
		case req := <-l.requestCh:
			l.serve(ctx, req)
		case reason := <-l.notifyCh:
			pendingReason = reason
			if deb.reset() {
				l.metrics.RecordNotificationCoalesced()
			}
		case <-deb.C():
			deb.fired()
			l.compute(ctx, pendingReason)
		}
	}
}

func (l *Loop) serve(ctx context.Context, req request) {
	if req.settings != nil {
		l.settings.Store(req.settings)
	}

	if layout, ok := l.compute(ctx, req.reason); ok {
		req.reply <- layout
	}
}

// compute runs one full computation and publishes the result. It reports
// false if the result was dropped because the loop was torn down.
func (l *Loop) compute(ctx context.Context, reason string) (types.Layout, bool) {
	if ctx.Err() != nil {
		return types.Layout{}, false
	}

	start := time.Now()
	l.transition(types.ControllerCalculating)
	defer l.transition(types.ControllerIdle)

	settings := l.Settings()

	l.awaitReady(ctx)
	if ctx.Err() != nil {
		l.logger.Debug("computation abandoned during readiness wait", "reason", reason)
		return types.Layout{}, false
	}

	area := dimension.ContentArea(settings.PageSize, settings.Margins)

	layout, err := l.measure(ctx, area.Height)
	if err != nil {
		if ctx.Err() != nil {
			return types.Layout{}, false
		}

		l.logger.Warn("measurement failed, publishing empty layout", "reason", reason, "error", err)
		l.onError(err)
		layout = types.EmptyLayout()
	}

	layout.ContentArea = area
	layout.Reason = reason
	layout.IsCalculating = false

	if !l.alive.Load() || ctx.Err() != nil {
		l.logger.Debug("dropping layout computed after teardown", "reason", reason)
		return types.Layout{}, false
	}

	layout = l.onLayout(ctx, layout)

	duration := time.Since(start)
	l.metrics.RecordRecalculation(reason, duration.Seconds(), layout.PageCount())
	l.logger.Debug("layout computed",
		"reason", reason,
		"pages", layout.PageCount(),
		"content_height", layout.TotalContentHeight,
		"page_height", area.Height,
		"duration", duration,
	)

	return layout, true
}

// awaitReady waits on the readiness barrier. A timeout or barrier error is
// logged and the computation proceeds with whatever geometry is available.
func (l *Loop) awaitReady(ctx context.Context) {
	var (
		waitCtx context.Context
		cancel  context.CancelFunc
	)
	if l.readinessTimeout < 0 {
		waitCtx, cancel = context.WithCancel(ctx)
	} else {
		waitCtx, cancel = context.WithTimeout(ctx, l.readinessTimeout)
	}
	defer cancel()

	start := time.Now()
	err := l.provider.AwaitReady(waitCtx)
	timedOut := errors.Is(waitCtx.Err(), context.DeadlineExceeded)
	l.metrics.RecordReadinessWait(time.Since(start).Seconds(), timedOut)

	switch {
	case err == nil:
	case ctx.Err() != nil:
		// Torn down; the caller checks ctx.
	case timedOut:
		l.logger.Warn("readiness barrier timed out, measuring anyway", "timeout", l.readinessTimeout)
	default:
		l.logger.Warn("readiness barrier failed, measuring anyway", "error", err)
	}
}

// measure queries the provider and runs the strategy.
func (l *Loop) measure(ctx context.Context, pageHeight float64) (types.Layout, error) {
	opCtx, cancel := context.WithTimeout(ctx, l.operationTimeout)
	defer cancel()

	height, err := l.provider.MeasureContentHeight(opCtx)
	if err != nil {
		l.metrics.RecordMeasurementFailure(StageContentHeight)
		return types.Layout{}, measureError(StageContentHeight, err)
	}

	blocks, err := l.provider.MeasureAtomicBlocks(opCtx)
	if err != nil {
		l.metrics.RecordMeasurementFailure(StageAtomicBlocks)
		return types.Layout{}, measureError(StageAtomicBlocks, err)
	}

	pages := l.strategy.Paginate(height, pageHeight, blocks)
	if len(pages) == 0 {
		// Custom strategies may return nothing for empty content.
		pages = types.EmptyLayout().Pages
	}

	return types.Layout{
		Pages:              pages,
		TotalContentHeight: pages[len(pages)-1].ContentEnd,
	}, nil
}

func (l *Loop) transition(to types.ControllerState) {
	from, changed := l.state.Transition(to)
	if changed && l.alive.Load() {
		l.onStateChange(from, to)
	}
}

func measureError(stage string, err error) error {
	if errors.Is(err, types.ErrMeasurementUnavailable) {
		return fmt.Errorf("%s: %w", stage, err)
	}

	return fmt.Errorf("%s: %w: %w", stage, types.ErrMeasurementUnavailable, err)
}
