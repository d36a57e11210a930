package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/srbhr/Resume-Matcher-sub001/internal/hooks"
	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/internal/metrics"
	"github.com/srbhr/Resume-Matcher-sub001/internal/reflow"
)

// Controller keeps a Layout current for one measured document.
//
// Controller is the main entry point of the package. It:
//   - Debounces change notifications from the measurement provider
//   - Applies page setting changes immediately via Configure
//   - Awaits the provider's readiness barrier before measuring
//   - Runs the break strategy and publishes immutable Layout snapshots
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Computations are serialized on a single goroutine
//   - Layout snapshots are copy-on-write
//
// Lifecycle:
//   - Create with NewController()
//   - Call Start() to compute the initial layout and begin watching
//   - Read Layout(), Subscribe(), or use hooks and sinks
//   - Call Stop() for teardown; nothing is published afterwards
type Controller struct {
	cfg      Config
	provider MeasurementProvider

	strategy BreakStrategy
	hooks    Hooks
	metrics  MetricsCollector
	logger   Logger
	sinks    []LayoutSink

	loop *reflow.Loop

	layout           atomic.Pointer[Layout]
	subscribers      *xsync.Map[uint64, *layoutSubscriber]
	nextSubscriberID atomic.Uint64

	// Hook dispatch; hookMu orders hookWG.Go against the final Wait.
	ctx         context.Context
	cancel      context.CancelFunc
	hookMu      sync.RWMutex
	hooksClosed bool
	hookWG      sync.WaitGroup
}

// NewController creates a Controller for the given provider.
//
// Parameters:
//   - cfg: Configuration; zero-valued fields take DefaultConfig values
//   - provider: Source of content geometry, change notifications and readiness
//   - opts: Optional configuration (strategy, hooks, metrics, logger, sinks)
//
// Returns:
//   - *Controller: Controller ready to start
//   - error: ErrInvalidConfig or ErrProviderRequired
//
// Example:
//
//	cfg := pagination.DefaultConfig()
//	ctrl, err := pagination.NewController(&cfg, provider,
//	    pagination.WithLogger(logging.NewSlogDefault()))
func NewController(cfg *Config, provider MeasurementProvider, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	options := &controllerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	breakStrategy := options.strategy
	if breakStrategy == nil {
		s, err := cfg.Strategy()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		breakStrategy = s
	}

	settings, err := cfg.PageSettings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		cfg:         *cfg,
		provider:    provider,
		strategy:    breakStrategy,
		hooks:       hooks.WithDefaults(options.hooks),
		metrics:     metricsCollector,
		logger:      loggerInstance,
		sinks:       options.sinks,
		subscribers: xsync.NewMap[uint64, *layoutSubscriber](),
		ctx:         ctx,
		cancel:      cancel,
	}

	initial := EmptyLayout()
	c.layout.Store(&initial)

	c.loop, err = reflow.NewLoop(&reflow.Config{
		Provider:         provider,
		Strategy:         breakStrategy,
		Settings:         settings,
		Debounce:         cfg.Debounce,
		ReadinessTimeout: cfg.ReadinessTimeout,
		OperationTimeout: cfg.OperationTimeout,
		OnLayout:         c.publish,
		OnStateChange:    c.stateChanged,
		OnError:          c.reportError,
		Metrics:          metricsCollector,
		Logger:           loggerInstance,
	})
	if err != nil {
		cancel()
		return nil, err
	}

	return c, nil
}

// Start computes the initial layout and begins reacting to changes.
//
// Blocks until the initial layout is published.
//
// Parameters:
//   - ctx: Bounds the initial computation
//
// Returns:
//   - error: ErrAlreadyStarted, or ctx's error if the initial layout was not ready in time
func (c *Controller) Start(ctx context.Context) error {
	layout, err := c.loop.Start(ctx)
	if err != nil {
		if !errors.Is(err, ErrAlreadyStarted) {
			c.closeHooks()
		}

		return err
	}

	c.logger.Info("pagination controller started",
		"page_size", c.cfg.PageSize,
		"pages", layout.PageCount(),
		"content_height", layout.TotalContentHeight,
	)

	return nil
}

// Stop tears the controller down.
//
// Stop cancels any pending debounce window and in-flight readiness wait,
// unsubscribes from the provider, waits for running hooks and closes
// subscriber channels. No hook, subscriber or sink is invoked after Stop
// returns.
//
// Parameters:
//   - ctx: Bounds how long Stop waits for the loop and hooks
//
// Returns:
//   - error: ErrNotStarted, ErrControllerStopped on a second call, or ctx's error
func (c *Controller) Stop(ctx context.Context) error {
	if err := c.loop.Stop(ctx); err != nil {
		if errors.Is(err, ErrNotStarted) || errors.Is(err, ErrControllerStopped) {
			return err
		}
		c.logger.Error("reflow loop did not stop in time", "error", err)
		c.closeHooks()

		return err
	}

	c.closeHooks()

	done := make(chan struct{})
	go func() {
		c.hookWG.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		c.logger.Error("shutdown timeout exceeded, hooks may still be running")
		return ctx.Err()
	}

	c.subscribers.Range(func(id uint64, _ *layoutSubscriber) bool {
		c.removeSubscriber(id)
		return true
	})

	c.logger.Info("pagination controller stopped")

	return nil
}

// Configure applies new page settings and recomputes immediately.
//
// Configure bypasses the debounce and is never coalesced: each call
// produces its own computation, queued behind any in flight.
//
// Parameters:
//   - ctx: Bounds how long the caller waits for the result
//   - settings: New page size and margins; margins are used as given
//
// Returns:
//   - Layout: The layout computed for these settings
//   - error: ErrNotStarted, ErrControllerStopped, or ctx's error
func (c *Controller) Configure(ctx context.Context, settings PageSettings) (Layout, error) {
	return c.loop.Submit(ctx, &settings, ReasonSettingsChanged)
}

// Recalculate recomputes immediately with the current settings.
func (c *Controller) Recalculate(ctx context.Context) (Layout, error) {
	return c.loop.Submit(ctx, nil, ReasonManual)
}

// Refresh schedules a debounced recomputation, exactly like a provider
// change notification.
func (c *Controller) Refresh() error {
	if !c.loop.IsAlive() {
		if c.hooksAreClosed() {
			return ErrControllerStopped
		}

		return ErrNotStarted
	}

	c.loop.Notify(ReasonManual)

	return nil
}

// Layout returns a copy of the current layout.
//
// IsCalculating reflects the controller's state at the time of the call, so
// a renderer can show a loading indicator over the previous pages.
func (c *Controller) Layout() Layout {
	layout := c.layout.Load().Clone()
	layout.IsCalculating = c.IsCalculating()

	return layout
}

// IsCalculating reports whether a computation is in flight.
func (c *Controller) IsCalculating() bool {
	return c.loop.State() == ControllerCalculating
}

// State returns the controller state.
func (c *Controller) State() ControllerState {
	return c.loop.State()
}

// Settings returns the page settings in effect.
func (c *Controller) Settings() PageSettings {
	return c.loop.Settings()
}

// Strategy returns the break strategy in use.
func (c *Controller) Strategy() BreakStrategy {
	return c.strategy
}

// SubscribeToStateChanges returns a channel of Idle/Calculating transitions
// and a function to unsubscribe.
func (c *Controller) SubscribeToStateChanges() (<-chan ControllerState, func()) {
	return c.loop.SubscribeToStateChanges()
}

// Subscribe returns a channel that receives every published layout and a
// function to unsubscribe.
//
// The channel holds one layout. A slow reader never blocks the controller;
// it sees the most recent layout when it catches up. If a layout has
// already been published it is delivered immediately.
//
// Example:
//
//	layouts, unsubscribe := ctrl.Subscribe()
//	defer unsubscribe()
//	for layout := range layouts {
//	    render(layout)
//	}
func (c *Controller) Subscribe() (<-chan Layout, func()) {
	id := c.nextSubscriberID.Add(1)
	sub := &layoutSubscriber{ch: make(chan Layout, 1)}

	if c.hooksAreClosed() {
		sub.close()
		return sub.ch, func() {}
	}

	c.subscribers.Store(id, sub)
	if current := c.layout.Load(); current.Version > 0 {
		sub.offer(current.Clone())
	}

	// Stop may have swept subscribers between the check and Store.
	if c.hooksAreClosed() {
		c.removeSubscriber(id)
	}

	return sub.ch, func() { c.removeSubscriber(id) }
}

func (c *Controller) removeSubscriber(id uint64) {
	if sub, ok := c.subscribers.LoadAndDelete(id); ok {
		sub.close()
	}
}

// publish runs on the loop goroutine for every computed layout and returns
// the versioned snapshot.
func (c *Controller) publish(ctx context.Context, next Layout) Layout {
	prev := c.layout.Load()

	next.Version = prev.Version + 1
	snapshot := next.Clone()
	c.layout.Store(&snapshot)

	c.subscribers.Range(func(_ uint64, sub *layoutSubscriber) bool {
		sub.offer(snapshot.Clone())
		return true
	})

	for _, sink := range c.sinks {
		c.publishToSink(ctx, sink, snapshot.Clone())
	}

	if prev.Version > 0 && prev.Fingerprint() == snapshot.Fingerprint() {
		c.metrics.RecordLayoutUnchanged()
		return snapshot.Clone()
	}

	c.logger.Info("layout changed",
		"version", snapshot.Version,
		"reason", snapshot.Reason,
		"old_pages", prev.PageCount(),
		"new_pages", snapshot.PageCount(),
	)

	prevCopy := prev.Clone()
	c.runHook(func(hookCtx context.Context) {
		if err := c.hooks.OnLayoutChanged(hookCtx, prevCopy, snapshot.Clone()); err != nil {
			c.logger.Error("layout change hook error", "version", snapshot.Version, "error", err)
		}
	})

	return snapshot.Clone()
}

func (c *Controller) publishToSink(ctx context.Context, sink LayoutSink, layout Layout) {
	sinkCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	defer cancel()

	start := time.Now()
	err := sink.PublishLayout(sinkCtx, layout)
	c.metrics.RecordLayoutPublish(err == nil, time.Since(start).Seconds())

	if err != nil {
		if !errors.Is(err, ErrPublishFailed) {
			err = fmt.Errorf("%w: %w", ErrPublishFailed, err)
		}
		c.logger.Error("layout sink failed", "version", layout.Version, "error", err)
		c.reportError(err)
	}
}

func (c *Controller) stateChanged(from, to ControllerState) {
	c.runHook(func(hookCtx context.Context) {
		if err := c.hooks.OnStateChanged(hookCtx, from, to); err != nil {
			c.logger.Error("state change hook error", "from", from, "to", to, "error", err)
		}
	})
}

func (c *Controller) reportError(err error) {
	c.runHook(func(hookCtx context.Context) {
		if hookErr := c.hooks.OnError(hookCtx, err); hookErr != nil {
			c.logger.Error("error hook error", "error", hookErr)
		}
	})
}

// runHook starts fn in a tracked goroutine unless the controller is stopping.
func (c *Controller) runHook(fn func(ctx context.Context)) {
	c.hookMu.RLock()
	defer c.hookMu.RUnlock()

	if c.hooksClosed {
		return
	}

	c.hookWG.Go(func() { fn(c.ctx) })
}

func (c *Controller) closeHooks() {
	c.hookMu.Lock()
	c.hooksClosed = true
	c.hookMu.Unlock()

	c.cancel()
}

func (c *Controller) hooksAreClosed() bool {
	c.hookMu.RLock()
	defer c.hookMu.RUnlock()

	return c.hooksClosed
}
