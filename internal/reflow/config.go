package reflow

import (
	"context"
	"errors"
	"time"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/internal/metrics"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Trigger reasons attached to every computed layout.
const (
	ReasonInitial         = "initial"
	ReasonContentChanged  = "content_changed"
	ReasonSettingsChanged = "settings_changed"
	ReasonManual          = "manual"
)

// Measurement stages reported on failure.
const (
	StageContentHeight = "content_height"
	StageAtomicBlocks  = "atomic_blocks"
)

// Default timings.
const (
	DefaultDebounce         = 150 * time.Millisecond
	DefaultReadinessTimeout = 3 * time.Second
	DefaultOperationTimeout = 10 * time.Second

	// NoReadinessTimeout waits on the readiness barrier until it resolves
	// or the loop is stopped.
	NoReadinessTimeout time.Duration = -1
)

// Config holds loop configuration.
//
// Required fields must be set before calling NewLoop. Optional fields are set
// to defaults when zero-valued.
type Config struct {
	// Required dependencies
	Provider types.MeasurementProvider
	Strategy types.BreakStrategy

	// Initial page settings
	Settings types.PageSettings

	// Optional configuration (with defaults)
	Debounce         time.Duration // Quiet window for change notifications (default: 150ms)
	ReadinessTimeout time.Duration // Upper bound on the readiness barrier wait, negative for none (default: 3s)
	OperationTimeout time.Duration // Upper bound on each measurement call (default: 10s)

	// OnLayout receives every published layout on the loop goroutine and
	// returns the layout as published, which is what Submit replies with.
	OnLayout func(ctx context.Context, layout types.Layout) types.Layout

	// OnStateChange is called on every Idle/Calculating transition.
	OnStateChange func(from, to types.ControllerState)

	// OnError receives recoverable failures such as measurement errors.
	OnError func(err error)

	// Optional dependencies
	Metrics types.MetricsCollector // Metrics collector (default: no-op)
	Logger  types.Logger           // Logger (default: no-op)
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Provider == nil {
		return types.ErrProviderRequired
	}
	if c.Strategy == nil {
		return errors.New("the Strategy is required")
	}
	if !(c.Settings.PageSize.WidthMM > 0) || !(c.Settings.PageSize.HeightMM > 0) {
		return errors.New("the Settings.PageSize must have positive dimensions")
	}
	if c.Debounce < 0 {
		return errors.New("the Debounce must not be negative")
	}
	if c.OperationTimeout < 0 {
		return errors.New("the OperationTimeout must not be negative")
	}

	return nil
}

// SetDefaults fills zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.ReadinessTimeout == 0 {
		c.ReadinessTimeout = DefaultReadinessTimeout
	}
	if c.OperationTimeout == 0 {
		c.OperationTimeout = DefaultOperationTimeout
	}
	if c.OnLayout == nil {
		c.OnLayout = func(_ context.Context, layout types.Layout) types.Layout { return layout }
	}
	if c.OnStateChange == nil {
		c.OnStateChange = func(types.ControllerState, types.ControllerState) {}
	}
	if c.OnError == nil {
		c.OnError = func(error) {}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNop()
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
}
