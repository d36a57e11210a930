package types

import "context"

// Measurer exposes the current geometry of the flowed content.
//
// Implementations are queried fresh on every computation; callers never
// cache results across calls.
type Measurer interface {
	// MeasureContentHeight returns the total flowed content height in pixels.
	MeasureContentHeight(ctx context.Context) (float64, error)

	// MeasureAtomicBlocks returns the atomic blocks in document order.
	// Offsets are relative to the top of the flowed content.
	MeasureAtomicBlocks(ctx context.Context) ([]AtomicBlock, error)
}

// ChangeNotifier signals that the measured geometry may have changed.
type ChangeNotifier interface {
	// OnChange registers a callback and returns a function that removes it.
	//
	// Callbacks must not block; they may be invoked from any goroutine.
	OnChange(callback func()) (unsubscribe func())
}

// ReadinessBarrier gates trust in measured geometry.
//
// A barrier typically waits for layout-affecting resources such as
// asynchronously loaded fonts. Platforms without such a concept resolve it
// immediately.
type ReadinessBarrier interface {
	// AwaitReady blocks until measurements can be trusted or ctx is done.
	AwaitReady(ctx context.Context) error
}

// MeasurementProvider is the full contract consumed by the controller.
type MeasurementProvider interface {
	Measurer
	ChangeNotifier
	ReadinessBarrier
}

// LayoutSink receives every published layout, in publication order.
//
// Sinks are called from the controller's loop; implementations should honor
// ctx and return promptly.
type LayoutSink interface {
	PublishLayout(ctx context.Context, layout Layout) error
}
