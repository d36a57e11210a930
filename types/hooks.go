package types

import "context"

// Hooks defines callbacks for controller lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// so they never block the recalculation loop. Hooks receive the controller's
// lifecycle context, which is cancelled during shutdown.
//
// Hook execution behavior:
//   - Hooks are never started after Stop() returns
//   - Stop() waits for running hooks to finish
//   - Hook errors are logged but don't fail controller operations
//
// Example:
//
//	hooks := &pagination.Hooks{
//	    OnLayoutChanged: func(ctx context.Context, prev, next pagination.Layout) error {
//	        log.Printf("pages: %d -> %d", prev.PageCount(), next.PageCount())
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnLayoutChanged is called when a published layout differs geometrically
	// from the previous one.
	OnLayoutChanged func(ctx context.Context, prev, next Layout) error

	// OnStateChanged is called when the controller moves between Idle and Calculating.
	OnStateChanged func(ctx context.Context, from, to ControllerState) error

	// OnError is called when a recoverable error occurs, such as an
	// unavailable measurement provider.
	OnError func(ctx context.Context, err error) error
}
