package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the pagination engine.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).

// Controller errors - Public API errors returned by the Controller.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProviderRequired is returned when the measurement provider is nil.
	ErrProviderRequired = errors.New("measurement provider is required")

	// ErrAlreadyStarted is returned when Start is called on an already running controller.
	ErrAlreadyStarted = errors.New("controller already started")

	// ErrNotStarted is returned when operations require a started controller.
	ErrNotStarted = errors.New("controller not started")

	// ErrControllerStopped is returned when a request reaches a controller that has been torn down.
	ErrControllerStopped = errors.New("controller stopped")
)

// Geometry errors.
var (
	// ErrUnknownPageSize is returned when a page size name is not supported.
	ErrUnknownPageSize = errors.New("unknown page size")

	// ErrMarginOutOfRange is returned when a margin lies outside [MinMarginMM, MaxMarginMM].
	ErrMarginOutOfRange = errors.New("margin out of range")

	// ErrMeasurementUnavailable is returned by providers whose measured region is gone
	// (for example, the document has not been loaded or was detached).
	ErrMeasurementUnavailable = errors.New("measurement unavailable")
)

// Publisher errors.
var (
	// ErrPublishFailed is returned when storing a layout fails.
	ErrPublishFailed = errors.New("failed to publish layout")

	// ErrNoKeysFound is returned when NATS KV returns no keys (expected condition).
	ErrNoKeysFound = errors.New("no keys found")
)

// IsNoKeysFoundError checks if an error indicates that no keys were found in NATS KV.
//
// This function handles NATS-specific "no keys found" errors which may come as:
//   - Direct error: "nats: no keys found"
//   - Wrapped error: "failed to list KV keys: nats: no keys found"
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoKeysFound) {
		return true
	}

	return strings.Contains(err.Error(), "no keys found")
}
