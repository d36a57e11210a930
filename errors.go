package pagination

import "github.com/srbhr/Resume-Matcher-sub001/types"

// Sentinel errors returned by the Controller and configuration helpers.
//
// They alias the definitions in the types package so that errors.Is works
// regardless of which package produced the error.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrProviderRequired is returned when the measurement provider is nil.
	ErrProviderRequired = types.ErrProviderRequired

	// ErrAlreadyStarted is returned when Start is called on a running controller.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when an operation requires a started controller.
	ErrNotStarted = types.ErrNotStarted

	// ErrControllerStopped is returned after the controller has been torn down.
	ErrControllerStopped = types.ErrControllerStopped

	// ErrUnknownPageSize is returned for unsupported page size names.
	ErrUnknownPageSize = types.ErrUnknownPageSize

	// ErrMarginOutOfRange is returned when a configured margin is outside [5, 25] mm.
	ErrMarginOutOfRange = types.ErrMarginOutOfRange

	// ErrMeasurementUnavailable is reported through Hooks.OnError when the
	// provider cannot measure.
	ErrMeasurementUnavailable = types.ErrMeasurementUnavailable

	// ErrPublishFailed is reported through Hooks.OnError when a layout sink fails.
	ErrPublishFailed = types.ErrPublishFailed
)
