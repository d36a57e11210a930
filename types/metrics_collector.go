package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ControllerMetrics
	PublisherMetrics
}

// ControllerMetrics defines metrics for the recalculation controller.
type ControllerMetrics interface {
	// RecordRecalculation records one completed computation.
	//
	// Parameters:
	//   - reason: Trigger ("initial", "content_changed", "settings_changed", "manual")
	//   - duration: Time taken in seconds, barrier wait included
	//   - pages: Number of pages produced
	RecordRecalculation(reason string, duration float64, pages int)

	// RecordNotificationCoalesced records a change notification that was
	// absorbed by a pending debounce window.
	RecordNotificationCoalesced()

	// RecordReadinessWait records how long the readiness barrier took.
	//
	// Parameters:
	//   - duration: Wait time in seconds
	//   - timedOut: true if the wait was abandoned after ReadinessTimeout
	RecordReadinessWait(duration float64, timedOut bool)

	// RecordMeasurementFailure records a provider failure that degraded the
	// result to an empty layout.
	//
	// Parameters:
	//   - stage: "content_height" or "atomic_blocks"
	RecordMeasurementFailure(stage string)

	// RecordLayoutUnchanged records a computation whose result matched the previous layout.
	RecordLayoutUnchanged()

	// RecordStateChangeDropped records when notifications are dropped due to slow subscribers.
	RecordStateChangeDropped()
}

// PublisherMetrics defines metrics for layout sinks.
type PublisherMetrics interface {
	// RecordLayoutPublish records a sink publication attempt.
	//
	// Parameters:
	//   - success: true if the layout was stored
	//   - duration: Time taken in seconds
	RecordLayoutPublish(success bool, duration float64)
}
