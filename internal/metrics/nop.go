// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/srbhr/Resume-Matcher-sub001/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	ctrl, err := pagination.NewController(&cfg, provider, pagination.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ControllerMetrics implementation

// RecordRecalculation discards the recalculation metric.
func (n *NopMetrics) RecordRecalculation(_ /* reason */ string, _ /* duration */ float64, _ /* pages */ int) {
}

// RecordNotificationCoalesced discards the coalesced notification counter.
func (n *NopMetrics) RecordNotificationCoalesced() {}

// RecordReadinessWait discards the readiness wait metric.
func (n *NopMetrics) RecordReadinessWait(_ /* duration */ float64, _ /* timedOut */ bool) {}

// RecordMeasurementFailure discards the measurement failure counter.
func (n *NopMetrics) RecordMeasurementFailure(_ /* stage */ string) {}

// RecordLayoutUnchanged discards the unchanged layout counter.
func (n *NopMetrics) RecordLayoutUnchanged() {}

// RecordStateChangeDropped discards the dropped notification counter.
func (n *NopMetrics) RecordStateChangeDropped() {}

// PublisherMetrics implementation

// RecordLayoutPublish discards the publish metric.
func (n *NopMetrics) RecordLayoutPublish(_ /* success */ bool, _ /* duration */ float64) {}
