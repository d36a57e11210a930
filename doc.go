// Package pagination computes print-accurate page breaks for a flowed
// document and keeps them current as the document changes.
//
// A Controller watches a measurement provider (a headless browser, a static
// geometry file, anything implementing MeasurementProvider), converts the
// configured page size and margins into a content area, and cuts the
// measured content into page spans with a break strategy that avoids
// splitting atomic blocks such as resume entries.
//
// # Quick Start
//
//	cfg := pagination.DefaultConfig()
//	provider := source.NewStatic(1800, []pagination.AtomicBlock{{Top: 900, Bottom: 1150}})
//
//	ctrl, err := pagination.NewController(&cfg, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ctrl.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Stop(context.Background())
//
//	for _, page := range ctrl.Layout().Pages {
//	    fmt.Printf("page %d: [%.0f, %.0f)\n", page.PageNumber, page.ContentOffset, page.ContentEnd)
//	}
//
// # Recalculation Model
//
// The controller has two states, Idle and Calculating. Provider change
// notifications are debounced (150ms by default): a burst of edits produces
// one recomputation once the burst goes quiet. Configure applies new page
// settings immediately, bypassing the debounce, and every Configure call
// gets its own computation. All work runs on a single goroutine, so
// computations never overlap.
//
// Before each computation the controller awaits the provider's readiness
// barrier (for example, web fonts loading), bounded by ReadinessTimeout.
//
// # Consuming Layouts
//
// Layouts are immutable snapshots replaced wholesale on every computation:
//
//   - Controller.Layout returns the current snapshot
//   - Controller.Subscribe delivers each new snapshot on a channel
//   - Hooks.OnLayoutChanged fires when the page geometry actually changed
//   - WithLayoutSink forwards snapshots elsewhere, e.g. publish.KV for NATS
//
// A measurement failure never surfaces as an error to consumers: the
// controller publishes an empty single-page layout and reports the failure
// through the logger, metrics and Hooks.OnError.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
package pagination
