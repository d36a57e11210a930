// Package reflow runs the reactive recalculation loop behind the controller.
//
// A single goroutine owns all layout work. It receives two kinds of trigger:
//
//   - Change notifications from the measurement provider. These are
//     debounced by one per-loop timer, so a burst of notifications inside
//     one quiet window produces exactly one computation.
//   - Explicit requests (initial layout, page-setting changes, manual
//     recalculation). These bypass the debounce, are never coalesced, and
//     each runs to completion before the next trigger is considered.
//
// Every computation awaits the provider's readiness barrier (bounded by a
// timeout), measures the content fresh, resolves the content area and runs
// the configured break strategy. The result is handed to the OnLayout
// callback on the loop goroutine. Results computed after Stop are dropped.
package reflow
