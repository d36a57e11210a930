// Package types provides core type definitions and interfaces for the pagination engine.
//
// This package contains shared types that are used across multiple packages in the
// module. By keeping these types in a separate package, we avoid import cycles
// between the root pagination package and its internal implementations.
//
// Key types:
//   - PageSize, Margins, ContentArea: Physical page geometry and the derived content area
//   - AtomicBlock: A content span that should not be split across pages
//   - PageBreak, Layout: The pagination result consumed by preview renderers
//   - MeasurementProvider: Contract for the component that measures flowed content
//   - BreakStrategy: Contract for the page break calculator
//   - Logger, MetricsCollector, Hooks: Ambient dependencies
package types
