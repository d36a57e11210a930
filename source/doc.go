// Package source provides built-in measurement provider implementations.
//
// Measurement providers expose the geometry of flowed content to the
// controller. The package includes:
//
//   - Static: In-memory geometry that changes only through Update
//   - Combine: Assembles a provider from a separate Measurer, ChangeNotifier
//     and ReadinessBarrier
//   - Ready and Gate: Readiness barriers (always ready, manually opened)
//   - LoadGeometry: Reads a YAML geometry file for use with Static
//
// A browser-backed provider lives in the chrome subpackage.
//
// Custom providers can be implemented by satisfying the types.MeasurementProvider interface.
package source
