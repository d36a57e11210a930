package types

// ControllerState represents the state of the recalculation controller.
//
// The controller transitions between two states:
//
//	Idle → Calculating → Idle
//
// A result is always published before returning to Idle.
type ControllerState int

const (
	// ControllerIdle indicates no computation is in flight.
	// A debounce timer may still be pending.
	ControllerIdle ControllerState = iota

	// ControllerCalculating indicates a computation is in flight:
	// awaiting the readiness barrier, measuring, or paginating.
	ControllerCalculating
)

// String returns the string representation of controller state.
func (s ControllerState) String() string {
	switch s {
	case ControllerIdle:
		return "Idle"
	case ControllerCalculating:
		return "Calculating"
	default:
		return "Unknown"
	}
}
