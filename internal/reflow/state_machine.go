package reflow

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// StateMachine tracks the Idle/Calculating state and fans transitions out
// to subscribers.
type StateMachine struct {
	current atomic.Int32 // types.ControllerState

	logger  types.Logger
	metrics types.ControllerMetrics

	subscribers      *xsync.Map[uint64, *stateSubscriber]
	nextSubscriberID atomic.Uint64
	closed           atomic.Bool
}

// NewStateMachine creates a state machine in the Idle state.
func NewStateMachine(logger types.Logger, metrics types.ControllerMetrics) *StateMachine {
	sm := &StateMachine{
		logger:      logger,
		metrics:     metrics,
		subscribers: xsync.NewMap[uint64, *stateSubscriber](),
	}
	sm.current.Store(int32(types.ControllerIdle))

	return sm
}

// State returns the current state.
func (sm *StateMachine) State() types.ControllerState {
	return types.ControllerState(sm.current.Load())
}

// Subscribe returns a channel that receives state changes, starting with
// the current state, and a function to unsubscribe.
//
// The channel is buffered (size 4) so a full Idle -> Calculating -> Idle
// cycle can queue without dropping. After Close the returned channel is
// already closed.
//
// Example:
//
//	ch, unsubscribe := sm.Subscribe()
//	defer unsubscribe()
//	for state := range ch {
//	    fmt.Println("state:", state)
//	}
func (sm *StateMachine) Subscribe() (<-chan types.ControllerState, func()) {
	sub := &stateSubscriber{ch: make(chan types.ControllerState, 4)}
	if sm.closed.Load() {
		sub.close()
		return sub.ch, func() {}
	}

	id := sm.nextSubscriberID.Add(1)
	sm.subscribers.Store(id, sub)
	sub.trySend(sm.State(), sm.metrics)

	// Close may have raced with Store; make sure no subscriber outlives it.
	if sm.closed.Load() {
		sm.removeSubscriber(id)
	}

	return sub.ch, func() { sm.removeSubscriber(id) }
}

// Transition moves to state and notifies subscribers.
//
// Returns:
//   - types.ControllerState: The previous state
//   - bool: false if the machine was already in state
func (sm *StateMachine) Transition(state types.ControllerState) (types.ControllerState, bool) {
	old := types.ControllerState(sm.current.Swap(int32(state))) //nolint:gosec // G115: bounded enum
	if old == state {
		return old, false
	}

	sm.logger.Debug("state transition", "from", old, "to", state)

	sm.subscribers.Range(func(_ uint64, sub *stateSubscriber) bool {
		sub.trySend(state, sm.metrics)
		return true
	})

	return old, true
}

// Close closes every subscriber channel. Later subscriptions receive a
// closed channel.
func (sm *StateMachine) Close() {
	sm.closed.Store(true)
	sm.subscribers.Range(func(id uint64, _ *stateSubscriber) bool {
		sm.removeSubscriber(id)
		return true
	})
}

func (sm *StateMachine) removeSubscriber(id uint64) {
	if sub, ok := sm.subscribers.LoadAndDelete(id); ok {
		sub.close()
	}
}
