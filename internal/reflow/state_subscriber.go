package reflow

import (
	"sync"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// stateSubscriber is a single state change subscription.
type stateSubscriber struct {
	ch     chan types.ControllerState
	mu     sync.Mutex
	closed bool
}

// trySend delivers a state without blocking. Slow subscribers miss the
// update and see the next one.
func (s *stateSubscriber) trySend(state types.ControllerState, m types.ControllerMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- state:
	default:
		m.RecordStateChangeDropped()
	}
}

func (s *stateSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
