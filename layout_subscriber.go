package pagination

import "sync"

// layoutSubscriber is a latest-wins, single-slot layout subscription.
type layoutSubscriber struct {
	ch          chan Layout
	mu          sync.Mutex
	closed      bool
	lastVersion int64
}

// offer delivers layout without blocking, replacing an unread older one.
// Layouts not newer than the last one offered are dropped, so a late
// initial offer never overwrites a fresher publish.
func (s *layoutSubscriber) offer(layout Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || layout.Version <= s.lastVersion {
		return
	}
	s.lastVersion = layout.Version

	select {
	case <-s.ch:
	default:
	}
	s.ch <- layout
}

func (s *layoutSubscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
