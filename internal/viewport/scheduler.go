package viewport

import (
	"sync"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler runs callbacks on the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// ManualScheduler is a FrameScheduler whose frames are advanced explicitly.
type ManualScheduler struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func()
	order   []FrameID
}

// NewManualScheduler returns an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[FrameID]func())}
}

// RequestFrame queues fn for the next Advance.
func (s *ManualScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.pending[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

// CancelFrame drops a queued callback. Unknown ids are ignored.
func (s *ManualScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// Advance runs one frame: every callback queued before the call, in request
// order. Callbacks requested while running wait for the next Advance. It
// returns the number of callbacks run.
func (s *ManualScheduler) Advance() int {
	s.mu.Lock()
	order := s.order
	s.order = nil
	fns := make([]func(), 0, len(order))
	for _, id := range order {
		if fn, ok := s.pending[id]; ok {
			fns = append(fns, fn)
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
