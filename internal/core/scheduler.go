package core

import (
	"sort"
	"time"
)

// TickFunc is a frame callback. now is the host's timestamp for the frame.
type TickFunc func(now time.Time)

// TickHandle identifies a pending tick request. Zero is never a valid handle.
type TickHandle uint64

// Scheduler is the host's "run this once per display refresh" capability.
// A request fires at most once; callers re-register from inside the callback
// to keep a loop running.
type Scheduler interface {
	RequestTick(fn TickFunc) TickHandle
	Cancel(h TickHandle)
}

// ManualScheduler holds tick requests until Fire is called.
// Used by tests and headless simulation where frames are driven explicitly.
type ManualScheduler struct {
	next    TickHandle
	pending map[TickHandle]TickFunc
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[TickHandle]TickFunc)}
}

// RequestTick queues fn for the next Fire.
func (s *ManualScheduler) RequestTick(fn TickFunc) TickHandle {
	s.next++
	s.pending[s.next] = fn
	return s.next
}

// Cancel drops a pending request. Unknown handles are ignored.
func (s *ManualScheduler) Cancel(h TickHandle) {
	delete(s.pending, h)
}

// Pending returns the number of queued requests.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Fire runs every request queued before the call, in request order.
// Requests made by the callbacks themselves wait for the next Fire.
// Returns the number of callbacks run.
func (s *ManualScheduler) Fire(now time.Time) int {
	if len(s.pending) == 0 {
		return 0
	}

	handles := make([]TickHandle, 0, len(s.pending))
	for h := range s.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	ran := 0
	for _, h := range handles {
		fn, ok := s.pending[h]
		if !ok {
			// Cancelled by an earlier callback in this batch.
			continue
		}
		delete(s.pending, h)
		fn(now)
		ran++
	}
	return ran
}

// RunFrames fires n frames spaced by step starting at start and returns the
// timestamp after the last frame. Stops early once nothing is pending.
func (s *ManualScheduler) RunFrames(start time.Time, step time.Duration, n int) time.Time {
	now := start
	for i := 0; i < n; i++ {
		now = now.Add(step)
		if s.Fire(now) == 0 {
			break
		}
	}
	return now
}
