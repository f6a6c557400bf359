package sim

import (
	"slices"
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// Scheduler runs callbacks once per display frame. A callback that wants to
// keep running must request the next frame itself.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// FrameScheduler is a Scheduler driven by an external frame clock: the host
// calls Pump once per display refresh. Callbacks requested while a pump is
// running are deferred to the next pump.
type FrameScheduler struct {
	mu       sync.Mutex
	nextID   FrameID
	pending  map[FrameID]func(time.Time)
	requests int
	runs     int
}

// NewFrameScheduler creates an idle scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{pending: make(map[FrameID]func(time.Time))}
}

// RequestFrame queues fn for the next Pump.
func (f *FrameScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.pending[f.nextID] = fn
	f.requests++
	return f.nextID
}

// CancelFrame drops a pending request. Unknown ids are ignored.
func (f *FrameScheduler) CancelFrame(id FrameID) {
	f.mu.Lock()
	delete(f.pending, id)
	f.mu.Unlock()
}

// Pump runs every callback pending at the time of the call, in request
// order, and returns how many ran.
func (f *FrameScheduler) Pump(now time.Time) int {
	f.mu.Lock()
	batch := f.pending
	f.pending = make(map[FrameID]func(time.Time))
	f.mu.Unlock()

	ids := make([]FrameID, 0, len(batch))
	for id := range batch {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		f.mu.Lock()
		f.runs++
		f.mu.Unlock()
		batch[id](now)
	}
	return len(ids)
}

// Pending returns the number of queued callbacks.
func (f *FrameScheduler) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Requests returns how many frames have been requested in total.
func (f *FrameScheduler) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// Runs returns how many callbacks have executed in total.
func (f *FrameScheduler) Runs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}
