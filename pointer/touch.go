package pointer

// TouchPoint is one active contact reported by the host for this frame.
type TouchPoint struct {
	ID   int
	X, Y float32
}

// TouchTracker turns per-frame touch snapshots into Down/Move/Up events.
type TouchTracker struct {
	active map[int]struct{}
}

// NewTouchTracker creates an empty tracker.
func NewTouchTracker() *TouchTracker {
	return &TouchTracker{active: make(map[int]struct{})}
}

// Sync compares points against the previous snapshot: new ids go down,
// known ids move, and ids no longer present are released.
func (t *TouchTracker) Sync(in *Injector, points []TouchPoint) {
	seen := make(map[int]struct{}, len(points))
	for _, tp := range points {
		seen[tp.ID] = struct{}{}
		if _, ok := t.active[tp.ID]; ok {
			in.Move(tp.ID, tp.X, tp.Y)
		} else {
			in.Down(tp.ID, tp.X, tp.Y)
		}
	}
	for id := range t.active {
		if _, ok := seen[id]; !ok {
			in.Up(id)
		}
	}
	t.active = seen
}

// Active returns the number of contacts in the last snapshot.
func (t *TouchTracker) Active() int { return len(t.active) }
