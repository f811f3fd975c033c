package activity

import (
	"sync"
	"time"
)

// Tracker records the last time each owner produced an input event. The
// scheduler consults it when an entry requires recent activity before
// delivery. Callers wire RecordActivity into their own event sources; the
// tracker itself never listens to anything.
type Tracker struct {
	mu   sync.RWMutex
	last map[string]time.Time

	now func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates an empty activity tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		last: make(map[string]time.Time),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordActivity marks the owner as active now.
func (t *Tracker) RecordActivity(ownerID string) {
	if ownerID == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last[ownerID] = t.now()
}

// LastActive returns the owner's last recorded activity time. The second
// return value is false when the owner has never been seen.
func (t *Tracker) LastActive(ownerID string) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ts, ok := t.last[ownerID]
	return ts, ok
}

// ActiveWithin reports whether the owner was active within the given window.
// Unknown owners are never considered active.
func (t *Tracker) ActiveWithin(ownerID string, window time.Duration) bool {
	ts, ok := t.LastActive(ownerID)
	if !ok {
		return false
	}
	return t.now().Sub(ts) <= window
}
