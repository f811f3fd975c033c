package activity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/activity"
)

func TestTrackerRecordAndQuery(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := activity.NewTracker(activity.WithClock(func() time.Time { return current }))

	tracker.RecordActivity("user-1")

	ts, ok := tracker.LastActive("user-1")
	assert.True(t, ok)
	assert.Equal(t, current, ts)

	_, ok = tracker.LastActive("user-2")
	assert.False(t, ok)
}

func TestTrackerActiveWithin(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := activity.NewTracker(activity.WithClock(func() time.Time { return current }))

	tracker.RecordActivity("user-1")

	// Advance the clock past the window.
	current = current.Add(6 * time.Minute)

	assert.False(t, tracker.ActiveWithin("user-1", 5*time.Minute))
	assert.True(t, tracker.ActiveWithin("user-1", 10*time.Minute))
	assert.False(t, tracker.ActiveWithin("unknown", time.Hour))
}

func TestTrackerIgnoresEmptyOwner(t *testing.T) {
	t.Parallel()

	tracker := activity.NewTracker()
	tracker.RecordActivity("")

	_, ok := tracker.LastActive("")
	assert.False(t, ok)
}
