package scheduler

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/activity"
	"github.com/dmitrymomot/notifykit/pkg/storage"
)

// Defaults for the scheduler's timing knobs.
const (
	DefaultStoreKey       = "notifykit:schedule"
	DefaultSweepInterval  = time.Minute
	DefaultMaxAttempts    = 3
	DefaultBaseRetryDelay = time.Minute
	DefaultMaxRetryDelay  = time.Hour
	DefaultRetention      = 7 * 24 * time.Hour
	DefaultReloadWindow   = 24 * time.Hour
	DefaultActivityWindow = 5 * time.Minute
	DefaultMaxOccurrences = 10
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStore persists the entry set through the given store after every
// mutation and reloads recent pending entries on construction.
func WithStore(store storage.Store) Option {
	return func(s *Scheduler) {
		s.store = store
	}
}

// WithStoreKey overrides the storage key used for the persisted schedule.
func WithStoreKey(key string) Option {
	return func(s *Scheduler) {
		if key != "" {
			s.storeKey = key
		}
	}
}

// WithLogger sets the logger for the Scheduler.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithActivityTracker injects the activity signal consulted by
// RequireRecentActivity conditions. Without one the scheduler owns a private
// tracker fed through RecordActivity.
func WithActivityTracker(tracker *activity.Tracker) Option {
	return func(s *Scheduler) {
		if tracker != nil {
			s.tracker = tracker
		}
	}
}

// WithConnectivity injects the connectivity signal consulted by
// RequireOnline conditions. Without one the scheduler assumes it is online.
func WithConnectivity(online func() bool) Option {
	return func(s *Scheduler) {
		if online != nil {
			s.online = online
		}
	}
}

// WithSweepInterval overrides how often the sweep loop runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithRetryBackoff overrides the retry backoff bounds. Delay doubles per
// attempt starting at base and never exceeds maxDelay.
func WithRetryBackoff(base, maxDelay time.Duration) Option {
	return func(s *Scheduler) {
		if base > 0 {
			s.baseRetryDelay = base
		}
		if maxDelay > 0 {
			s.maxRetryDelay = maxDelay
		}
	}
}

// WithRetention overrides how long terminal entries are kept before Cleanup
// deletes them.
func WithRetention(retention time.Duration) Option {
	return func(s *Scheduler) {
		if retention > 0 {
			s.retention = retention
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// ScheduleOption configures a single schedule request.
type ScheduleOption func(*scheduleOptions)

type scheduleOptions struct {
	maxAttempts    int
	conditions     DeliveryConditions
	maxOccurrences int
	endTime        *time.Time
}

// WithMaxAttempts caps delivery attempts for the entry (1-10).
func WithMaxAttempts(n int) ScheduleOption {
	return func(o *scheduleOptions) {
		if n >= 1 && n <= 10 {
			o.maxAttempts = n
		}
	}
}

// WithConditions attaches delivery conditions checked at sweep time.
func WithConditions(c DeliveryConditions) ScheduleOption {
	return func(o *scheduleOptions) {
		o.conditions = c
	}
}

// WithMaxOccurrences caps how many occurrences ScheduleRecurring
// materializes (default 10).
func WithMaxOccurrences(n int) ScheduleOption {
	return func(o *scheduleOptions) {
		if n > 0 {
			o.maxOccurrences = n
		}
	}
}

// WithEndTime stops recurring materialization at the boundary: occurrences
// scheduled after it are not created.
func WithEndTime(t time.Time) ScheduleOption {
	return func(o *scheduleOptions) {
		if !t.IsZero() {
			o.endTime = &t
		}
	}
}
