package scheduler

import "errors"

var (
	// ErrInvalidSchedule is returned when a schedule request cannot produce
	// a valid entry: a non-future time for ScheduleAt or a non-positive
	// interval for ScheduleRecurring. No entry is created.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrAlreadyStarted is returned when Start is called on a running sweep loop.
	ErrAlreadyStarted = errors.New("scheduler already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("scheduler not started")

	// ErrNoDeliverers is returned when a FallbackDeliverer is built empty.
	ErrNoDeliverers = errors.New("no deliverers configured")
)
