package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Status is the lifecycle state of a scheduled entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final. Terminal entries are
// immutable except for retention-based deletion during cleanup.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// DeliveryConditions gate an entry's delivery at sweep time. A failing
// condition leaves the entry untouched for the next sweep; it never counts
// as a delivery attempt.
type DeliveryConditions struct {
	// RequireOnline defers delivery until the connectivity signal reports
	// the process online.
	RequireOnline bool `json:"require_online,omitempty"`

	// RequireRecentActivity defers delivery until the owner produced an
	// input event within the scheduler's activity window (5 minutes by
	// default).
	RequireRecentActivity bool `json:"require_recent_activity,omitempty"`

	// Predicate names a custom predicate registered on the scheduler.
	// Unknown names and predicate errors fail closed.
	Predicate string `json:"predicate,omitempty"`
}

// Empty reports whether no condition is configured.
func (c DeliveryConditions) Empty() bool {
	return !c.RequireOnline && !c.RequireRecentActivity && c.Predicate == ""
}

// Entry is a single scheduled notification.
type Entry struct {
	ID          uuid.UUID            `json:"id"`
	Payload     notification.Payload `json:"payload"`
	OwnerID     string               `json:"owner_id"`
	Status      Status               `json:"status"`
	ScheduledAt time.Time            `json:"scheduled_at"`
	CreatedAt   time.Time            `json:"created_at"`
	DeliveredAt *time.Time           `json:"delivered_at,omitempty"`
	Attempts    int                  `json:"attempts"`
	MaxAttempts int                  `json:"max_attempts"`
	Conditions  DeliveryConditions   `json:"conditions,omitzero"`

	// Recurrence linkage: all occurrences of one recurring schedule share
	// the first entry's ID as ParentID and carry a distinct 1-based
	// occurrence number.
	Occurrence int       `json:"occurrence,omitempty"`
	ParentID   uuid.UUID `json:"parent_id,omitzero"`
}

// Stats summarizes the entry store.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
	Failed    int `json:"failed"`

	// DroppedOnReload counts stale pending entries discarded during the
	// last startup reload.
	DroppedOnReload int `json:"dropped_on_reload"`
}
