package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/activity"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/storage"
)

// Predicate is a custom delivery condition evaluated at sweep time. An error
// (or a panic, which is recovered) counts as "condition not met": the entry
// stays untouched and is re-evaluated on the next sweep.
type Predicate func(e Entry) (bool, error)

// Scheduler owns the scheduled-entry lifecycle: enqueue, periodic sweep,
// delivery with retry/backoff, cancellation, cleanup and persistence. It is
// a single-instance, single-owner-per-store scheduler; running two instances
// over the same persisted store risks duplicate delivery.
type Scheduler struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Entry

	deliverer  Deliverer
	store      storage.Store // optional
	storeKey   string
	logger     *slog.Logger
	tracker    *activity.Tracker
	online     func() bool
	predicates map[string]Predicate

	sweepInterval  time.Duration
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	retention      time.Duration
	reloadWindow   time.Duration
	activityWindow time.Duration
	now            func() time.Time

	droppedOnReload int

	// Sweep loop lifecycle.
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler delivering through the given transport. A nil
// deliverer falls back to NoOpDeliverer so the scheduler can run as a pure
// state machine. When a store is configured, pending entries scheduled
// within the reload window are restored; stale pending entries are dropped
// and surfaced through Stats.DroppedOnReload.
func New(ctx context.Context, deliverer Deliverer, opts ...Option) (*Scheduler, error) {
	if deliverer == nil {
		deliverer = NoOpDeliverer{}
	}

	s := &Scheduler{
		entries:        make(map[uuid.UUID]*Entry),
		deliverer:      deliverer,
		storeKey:       DefaultStoreKey,
		logger:         slog.Default(),
		online:         func() bool { return true },
		predicates:     make(map[string]Predicate),
		sweepInterval:  DefaultSweepInterval,
		baseRetryDelay: DefaultBaseRetryDelay,
		maxRetryDelay:  DefaultMaxRetryDelay,
		retention:      DefaultRetention,
		reloadWindow:   DefaultReloadWindow,
		activityWindow: DefaultActivityWindow,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tracker == nil {
		s.tracker = activity.NewTracker()
	}

	if s.store != nil {
		if err := s.load(ctx); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to load persisted schedule, starting empty",
				slog.String("store_key", s.storeKey),
				logger.Error(err),
			)
		}
	}

	return s, nil
}

// RegisterPredicate makes a named custom delivery condition available to
// entries scheduled with DeliveryConditions.Predicate.
func (s *Scheduler) RegisterPredicate(name string, fn Predicate) {
	if name == "" || fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.predicates[name] = fn
}

// RecordActivity marks the owner as active now. Delegates to the injected
// or scheduler-owned activity tracker.
func (s *Scheduler) RecordActivity(ownerID string) {
	s.tracker.RecordActivity(ownerID)
}

// ScheduleNow enqueues an entry due immediately: the next sweep picks it up.
func (s *Scheduler) ScheduleNow(ctx context.Context, p notification.Payload, ownerID string, opts ...ScheduleOption) (uuid.UUID, error) {
	entry := s.buildEntry(p, ownerID, s.now(), applyScheduleOptions(opts))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(ctx, entry)

	return entry.ID, nil
}

// ScheduleWithDelay enqueues an entry due after the given delay.
func (s *Scheduler) ScheduleWithDelay(ctx context.Context, p notification.Payload, ownerID string, delay time.Duration, opts ...ScheduleOption) (uuid.UUID, error) {
	entry := s.buildEntry(p, ownerID, s.now().Add(delay), applyScheduleOptions(opts))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(ctx, entry)

	return entry.ID, nil
}

// ScheduleAt enqueues an entry due at the given time, which must be in the
// future. On ErrInvalidSchedule no entry is created.
func (s *Scheduler) ScheduleAt(ctx context.Context, p notification.Payload, ownerID string, at time.Time, opts ...ScheduleOption) (uuid.UUID, error) {
	if !at.After(s.now()) {
		return uuid.Nil, fmt.Errorf("%w: time %s is not in the future", ErrInvalidSchedule, at.Format(time.RFC3339))
	}

	entry := s.buildEntry(p, ownerID, at, applyScheduleOptions(opts))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(ctx, entry)

	return entry.ID, nil
}

// ScheduleRecurring eagerly materializes occurrences at now, now+interval,
// now+2·interval, ... up to WithMaxOccurrences (default 10), stopping early
// at a WithEndTime boundary. All occurrences share the first entry's ID as
// parent and carry a tag suffixed with their occurrence number. Returns the
// created entry IDs in occurrence order.
func (s *Scheduler) ScheduleRecurring(ctx context.Context, p notification.Payload, ownerID string, interval time.Duration, opts ...ScheduleOption) ([]uuid.UUID, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidSchedule)
	}

	options := applyScheduleOptions(opts)
	start := s.now()

	var batch []*Entry
	var parentID uuid.UUID

	for i := range options.maxOccurrences {
		at := start.Add(time.Duration(i) * interval)
		if options.endTime != nil && at.After(*options.endTime) {
			break
		}

		entry := s.buildEntry(p, ownerID, at, options)
		entry.Occurrence = i + 1
		entry.Payload.Tag = fmt.Sprintf("%s-%d", p.Tag, i+1)

		if i == 0 {
			parentID = entry.ID
		}
		entry.ParentID = parentID
		batch = append(batch, entry)
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: end boundary excludes every occurrence", ErrInvalidSchedule)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(batch))
	for _, entry := range batch {
		s.entries[entry.ID] = entry
		ids = append(ids, entry.ID)
	}
	s.persistLocked(ctx)

	s.logger.LogAttrs(ctx, slog.LevelDebug, "Scheduled recurring batch",
		slog.String("parent_id", parentID.String()),
		slog.Int("occurrences", len(batch)),
		logger.UserID(ownerID),
	)

	return ids, nil
}

// Cancel marks a pending entry cancelled. It returns false as a no-op when
// the entry is unknown or already terminal; a delivery already dispatched in
// the current sweep is not aborted.
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.Status != StatusPending {
		return false
	}

	entry.Status = StatusCancelled
	s.persistLocked(ctx)
	return true
}

// CancelAllForUser cancels every pending entry owned by ownerID and returns
// how many were cancelled.
func (s *Scheduler) CancelAllForUser(ctx context.Context, ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, entry := range s.entries {
		if entry.OwnerID == ownerID && entry.Status == StatusPending {
			entry.Status = StatusCancelled
			count++
		}
	}

	if count > 0 {
		s.persistLocked(ctx)
	}
	return count
}

// GetScheduledForUser returns copies of the owner's entries, optionally
// filtered by status, ordered by scheduled time.
func (s *Scheduler) GetScheduledForUser(ctx context.Context, ownerID string, statuses ...Status) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, entry.Status) {
			continue
		}
		out = append(out, *entry)
	}

	sortEntries(out)
	return out
}

// GetPending returns copies of all pending entries ordered by scheduled time.
func (s *Scheduler) GetPending(ctx context.Context) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, entry := range s.entries {
		if entry.Status == StatusPending {
			out = append(out, *entry)
		}
	}

	sortEntries(out)
	return out
}

// Cleanup deletes terminal entries past the retention window and returns how
// many were removed. Retention is measured from DeliveredAt when set,
// CreatedAt otherwise (cancelled and failed entries have no delivery time).
func (s *Scheduler) Cleanup(ctx context.Context) int {
	cutoff := s.now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for id, entry := range s.entries {
		if !entry.Status.Terminal() {
			continue
		}
		ref := entry.CreatedAt
		if entry.DeliveredAt != nil {
			ref = *entry.DeliveredAt
		}
		if ref.Before(cutoff) {
			delete(s.entries, id)
			count++
		}
	}

	if count > 0 {
		s.persistLocked(ctx)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "Cleaned up expired entries",
			slog.Int("deleted", count),
		)
	}
	return count
}

// Stats returns per-status entry counts.
func (s *Scheduler) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.entries), DroppedOnReload: s.droppedOnReload}
	for _, entry := range s.entries {
		switch entry.Status {
		case StatusPending:
			st.Pending++
		case StatusDelivered:
			st.Delivered++
		case StatusCancelled:
			st.Cancelled++
		case StatusFailed:
			st.Failed++
		}
	}
	return st
}

// buildEntry constructs a pending entry from a schedule request.
func (s *Scheduler) buildEntry(p notification.Payload, ownerID string, at time.Time, options *scheduleOptions) *Entry {
	return &Entry{
		ID:          uuid.New(),
		Payload:     p.Clone(),
		OwnerID:     ownerID,
		Status:      StatusPending,
		ScheduledAt: at,
		CreatedAt:   s.now(),
		MaxAttempts: options.maxAttempts,
		Conditions:  options.conditions,
	}
}

// insertLocked stores the entry and persists the snapshot. Callers must hold
// the mutex.
func (s *Scheduler) insertLocked(ctx context.Context, entry *Entry) {
	s.entries[entry.ID] = entry
	s.persistLocked(ctx)

	s.logger.LogAttrs(ctx, slog.LevelDebug, "Scheduled entry",
		slog.String("entry_id", entry.ID.String()),
		slog.Time("scheduled_at", entry.ScheduledAt),
		logger.UserID(entry.OwnerID),
	)
}

func applyScheduleOptions(opts []ScheduleOption) *scheduleOptions {
	options := &scheduleOptions{
		maxAttempts:    DefaultMaxAttempts,
		maxOccurrences: DefaultMaxOccurrences,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func containsStatus(statuses []Status, status Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// sortEntries orders by scheduled time, breaking ties by occurrence then ID
// so listings are deterministic.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ScheduledAt.Equal(entries[j].ScheduledAt) {
			return entries[i].ScheduledAt.Before(entries[j].ScheduledAt)
		}
		if entries[i].Occurrence != entries[j].Occurrence {
			return entries[i].Occurrence < entries[j].Occurrence
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}

// persistLocked serializes the full entry set through the store. Failures
// are logged only: the in-memory state stays authoritative and the next
// successful save reconciles durable state. Callers must hold the mutex.
func (s *Scheduler) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}

	snapshot := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		snapshot = append(snapshot, *entry)
	}
	sortEntries(snapshot)

	blob, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "Failed to serialize schedule",
			logger.Error(err),
		)
		return
	}

	if err := s.store.Save(ctx, s.storeKey, blob); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to persist schedule",
			slog.String("store_key", s.storeKey),
			logger.Error(err),
		)
	}
}

// load restores pending entries scheduled within the reload window. Stale
// pending entries are dropped; the drop is logged and counted in Stats
// rather than surfaced as a status, keeping the persisted snapshot small.
func (s *Scheduler) load(ctx context.Context) error {
	blob, err := s.store.Load(ctx, s.storeKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var snapshot []Entry
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return fmt.Errorf("failed to decode persisted schedule: %w", err)
	}

	horizon := s.now().Add(-s.reloadWindow)
	dropped := 0

	for _, entry := range snapshot {
		if entry.Status != StatusPending {
			continue
		}
		if entry.ScheduledAt.Before(horizon) {
			dropped++
			continue
		}
		e := entry
		s.entries[e.ID] = &e
	}

	s.droppedOnReload = dropped
	if dropped > 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Dropped stale pending entries on reload",
			slog.Int("dropped", dropped),
			slog.Duration("reload_window", s.reloadWindow),
		)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Restored persisted schedule",
		slog.Int("restored", len(s.entries)),
		slog.Int("dropped", dropped),
	)
	return nil
}
