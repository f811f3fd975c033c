package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Start launches the background sweep loop: one eager sweep immediately,
// then one per sweep interval until the context is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.run(ctx, done)

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Scheduler started",
		slog.Duration("sweep_interval", s.sweepInterval),
	)
	return nil
}

// Stop cancels the sweep loop and waits for the in-flight sweep to finish.
// Entries being delivered when Stop is called complete their delivery.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}

	cancel()
	<-done

	s.logger.Info("Scheduler stopped")
	return nil
}

// Run starts the scheduler and returns a function suitable for errgroup.
func (s *Scheduler) Run(ctx context.Context) func() error {
	return func() error {
		if err := s.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return s.Stop()
	}
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.Sweep(ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep processes every due pending entry once and returns how many delivery
// attempts were made. Entries whose delivery conditions fail are skipped
// untouched; no single entry's failure aborts the rest of the sweep.
func (s *Scheduler) Sweep(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var due []Entry
	for _, entry := range s.entries {
		if entry.Status == StatusPending && !entry.ScheduledAt.After(now) {
			due = append(due, *entry)
		}
	}
	s.mu.Unlock()

	sortEntries(due)

	attempts := 0
	for _, entry := range due {
		if ctx.Err() != nil {
			break
		}
		if !s.conditionsMet(ctx, entry) {
			continue
		}

		attempts++
		// Delivery runs without the mutex held: the transport is I/O-bound
		// and the engine imposes no timeout on it.
		err := s.deliverer.Deliver(ctx, entry.Payload)
		s.applyOutcome(ctx, entry.ID, err)
	}

	if attempts > 0 {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "Sweep finished",
			slog.Int("due", len(due)),
			slog.Int("attempted", attempts),
		)
	}
	return attempts
}

// conditionsMet evaluates the entry's delivery conditions. Every failure
// path is fail-closed: the entry stays pending and untouched until the next
// sweep.
func (s *Scheduler) conditionsMet(ctx context.Context, entry Entry) bool {
	c := entry.Conditions
	if c.Empty() {
		return true
	}

	if c.RequireOnline && !s.online() {
		return false
	}

	if c.RequireRecentActivity && !s.tracker.ActiveWithin(entry.OwnerID, s.activityWindow) {
		return false
	}

	if c.Predicate != "" {
		s.mu.Lock()
		fn := s.predicates[c.Predicate]
		s.mu.Unlock()

		if fn == nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "Unknown delivery predicate",
				slog.String("predicate", c.Predicate),
				slog.String("entry_id", entry.ID.String()),
			)
			return false
		}

		ok, err := runPredicate(fn, entry)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "Delivery predicate failed, deferring entry",
				slog.String("predicate", c.Predicate),
				slog.String("entry_id", entry.ID.String()),
				logger.Error(err),
			)
			return false
		}
		if !ok {
			return false
		}
	}

	return true
}

// runPredicate shields the sweep from misbehaving predicates: a panic is
// converted into an error and treated as "condition not met".
func runPredicate(fn Predicate, entry Entry) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("panic in predicate: %v", r)
		}
	}()
	return fn(entry)
}

// applyOutcome records a delivery attempt. Success is terminal; failure
// either reschedules with exponential backoff or, once attempts are
// exhausted, marks the entry failed permanently. An entry cancelled while
// its delivery was in flight is left terminal regardless of the outcome.
func (s *Scheduler) applyOutcome(ctx context.Context, id uuid.UUID, deliverErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[id]
	if !exists || entry.Status != StatusPending {
		return
	}

	now := s.now()
	entry.Attempts++

	switch {
	case deliverErr == nil:
		entry.Status = StatusDelivered
		entry.DeliveredAt = &now

	case entry.Attempts < entry.MaxAttempts:
		delay := s.backoff(entry.Attempts)
		entry.ScheduledAt = now.Add(delay)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Delivery failed, retrying",
			slog.String("entry_id", entry.ID.String()),
			slog.Int("attempts", entry.Attempts),
			slog.Int("max_attempts", entry.MaxAttempts),
			slog.Duration("retry_in", delay),
			logger.Error(deliverErr),
		)

	default:
		entry.Status = StatusFailed
		s.logger.LogAttrs(ctx, slog.LevelError, "Delivery failed permanently",
			slog.String("entry_id", entry.ID.String()),
			slog.Int("attempts", entry.Attempts),
			logger.Error(deliverErr),
		)
	}

	s.persistLocked(ctx)
}

// backoff returns the retry delay after the given attempt count: the base
// delay doubled per attempt, capped at the maximum.
func (s *Scheduler) backoff(attempts int) time.Duration {
	delay := s.baseRetryDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= s.maxRetryDelay {
			return s.maxRetryDelay
		}
	}
	return min(delay, s.maxRetryDelay)
}
