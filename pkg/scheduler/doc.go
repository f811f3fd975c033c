// Package scheduler is a persistent notification scheduling and delivery
// state machine with immediate, delayed, at-time and recurring scheduling,
// retry with exponential backoff, delivery conditions and durable snapshots.
//
// # Lifecycle
//
// Every entry starts pending and ends in exactly one terminal state:
//
//	pending → delivered   delivery succeeded
//	pending → failed      attempts exhausted without success
//	pending → cancelled   explicit cancel
//	pending → pending     retry, scheduled time advanced by backoff
//
// Terminal entries are immutable; an on-demand Cleanup pass deletes them
// once they fall outside the retention window (7 days by default).
//
// # Sweep
//
// A background loop (Start/Stop, default every minute plus one eager sweep
// at startup) collects due pending entries, checks their delivery conditions
// and hands the payload to the Deliverer. Failures retry with
// backoff(n) = min(base·2^(n-1), max), 60s base and 1h cap by default.
//
// # Persistence
//
// With a storage.Store configured, the full entry set is saved after every
// mutation. On startup only pending entries scheduled within the last 24
// hours are restored; stale pending entries are dropped, logged and counted
// in Stats.
//
// # Usage
//
//	sched, err := scheduler.New(ctx, transport,
//		scheduler.WithStore(store),
//		scheduler.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	id, err := sched.ScheduleWithDelay(ctx, payload, userID, 10*time.Minute)
//	if err != nil {
//		return err
//	}
//
//	if err := sched.Start(ctx); err != nil {
//		return err
//	}
//	defer sched.Stop()
//
// The scheduler serializes all store access behind one mutex; only the
// transport call runs unlocked. Cancellation prevents future delivery but
// never aborts a delivery already dispatched in the current sweep.
package scheduler
