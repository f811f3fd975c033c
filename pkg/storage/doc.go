// Package storage provides a durable key-value store abstraction used to
// persist the scheduler's entry set and the filter engine's rule set.
//
// State is saved as a single serialized snapshot per key. The engine writes
// the full snapshot after every mutation and reads it once at startup, so the
// backend only needs atomic get/set per key, not per-record queries.
//
// Four backends are included:
//
//   - Memory — process-local, for tests and ephemeral use
//   - Redis — one string value per key
//   - Mongo — one document per key
//   - Postgres — one row per key, jsonb payload (schema under migrations/)
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := storage.NewRedis(client)
//	if err != nil {
//		return err
//	}
//	sched, err := scheduler.New(deliverer, scheduler.WithStore(store))
//
// Missing keys are reported as ErrKeyNotFound so a first start with an empty
// backend is indistinguishable from an explicitly empty snapshot.
package storage
