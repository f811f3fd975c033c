// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// migrations, health checks, and common error helpers so the notification
// engine can bootstrap a resilient database layer with a few lines of code.
//
// # Architecture
//
// The package exposes three cooperating building blocks:
//
//   • Config – a declarative struct whose fields are populated from
//     environment variables via pkg/config. It controls connection pool
//     limits, health-check cadence and migration paths.
//
//   • Connect – opens a *pgxpool.Pool based on Config, retrying with backoff
//     until the database becomes available.
//
//   • Migrate – runs goose database migrations against the same connection
//     pool, guaranteeing the schema is up-to-date before the service starts
//     serving traffic.
//
// # Usage
//
//	package main
//
//	import (
//	    "context"
//	    "log/slog"
//
//	    "github.com/dmitrymomot/notifykit/pkg/config"
//	    "github.com/dmitrymomot/notifykit/pkg/pg"
//	)
//
//	func main() {
//	    var cfg pg.Config
//	    config.MustLoad(&cfg)
//
//	    ctx := context.Background()
//	    pool, err := pg.Connect(ctx, cfg)
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer pool.Close()
//
//	    if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	        panic(err)
//	    }
//
//	    health := pg.Healthcheck(pool)
//	    if err := health(ctx); err != nil {
//	        panic(err)
//	    }
//	}
//
// The connected pool plugs into storage.NewPostgres to persist schedule and
// filter state.
//
// # Error Handling
//
// Helpers such as [pg.IsDuplicateKeyError] or [pg.IsForeignKeyViolationError]
// unwrap errors returned by pgx / *pgconn.PgError and make error
// classification trivial inside business logic.
package pg
