// Package httpserver is the serving harness for the notification engine: a
// lightweight wrapper around net/http with graceful shutdown, configurable
// timeouts, health probes, and structured logging via slog.
//
// The core type is Server, which wraps *http.Server and augments it with:
//
//   - Graceful Shutdown – Run blocks until the context is cancelled or an
//     interrupt/TERM signal is received and then shuts the server down using
//     http.Server.Shutdown with a configurable deadline.
//
//   - Functional Options – Construction is done through New or NewFromConfig
//     together with Option helpers such as WithAddr, WithReadTimeout and
//     WithLogger.
//
//   - Hooks – WithStartHook and WithStopHook let callers execute side-effects
//     around the server life-cycle.
//
// Handler assembles the complete serving surface: the notification API under
// /api/v1 plus a liveness probe at /healthz and a readiness probe at /readyz
// that aggregates store health checks.
//
// # Usage
//
//	import (
//		"context"
//
//		"github.com/dmitrymomot/notifykit/pkg/httpapi"
//		"github.com/dmitrymomot/notifykit/pkg/httpserver"
//		"github.com/dmitrymomot/notifykit/pkg/redis"
//	)
//
//	func main() {
//		ctx := context.Background()
//		api, err := httpapi.New(sched, filters)
//		if err != nil {
//			log.Error("api", "err", err)
//			return
//		}
//
//		h, err := httpserver.Handler(ctx, api, log, redis.Healthcheck(client))
//		if err != nil {
//			log.Error("handler", "err", err)
//			return
//		}
//
//		srv := httpserver.New(
//			httpserver.WithAddr(":8080"),
//			httpserver.WithShutdownTimeout(10*time.Second),
//			httpserver.WithLogger(log),
//		)
//		if err := srv.Run(ctx, h); err != nil {
//			log.Error("server stopped", "err", err)
//		}
//	}
//
// # Errors
//
// Run wraps all listen errors with ErrStart, while shutdown failures are
// wrapped with ErrShutdown. Use errors.Is to distinguish them.
package httpserver
