// Package redis provides helpers for connecting the notification engine to a
// Redis server.
//
// The package wraps the go-redis client and adds:
//
//   - A `Connect` helper which retries the connection using the supplied
//     configuration.
//   - A health-check helper to integrate Redis into liveness / readiness
//     probes.
//
// Configuration is described by the `Config` struct whose fields are
// populated from environment variables via pkg/config.
//
// # Usage
//
//	import "github.com/dmitrymomot/notifykit/pkg/redis"
//
//	cfg := redis.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  5 * time.Second,
//	    ConnectTimeout: 30 * time.Second,
//	}
//
//	ctx := context.Background()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
// The connected client plugs straight into storage.NewRedis to persist
// schedule and filter state:
//
//	store := storage.NewRedis(client)
//
// Register a health-check in your observability stack:
//
//	checker := redis.Healthcheck(client)
//	if err := checker(ctx); err != nil {
//	    // redis is not healthy
//	}
//
// # Errors
//
// The package defines sentinel errors (e.g. ErrRedisNotReady) that wrap the
// underlying go-redis errors using errors.Join.
package redis
