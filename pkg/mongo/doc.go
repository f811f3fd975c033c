// Package mongo provides MongoDB connection management for the notification
// engine.
//
// Key features:
//   - Environment-driven configuration via pkg/config
//   - Built-in retry logic for transient connection failures
//   - Connection pool defaults that work without manual tuning
//   - Health check integration for container orchestration
//   - Error types compatible with errors.Is() for clean error handling
//
// # Usage
//
//	import (
//		"context"
//		"github.com/dmitrymomot/notifykit/pkg/mongo"
//	)
//
//	func main() {
//		cfg := mongo.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//		}
//
//		client, err := mongo.New(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Disconnect(context.Background())
//
//		db, _ := mongo.NewWithDatabase(context.Background(), cfg, "notifykit")
//
//		// The schedule and filter stores persist into a collection:
//		store := storage.NewMongo(db.Collection("notification_store"))
//		_ = store
//
//		health := mongo.Healthcheck(client)
//		if err := health(context.Background()); err != nil {
//			log.Println("mongo is unavailable:", err)
//		}
//	}
//
// # Error Handling
//
// Connection failures are wrapped in package sentinel errors. Use errors.Is()
// to check for specific failure scenarios.
package mongo
