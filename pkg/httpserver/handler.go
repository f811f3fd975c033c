package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/pkg/httpapi"
)

// Handler assembles the engine's full serving surface: the notification API
// mounted under /api/v1, a liveness probe at /healthz, and a readiness probe
// at /readyz that aggregates the supplied dependency checks (typically
// redis.Healthcheck, pg.Healthcheck, mongo.Healthcheck for whichever store
// backs the scheduler).
func Handler(ctx context.Context, api *httpapi.API, log *slog.Logger, checks ...func(context.Context) error) (http.Handler, error) {
	if api == nil {
		return nil, ErrNilAPI
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Get("/healthz", HealthCheckHandler(ctx, log))
	r.Get("/readyz", HealthCheckHandler(ctx, log, checks...))
	r.Mount("/api/v1", api.Router())
	return r, nil
}
