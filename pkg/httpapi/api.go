package httpapi

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/scheduler"
)

// API exposes the notification engine over HTTP: ingesting notifications
// through the classify → filter → schedule pipeline, managing filter rules,
// and querying schedule state.
type API struct {
	scheduler *scheduler.Scheduler
	filters   *filter.Engine
	logger    *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger used for request-level warnings.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.logger = log
		}
	}
}

// New creates the API around a scheduler and a filter engine.
func New(sched *scheduler.Scheduler, filters *filter.Engine, opts ...Option) (*API, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if filters == nil {
		return nil, ErrNilFilterEngine
	}

	a := &API{
		scheduler: sched,
		filters:   filters,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Router builds the chi router for the API. Mount it wherever the serving
// stack wants it:
//
//	r := chi.NewRouter()
//	r.Mount("/api/v1", api.Router())
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/notifications", func(r chi.Router) {
		r.Post("/", a.handleIngest)
		r.Post("/recurring", a.handleRecurring)
		r.Get("/pending", a.handlePending)
		r.Delete("/{id}", a.handleCancel)
	})

	r.Route("/users/{ownerID}/notifications", func(r chi.Router) {
		r.Get("/", a.handleListForOwner)
		r.Delete("/", a.handleCancelAllForOwner)
	})

	r.Post("/classify", a.handleClassify)

	r.Route("/filters", func(r chi.Router) {
		r.Get("/", a.handleListRules)
		r.Post("/", a.handleAddRule)
		r.Post("/process", a.handleProcess)
		r.Put("/{id}", a.handleUpdateRule)
		r.Delete("/{id}", a.handleRemoveRule)
		r.Post("/{id}/toggle", a.handleToggleRule)
	})

	r.Post("/cleanup", a.handleCleanup)
	r.Get("/stats", a.handleStats)

	return r
}
