package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/classifier"
	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/scheduler"
)

type ingestRequest struct {
	Payload     notification.Payload           `json:"payload"`
	OwnerID     string                         `json:"owner_id"`
	Delay       string                         `json:"delay,omitempty"` // Go duration, e.g. "5m"
	At          *time.Time                     `json:"at,omitempty"`
	MaxAttempts int                            `json:"max_attempts,omitempty"`
	Conditions  *scheduler.DeliveryConditions  `json:"conditions,omitempty"`
}

type ingestResponse struct {
	ID           uuid.UUID            `json:"id,omitempty"`
	Blocked      bool                 `json:"blocked"`
	AppliedRules []string             `json:"applied_rules,omitempty"`
	Payload      notification.Payload `json:"payload"`
}

// handleIngest runs the full pipeline: classify (when the payload carries no
// category), apply filter rules, then schedule. A blocked notification
// returns 200 with Blocked=true and nothing is scheduled.
func (a *API) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if req.OwnerID == "" {
		a.writeError(w, errMissingOwnerID)
		return
	}

	p := a.enrich(req.Payload)

	res := a.filters.Process(p)
	if res.Blocked {
		a.writeJSON(w, http.StatusOK, ingestResponse{
			Blocked:      true,
			AppliedRules: res.AppliedRules,
			Payload:      res.Payload,
		})
		return
	}
	p = res.Payload

	delay, err := scheduleDelay(req.Delay, p)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var opts []scheduler.ScheduleOption
	if req.MaxAttempts > 0 {
		opts = append(opts, scheduler.WithMaxAttempts(req.MaxAttempts))
	}
	if req.Conditions != nil && !req.Conditions.Empty() {
		opts = append(opts, scheduler.WithConditions(*req.Conditions))
	}

	var id uuid.UUID
	switch {
	case req.At != nil:
		id, err = a.scheduler.ScheduleAt(r.Context(), p, req.OwnerID, *req.At, opts...)
	case delay > 0:
		id, err = a.scheduler.ScheduleWithDelay(r.Context(), p, req.OwnerID, delay, opts...)
	default:
		id, err = a.scheduler.ScheduleNow(r.Context(), p, req.OwnerID, opts...)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, ingestResponse{
		ID:           id,
		AppliedRules: res.AppliedRules,
		Payload:      p,
	})
}

type recurringRequest struct {
	Payload        notification.Payload `json:"payload"`
	OwnerID        string               `json:"owner_id"`
	Interval       string               `json:"interval"` // Go duration, e.g. "24h"
	MaxOccurrences int                  `json:"max_occurrences,omitempty"`
	EndTime        *time.Time           `json:"end_time,omitempty"`
	MaxAttempts    int                  `json:"max_attempts,omitempty"`
}

type recurringResponse struct {
	IDs          []uuid.UUID `json:"ids,omitempty"`
	Blocked      bool        `json:"blocked"`
	AppliedRules []string    `json:"applied_rules,omitempty"`
}

func (a *API) handleRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if req.OwnerID == "" {
		a.writeError(w, errMissingOwnerID)
		return
	}

	interval, err := time.ParseDuration(req.Interval)
	if err != nil {
		a.writeError(w, fmt.Errorf("%w: interval %q", scheduler.ErrInvalidSchedule, req.Interval))
		return
	}

	p := a.enrich(req.Payload)

	res := a.filters.Process(p)
	if res.Blocked {
		a.writeJSON(w, http.StatusOK, recurringResponse{
			Blocked:      true,
			AppliedRules: res.AppliedRules,
		})
		return
	}
	p = res.Payload

	var opts []scheduler.ScheduleOption
	if req.MaxOccurrences > 0 {
		opts = append(opts, scheduler.WithMaxOccurrences(req.MaxOccurrences))
	}
	if req.EndTime != nil {
		opts = append(opts, scheduler.WithEndTime(*req.EndTime))
	}
	if req.MaxAttempts > 0 {
		opts = append(opts, scheduler.WithMaxAttempts(req.MaxAttempts))
	}

	ids, err := a.scheduler.ScheduleRecurring(r.Context(), p, req.OwnerID, interval, opts...)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, recurringResponse{
		IDs:          ids,
		AppliedRules: res.AppliedRules,
	})
}

func (a *API) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, errInvalidID)
		return
	}

	if !a.scheduler.Cancel(r.Context(), id) {
		a.writeJSON(w, http.StatusNotFound, errorResponse{Error: "entry not found or already terminal"})
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

func (a *API) handleCancelAllForOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	cancelled := a.scheduler.CancelAllForUser(r.Context(), ownerID)
	a.writeJSON(w, http.StatusOK, map[string]int{"cancelled": cancelled})
}

func (a *API) handleListForOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")

	var statuses []scheduler.Status
	if s := r.URL.Query().Get("status"); s != "" {
		statuses = append(statuses, scheduler.Status(s))
	}

	entries := a.scheduler.GetScheduledForUser(r.Context(), ownerID, statuses...)
	a.writeJSON(w, http.StatusOK, entries)
}

func (a *API) handlePending(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.scheduler.GetPending(r.Context()))
}

func (a *API) handleCleanup(w http.ResponseWriter, r *http.Request) {
	removed := a.scheduler.Cleanup(r.Context())
	a.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.scheduler.Stats(r.Context()))
}

func (a *API) handleClassify(w http.ResponseWriter, r *http.Request) {
	var p notification.Payload
	if err := decodeBody(r, &p); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, classifier.Classify(p))
}

// enrich fills in category and priority from the classifier when the caller
// left them empty.
func (a *API) enrich(p notification.Payload) notification.Payload {
	if p.Category != "" && p.Priority != "" {
		return p
	}

	res := classifier.Classify(p)
	if p.Category == "" {
		p.Category = string(res.Category)
	}
	if p.Priority == "" {
		p.Priority = res.Priority
	}
	return p
}

// scheduleDelay combines the request delay with the delay hint a filter rule
// may have written into the payload.
func scheduleDelay(raw string, p notification.Payload) (time.Duration, error) {
	var delay time.Duration

	if raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: delay %q", scheduler.ErrInvalidSchedule, raw)
		}
		delay = parsed
	}

	switch v := p.Data[filter.DataKeyDelay].(type) {
	case int64:
		delay += time.Duration(v) * time.Millisecond
	case float64:
		delay += time.Duration(v) * time.Millisecond
	}

	return delay, nil
}
