package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func (a *API) handleListRules(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.filters.GetRules(r.Context()))
}

func (a *API) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var rule filter.Rule
	if err := decodeBody(r, &rule); err != nil {
		a.writeError(w, err)
		return
	}

	created, err := a.filters.AddRule(r.Context(), rule)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, errInvalidID)
		return
	}

	var rule filter.Rule
	if err := decodeBody(r, &rule); err != nil {
		a.writeError(w, err)
		return
	}
	rule.ID = id

	if err := a.filters.UpdateRule(r.Context(), rule); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, rule)
}

func (a *API) handleRemoveRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, errInvalidID)
		return
	}

	if err := a.filters.RemoveRule(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, errInvalidID)
		return
	}

	enabled, err := a.filters.ToggleRule(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

// handleProcess runs the filter pipeline against a payload without
// scheduling anything. Useful for previewing what a rule set does.
func (a *API) handleProcess(w http.ResponseWriter, r *http.Request) {
	var p notification.Payload
	if err := decodeBody(r, &p); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, a.filters.Process(p))
}
