package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/notifykit/pkg/filter"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/scheduler"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("Failed to encode response", logger.Error(err))
	}
}

// writeError maps domain errors to HTTP status codes. Unrecognized errors
// become 500 without leaking their message.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, errInvalidID),
		errors.Is(err, errMissingOwnerID):
		status = http.StatusBadRequest
		msg = err.Error()

	case errors.Is(err, scheduler.ErrInvalidSchedule),
		errors.Is(err, filter.ErrInvalidRule),
		errors.Is(err, filter.ErrInvalidOperator),
		errors.Is(err, filter.ErrInvalidAction):
		status = http.StatusUnprocessableEntity
		msg = err.Error()

	case errors.Is(err, filter.ErrRuleNotFound):
		status = http.StatusNotFound
		msg = err.Error()

	case errors.Is(err, filter.ErrRuleExists):
		status = http.StatusConflict
		msg = err.Error()
	}

	a.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Join(errInvalidBody, err)
	}
	return nil
}
