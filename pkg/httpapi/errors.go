package httpapi

import "errors"

var (
	ErrNilScheduler    = errors.New("httpapi: nil scheduler")
	ErrNilFilterEngine = errors.New("httpapi: nil filter engine")

	errInvalidBody    = errors.New("invalid request body")
	errInvalidID      = errors.New("invalid id")
	errMissingOwnerID = errors.New("owner_id is required")
)
