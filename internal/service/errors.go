package service

import "errors"

// Request errors abort the whole call before any item is touched.
var (
	ErrSessionNotFound = errors.New("sync session not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNoPrincipal     = errors.New("no authenticated principal")
)

// Item validation errors are stored as the failed item's error message and
// never returned to the caller.
var (
	ErrMalformedItem     = errors.New("malformed item")
	ErrMissingEntityType = errors.New("missing entity_type")
	ErrMissingEntityID   = errors.New("missing entity_id")
)

// Resolution errors reject a conflict resolution request.
var (
	ErrItemNotFound           = errors.New("sync item not found")
	ErrItemNotInConflict      = errors.New("sync item is not in conflict")
	ErrUnknownResolutionField = errors.New("resolution names a field present on neither side")
	ErrInvalidResolution      = errors.New("invalid resolution")
)

var ErrVersionIsNotSpecified = errors.New("app version is not specified")

// Client errors.
var (
	ErrServerUnavailable = errors.New("sync server unavailable")
	ErrTokenIsExpired    = errors.New("token is expired or invalid")
)
