package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidSessionID      = errors.New("session_id must not be blank")
	ErrTooManyItems          = errors.New("too many items in one batch")
	ErrEmptyResolutionKey    = errors.New("resolution key must be an entity_id")
	ErrInvalidResolutionKind = errors.New("unknown resolution mode")
	ErrEmptyResolutionFields = errors.New("merge resolution requires at least one field")
	ErrInvalidSide           = errors.New("resolution side must be server, client or merge")
	ErrEmptyResolution       = errors.New("resolution map cannot be empty")
)
