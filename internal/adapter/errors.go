package adapter

import "errors"

// Transport errors. The server's response body follows the sentinel in the
// wrapped message: "<sentinel>: <body>".
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrUnavailable means the request never got an HTTP response.
	ErrUnavailable = errors.New("server unavailable")
)
