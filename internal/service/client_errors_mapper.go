// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/app"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, adapter.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)

	case errors.Is(err, adapter.ErrBadRequest):
		switch extractBody(err, adapter.ErrBadRequest) {
		case app.MsgInvalidDataProvided, app.MsgInvalidRequest:
			return ErrInvalidRequest
		case app.MsgUnknownResolutionField:
			return ErrUnknownResolutionField
		case app.MsgInvalidResolution:
			return ErrInvalidResolution
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		switch extractBody(err, adapter.ErrUnauthorized) {
		case app.MsgTokenIsExpiredOrInvalid:
			return ErrTokenIsExpired
		case app.MsgNoPrincipal:
			return ErrNoPrincipal
		}
		return ErrTokenIsExpired

	case errors.Is(err, adapter.ErrNotFound):
		switch extractBody(err, adapter.ErrNotFound) {
		case app.MsgSessionNotFound:
			return ErrSessionNotFound
		case app.MsgItemNotFound:
			return ErrItemNotFound
		}

	case errors.Is(err, adapter.ErrConflict):
		if extractBody(err, adapter.ErrConflict) == app.MsgItemNotInConflict {
			return ErrItemNotInConflict
		}

	case errors.Is(err, adapter.ErrInternalServerError):
		if extractBody(err, adapter.ErrInternalServerError) == app.MsgVersionIsNotSpecified {
			return ErrVersionIsNotSpecified
		}
	}

	return err
}

// extractBody returns the response body carried after the sentinel in a
// message of the form "<op>: <sentinel>: <body>".
func extractBody(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if idx := strings.Index(msg, prefix); idx != -1 {
		return strings.TrimSpace(msg[idx+len(prefix):])
	}
	return ""
}
