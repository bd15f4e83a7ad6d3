// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// sync engine handlers, middleware and the reference client.
//
// All Msg* constants are human-readable message strings that are written into
// response bodies or log entries to describe the outcome of an operation.
// The client adapter matches them to restore the server's error values, so
// the wording is part of the API.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidRequest is returned when a decoded reconcile request fails
	// validation (blank session id, oversized batch, malformed directive).
	MsgInvalidRequest = "invalid reconcile request"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoPrincipal is returned when a handler requires the caller identity
	// but none is present in the request context.
	MsgNoPrincipal = "no authenticated principal"

	// MsgSessionNotFound is returned for an unknown session id or a session
	// owned by another tenant or user.
	MsgSessionNotFound = "sync session not found"

	// MsgItemNotFound is returned when the item does not belong to the
	// session.
	MsgItemNotFound = "sync item not found"

	// MsgItemNotInConflict is returned when a resolution targets an item that
	// is not waiting for one.
	MsgItemNotInConflict = "sync item is not in conflict"

	// MsgUnknownResolutionField is returned when a resolution names a field
	// present on neither side of the conflict.
	MsgUnknownResolutionField = "unknown resolution field"

	// MsgInvalidResolution is returned for an empty resolution or an unknown
	// side.
	MsgInvalidResolution = "invalid resolution"

	// MsgVersionIsNotSpecified is returned by the version endpoint when the
	// server was built and configured without a version.
	MsgVersionIsNotSpecified = "version is not specified"
)
