// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer the reference offline client
// uses to talk to the sync engine.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-sync-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// engine. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Reconcile submits one batch of mutations, optionally continuing the
	// session named by req.SessionID.
	Reconcile(ctx context.Context, req models.ReconcileRequest) (models.ReconcileResponse, error)

	// ListSessions returns the caller's most recent sessions. A limit of zero
	// leaves the page size to the server.
	ListSessions(ctx context.Context, limit int) (models.SessionList, error)

	// GetSession returns a session together with all of its items.
	GetSession(ctx context.Context, sessionID string) (models.SessionDetails, error)

	// GetConflictDiff returns the field diff of a conflicted item.
	GetConflictDiff(ctx context.Context, sessionID, itemID string, req models.ConflictDiffRequest) (models.ConflictDiff, error)

	// ResolveConflict applies a per-field resolution to a conflicted item.
	// Returns [ErrConflict] (wrapped) if the item is no longer in conflict.
	ResolveConflict(ctx context.Context, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error)

	// GetVersion returns the version string reported by the server.
	GetVersion(ctx context.Context) (string, error)
}
