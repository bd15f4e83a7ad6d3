package service

import (
	"context"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// ReconcileService is the sync orchestrator: it processes one batch of
// client mutations inside a new or continued session.
type ReconcileService interface {
	Reconcile(ctx context.Context, principal models.Principal, req models.ReconcileRequest) (models.ReconcileResponse, error)
}

// ConflictService implements the two-phase conflict resolution protocol:
// read a diff, then write a per-field resolution.
type ConflictService interface {
	GetConflictDiff(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ConflictDiffRequest) (models.ConflictDiff, error)
	ResolveConflict(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error)
}

// SessionService exposes read access to the caller's sessions.
type SessionService interface {
	GetSession(ctx context.Context, principal models.Principal, sessionID string) (models.SessionDetails, error)
	ListSessions(ctx context.Context, principal models.Principal, limit int) (models.SessionList, error)
}

// AuthService turns a bearer token into the pre-authorized principal.
type AuthService interface {
	ParseToken(ctx context.Context, tokenString string) (models.Principal, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// AuditEmitter receives one event per reconcile call and per resolution.
// Emit must not block the caller and never reports failures.
type AuditEmitter interface {
	Emit(ctx context.Context, event models.AuditEvent)
}

// IDGenerator produces opaque unique identifiers for sessions and items.
type IDGenerator interface {
	Generate() string
}

// ReconcileServiceWrapper defines middleware composition for
// ReconcileService, e.g. request validation.
type ReconcileServiceWrapper interface {
	Wrap(ReconcileService) ReconcileService
}
