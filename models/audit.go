package models

import "time"

// AuditAction names the operation an [AuditEvent] describes.
type AuditAction string

const (
	AuditReconcile       AuditAction = "sync.reconcile"
	AuditResolveConflict AuditAction = "sync.resolve_conflict"
)

// AuditEvent summarizes one engine operation for the external audit log.
type AuditEvent struct {
	Action     AuditAction    `json:"action"`
	Tenant     Tenant         `json:"tenant"`
	UserID     int64          `json:"user_id"`
	SessionID  string         `json:"session_id"`
	Status     SessionStatus  `json:"status"`
	Summary    map[string]int `json:"summary"`
	Conflicts  []string       `json:"conflicts,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
