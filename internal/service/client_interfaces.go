package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// ClientSyncService defines the offline client's contract for queuing
// mutations locally and pushing them to the sync engine.
type ClientSyncService interface {
	// Enqueue stores the mutation in the local outbox. A later mutation of
	// the same entity replaces the queued one.
	Enqueue(ctx context.Context, mutation models.Mutation) error

	// Outbox lists the local entries in the given status.
	Outbox(ctx context.Context, status models.OutboxStatus) ([]models.OutboxEntry, error)

	// Flush sends every pending entry to the server in one session. Synced
	// entries leave the outbox, conflicted entries wait for a resolution
	// and rejected entries are marked failed with the server's reason.
	Flush(ctx context.Context) (models.FlushReport, error)

	// LastSessionID returns the session of the most recent flush, or an
	// empty string when nothing was flushed yet.
	LastSessionID(ctx context.Context) (string, error)
}

// ClientConflictService defines the client-side view of the server's
// sessions and the conflict resolution flow.
type ClientConflictService interface {
	Sessions(ctx context.Context, limit int) (models.SessionList, error)
	Session(ctx context.Context, sessionID string) (models.SessionDetails, error)
	Diff(ctx context.Context, sessionID, itemID string, clientData models.Payload) (models.ConflictDiff, error)

	// Resolve sends the resolution and, on success, removes the conflicted
	// entry of the resolved entity from the local outbox.
	Resolve(ctx context.Context, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error)
}

// ClientSyncJob defines the contract for a background worker that
// periodically flushes the outbox.
type ClientSyncJob interface {
	// Start launches the background flush goroutine. It flushes every
	// interval, defaulting to 5 minutes if interval is zero or negative. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
