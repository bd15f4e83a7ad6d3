package models

import "time"

// OutboxStatus is the state of a mutation queued by the offline client.
type OutboxStatus string

const (
	OutboxPending  OutboxStatus = "pending"
	OutboxConflict OutboxStatus = "conflict"
	OutboxFailed   OutboxStatus = "failed"
)

// OutboxEntry is a mutation waiting in the client's local outbox. There is
// at most one entry per entity: enqueuing again replaces the data and moves
// the entry back to pending.
type OutboxEntry struct {
	ID           int64        `json:"id"`
	Mutation     Mutation     `json:"mutation"`
	Status       OutboxStatus `json:"status"`
	SessionID    *string      `json:"session_id,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Key returns the composite key the server reports conflicts with.
func (e OutboxEntry) Key() string {
	return EntityKey(e.Mutation.EntityType, e.Mutation.EntityID)
}

// FlushReport summarizes one push of the outbox to the server.
type FlushReport struct {
	// SessionID is the server session all chunks of the flush were sent in.
	SessionID string `json:"session_id"`

	Sent      int      `json:"sent"`
	Synced    int      `json:"synced"`
	Failed    int      `json:"failed"`
	Conflicts []string `json:"conflicts"`
}
