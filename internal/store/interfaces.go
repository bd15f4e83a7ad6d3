package store

import (
	"context"

	"github.com/MKhiriev/go-sync-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SessionRepository persists sync sessions. Every read is scoped to the
// caller's principal: a session owned by another tenant or user is reported
// as [ErrSessionNotFound].
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.SyncSession) error
	GetSession(ctx context.Context, principal models.Principal, sessionID string) (models.SyncSession, error)
	ListSessions(ctx context.Context, principal models.Principal, limit int) ([]models.SyncSession, error)
	UpdateSession(ctx context.Context, session models.SyncSession) error
}

// ItemRepository persists sync items.
type ItemRepository interface {
	// FindLatestAccepted returns the item for the entity with the greatest
	// server timestamp outside excludeSessionID, or [ErrItemNotFound].
	FindLatestAccepted(ctx context.Context, principal models.Principal, entityType models.EntityType, entityID, excludeSessionID string) (models.SyncItem, error)

	// UpsertItem stores item, overwriting the session's existing item for the
	// same entity. Items without an entity type or id are always inserted.
	// The stored item id is returned.
	UpsertItem(ctx context.Context, item models.SyncItem) (string, error)

	GetItem(ctx context.Context, principal models.Principal, sessionID, itemID string) (models.SyncItem, error)
	ListSessionItems(ctx context.Context, sessionID string) ([]models.SyncItem, error)
	UpdateItem(ctx context.Context, item models.SyncItem) error
	CountByStatus(ctx context.Context, sessionID string) (models.ItemCounters, error)
}

// Outbox is the offline client's local queue of mutations.
type Outbox interface {
	Enqueue(ctx context.Context, mutation models.Mutation) error
	List(ctx context.Context, status models.OutboxStatus) ([]models.OutboxEntry, error)
	Mark(ctx context.Context, id int64, status models.OutboxStatus, sessionID, reason *string) error
	Delete(ctx context.Context, ids ...int64) error
	GetState(ctx context.Context, key string) (string, error)
	PutState(ctx context.Context, key, value string) error
}
