// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// ItemStatus is the lifecycle state of a [SyncItem].
type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemSynced   ItemStatus = "synced"
	ItemConflict ItemStatus = "conflict"
	ItemFailed   ItemStatus = "failed"
)

var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:  {ItemSynced, ItemConflict, ItemFailed},
	ItemConflict: {ItemSynced},
	ItemSynced:   {},
	ItemFailed:   {},
}

// CanTransition reports whether an item in state s may move to next.
// Resubmitting an item within the same session builds it again from
// [ItemPending], so only the forward edges are listed here.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SyncItem is the sync record of one entity inside one session.
// It is unique per (SessionID, EntityType, EntityID).
type SyncItem struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`

	// Tenant and UserID are denormalized from the owning session so that the
	// cross-session "latest accepted item" lookup is a single indexed query.
	Tenant Tenant `json:"-"`
	UserID int64  `json:"-"`

	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Status     ItemStatus `json:"status"`

	ClientTimestamp *time.Time `json:"client_timestamp"`

	// ServerTimestamp is set once the server accepts the item.
	ServerTimestamp *time.Time `json:"server_timestamp"`

	Data         Payload `json:"data"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

// Key returns the composite "<entity_type>_<entity_id>" key used to report
// conflicts back to clients.
func (i SyncItem) Key() string {
	return EntityKey(i.EntityType, i.EntityID)
}

// EntityKey builds the composite conflict key for an entity.
func EntityKey(entityType EntityType, entityID string) string {
	return string(entityType) + "_" + entityID
}

// Transition moves the item to next.
func (i *SyncItem) Transition(next ItemStatus) error {
	if !i.Status.CanTransition(next) {
		return fmt.Errorf("%w: item %s -> %s", ErrInvalidTransition, i.Status, next)
	}
	i.Status = next
	return nil
}

// Fail marks an item that could not reach its outcome as failed with the
// given reason. It also covers an outcome the store refused to save, which
// therefore never left pending.
func (i *SyncItem) Fail(reason string) {
	i.Status = ItemFailed
	i.ErrorMessage = &reason
}
