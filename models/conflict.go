// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DiffPair holds both versions of a field. A side that lacks the field is nil.
type DiffPair struct {
	Client any `json:"client"`
	Server any `json:"server"`
}

// Diff is the four-way partition of two payloads.
type Diff struct {
	Added     map[string]DiffPair `json:"added"`
	Removed   map[string]DiffPair `json:"removed"`
	Modified  map[string]DiffPair `json:"modified"`
	Unchanged map[string]any      `json:"unchanged"`
}

// ConflictDiffRequest optionally overrides the client side of the diff.
type ConflictDiffRequest struct {
	ClientData Payload `json:"client_data,omitempty"`
}

// ConflictDiff is the read side of the conflict resolution flow.
type ConflictDiff struct {
	EntityType      EntityType `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	ServerData      Payload    `json:"server_data"`
	ClientData      Payload    `json:"client_data"`
	Diff            Diff       `json:"diff"`
	ServerTimestamp *time.Time `json:"server_timestamp"`
	ClientTimestamp *time.Time `json:"client_timestamp"`
}

// ResolveRequest is the write side of the conflict resolution flow.
type ResolveRequest struct {
	Resolution map[string]Side `json:"resolution"`

	// ClientData defaults to the item's stored submission when omitted.
	ClientData Payload `json:"client_data,omitempty"`
}

// ResolveResponse is returned after a conflict was resolved.
type ResolveResponse struct {
	Item         SyncItem `json:"item"`
	ResolvedData Payload  `json:"resolved_data"`
}
