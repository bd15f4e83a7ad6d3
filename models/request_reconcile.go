// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"strings"
)

// Mutation is one entity change submitted by a client.
type Mutation struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Data       Payload    `json:"data"`

	// ClientTimestamp is the ISO-8601 instant the client last saw the
	// entity. A value without a zone is read in server local time.
	ClientTimestamp *string `json:"client_timestamp,omitempty"`

	// Malformed lists the fields that could not be decoded. Such an item is
	// stored as failed; the rest of its batch is still reconciled.
	Malformed string `json:"-"`
}

// UnmarshalJSON decodes one submitted item without failing the enclosing
// request. A field of the wrong JSON type is left zero and named in
// Malformed.
func (m *Mutation) UnmarshalJSON(b []byte) error {
	var raw struct {
		EntityType      json.RawMessage `json:"entity_type"`
		EntityID        json.RawMessage `json:"entity_id"`
		Data            json.RawMessage `json:"data"`
		ClientTimestamp json.RawMessage `json:"client_timestamp"`
	}

	*m = Mutation{}
	if err := json.Unmarshal(b, &raw); err != nil {
		m.Malformed = "item must be a JSON object"
		return nil
	}

	var problems []string
	field := func(name, want string, src json.RawMessage, dst any) {
		if len(src) == 0 || string(src) == "null" {
			return
		}
		if err := json.Unmarshal(src, dst); err != nil {
			problems = append(problems, name+" must be "+want)
		}
	}
	field("entity_type", "a string", raw.EntityType, &m.EntityType)
	field("entity_id", "a string", raw.EntityID, &m.EntityID)
	field("data", "an object", raw.Data, &m.Data)
	field("client_timestamp", "a string", raw.ClientTimestamp, &m.ClientTimestamp)

	m.Malformed = strings.Join(problems, "; ")
	return nil
}

// ReconcileRequest is the body of a reconcile call.
type ReconcileRequest struct {
	// SessionID continues an existing session when set.
	SessionID *string `json:"session_id,omitempty"`

	Items []Mutation `json:"items"`

	// Resolution holds explicit directives keyed by entity_id.
	Resolution map[string]Resolution `json:"resolution,omitempty"`

	// DeviceID and Metadata are recorded in the session metadata.
	DeviceID string  `json:"device_id,omitempty"`
	Metadata Payload `json:"metadata,omitempty"`
}

// ReconcileResponse is the result of a reconcile call.
type ReconcileResponse struct {
	Session     SyncSession `json:"session"`
	SyncedItems []SyncItem  `json:"synced_items"`

	// Conflicts lists "<entity_type>_<entity_id>" keys of conflicted items.
	Conflicts []string `json:"conflicts"`
}

// SessionDetails is a session together with all of its items.
type SessionDetails struct {
	Session SyncSession `json:"session"`
	Items   []SyncItem  `json:"items"`
}

// SessionList is the caller's recent sessions, most recent first.
type SessionList struct {
	Sessions []SyncSession `json:"sessions"`
	Length   int           `json:"length"`
}
