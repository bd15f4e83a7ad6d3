// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidResolution is returned when a resolution directive cannot be decoded.
var ErrInvalidResolution = errors.New("invalid resolution directive")

// Side names which version of a field wins during a directed merge.
type Side string

const (
	SideServer Side = "server"
	SideClient Side = "client"
	SideMerge  Side = "merge"
)

// IsValid reports whether s is a known side.
func (s Side) IsValid() bool {
	switch s {
	case SideServer, SideClient, SideMerge:
		return true
	}
	return false
}

// ResolutionKind discriminates the [Resolution] variants.
type ResolutionKind int

const (
	// ServerWins keeps the server's accepted version of the entity.
	ServerWins ResolutionKind = iota + 1

	// ClientWins takes the client's submission as is.
	ClientWins

	// FieldMerge merges the two versions following a per-field directive.
	FieldMerge
)

// Resolution is the explicit directive a client attaches to one entity of a
// reconcile request. On the wire it is either the string "server" / "client"
// or an object {"mode": "merge", "fields": {field: side}}.
type Resolution struct {
	Kind   ResolutionKind
	Fields map[string]Side
}

type fieldMergeWire struct {
	Mode   string          `json:"mode"`
	Fields map[string]Side `json:"fields"`
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *Resolution) UnmarshalJSON(b []byte) error {
	var mode string
	if err := json.Unmarshal(b, &mode); err == nil {
		switch Side(mode) {
		case SideServer:
			*r = Resolution{Kind: ServerWins}
		case SideClient:
			*r = Resolution{Kind: ClientWins}
		default:
			return fmt.Errorf("%w: unknown mode %q", ErrInvalidResolution, mode)
		}
		return nil
	}

	var wire fieldMergeWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResolution, err)
	}
	if wire.Mode != string(SideMerge) {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidResolution, wire.Mode)
	}
	for field, side := range wire.Fields {
		if !side.IsValid() {
			return fmt.Errorf("%w: field %q has unknown side %q", ErrInvalidResolution, field, side)
		}
	}

	*r = Resolution{Kind: FieldMerge, Fields: wire.Fields}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (r Resolution) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ServerWins:
		return json.Marshal(SideServer)
	case ClientWins:
		return json.Marshal(SideClient)
	case FieldMerge:
		return json.Marshal(fieldMergeWire{Mode: string(SideMerge), Fields: r.Fields})
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidResolution, r.Kind)
}
