// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of inbound sync requests before they
// reach the engine.
//
// Request-level validation rejects the whole call. Per-item problems (a
// mutation without entity_type or entity_id) are not checked
// here: the orchestrator records them as failed items and continues.
package validators

import "context"

// Validator validates the provided input and optionally restricts
// validation to specific named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
