// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition rejects a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// SessionStatus is the lifecycle state of a [SyncSession].
type SessionStatus string

const (
	// SessionSyncing is the initial state of a freshly created session.
	SessionSyncing SessionStatus = "syncing"

	// SessionCompleted means every item of the session was accepted.
	SessionCompleted SessionStatus = "completed"

	// SessionConflict means at least one item is waiting for a resolution.
	SessionConflict SessionStatus = "conflict"

	// SessionFailed means no item conflicted but at least one item failed.
	SessionFailed SessionStatus = "failed"
)

// sessionTransitions lists the allowed target states per source state. A
// call ends by moving the session from syncing to its outcome; continuing a
// finished session reopens it to syncing first. Resolving the last conflict
// is the only move between outcomes.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionSyncing:   {SessionCompleted, SessionConflict, SessionFailed},
	SessionConflict:  {SessionCompleted, SessionSyncing},
	SessionCompleted: {SessionSyncing},
	SessionFailed:    {SessionSyncing},
}

// CanTransition reports whether a session in state s may move to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SyncSession is one batch-sync operation. It may span several reconcile
// calls when the client continues it by id.
type SyncSession struct {
	// ID is the opaque unique identifier (UUIDv7 string).
	ID string `json:"id"`

	// Tenant and UserID scope the session; continuation requires an exact match.
	Tenant Tenant `json:"-"`
	UserID int64  `json:"-"`

	Status SessionStatus `json:"status"`

	// ItemsSynced, ItemsFailed and ConflictsDetected are recomputed from the
	// stored items after every call that touches the session.
	ItemsSynced       int `json:"items_synced"`
	ItemsFailed       int `json:"items_failed"`
	ConflictsDetected int `json:"conflicts_detected"`

	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage *string    `json:"error_message"`

	// Metadata is an open map; the engine stores the device id and the
	// number of reconcile calls made against the session.
	Metadata Payload `json:"metadata,omitempty"`
}

// Transition moves the session to next. CompletedAt is stamped with now on
// completion and cleared otherwise.
func (s *SyncSession) Transition(next SessionStatus, now time.Time) error {
	if !s.Status.CanTransition(next) {
		return fmt.Errorf("%w: session %s -> %s", ErrInvalidTransition, s.Status, next)
	}

	s.Status = next
	s.CompletedAt = nil
	if next == SessionCompleted {
		s.CompletedAt = &now
	}
	return nil
}

// ApplyCounters copies counters into a syncing session and moves it to the
// outcome they imply: any conflict wins over any failure, otherwise the
// session is completed.
func (s *SyncSession) ApplyCounters(counters ItemCounters, now time.Time) error {
	s.ItemsSynced = counters.Synced
	s.ItemsFailed = counters.Failed
	s.ConflictsDetected = counters.Conflict

	switch {
	case counters.Conflict > 0:
		return s.Transition(SessionConflict, now)
	case counters.Failed > 0:
		return s.Transition(SessionFailed, now)
	default:
		return s.Transition(SessionCompleted, now)
	}
}

// ItemCounters is the per-status breakdown of the items stored in a session.
type ItemCounters struct {
	Synced   int
	Conflict int
	Failed   int
}
