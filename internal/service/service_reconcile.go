// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/merge"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/models"
)

const (
	metadataDeviceID = "device_id"
	metadataCalls    = "calls"
)

// reconcileService is the concrete implementation of [ReconcileService].
// It holds no per-call state: everything a call needs lives in the stores.
type reconcileService struct {
	sessions store.SessionRepository
	items    store.ItemRepository
	resolver *merge.Resolver
	audit    AuditEmitter
	ids      IDGenerator

	now      func() time.Time
	location *time.Location

	logger *logger.Logger
}

// NewReconcileService constructs the sync orchestrator.
func NewReconcileService(
	sessions store.SessionRepository,
	items store.ItemRepository,
	resolver *merge.Resolver,
	audit AuditEmitter,
	ids IDGenerator,
	logger *logger.Logger,
) ReconcileService {
	return &reconcileService{
		sessions: sessions,
		items:    items,
		resolver: resolver,
		audit:    audit,
		ids:      ids,
		now:      func() time.Time { return time.Now().UTC() },
		location: time.Local,
		logger:   logger,
	}
}

// Reconcile implements [ReconcileService].
//
// Items are processed sequentially in submission order. A failure while
// handling one item marks that item failed and the batch continues; nothing
// already processed is rolled back. Counters and the session status are
// recomputed from the stored items at the end of the call.
func (s *reconcileService) Reconcile(ctx context.Context, principal models.Principal, req models.ReconcileRequest) (models.ReconcileResponse, error) {
	log := logger.FromContext(ctx)

	session, err := s.openSession(ctx, principal, req)
	if err != nil {
		return models.ReconcileResponse{}, err
	}
	log.Debug().
		Str("func", "reconcileService.Reconcile").
		Str("session_id", session.ID).
		Int("items", len(req.Items)).
		Msg("reconciling batch")

	now := s.now()
	synced := make([]models.SyncItem, 0, len(req.Items))
	conflicts := make([]string, 0)

	for _, mutation := range req.Items {
		if err = ctx.Err(); err != nil {
			return models.ReconcileResponse{}, fmt.Errorf("reconcile interrupted: %w", err)
		}

		item := s.reconcileItem(ctx, principal, session.ID, mutation, req.Resolution, now)
		switch item.Status {
		case models.ItemSynced:
			synced = append(synced, item)
		case models.ItemConflict:
			conflicts = append(conflicts, item.Key())
		}
	}

	session, err = s.finishSession(ctx, session, req, now)
	if err != nil {
		return models.ReconcileResponse{}, err
	}

	s.audit.Emit(ctx, models.AuditEvent{
		Action:    models.AuditReconcile,
		Tenant:    principal.Tenant,
		UserID:    principal.UserID,
		SessionID: session.ID,
		Status:    session.Status,
		Summary: map[string]int{
			"submitted": len(req.Items),
			"synced":    session.ItemsSynced,
			"failed":    session.ItemsFailed,
			"conflicts": session.ConflictsDetected,
		},
		Conflicts:  conflicts,
		OccurredAt: now,
	})

	return models.ReconcileResponse{
		Session:     session,
		SyncedItems: synced,
		Conflicts:   conflicts,
	}, nil
}

// openSession continues the session named in req or starts a new one.
func (s *reconcileService) openSession(ctx context.Context, principal models.Principal, req models.ReconcileRequest) (models.SyncSession, error) {
	if req.SessionID != nil && *req.SessionID != "" {
		session, err := s.sessions.GetSession(ctx, principal, *req.SessionID)
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.SyncSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, *req.SessionID)
		}
		if err != nil {
			return models.SyncSession{}, fmt.Errorf("load sync session: %w", err)
		}
		if session.Status != models.SessionSyncing {
			if err = session.Transition(models.SessionSyncing, s.now()); err != nil {
				return models.SyncSession{}, fmt.Errorf("reopen sync session: %w", err)
			}
		}
		return session, nil
	}

	session := models.SyncSession{
		ID:        s.ids.Generate(),
		Tenant:    principal.Tenant,
		UserID:    principal.UserID,
		Status:    models.SessionSyncing,
		StartedAt: s.now(),
		Metadata:  models.Payload{},
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return models.SyncSession{}, fmt.Errorf("create sync session: %w", err)
	}

	return session, nil
}

func (s *reconcileService) finishSession(ctx context.Context, session models.SyncSession, req models.ReconcileRequest, now time.Time) (models.SyncSession, error) {
	counters, err := s.items.CountByStatus(ctx, session.ID)
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("count session items: %w", err)
	}

	if err = session.ApplyCounters(counters, now); err != nil {
		return models.SyncSession{}, fmt.Errorf("finish sync session: %w", err)
	}
	session.Metadata = sessionMetadata(session.Metadata, req)

	if err = s.sessions.UpdateSession(ctx, session); err != nil {
		return models.SyncSession{}, fmt.Errorf("update sync session: %w", err)
	}

	return session, nil
}

// sessionMetadata layers the request metadata over the stored one and bumps
// the call counter.
func sessionMetadata(stored models.Payload, req models.ReconcileRequest) models.Payload {
	metadata := stored.Clone()
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if req.DeviceID != "" {
		metadata[metadataDeviceID] = req.DeviceID
	}

	calls := 0
	switch v := stored[metadataCalls].(type) {
	case int:
		calls = v
	case int64:
		calls = int(v)
	case float64:
		calls = int(v)
	}
	metadata[metadataCalls] = calls + 1

	return metadata
}

// reconcileItem runs the per-item algorithm and persists the outcome. The
// returned item carries its final status.
func (s *reconcileService) reconcileItem(
	ctx context.Context,
	principal models.Principal,
	sessionID string,
	mutation models.Mutation,
	directives map[string]models.Resolution,
	now time.Time,
) models.SyncItem {
	log := logger.FromContext(ctx)

	item := models.SyncItem{
		ID:         s.ids.Generate(),
		SessionID:  sessionID,
		Tenant:     principal.Tenant,
		UserID:     principal.UserID,
		EntityType: mutation.EntityType,
		EntityID:   mutation.EntityID,
		Status:     models.ItemPending,
		Data:       mutation.Data.Clone(),
	}
	if mutation.ClientTimestamp != nil {
		if ts, ok := merge.ParseTimestamp(*mutation.ClientTimestamp, s.location); ok {
			item.ClientTimestamp = &ts
		}
	}

	if err := validateMutation(mutation); err != nil {
		item.Fail(err.Error())
		return s.persist(ctx, item)
	}

	existing, err := s.items.FindLatestAccepted(ctx, principal, mutation.EntityType, mutation.EntityID, sessionID)
	var basis *models.SyncItem
	switch {
	case err == nil:
		basis = &existing
	case errors.Is(err, store.ErrItemNotFound):
	default:
		log.Err(err).
			Str("func", "reconcileService.reconcileItem").
			Str("entity", item.Key()).
			Msg("failed to look up latest accepted item")
		item.Fail(fmt.Sprintf("lookup latest accepted item: %v", err))
		return s.persist(ctx, item)
	}

	directive, hasDirective := directives[mutation.EntityID]
	if err = item.Transition(s.decide(&item, basis, directive, hasDirective, now)); err != nil {
		item.Fail(err.Error())
	}

	return s.persist(ctx, item)
}

// decide applies the first matching rule:
//  1. server-wins directive with a basis keeps the basis version;
//  2. client-wins directive takes the submission as is;
//  3. field-merge directive with a basis merges per the directive;
//  4. a stale submission without directive is a conflict;
//  5. otherwise the submission is merged into the basis by the default policy.
//
// It fills in the data and server timestamp of the pending item and returns
// the outcome status.
func (s *reconcileService) decide(item *models.SyncItem, basis *models.SyncItem, directive models.Resolution, hasDirective bool, now time.Time) models.ItemStatus {
	submitted := item.Data

	switch {
	case hasDirective && directive.Kind == models.ServerWins && basis != nil:
		item.Data = basis.Data.Clone()
		item.ServerTimestamp = basis.ServerTimestamp

	case hasDirective && directive.Kind == models.ClientWins:
		item.ServerTimestamp = &now

	case hasDirective && directive.Kind == models.FieldMerge && basis != nil:
		item.Data = s.resolver.MergeWithDirective(basis.Data, submitted, item.EntityType, directive.Fields)
		item.ServerTimestamp = &now

	case !hasDirective && basis != nil && merge.IsStale(basis.ServerTimestamp, item.ClientTimestamp):
		return models.ItemConflict

	default:
		var prior models.Payload
		if basis != nil {
			prior = basis.Data
		}
		item.Data = s.resolver.Merge(prior, submitted, item.EntityType)
		item.ServerTimestamp = &now
	}

	return models.ItemSynced
}

// persist stores item. When the store rejects it the item is marked failed
// and, best effort, stored again in that state.
func (s *reconcileService) persist(ctx context.Context, item models.SyncItem) models.SyncItem {
	id, err := s.items.UpsertItem(ctx, item)
	if err == nil {
		item.ID = id
		return item
	}

	logger.FromContext(ctx).Err(err).
		Str("func", "reconcileService.persist").
		Str("session_id", item.SessionID).
		Str("entity", item.Key()).
		Msg("failed to store sync item")

	item.Fail(fmt.Sprintf("store sync item: %v", err))
	item.ServerTimestamp = nil
	if id, err = s.items.UpsertItem(ctx, item); err == nil {
		item.ID = id
	}
	return item
}

func validateMutation(m models.Mutation) error {
	if m.Malformed != "" {
		return fmt.Errorf("%w: %s", ErrMalformedItem, m.Malformed)
	}
	if m.EntityType == "" {
		return ErrMissingEntityType
	}
	if m.EntityID == "" {
		return ErrMissingEntityID
	}
	return nil
}
