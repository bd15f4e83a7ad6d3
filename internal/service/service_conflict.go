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

type conflictService struct {
	sessions store.SessionRepository
	items    store.ItemRepository
	resolver *merge.Resolver
	audit    AuditEmitter

	now func() time.Time

	logger *logger.Logger
}

// NewConflictService constructs a [ConflictService].
func NewConflictService(
	sessions store.SessionRepository,
	items store.ItemRepository,
	resolver *merge.Resolver,
	audit AuditEmitter,
	logger *logger.Logger,
) ConflictService {
	return &conflictService{
		sessions: sessions,
		items:    items,
		resolver: resolver,
		audit:    audit,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// GetConflictDiff implements [ConflictService]. The server side is the data of
// the latest accepted item of the entity outside the session, the same basis
// the orchestrator compared against; the client side is req.ClientData or
// the item's stored submission.
func (s *conflictService) GetConflictDiff(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ConflictDiffRequest) (models.ConflictDiff, error) {
	_, item, err := s.load(ctx, principal, sessionID, itemID)
	if err != nil {
		return models.ConflictDiff{}, err
	}

	serverData, serverTS, err := s.serverSide(ctx, principal, item)
	if err != nil {
		return models.ConflictDiff{}, err
	}

	clientData := item.Data
	if req.ClientData != nil {
		clientData = req.ClientData
	}

	return models.ConflictDiff{
		EntityType:      item.EntityType,
		EntityID:        item.EntityID,
		ServerData:      serverData,
		ClientData:      clientData,
		Diff:            merge.Diff(map[string]any(serverData), map[string]any(clientData)),
		ServerTimestamp: serverTS,
		ClientTimestamp: item.ClientTimestamp,
	}, nil
}

// ResolveConflict implements [ConflictService].
func (s *conflictService) ResolveConflict(ctx context.Context, principal models.Principal, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error) {
	log := logger.FromContext(ctx)

	session, item, err := s.load(ctx, principal, sessionID, itemID)
	if err != nil {
		return models.ResolveResponse{}, err
	}
	// stored items are never pending, so only a conflict may become synced
	if err = item.Transition(models.ItemSynced); err != nil {
		return models.ResolveResponse{}, fmt.Errorf("%w: item %s: %w", ErrItemNotInConflict, item.ID, err)
	}

	serverData, _, err := s.serverSide(ctx, principal, item)
	if err != nil {
		return models.ResolveResponse{}, err
	}

	clientData := item.Data
	if req.ClientData != nil {
		clientData = req.ClientData
	}

	if err = checkResolution(req.Resolution, serverData, clientData); err != nil {
		return models.ResolveResponse{}, err
	}

	now := s.now()
	resolved := s.resolver.MergeWithDirective(serverData, clientData, item.EntityType, req.Resolution)

	item.Data = resolved
	item.ServerTimestamp = &now
	item.ErrorMessage = nil

	if err = s.items.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return models.ResolveResponse{}, ErrItemNotFound
		}
		return models.ResolveResponse{}, fmt.Errorf("update resolved item: %w", err)
	}

	session, err = s.refreshSession(ctx, session, now)
	if err != nil {
		return models.ResolveResponse{}, err
	}
	log.Info().
		Str("func", "conflictService.ResolveConflict").
		Str("session_id", session.ID).
		Str("item_id", item.ID).
		Str("session_status", string(session.Status)).
		Msg("conflict resolved")

	s.audit.Emit(ctx, models.AuditEvent{
		Action:    models.AuditResolveConflict,
		Tenant:    principal.Tenant,
		UserID:    principal.UserID,
		SessionID: session.ID,
		Status:    session.Status,
		Summary: map[string]int{
			"synced":    session.ItemsSynced,
			"failed":    session.ItemsFailed,
			"conflicts": session.ConflictsDetected,
		},
		Conflicts:  []string{item.Key()},
		OccurredAt: now,
	})

	return models.ResolveResponse{Item: item, ResolvedData: resolved}, nil
}

// load fetches the caller's session and one of its items.
func (s *conflictService) load(ctx context.Context, principal models.Principal, sessionID, itemID string) (models.SyncSession, models.SyncItem, error) {
	session, err := s.sessions.GetSession(ctx, principal, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.SyncSession{}, models.SyncItem{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return models.SyncSession{}, models.SyncItem{}, fmt.Errorf("load sync session: %w", err)
	}

	item, err := s.items.GetItem(ctx, principal, sessionID, itemID)
	if errors.Is(err, store.ErrItemNotFound) {
		return models.SyncSession{}, models.SyncItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if err != nil {
		return models.SyncSession{}, models.SyncItem{}, fmt.Errorf("load sync item: %w", err)
	}

	return session, item, nil
}

// serverSide returns the data the item conflicts with. Without a basis the
// item's own stored data stands in for it.
func (s *conflictService) serverSide(ctx context.Context, principal models.Principal, item models.SyncItem) (models.Payload, *time.Time, error) {
	basis, err := s.items.FindLatestAccepted(ctx, principal, item.EntityType, item.EntityID, item.SessionID)
	switch {
	case err == nil:
		return basis.Data, basis.ServerTimestamp, nil
	case errors.Is(err, store.ErrItemNotFound):
		return item.Data, item.ServerTimestamp, nil
	default:
		return nil, nil, fmt.Errorf("load conflict basis: %w", err)
	}
}

// refreshSession recomputes the counters. The session moves from conflict to
// completed once no conflicted item remains.
func (s *conflictService) refreshSession(ctx context.Context, session models.SyncSession, now time.Time) (models.SyncSession, error) {
	counters, err := s.items.CountByStatus(ctx, session.ID)
	if err != nil {
		return models.SyncSession{}, fmt.Errorf("count session items: %w", err)
	}

	session.ItemsSynced = counters.Synced
	session.ItemsFailed = counters.Failed
	session.ConflictsDetected = counters.Conflict

	if counters.Conflict == 0 {
		if err = session.Transition(models.SessionCompleted, now); err != nil {
			return models.SyncSession{}, fmt.Errorf("complete sync session: %w", err)
		}
	}

	if err = s.sessions.UpdateSession(ctx, session); err != nil {
		return models.SyncSession{}, fmt.Errorf("update sync session: %w", err)
	}
	return session, nil
}

func checkResolution(resolution map[string]models.Side, serverData, clientData models.Payload) error {
	if len(resolution) == 0 {
		return fmt.Errorf("%w: empty resolution", ErrInvalidResolution)
	}

	for field, side := range resolution {
		if !side.IsValid() {
			return fmt.Errorf("%w: field %q has unknown side %q", ErrInvalidResolution, field, side)
		}
		_, onServer := serverData[field]
		_, onClient := clientData[field]
		if !onServer && !onClient {
			return fmt.Errorf("%w: %s", ErrUnknownResolutionField, field)
		}
	}
	return nil
}
