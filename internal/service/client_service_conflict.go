package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/models"
)

type clientConflictService struct {
	outbox  store.Outbox
	adapter adapter.ServerAdapter
	logger  *logger.Logger
}

func NewClientConflictService(outbox store.Outbox, serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientConflictService {
	return &clientConflictService{outbox: outbox, adapter: serverAdapter, logger: logger}
}

func (c *clientConflictService) Sessions(ctx context.Context, limit int) (models.SessionList, error) {
	list, err := c.adapter.ListSessions(ctx, limit)
	if err != nil {
		return models.SessionList{}, fmt.Errorf("list sessions: %w", mapAdapterError(err))
	}
	return list, nil
}

func (c *clientConflictService) Session(ctx context.Context, sessionID string) (models.SessionDetails, error) {
	details, err := c.adapter.GetSession(ctx, sessionID)
	if err != nil {
		return models.SessionDetails{}, fmt.Errorf("get session: %w", mapAdapterError(err))
	}
	return details, nil
}

func (c *clientConflictService) Diff(ctx context.Context, sessionID, itemID string, clientData models.Payload) (models.ConflictDiff, error) {
	diff, err := c.adapter.GetConflictDiff(ctx, sessionID, itemID, models.ConflictDiffRequest{ClientData: clientData})
	if err != nil {
		return models.ConflictDiff{}, fmt.Errorf("get conflict diff: %w", mapAdapterError(err))
	}
	return diff, nil
}

func (c *clientConflictService) Resolve(ctx context.Context, sessionID, itemID string, req models.ResolveRequest) (models.ResolveResponse, error) {
	resp, err := c.adapter.ResolveConflict(ctx, sessionID, itemID, req)
	if err != nil {
		return models.ResolveResponse{}, fmt.Errorf("resolve conflict: %w", mapAdapterError(err))
	}

	if err = c.forget(ctx, sessionID, resp.Item.Key()); err != nil {
		// the server already holds the resolution; the local entry is stale
		c.logger.Warn().Err(err).
			Str("func", "clientConflictService.Resolve").
			Str("session_id", sessionID).
			Str("key", resp.Item.Key()).
			Msg("failed to remove resolved outbox entry")
	}
	return resp, nil
}

// forget removes the conflicted outbox entry of the entity in the session.
func (c *clientConflictService) forget(ctx context.Context, sessionID, key string) error {
	entries, err := c.outbox.List(ctx, models.OutboxConflict)
	if err != nil {
		return err
	}

	var ids []int64
	for _, entry := range entries {
		if entry.Key() == key && entry.SessionID != nil && *entry.SessionID == sessionID {
			ids = append(ids, entry.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return c.outbox.Delete(ctx, ids...)
}
