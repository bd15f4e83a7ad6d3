package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/adapter"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/internal/validators"
	"github.com/MKhiriev/go-sync-keeper/models"
)

// Client state keys kept next to the outbox.
const (
	stateDeviceID      = "device_id"
	stateLastSessionID = "last_session_id"
)

// reasonRejected is stored on a failed entry when the server's reason could
// not be fetched.
const reasonRejected = "rejected by server"

type clientSyncService struct {
	outbox  store.Outbox
	adapter adapter.ServerAdapter
	ids     IDGenerator

	// batchSize bounds the mutations sent in one reconcile call.
	batchSize int

	logger *logger.Logger
}

func NewClientSyncService(outbox store.Outbox, serverAdapter adapter.ServerAdapter, ids IDGenerator, logger *logger.Logger) ClientSyncService {
	return &clientSyncService{
		outbox:    outbox,
		adapter:   serverAdapter,
		ids:       ids,
		batchSize: validators.MaxBatchItems,
		logger:    logger,
	}
}

func (s *clientSyncService) Enqueue(ctx context.Context, mutation models.Mutation) error {
	if err := validateMutation(mutation); err != nil {
		return err
	}
	if mutation.Data == nil {
		mutation.Data = models.Payload{}
	}

	if err := s.outbox.Enqueue(ctx, mutation); err != nil {
		return fmt.Errorf("enqueue %s: %w", models.EntityKey(mutation.EntityType, mutation.EntityID), err)
	}
	return nil
}

func (s *clientSyncService) Outbox(ctx context.Context, status models.OutboxStatus) ([]models.OutboxEntry, error) {
	entries, err := s.outbox.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	return entries, nil
}

func (s *clientSyncService) LastSessionID(ctx context.Context) (string, error) {
	id, err := s.outbox.GetState(ctx, stateLastSessionID)
	if errors.Is(err, store.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get last session id: %w", err)
	}
	return id, nil
}

// Flush implements [ClientSyncService]. Pending entries are sent in chunks
// of at most batchSize; every chunk after the first continues the session
// opened by the first one. A transport error stops the flush and leaves the
// unsent entries pending.
func (s *clientSyncService) Flush(ctx context.Context) (models.FlushReport, error) {
	log := s.logger

	entries, err := s.outbox.List(ctx, models.OutboxPending)
	if err != nil {
		return models.FlushReport{}, fmt.Errorf("list pending entries: %w", err)
	}
	if len(entries) == 0 {
		return models.FlushReport{}, nil
	}

	deviceID, err := s.deviceID(ctx)
	if err != nil {
		return models.FlushReport{}, err
	}

	report := models.FlushReport{Conflicts: make([]string, 0)}
	var sessionID *string

	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))
		chunk := entries[start:end]

		resp, err := s.send(ctx, sessionID, deviceID, chunk)
		if err != nil {
			return report, err
		}
		id := resp.Session.ID
		sessionID = &id
		report.SessionID = id
		report.Sent += len(chunk)

		if err = s.settle(ctx, id, chunk, resp, &report); err != nil {
			return report, err
		}
	}

	if err = s.outbox.PutState(ctx, stateLastSessionID, report.SessionID); err != nil {
		log.Warn().Err(err).
			Str("func", "clientSyncService.Flush").
			Str("session_id", report.SessionID).
			Msg("failed to remember last session")
	}

	log.Info().
		Str("func", "clientSyncService.Flush").
		Str("session_id", report.SessionID).
		Int("sent", report.Sent).
		Int("synced", report.Synced).
		Int("failed", report.Failed).
		Int("conflicts", len(report.Conflicts)).
		Msg("outbox flushed")

	return report, nil
}

func (s *clientSyncService) send(ctx context.Context, sessionID *string, deviceID string, chunk []models.OutboxEntry) (models.ReconcileResponse, error) {
	req := models.ReconcileRequest{
		SessionID: sessionID,
		Items:     make([]models.Mutation, 0, len(chunk)),
		DeviceID:  deviceID,
	}
	for _, entry := range chunk {
		req.Items = append(req.Items, entry.Mutation)
	}

	resp, err := s.adapter.Reconcile(ctx, req)
	if err != nil {
		return models.ReconcileResponse{}, fmt.Errorf("reconcile: %w", mapAdapterError(err))
	}
	return resp, nil
}

// entityRef identifies an entity without the composite key, which is
// ambiguous when the entity type itself contains "_".
type entityRef struct {
	entityType models.EntityType
	entityID   string
}

func refOf(entityType models.EntityType, entityID string) entityRef {
	return entityRef{entityType: entityType, entityID: entityID}
}

// settle applies the server's verdict for one chunk to the outbox. Synced
// items are matched by (entity_type, entity_id). Conflicts arrive only as
// composite keys; when one key fits several entries of the chunk, the
// session's stored items decide which of them conflicted.
func (s *clientSyncService) settle(ctx context.Context, sessionID string, chunk []models.OutboxEntry, resp models.ReconcileResponse, report *models.FlushReport) error {
	synced := make(map[entityRef]struct{}, len(resp.SyncedItems))
	for _, item := range resp.SyncedItems {
		synced[refOf(item.EntityType, item.EntityID)] = struct{}{}
	}
	conflictKeys := make(map[string]struct{}, len(resp.Conflicts))
	for _, key := range resp.Conflicts {
		conflictKeys[key] = struct{}{}
	}

	var (
		done    []int64
		rest    []models.OutboxEntry
		failed  []models.OutboxEntry
		perKey  = make(map[string]int)
		details map[entityRef]models.SyncItem
	)
	items := func() map[entityRef]models.SyncItem {
		if details == nil {
			details = s.sessionItems(ctx, sessionID)
		}
		return details
	}

	for _, entry := range chunk {
		if _, ok := synced[refOf(entry.Mutation.EntityType, entry.Mutation.EntityID)]; ok {
			done = append(done, entry.ID)
			continue
		}
		rest = append(rest, entry)
		perKey[entry.Key()]++
	}

	for _, entry := range rest {
		key := entry.Key()
		_, conflicted := conflictKeys[key]
		if conflicted && perKey[key] > 1 {
			item, ok := items()[refOf(entry.Mutation.EntityType, entry.Mutation.EntityID)]
			conflicted = ok && item.Status == models.ItemConflict
		}
		if !conflicted {
			failed = append(failed, entry)
			continue
		}

		if err := s.outbox.Mark(ctx, entry.ID, models.OutboxConflict, &sessionID, nil); err != nil {
			return fmt.Errorf("mark %s conflicted: %w", key, err)
		}
		report.Conflicts = append(report.Conflicts, key)
	}

	for _, entry := range failed {
		reason := reasonRejected
		item, ok := items()[refOf(entry.Mutation.EntityType, entry.Mutation.EntityID)]
		if ok && item.Status == models.ItemFailed && item.ErrorMessage != nil {
			reason = *item.ErrorMessage
		}
		if err := s.outbox.Mark(ctx, entry.ID, models.OutboxFailed, &sessionID, &reason); err != nil {
			return fmt.Errorf("mark %s failed: %w", entry.Key(), err)
		}
	}
	report.Failed += len(failed)

	if len(done) > 0 {
		if err := s.outbox.Delete(ctx, done...); err != nil {
			return fmt.Errorf("remove synced entries: %w", err)
		}
	}
	report.Synced += len(done)

	return nil
}

// sessionItems reads the session's stored items by entity. An unreachable
// server yields an empty map.
func (s *clientSyncService) sessionItems(ctx context.Context, sessionID string) map[entityRef]models.SyncItem {
	items := make(map[entityRef]models.SyncItem)

	details, err := s.adapter.GetSession(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("func", "clientSyncService.sessionItems").
			Str("session_id", sessionID).
			Msg("failed to fetch session items")
		return items
	}

	for _, item := range details.Items {
		items[refOf(item.EntityType, item.EntityID)] = item
	}
	return items
}

// deviceID returns the stable id of this client installation, creating it
// on first use.
func (s *clientSyncService) deviceID(ctx context.Context) (string, error) {
	id, err := s.outbox.GetState(ctx, stateDeviceID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, store.ErrStateNotFound) {
		return "", fmt.Errorf("get device id: %w", err)
	}

	id = s.ids.Generate()
	if err = s.outbox.PutState(ctx, stateDeviceID, id); err != nil {
		return "", fmt.Errorf("store device id: %w", err)
	}
	return id, nil
}
