// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
	"github.com/jackc/pgerrcode"
)

// itemRepository is the PostgreSQL implementation of [ItemRepository] over
// the "sync_items" table.
type itemRepository struct {
	*DB
	logger *logger.Logger
}

// NewItemRepository constructs a PostgreSQL-backed [ItemRepository].
func NewItemRepository(db *DB, logger *logger.Logger) ItemRepository {
	logger.Debug().Msg("creating item repository")
	return &itemRepository{
		DB:     db,
		logger: logger,
	}
}

// FindLatestAccepted returns the cross-session basis of an entity: the item
// with the greatest server timestamp outside the given session. Ordering is
// by timestamp only; there is no per-entity version.
func (r *itemRepository) FindLatestAccepted(ctx context.Context, principal models.Principal, entityType models.EntityType, entityID, excludeSessionID string) (models.SyncItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindLatestAcceptedQuery(principal, entityType, entityID, excludeSessionID)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.FindLatestAccepted").Msg("failed to build query")
		return models.SyncItem{}, err
	}

	item, err := scanItem(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncItem{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.FindLatestAccepted").
			Str("entity", models.EntityKey(entityType, entityID)).
			Msg("failed to scan item row")
		return models.SyncItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (r *itemRepository) UpsertItem(ctx context.Context, item models.SyncItem) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertItemQuery(item)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.UpsertItem").Msg("failed to build query")
		return "", err
	}

	var storedID string
	err = r.withRetry(ctx, func() error {
		return r.DB.QueryRowContext(ctx, query, args...).Scan(&storedID)
	})
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.UpsertItem").
			Str("session_id", item.SessionID).
			Str("entity", item.Key()).
			Msg("failed to upsert item")

		if postgresError(err) == pgerrcode.ForeignKeyViolation {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return storedID, nil
}

func (r *itemRepository) GetItem(ctx context.Context, principal models.Principal, sessionID, itemID string) (models.SyncItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectItemQuery(principal, sessionID, itemID)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.GetItem").Msg("failed to build query")
		return models.SyncItem{}, err
	}

	item, err := scanItem(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncItem{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.GetItem").
			Str("item_id", itemID).
			Msg("failed to scan item row")
		return models.SyncItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (r *itemRepository) ListSessionItems(ctx context.Context, sessionID string) ([]models.SyncItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSessionItemsQuery(sessionID)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.ListSessionItems").Msg("failed to build query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.ListSessionItems").
			Str("session_id", sessionID).
			Msg("failed to execute query for listing session items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.SyncItem, 0, 16)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "itemRepository.ListSessionItems").
				Str("session_id", sessionID).
				Msg("failed to scan item row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "itemRepository.ListSessionItems").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item models.SyncItem) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateItemQuery(item)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.UpdateItem").Msg("failed to build query")
		return err
	}

	var affected int64
	err = r.withRetry(ctx, func() error {
		result, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.UpdateItem").
			Str("item_id", item.ID).
			Msg("failed to update item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *itemRepository) CountByStatus(ctx context.Context, sessionID string) (models.ItemCounters, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountByStatusQuery(sessionID)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.CountByStatus").Msg("failed to build query")
		return models.ItemCounters{}, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.CountByStatus").
			Str("session_id", sessionID).
			Msg("failed to execute count query")
		return models.ItemCounters{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var counters models.ItemCounters
	for rows.Next() {
		var (
			status models.ItemStatus
			count  int
		)
		if err = rows.Scan(&status, &count); err != nil {
			return models.ItemCounters{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		addCount(&counters, status, count)
	}

	if err = rows.Err(); err != nil {
		return models.ItemCounters{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counters, nil
}

func addCount(counters *models.ItemCounters, status models.ItemStatus, n int) {
	switch status {
	case models.ItemSynced:
		counters.Synced += n
	case models.ItemConflict:
		counters.Conflict += n
	case models.ItemFailed:
		counters.Failed += n
	}
}

func scanItem(row rowScanner) (models.SyncItem, error) {
	var item models.SyncItem
	err := row.Scan(
		&item.ID,
		&item.SessionID,
		&item.Tenant.CompanyID,
		&item.Tenant.ScopeID,
		&item.UserID,
		&item.EntityType,
		&item.EntityID,
		&item.Status,
		&item.ClientTimestamp,
		&item.ServerTimestamp,
		&item.Data,
		&item.ErrorMessage,
	)
	return item, err
}
