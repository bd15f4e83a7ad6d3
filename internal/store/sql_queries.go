package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sync-keeper/models"
)

const (
	sessionsTable = "sync_sessions"
	itemsTable    = "sync_items"

	upsertItemSuffix = `ON CONFLICT (session_id, entity_type, entity_id) WHERE entity_type <> '' AND entity_id <> ''
		DO UPDATE SET
			status           = EXCLUDED.status,
			client_timestamp = EXCLUDED.client_timestamp,
			server_timestamp = EXCLUDED.server_timestamp,
			data             = EXCLUDED.data,
			error_message    = EXCLUDED.error_message,
			updated_at       = NOW()
		RETURNING id`
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sessionColumns = []string{
		"id",
		"company_id",
		"scope_id",
		"user_id",
		"status",
		"items_synced",
		"items_failed",
		"conflicts_detected",
		"started_at",
		"completed_at",
		"error_message",
		"metadata",
	}

	itemColumns = []string{
		"id",
		"session_id",
		"company_id",
		"scope_id",
		"user_id",
		"entity_type",
		"entity_id",
		"status",
		"client_timestamp",
		"server_timestamp",
		"data",
		"error_message",
	}
)

func ownedBy(principal models.Principal) sq.Eq {
	return sq.Eq{
		"company_id": principal.Tenant.CompanyID,
		"scope_id":   principal.Tenant.ScopeID,
		"user_id":    principal.UserID,
	}
}

func buildInsertSessionQuery(s models.SyncSession) (string, []any, error) {
	query, args, err := psql.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			s.ID,
			s.Tenant.CompanyID,
			s.Tenant.ScopeID,
			s.UserID,
			s.Status,
			s.ItemsSynced,
			s.ItemsFailed,
			s.ConflictsDetected,
			s.StartedAt,
			s.CompletedAt,
			s.ErrorMessage,
			s.Metadata,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectSessionQuery(principal models.Principal, sessionID string) (string, []any, error) {
	query, args, err := psql.Select(sessionColumns...).
		From(sessionsTable).
		Where(sq.Eq{"id": sessionID}).
		Where(ownedBy(principal)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListSessionsQuery(principal models.Principal, limit int) (string, []any, error) {
	if limit < 1 {
		return "", nil, fmt.Errorf("%w: limit must be positive, got %d", ErrBuildingSQLQuery, limit)
	}

	query, args, err := psql.Select(sessionColumns...).
		From(sessionsTable).
		Where(ownedBy(principal)).
		OrderBy("started_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateSessionQuery(s models.SyncSession) (string, []any, error) {
	query, args, err := psql.Update(sessionsTable).
		Set("status", s.Status).
		Set("items_synced", s.ItemsSynced).
		Set("items_failed", s.ItemsFailed).
		Set("conflicts_detected", s.ConflictsDetected).
		Set("completed_at", s.CompletedAt).
		Set("error_message", s.ErrorMessage).
		Set("metadata", s.Metadata).
		Where(sq.Eq{"id": s.ID}).
		Where(ownedBy(models.Principal{Tenant: s.Tenant, UserID: s.UserID})).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindLatestAcceptedQuery(principal models.Principal, entityType models.EntityType, entityID, excludeSessionID string) (string, []any, error) {
	query, args, err := psql.Select(itemColumns...).
		From(itemsTable).
		Where(ownedBy(principal)).
		Where(sq.Eq{"entity_type": entityType, "entity_id": entityID}).
		Where(sq.NotEq{"session_id": excludeSessionID}).
		Where(sq.NotEq{"server_timestamp": nil}).
		OrderBy("server_timestamp DESC", "updated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertItemQuery(item models.SyncItem) (string, []any, error) {
	query, args, err := psql.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			item.ID,
			item.SessionID,
			item.Tenant.CompanyID,
			item.Tenant.ScopeID,
			item.UserID,
			item.EntityType,
			item.EntityID,
			item.Status,
			item.ClientTimestamp,
			item.ServerTimestamp,
			item.Data,
			item.ErrorMessage,
		).
		Suffix(upsertItemSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectItemQuery(principal models.Principal, sessionID, itemID string) (string, []any, error) {
	query, args, err := psql.Select(itemColumns...).
		From(itemsTable).
		Where(sq.Eq{"id": itemID, "session_id": sessionID}).
		Where(ownedBy(principal)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildListSessionItemsQuery(sessionID string) (string, []any, error) {
	query, args, err := psql.Select(itemColumns...).
		From(itemsTable).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpdateItemQuery(item models.SyncItem) (string, []any, error) {
	query, args, err := psql.Update(itemsTable).
		Set("status", item.Status).
		Set("client_timestamp", item.ClientTimestamp).
		Set("server_timestamp", item.ServerTimestamp).
		Set("data", item.Data).
		Set("error_message", item.ErrorMessage).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID, "session_id": item.SessionID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountByStatusQuery(sessionID string) (string, []any, error) {
	query, args, err := psql.Select("status", "COUNT(*)").
		From(itemsTable).
		Where(sq.Eq{"session_id": sessionID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
