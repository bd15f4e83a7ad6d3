package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
)

const (
	outboxTable      = "outbox"
	clientStateTable = "client_state"

	enqueueSuffix = `ON CONFLICT (entity_type, entity_id) DO UPDATE SET
			data             = excluded.data,
			client_timestamp = excluded.client_timestamp,
			status           = excluded.status,
			session_id       = NULL,
			error_message    = NULL`

	putStateSuffix = `ON CONFLICT (key) DO UPDATE SET value = excluded.value`
)

var (
	// sqlite uses "?" placeholders
	sqlite = sq.StatementBuilder

	outboxColumns = []string{
		"id",
		"entity_type",
		"entity_id",
		"data",
		"client_timestamp",
		"status",
		"session_id",
		"error_message",
		"created_at",
	}
)

type outboxRepository struct {
	*DB
	logger *logger.Logger
}

// NewClientOutbox constructs the SQLite-backed [Outbox] of the offline client.
func NewClientOutbox(db *DB, logger *logger.Logger) Outbox {
	return &outboxRepository{
		DB:     db,
		logger: logger,
	}
}

func (o *outboxRepository) Enqueue(ctx context.Context, mutation models.Mutation) error {
	log := logger.FromContext(ctx)

	data, err := mutation.Data.Value()
	if err != nil {
		return fmt.Errorf("error encoding mutation data: %w", err)
	}

	query, args, err := sqlite.Insert(outboxTable).
		Columns("entity_type", "entity_id", "data", "client_timestamp", "status").
		Values(mutation.EntityType, mutation.EntityID, string(data.([]byte)), mutation.ClientTimestamp, models.OutboxPending).
		Suffix(enqueueSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = o.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Enqueue").
			Str("entity", models.EntityKey(mutation.EntityType, mutation.EntityID)).
			Msg("failed to enqueue mutation")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (o *outboxRepository) List(ctx context.Context, status models.OutboxStatus) ([]models.OutboxEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlite.Select(outboxColumns...).
		From(outboxTable).
		Where(sq.Eq{"status": status}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := o.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "outboxRepository.List").
			Str("status", string(status)).
			Msg("failed to list outbox entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entries []models.OutboxEntry
	for rows.Next() {
		var e models.OutboxEntry
		if err = rows.Scan(
			&e.ID,
			&e.Mutation.EntityType,
			&e.Mutation.EntityID,
			&e.Mutation.Data,
			&e.Mutation.ClientTimestamp,
			&e.Status,
			&e.SessionID,
			&e.ErrorMessage,
			&e.CreatedAt,
		); err != nil {
			log.Err(err).Str("func", "outboxRepository.List").Msg("failed to scan outbox row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (o *outboxRepository) Mark(ctx context.Context, id int64, status models.OutboxStatus, sessionID, reason *string) error {
	log := logger.FromContext(ctx)

	query, args, err := sqlite.Update(outboxTable).
		Set("status", status).
		Set("session_id", sessionID).
		Set("error_message", reason).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := o.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Mark").
			Int64("id", id).
			Msg("failed to mark outbox entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrOutboxEntryNotFound
	}

	return nil
}

func (o *outboxRepository) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := sqlite.Delete(outboxTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = o.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "outboxRepository.Delete").
			Int("count", len(ids)).
			Msg("failed to delete outbox entries")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (o *outboxRepository) GetState(ctx context.Context, key string) (string, error) {
	query, args, err := sqlite.Select("value").
		From(clientStateTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = o.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return value, nil
}

func (o *outboxRepository) PutState(ctx context.Context, key, value string) error {
	query, args, err := sqlite.Insert(clientStateTable).
		Columns("key", "value").
		Values(key, value).
		Suffix(putStateSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = o.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "outboxRepository.PutState").
			Str("key", key).
			Msg("failed to store client state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
