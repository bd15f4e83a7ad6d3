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
)

// sessionRepository is the PostgreSQL implementation of [SessionRepository]
// over the "sync_sessions" table.
type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository constructs a PostgreSQL-backed [SessionRepository].
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session models.SyncSession) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertSessionQuery(session)
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.CreateSession").Msg("failed to build query")
		return err
	}

	err = r.withRetry(ctx, func() error {
		_, execErr := r.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.CreateSession").
			Str("session_id", session.ID).
			Msg("failed to insert session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, principal models.Principal, sessionID string) (models.SyncSession, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSessionQuery(principal, sessionID)
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.GetSession").Msg("failed to build query")
		return models.SyncSession{}, err
	}

	session, err := scanSession(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncSession{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.GetSession").
			Str("session_id", sessionID).
			Msg("failed to scan session row")
		return models.SyncSession{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return session, nil
}

func (r *sessionRepository) ListSessions(ctx context.Context, principal models.Principal, limit int) ([]models.SyncSession, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSessionsQuery(principal, limit)
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.ListSessions").Msg("failed to build query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ListSessions").
			Int64("user_id", principal.UserID).
			Msg("failed to execute query for listing sessions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.SyncSession, 0, limit)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sessionRepository.ListSessions").
				Int64("user_id", principal.UserID).
				Msg("failed to scan session row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "sessionRepository.ListSessions").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return sessions, nil
}

func (r *sessionRepository) UpdateSession(ctx context.Context, session models.SyncSession) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateSessionQuery(session)
	if err != nil {
		log.Err(err).Str("func", "sessionRepository.UpdateSession").Msg("failed to build query")
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
			Str("func", "sessionRepository.UpdateSession").
			Str("session_id", session.ID).
			Msg("failed to update session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.SyncSession, error) {
	var s models.SyncSession
	err := row.Scan(
		&s.ID,
		&s.Tenant.CompanyID,
		&s.Tenant.ScopeID,
		&s.UserID,
		&s.Status,
		&s.ItemsSynced,
		&s.ItemsFailed,
		&s.ConflictsDetected,
		&s.StartedAt,
		&s.CompletedAt,
		&s.ErrorMessage,
		&s.Metadata,
	)
	return s, err
}
