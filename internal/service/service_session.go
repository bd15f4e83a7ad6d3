package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/models"
)

type sessionService struct {
	sessions     store.SessionRepository
	items        store.ItemRepository
	defaultLimit int

	logger *logger.Logger
}

// NewSessionService constructs a [SessionService]. Listing without an
// explicit limit returns cfg.SessionListLimit sessions.
func NewSessionService(sessions store.SessionRepository, items store.ItemRepository, cfg config.Sync, logger *logger.Logger) SessionService {
	limit := cfg.SessionListLimit
	if limit < 1 || limit > config.MaxSessionListLimit {
		limit = 20
	}

	return &sessionService{
		sessions:     sessions,
		items:        items,
		defaultLimit: limit,
		logger:       logger,
	}
}

func (s *sessionService) GetSession(ctx context.Context, principal models.Principal, sessionID string) (models.SessionDetails, error) {
	session, err := s.sessions.GetSession(ctx, principal, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.SessionDetails{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return models.SessionDetails{}, fmt.Errorf("load sync session: %w", err)
	}

	items, err := s.items.ListSessionItems(ctx, session.ID)
	if err != nil {
		return models.SessionDetails{}, fmt.Errorf("list session items: %w", err)
	}

	return models.SessionDetails{Session: session, Items: items}, nil
}

// ListSessions returns the caller's most recent sessions. A limit below one
// selects the default page size; the limit is capped at
// [config.MaxSessionListLimit].
func (s *sessionService) ListSessions(ctx context.Context, principal models.Principal, limit int) (models.SessionList, error) {
	switch {
	case limit < 1:
		limit = s.defaultLimit
	case limit > config.MaxSessionListLimit:
		limit = config.MaxSessionListLimit
	}

	sessions, err := s.sessions.ListSessions(ctx, principal, limit)
	if err != nil {
		return models.SessionList{}, fmt.Errorf("list sync sessions: %w", err)
	}

	return models.SessionList{Sessions: sessions, Length: len(sessions)}, nil
}
