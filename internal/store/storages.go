package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-sync-keeper/internal/config"
	"github.com/MKhiriev/go-sync-keeper/internal/logger"
)

// Storages groups the server-side repositories handed to the service layer.
type Storages struct {
	// Sessions persists sync sessions, optionally behind the Redis cache.
	Sessions SessionRepository

	// Items persists sync items.
	Items ItemRepository

	closers []io.Closer
}

// NewStorages initialises the server storage layer:
//  1. An empty cfg.DB.DSN selects the in-memory store; otherwise a
//     PostgreSQL connection is opened and the schema migrated.
//  2. When cfg.Redis.URL is set, session reads go through the Redis cache.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")
	s := &Storages{}

	if cfg.DB.DSN == "" {
		log.Warn().Str("func", "NewStorages").Msg("no database DSN configured, using in-memory store")
		memory := NewMemoryStore()
		s.Sessions, s.Items = memory, memory
	} else {
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		s.closers = append(s.closers, db)

		if err = db.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		s.Sessions = NewSessionRepository(db, log)
		s.Items = NewItemRepository(db, log)
	}

	if cfg.Redis.URL != "" {
		client, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		s.closers = append(s.closers, client)
		s.Sessions = NewCachedSessionRepository(s.Sessions, client, cfg.Redis.TTL, log)
	}

	return s, nil
}

// Close releases every connection opened by [NewStorages].
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

// ClientStorages groups the storage used by the offline client.
type ClientStorages struct {
	// Outbox is the SQLite-backed queue of pending mutations.
	Outbox Outbox

	db *DB
}

// NewClientStorages opens the SQLite outbox at cfg.Path, creating and
// migrating it when needed.
func NewClientStorages(ctx context.Context, cfg config.Local, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return &ClientStorages{
		Outbox: NewClientOutbox(db, log),
		db:     db,
	}, nil
}

// Close closes the SQLite connection.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
