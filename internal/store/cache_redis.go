package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
)

const sessionCachePrefix = "sync:session:"

// RedisClient is the subset of *redis.Client used by the session cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return client, nil
}

// cachedSession is the cache representation of a session. The owner is kept
// because it is not part of the session's JSON form.
type cachedSession struct {
	Session models.SyncSession `json:"session"`
	Tenant  models.Tenant      `json:"tenant"`
	UserID  int64              `json:"user_id"`
}

// cachedSessionRepository is a read-through cache in front of a
// [SessionRepository]. Cache failures never fail the call.
type cachedSessionRepository struct {
	next   SessionRepository
	client RedisClient
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSessionRepository wraps next with a Redis cache. Sessions are
// cached for ttl; updates invalidate the cached copy.
func NewCachedSessionRepository(next SessionRepository, client RedisClient, ttl time.Duration, logger *logger.Logger) SessionRepository {
	return &cachedSessionRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func sessionCacheKey(principal models.Principal, sessionID string) string {
	return fmt.Sprintf("%s%d:%d:%d:%s",
		sessionCachePrefix, principal.Tenant.CompanyID, principal.Tenant.ScopeID, principal.UserID, sessionID)
}

func (c *cachedSessionRepository) CreateSession(ctx context.Context, session models.SyncSession) error {
	if err := c.next.CreateSession(ctx, session); err != nil {
		return err
	}
	c.put(ctx, session)
	return nil
}

func (c *cachedSessionRepository) GetSession(ctx context.Context, principal models.Principal, sessionID string) (models.SyncSession, error) {
	log := logger.FromContext(ctx)
	key := sessionCacheKey(principal, sessionID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedSession
		if err = json.Unmarshal(raw, &cached); err == nil {
			session := cached.Session
			session.Tenant = cached.Tenant
			session.UserID = cached.UserID
			return session, nil
		}
		log.Warn().Err(err).Str("func", "cachedSessionRepository.GetSession").Msg("dropping undecodable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("func", "cachedSessionRepository.GetSession").Msg("session cache is unavailable")
	}

	session, err := c.next.GetSession(ctx, principal, sessionID)
	if err != nil {
		return models.SyncSession{}, err
	}
	c.put(ctx, session)
	return session, nil
}

func (c *cachedSessionRepository) ListSessions(ctx context.Context, principal models.Principal, limit int) ([]models.SyncSession, error) {
	return c.next.ListSessions(ctx, principal, limit)
}

func (c *cachedSessionRepository) UpdateSession(ctx context.Context, session models.SyncSession) error {
	if err := c.next.UpdateSession(ctx, session); err != nil {
		return err
	}

	key := sessionCacheKey(models.Principal{Tenant: session.Tenant, UserID: session.UserID}, session.ID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "cachedSessionRepository.UpdateSession").
			Str("session_id", session.ID).
			Msg("failed to invalidate cached session")
	}
	return nil
}

func (c *cachedSessionRepository) put(ctx context.Context, session models.SyncSession) {
	raw, err := json.Marshal(cachedSession{Session: session, Tenant: session.Tenant, UserID: session.UserID})
	if err != nil {
		return
	}

	key := sessionCacheKey(models.Principal{Tenant: session.Tenant, UserID: session.UserID}, session.ID)
	if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "cachedSessionRepository.put").
			Str("session_id", session.ID).
			Msg("failed to cache session")
	}
}
