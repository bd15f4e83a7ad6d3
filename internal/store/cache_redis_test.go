package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/models"
)

type fakeRedis struct {
	values  map[string]string
	ttls    map[string]time.Duration
	down    bool
	getHits int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.down {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	f.getHits++
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.down {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.down {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// countingSessions counts GetSession calls that reach the backing store.
type countingSessions struct {
	SessionRepository
	gets int
}

func (c *countingSessions) GetSession(ctx context.Context, principal models.Principal, id string) (models.SyncSession, error) {
	c.gets++
	return c.SessionRepository.GetSession(ctx, principal, id)
}

func TestCachedSessionRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingSessions{SessionRepository: NewMemoryStore()}
	client := newFakeRedis()
	repo := NewCachedSessionRepository(backing, client, time.Minute, logger.Nop())

	session := models.SyncSession{
		ID:        "s-1",
		Tenant:    testPrincipal.Tenant,
		UserID:    testPrincipal.UserID,
		Status:    models.SessionSyncing,
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Metadata:  models.Payload{"device_id": "d1"},
	}
	require.NoError(t, repo.CreateSession(ctx, session))

	key := sessionCacheKey(testPrincipal, "s-1")
	assert.Equal(t, "sync:session:7:3:42:s-1", key)
	assert.Equal(t, time.Minute, client.ttls[key])

	got, err := repo.GetSession(ctx, testPrincipal, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 0, backing.gets)
	assert.Equal(t, 1, client.getHits)
	assert.Equal(t, testPrincipal.Tenant, got.Tenant)
	assert.Equal(t, testPrincipal.UserID, got.UserID)
	assert.Equal(t, "d1", got.Metadata["device_id"])

	// another principal never sees the cached copy
	other := testPrincipal
	other.UserID = 1
	_, err = repo.GetSession(ctx, other, "s-1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCachedSessionRepository_UpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	backing := &countingSessions{SessionRepository: NewMemoryStore()}
	client := newFakeRedis()
	repo := NewCachedSessionRepository(backing, client, time.Minute, logger.Nop())

	session := models.SyncSession{ID: "s-1", Tenant: testPrincipal.Tenant, UserID: testPrincipal.UserID, Status: models.SessionSyncing}
	require.NoError(t, repo.CreateSession(ctx, session))

	session.Status = models.SessionCompleted
	require.NoError(t, repo.UpdateSession(ctx, session))
	assert.NotContains(t, client.values, sessionCacheKey(testPrincipal, "s-1"))

	got, err := repo.GetSession(ctx, testPrincipal, "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, got.Status)
	assert.Equal(t, 1, backing.gets)
}

func TestCachedSessionRepository_CacheDown(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.down = true
	repo := NewCachedSessionRepository(NewMemoryStore(), client, time.Minute, logger.Nop())

	session := models.SyncSession{ID: "s-1", Tenant: testPrincipal.Tenant, UserID: testPrincipal.UserID, Status: models.SessionSyncing}
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSession(ctx, testPrincipal, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)

	require.NoError(t, repo.UpdateSession(ctx, session))
}
