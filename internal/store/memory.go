package store

import (
	"context"
	"sort"
	"sync"

	"github.com/MKhiriev/go-sync-keeper/models"
)

// MemoryStore keeps sessions and items in process memory. It implements both
// [SessionRepository] and [ItemRepository] with the same semantics as the
// PostgreSQL repositories and is selected when no DSN is configured.
type MemoryStore struct {
	mu sync.RWMutex

	sessions map[string]models.SyncSession
	items    map[string]*memoryItem

	// itemsBySession preserves insertion order per session.
	itemsBySession map[string][]string

	// byEntity maps session/type/id to the item id of valid items.
	byEntity map[entityKey]string

	seq uint64
}

type memoryItem struct {
	item      models.SyncItem
	updatedAt uint64
}

type entityKey struct {
	sessionID  string
	entityType models.EntityType
	entityID   string
}

// NewMemoryStore constructs an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:       make(map[string]models.SyncSession),
		items:          make(map[string]*memoryItem),
		itemsBySession: make(map[string][]string),
		byEntity:       make(map[entityKey]string),
	}
}

func owns(principal models.Principal, tenant models.Tenant, userID int64) bool {
	return principal.Tenant == tenant && principal.UserID == userID
}

func copySession(s models.SyncSession) models.SyncSession {
	if s.Metadata != nil {
		s.Metadata = s.Metadata.Clone()
	}
	return s
}

func copyItem(i models.SyncItem) models.SyncItem {
	if i.Data != nil {
		i.Data = i.Data.Clone()
	}
	return i
}

func (m *MemoryStore) CreateSession(_ context.Context, session models.SyncSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = copySession(session)
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, principal models.Principal, sessionID string) (models.SyncSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok || !owns(principal, s.Tenant, s.UserID) {
		return models.SyncSession{}, ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *MemoryStore) ListSessions(_ context.Context, principal models.Principal, limit int) ([]models.SyncSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]models.SyncSession, 0, limit)
	for _, s := range m.sessions {
		if owns(principal, s.Tenant, s.UserID) {
			sessions = append(sessions, copySession(s))
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, session models.SyncSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[session.ID]
	if !ok || stored.Tenant != session.Tenant || stored.UserID != session.UserID {
		return ErrSessionNotFound
	}

	// started_at is immutable
	session.StartedAt = stored.StartedAt
	m.sessions[session.ID] = copySession(session)
	return nil
}

func (m *MemoryStore) FindLatestAccepted(_ context.Context, principal models.Principal, entityType models.EntityType, entityID, excludeSessionID string) (models.SyncItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *memoryItem
	for _, candidate := range m.items {
		it := candidate.item
		if it.SessionID == excludeSessionID || it.ServerTimestamp == nil ||
			it.EntityType != entityType || it.EntityID != entityID ||
			!owns(principal, it.Tenant, it.UserID) {
			continue
		}

		if latest == nil || newerThan(candidate, latest) {
			latest = candidate
		}
	}

	if latest == nil {
		return models.SyncItem{}, ErrItemNotFound
	}
	return copyItem(latest.item), nil
}

func newerThan(a, b *memoryItem) bool {
	ta, tb := *a.item.ServerTimestamp, *b.item.ServerTimestamp
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.updatedAt > b.updatedAt
}

func (m *MemoryStore) UpsertItem(_ context.Context, item models.SyncItem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[item.SessionID]; !ok {
		return "", ErrSessionNotFound
	}

	m.seq++
	key := entityKey{sessionID: item.SessionID, entityType: item.EntityType, entityID: item.EntityID}
	valid := item.EntityType != "" && item.EntityID != ""

	if valid {
		if id, ok := m.byEntity[key]; ok {
			stored := m.items[id]
			item.ID = id
			item.Tenant = stored.item.Tenant
			item.UserID = stored.item.UserID
			stored.item = copyItem(item)
			stored.updatedAt = m.seq
			return id, nil
		}
	}

	m.items[item.ID] = &memoryItem{item: copyItem(item), updatedAt: m.seq}
	m.itemsBySession[item.SessionID] = append(m.itemsBySession[item.SessionID], item.ID)
	if valid {
		m.byEntity[key] = item.ID
	}
	return item.ID, nil
}

func (m *MemoryStore) GetItem(_ context.Context, principal models.Principal, sessionID, itemID string) (models.SyncItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.items[itemID]
	if !ok || stored.item.SessionID != sessionID || !owns(principal, stored.item.Tenant, stored.item.UserID) {
		return models.SyncItem{}, ErrItemNotFound
	}
	return copyItem(stored.item), nil
}

func (m *MemoryStore) ListSessionItems(_ context.Context, sessionID string) ([]models.SyncItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.itemsBySession[sessionID]
	items := make([]models.SyncItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, copyItem(m.items[id].item))
	}
	return items, nil
}

func (m *MemoryStore) UpdateItem(_ context.Context, item models.SyncItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.items[item.ID]
	if !ok || stored.item.SessionID != item.SessionID {
		return ErrItemNotFound
	}

	m.seq++
	item.Tenant = stored.item.Tenant
	item.UserID = stored.item.UserID
	item.EntityType = stored.item.EntityType
	item.EntityID = stored.item.EntityID
	stored.item = copyItem(item)
	stored.updatedAt = m.seq
	return nil
}

func (m *MemoryStore) CountByStatus(_ context.Context, sessionID string) (models.ItemCounters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var counters models.ItemCounters
	for _, id := range m.itemsBySession[sessionID] {
		addCount(&counters, m.items[id].item.Status, 1)
	}
	return counters, nil
}

// Close implements io.Closer.
func (m *MemoryStore) Close() error {
	return nil
}

var _ interface {
	SessionRepository
	ItemRepository
} = (*MemoryStore)(nil)
