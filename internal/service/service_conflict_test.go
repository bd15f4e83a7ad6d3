package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-keeper/internal/logger"
	"github.com/MKhiriev/go-sync-keeper/internal/merge"
	"github.com/MKhiriev/go-sync-keeper/internal/mock"
	"github.com/MKhiriev/go-sync-keeper/internal/store"
	"github.com/MKhiriev/go-sync-keeper/models"
)

var resolvedAt = time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

func newTestConflictService(sessions store.SessionRepository, items store.ItemRepository, audit AuditEmitter) *conflictService {
	svc := NewConflictService(sessions, items, merge.NewResolver(merge.DefaultRegistry()), audit, logger.Nop()).(*conflictService)
	svc.now = func() time.Time { return resolvedAt }
	return svc
}

// conflictFixture reconciles stale submissions against accepted report
// versions and returns the session and its conflicted items.
func conflictFixture(t *testing.T, st *store.MemoryStore, entityIDs ...string) (models.SyncSession, []models.SyncItem) {
	t.Helper()
	ctx := context.Background()

	mutations := make([]models.Mutation, 0, len(entityIDs))
	for _, id := range entityIDs {
		seedAccepted(t, st, testPrincipal, "prior-"+id, models.EntityReport, id,
			models.Payload{"progress_pct": 50, "status": "submitted", "title": "Q1"}, t0)
		mutations = append(mutations, models.Mutation{
			EntityType:      models.EntityReport,
			EntityID:        id,
			Data:            models.Payload{"progress_pct": 60, "title": "Q1", "note": "offline"},
			ClientTimestamp: timestamp(t0.Add(-time.Hour)),
		})
	}

	resp, err := newTestReconcileService(st, st, &recordingAudit{}).
		Reconcile(ctx, testPrincipal, models.ReconcileRequest{Items: mutations})
	require.NoError(t, err)
	require.Len(t, resp.Conflicts, len(entityIDs))

	items, err := st.ListSessionItems(ctx, resp.Session.ID)
	require.NoError(t, err)
	return resp.Session, items
}

func TestGetConflictDiff(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "42")
	svc := newTestConflictService(st, st, &recordingAudit{})

	diff, err := svc.GetConflictDiff(context.Background(), testPrincipal, session.ID, items[0].ID, models.ConflictDiffRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.EntityReport, diff.EntityType)
	assert.Equal(t, "42", diff.EntityID)
	assert.Equal(t, models.Payload{"progress_pct": 50, "status": "submitted", "title": "Q1"}, diff.ServerData)
	assert.Equal(t, models.Payload{"progress_pct": 60, "title": "Q1", "note": "offline"}, diff.ClientData)
	assert.Equal(t, map[string]models.DiffPair{"note": {Client: "offline"}}, diff.Diff.Added)
	assert.Equal(t, map[string]models.DiffPair{"status": {Server: "submitted"}}, diff.Diff.Removed)
	assert.Equal(t, map[string]models.DiffPair{"progress_pct": {Client: 60, Server: 50}}, diff.Diff.Modified)
	assert.Equal(t, map[string]any{"title": "Q1"}, diff.Diff.Unchanged)
	require.NotNil(t, diff.ServerTimestamp)
	assert.True(t, diff.ServerTimestamp.Equal(t0))
	require.NotNil(t, diff.ClientTimestamp)
	assert.True(t, diff.ClientTimestamp.Equal(t0.Add(-time.Hour)))
}

func TestGetConflictDiff_ClientDataOverride(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "42")
	svc := newTestConflictService(st, st, &recordingAudit{})

	diff, err := svc.GetConflictDiff(context.Background(), testPrincipal, session.ID, items[0].ID, models.ConflictDiffRequest{
		ClientData: models.Payload{"progress_pct": 50, "status": "submitted", "title": "Q1"},
	})
	require.NoError(t, err)

	assert.Empty(t, diff.Diff.Added)
	assert.Empty(t, diff.Diff.Removed)
	assert.Empty(t, diff.Diff.Modified)
	assert.Len(t, diff.Diff.Unchanged, 3)
}

func TestGetConflictDiff_NotFound(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "42")
	svc := newTestConflictService(st, st, &recordingAudit{})
	ctx := context.Background()

	_, err := svc.GetConflictDiff(ctx, testPrincipal, "nope", items[0].ID, models.ConflictDiffRequest{})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.GetConflictDiff(ctx, testPrincipal, session.ID, "nope", models.ConflictDiffRequest{})
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.GetConflictDiff(ctx, otherPrincipal, session.ID, items[0].ID, models.ConflictDiffRequest{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResolveConflict(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "42")
	audit := &recordingAudit{}
	svc := newTestConflictService(st, st, audit)
	ctx := context.Background()

	resp, err := svc.ResolveConflict(ctx, testPrincipal, session.ID, items[0].ID, models.ResolveRequest{
		Resolution: map[string]models.Side{
			"progress_pct": models.SideClient,
			"status":       models.SideClient,
		},
	})
	require.NoError(t, err)

	// status is server authoritative; note only exists on the client
	want := models.Payload{"progress_pct": 60, "status": "submitted", "title": "Q1", "note": "offline"}
	assert.Equal(t, want, resp.ResolvedData)
	assert.Equal(t, models.ItemSynced, resp.Item.Status)
	require.NotNil(t, resp.Item.ServerTimestamp)
	assert.True(t, resp.Item.ServerTimestamp.Equal(resolvedAt))

	stored, err := st.GetItem(ctx, testPrincipal, session.ID, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, want, stored.Data)
	assert.Equal(t, models.ItemSynced, stored.Status)

	storedSession, err := st.GetSession(ctx, testPrincipal, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, storedSession.Status)
	assert.Equal(t, 0, storedSession.ConflictsDetected)
	assert.Equal(t, 1, storedSession.ItemsSynced)
	require.NotNil(t, storedSession.CompletedAt)

	events := audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.AuditResolveConflict, events[0].Action)
	assert.Equal(t, []string{"report_42"}, events[0].Conflicts)

	_, err = svc.ResolveConflict(ctx, testPrincipal, session.ID, items[0].ID, models.ResolveRequest{
		Resolution: map[string]models.Side{"progress_pct": models.SideClient},
	})
	assert.ErrorIs(t, err, ErrItemNotInConflict)
}

func TestResolveConflict_SessionStaysInConflictUntilLastItem(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "1", "2")
	svc := newTestConflictService(st, st, &recordingAudit{})
	ctx := context.Background()
	req := models.ResolveRequest{Resolution: map[string]models.Side{"progress_pct": models.SideServer}}

	_, err := svc.ResolveConflict(ctx, testPrincipal, session.ID, items[0].ID, req)
	require.NoError(t, err)

	stored, err := st.GetSession(ctx, testPrincipal, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionConflict, stored.Status)
	assert.Equal(t, 1, stored.ConflictsDetected)
	assert.Nil(t, stored.CompletedAt)

	_, err = svc.ResolveConflict(ctx, testPrincipal, session.ID, items[1].ID, req)
	require.NoError(t, err)

	stored, err = st.GetSession(ctx, testPrincipal, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stored.Status)
	assert.Equal(t, 2, stored.ItemsSynced)
}

func TestResolveConflict_ClientDataOverride(t *testing.T) {
	st := store.NewMemoryStore()
	session, items := conflictFixture(t, st, "42")
	svc := newTestConflictService(st, st, &recordingAudit{})

	resp, err := svc.ResolveConflict(context.Background(), testPrincipal, session.ID, items[0].ID, models.ResolveRequest{
		Resolution: map[string]models.Side{"title": models.SideClient},
		ClientData: models.Payload{"title": "Q1 final"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.Payload{"progress_pct": 50, "status": "submitted", "title": "Q1 final"}, resp.ResolvedData)
}

func TestResolveConflict_Errors(t *testing.T) {
	tests := []struct {
		name       string
		resolution map[string]models.Side
		wantErr    error
	}{
		{name: "empty resolution", resolution: nil, wantErr: ErrInvalidResolution},
		{name: "unknown side", resolution: map[string]models.Side{"title": "both"}, wantErr: ErrInvalidResolution},
		{name: "field on neither side", resolution: map[string]models.Side{"budget": models.SideClient}, wantErr: ErrUnknownResolutionField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			session, items := conflictFixture(t, st, "42")
			svc := newTestConflictService(st, st, &recordingAudit{})

			_, err := svc.ResolveConflict(context.Background(), testPrincipal, session.ID, items[0].ID, models.ResolveRequest{Resolution: tt.resolution})
			require.ErrorIs(t, err, tt.wantErr)

			stored, err := st.GetItem(context.Background(), testPrincipal, session.ID, items[0].ID)
			require.NoError(t, err)
			assert.Equal(t, models.ItemConflict, stored.Status)
		})
	}
}

func TestResolveConflict_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionRepository(ctrl)
	items := mock.NewMockItemRepository(ctrl)
	audit := &recordingAudit{}

	conflicted := models.SyncItem{
		ID:         "item-1",
		SessionID:  "s-1",
		EntityType: models.EntityTask,
		EntityID:   "t",
		Status:     models.ItemConflict,
		Data:       models.Payload{"title": "x"},
	}

	sessions.EXPECT().GetSession(gomock.Any(), testPrincipal, "s-1").Return(models.SyncSession{ID: "s-1", Status: models.SessionConflict}, nil)
	items.EXPECT().GetItem(gomock.Any(), testPrincipal, "s-1", "item-1").Return(conflicted, nil)
	items.EXPECT().FindLatestAccepted(gomock.Any(), testPrincipal, models.EntityTask, "t", "s-1").Return(models.SyncItem{}, errors.New("boom"))

	svc := newTestConflictService(sessions, items, audit)
	_, err := svc.ResolveConflict(context.Background(), testPrincipal, "s-1", "item-1", models.ResolveRequest{
		Resolution: map[string]models.Side{"title": models.SideClient},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load conflict basis")
	assert.Empty(t, audit.Events())
}

func TestResolveConflict_OnlyConflictedItems(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	resp, err := newTestReconcileService(st, st, &recordingAudit{}).Reconcile(ctx, testPrincipal, models.ReconcileRequest{
		Items: []models.Mutation{
			{EntityType: models.EntityTask, EntityID: "ok", Data: models.Payload{"title": "a"}},
			{EntityType: models.EntityTask, Data: models.Payload{"title": "b"}},
		},
	})
	require.NoError(t, err)
	items, err := st.ListSessionItems(ctx, resp.Session.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	svc := newTestConflictService(st, st, &recordingAudit{})
	for _, item := range items {
		t.Run(string(item.Status), func(t *testing.T) {
			_, err := svc.ResolveConflict(ctx, testPrincipal, resp.Session.ID, item.ID, models.ResolveRequest{
				Resolution: map[string]models.Side{"title": models.SideClient},
			})
			require.ErrorIs(t, err, ErrItemNotInConflict)
			assert.ErrorIs(t, err, models.ErrInvalidTransition)

			stored, err := st.GetItem(ctx, testPrincipal, resp.Session.ID, item.ID)
			require.NoError(t, err)
			assert.Equal(t, item.Status, stored.Status)
		})
	}
}

func TestResolveConflict_SessionMustBeInConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionRepository(ctrl)
	items := mock.NewMockItemRepository(ctrl)

	conflicted := models.SyncItem{
		ID:         "item-1",
		SessionID:  "s-1",
		EntityType: models.EntityTask,
		EntityID:   "t",
		Status:     models.ItemConflict,
		Data:       models.Payload{"title": "x"},
	}

	sessions.EXPECT().GetSession(gomock.Any(), testPrincipal, "s-1").Return(models.SyncSession{ID: "s-1", Status: models.SessionFailed}, nil)
	items.EXPECT().GetItem(gomock.Any(), testPrincipal, "s-1", "item-1").Return(conflicted, nil)
	items.EXPECT().FindLatestAccepted(gomock.Any(), testPrincipal, models.EntityTask, "t", "s-1").Return(models.SyncItem{}, store.ErrItemNotFound)
	items.EXPECT().UpdateItem(gomock.Any(), gomock.Any()).Return(nil)
	items.EXPECT().CountByStatus(gomock.Any(), "s-1").Return(models.ItemCounters{Synced: 1}, nil)

	svc := newTestConflictService(sessions, items, &recordingAudit{})
	_, err := svc.ResolveConflict(context.Background(), testPrincipal, "s-1", "item-1", models.ResolveRequest{
		Resolution: map[string]models.Side{"title": models.SideClient},
	})

	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestConflictValidationService(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mock.NewMockSessionRepository(ctrl)
	items := mock.NewMockItemRepository(ctrl)

	// the wrapped service must not be reached
	svc := NewConflictValidationService(newTestConflictService(sessions, items, &recordingAudit{}))

	_, err := svc.ResolveConflict(context.Background(), testPrincipal, "s", "i", models.ResolveRequest{})
	require.ErrorIs(t, err, ErrInvalidResolution)

	_, err = svc.ResolveConflict(context.Background(), testPrincipal, "s", "i", models.ResolveRequest{
		Resolution: map[string]models.Side{"a": "sideways"},
	})
	require.ErrorIs(t, err, ErrInvalidResolution)
}
