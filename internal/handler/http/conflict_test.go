package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-keeper/internal/app"
	"github.com/MKhiriev/go-sync-keeper/internal/service"
	"github.com/MKhiriev/go-sync-keeper/models"
)

func TestGetConflictDiff(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantClientData models.Payload
	}{
		{name: "no body", body: ""},
		{name: "client data override", body: `{"client_data":{"title":"draft"}}`, wantClientData: models.Payload{"title": "draft"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, stubs := newTestRouter(t)
			stubs.conflicts.diff = models.ConflictDiff{
				EntityType: models.EntityReport,
				EntityID:   "42",
				Diff:       models.Diff{Modified: map[string]models.DiffPair{"title": {Client: "draft", Server: "final"}}},
			}

			rr := serve(router, http.MethodPost, "/api/sync/sessions/s-1/items/i-1/diff", tt.body, goodToken)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "s-1", stubs.conflicts.gotSessionID)
			assert.Equal(t, "i-1", stubs.conflicts.gotItemID)
			assert.Equal(t, tt.wantClientData, stubs.conflicts.gotDiffReq.ClientData)

			var got models.ConflictDiff
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, models.DiffPair{Client: "draft", Server: "final"}, got.Diff.Modified["title"])
		})
	}
}

func TestResolveConflict(t *testing.T) {
	router, stubs := newTestRouter(t)
	stubs.conflicts.resolve = models.ResolveResponse{
		Item:         models.SyncItem{ID: "i-1", Status: models.ItemSynced},
		ResolvedData: models.Payload{"title": "draft"},
	}

	rr := serve(router, http.MethodPost, "/api/sync/sessions/s-1/items/i-1/resolve",
		`{"resolution":{"title":"client"}}`, goodToken)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]models.Side{"title": models.SideClient}, stubs.conflicts.gotResolveReq.Resolution)

	var got models.ResolveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, models.ItemSynced, got.Item.Status)
	assert.Equal(t, models.Payload{"title": "draft"}, got.ResolvedData)
}

func TestResolveConflict_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "missing body", body: "", wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidDataProvided},
		{name: "not in conflict", body: `{"resolution":{"a":"server"}}`, err: service.ErrItemNotInConflict, wantStatus: http.StatusConflict, wantBody: app.MsgItemNotInConflict},
		{name: "unknown field", body: `{"resolution":{"zzz":"server"}}`, err: service.ErrUnknownResolutionField, wantStatus: http.StatusBadRequest, wantBody: app.MsgUnknownResolutionField},
		{name: "invalid resolution", body: `{"resolution":{}}`, err: service.ErrInvalidResolution, wantStatus: http.StatusBadRequest, wantBody: app.MsgInvalidResolution},
		{name: "item not found", body: `{"resolution":{"a":"server"}}`, err: service.ErrItemNotFound, wantStatus: http.StatusNotFound, wantBody: app.MsgItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, stubs := newTestRouter(t)
			stubs.conflicts.err = tt.err

			rr := serve(router, http.MethodPost, "/api/sync/sessions/s-1/items/i-1/resolve", tt.body, goodToken)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rr.Body.String()))
		})
	}
}
