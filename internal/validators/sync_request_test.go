// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-keeper/models"
)

func strPtr(s string) *string { return &s }

func TestValidate_Dispatch(t *testing.T) {
	v := NewSyncRequestValidator()
	ctx := context.Background()

	require.NoError(t, v.Validate(ctx, models.ReconcileRequest{}))
	require.NoError(t, v.Validate(ctx, &models.ReconcileRequest{}))
	require.NoError(t, v.Validate(ctx, models.ResolveRequest{Resolution: map[string]models.Side{"a": models.SideClient}}))
	require.ErrorIs(t, v.Validate(ctx, "nope"), ErrUnsupportedType)
	require.ErrorIs(t, v.Validate(ctx, models.ReconcileRequest{}, "bogus"), ErrUnknownField)
}

func TestValidate_ReconcileRequest(t *testing.T) {
	tooMany := make([]models.Mutation, MaxBatchItems+1)

	tests := []struct {
		name    string
		req     models.ReconcileRequest
		fields  []string
		wantErr error
	}{
		{
			name: "valid with directives",
			req: models.ReconcileRequest{
				SessionID: strPtr("s-1"),
				Items:     []models.Mutation{{EntityType: models.EntityTask, EntityID: "t-1"}},
				Resolution: map[string]models.Resolution{
					"t-1": {Kind: models.ServerWins},
					"t-2": {Kind: models.FieldMerge, Fields: map[string]models.Side{"title": models.SideClient}},
				},
			},
		},
		{
			name: "items without entity type are left to the orchestrator",
			req:  models.ReconcileRequest{Items: []models.Mutation{{Data: models.Payload{"x": 1}}}},
		},
		{
			name:    "blank session id",
			req:     models.ReconcileRequest{SessionID: strPtr("  ")},
			wantErr: ErrInvalidSessionID,
		},
		{
			name:    "too many items",
			req:     models.ReconcileRequest{Items: tooMany},
			wantErr: ErrTooManyItems,
		},
		{
			name:    "too many items ignored when not selected",
			req:     models.ReconcileRequest{Items: tooMany},
			fields:  []string{FieldSessionID},
			wantErr: nil,
		},
		{
			name:    "empty resolution key",
			req:     models.ReconcileRequest{Resolution: map[string]models.Resolution{"": {Kind: models.ClientWins}}},
			wantErr: ErrEmptyResolutionKey,
		},
		{
			name:    "zero resolution kind",
			req:     models.ReconcileRequest{Resolution: map[string]models.Resolution{"t-1": {}}},
			wantErr: ErrInvalidResolutionKind,
		},
		{
			name:    "merge without fields",
			req:     models.ReconcileRequest{Resolution: map[string]models.Resolution{"t-1": {Kind: models.FieldMerge}}},
			wantErr: ErrEmptyResolutionFields,
		},
		{
			name: "merge with unknown side",
			req: models.ReconcileRequest{Resolution: map[string]models.Resolution{
				"t-1": {Kind: models.FieldMerge, Fields: map[string]models.Side{"title": "both"}},
			}},
			wantErr: ErrInvalidSide,
		},
	}

	v := NewSyncRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ResolveRequest(t *testing.T) {
	v := NewSyncRequestValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.ResolveRequest{}), ErrEmptyResolution)
	assert.ErrorIs(t, v.Validate(ctx, models.ResolveRequest{
		Resolution: map[string]models.Side{"status": "nobody"},
	}), ErrInvalidSide)
	assert.NoError(t, v.Validate(ctx, &models.ResolveRequest{
		Resolution: map[string]models.Side{"status": models.SideServer, "tags": models.SideMerge},
	}))
}
