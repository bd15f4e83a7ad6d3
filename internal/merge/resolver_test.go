// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package merge

import (
	"testing"

	"github.com/MKhiriev/go-sync-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultRegistry())
}

func TestResolver_Merge(t *testing.T) {
	tests := []struct {
		name       string
		prior      models.Payload
		client     models.Payload
		entityType models.EntityType
		want       models.Payload
	}{
		{
			name:       "nil prior takes non-empty client values",
			prior:      nil,
			client:     models.Payload{"title": "draft", "progress_pct": 10},
			entityType: models.EntityReport,
			want:       models.Payload{"title": "draft", "progress_pct": 10},
		},
		{
			name:       "authoritative field is ignored",
			prior:      models.Payload{"status": "submitted", "progress_pct": 50},
			client:     models.Payload{"status": "draft", "progress_pct": 60},
			entityType: models.EntityReport,
			want:       models.Payload{"status": "submitted", "progress_pct": 60},
		},
		{
			name:       "authoritative field absent on server stays absent",
			prior:      models.Payload{},
			client:     models.Payload{"approved_by": 7},
			entityType: models.EntityReport,
			want:       models.Payload{},
		},
		{
			name:       "deep merge field merges maps with client precedence",
			prior:      models.Payload{"sections": map[string]any{"a": 1, "b": 2}},
			client:     models.Payload{"sections": map[string]any{"b": 3, "c": 4}},
			entityType: models.EntityReport,
			want:       models.Payload{"sections": map[string]any{"a": 1, "b": 3, "c": 4}},
		},
		{
			name:       "deep merge field with non-map prior is overwritten",
			prior:      models.Payload{"sections": "legacy"},
			client:     models.Payload{"sections": map[string]any{"a": 1}},
			entityType: models.EntityReport,
			want:       models.Payload{"sections": map[string]any{"a": 1}},
		},
		{
			name:       "list union keeps order and drops duplicates",
			prior:      models.Payload{"tags": []any{"a", "b"}},
			client:     models.Payload{"tags": []any{"b", "c", "c"}},
			entityType: models.EntityReport,
			want:       models.Payload{"tags": []any{"a", "b", "c"}},
		},
		{
			name:       "list union without prior sequence",
			prior:      models.Payload{"tags": "oops"},
			client:     models.Payload{"tags": []any{"x"}},
			entityType: models.EntityReport,
			want:       models.Payload{"tags": []any{"x"}},
		},
		{
			name:       "list union de-duplicates structured elements",
			prior:      models.Payload{"attachments": []any{map[string]any{"id": 1}}},
			client:     models.Payload{"attachments": []any{map[string]any{"id": 1.0}, map[string]any{"id": 2}}},
			entityType: models.EntityReport,
			want:       models.Payload{"attachments": []any{map[string]any{"id": 1}, map[string]any{"id": 2}}},
		},
		{
			name:       "empty client values never erase",
			prior:      models.Payload{"title": "kept", "notes": "kept", "items": []any{1}, "extra": map[string]any{"k": 1}},
			client:     models.Payload{"title": "", "notes": nil, "items": []any{}, "extra": map[string]any{}},
			entityType: models.EntityWizardStep,
			want:       models.Payload{"title": "kept", "notes": "kept", "items": []any{1}, "extra": map[string]any{"k": 1}},
		},
		{
			name:       "zero and false are values",
			prior:      models.Payload{"count": 5, "done": true},
			client:     models.Payload{"count": 0, "done": false},
			entityType: models.EntityWizardStep,
			want:       models.Payload{"count": 0, "done": false},
		},
		{
			name:       "unregistered type overwrites everything non-empty",
			prior:      models.Payload{"status": "approved"},
			client:     models.Payload{"status": "draft"},
			entityType: models.EntityType("custom"),
			want:       models.Payload{"status": "draft"},
		},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Merge(tt.prior, tt.client, tt.entityType)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Merge_DoesNotMutateInputs(t *testing.T) {
	r := newTestResolver()
	prior := models.Payload{"sections": map[string]any{"a": 1}, "tags": []any{"x"}}
	client := models.Payload{"sections": map[string]any{"b": 2}, "tags": []any{"y"}}

	_ = r.Merge(prior, client, models.EntityReport)

	assert.Equal(t, models.Payload{"sections": map[string]any{"a": 1}, "tags": []any{"x"}}, prior)
	assert.Equal(t, models.Payload{"sections": map[string]any{"b": 2}, "tags": []any{"y"}}, client)
}

func TestResolver_Merge_Idempotent(t *testing.T) {
	r := newTestResolver()
	cases := []struct {
		entityType models.EntityType
		prior      models.Payload
		client     models.Payload
	}{
		{
			entityType: models.EntityReport,
			prior:      models.Payload{"status": "submitted", "progress_pct": 50, "tags": []any{"a"}},
			client:     models.Payload{"status": "x", "progress_pct": 60, "tags": []any{"a", "b"}, "sections": map[string]any{"s": 1}},
		},
		{
			entityType: models.EntityIncident,
			prior:      models.Payload{"details": map[string]any{"where": "hall"}, "witnesses": []any{"ann"}},
			client:     models.Payload{"details": map[string]any{"when": "noon"}, "witnesses": []any{"bob", "ann"}, "severity_score": 9},
		},
		{
			entityType: models.EntityWizardStep,
			prior:      nil,
			client:     models.Payload{"answer": "yes", "empty": ""},
		},
	}

	for _, c := range cases {
		t.Run(string(c.entityType), func(t *testing.T) {
			once := r.Merge(c.prior, c.client, c.entityType)
			twice := r.Merge(once, c.client, c.entityType)
			assert.Equal(t, once, twice)
		})
	}
}

func TestResolver_AuthoritativeFieldsNeverTakenFromClient(t *testing.T) {
	r := newTestResolver()
	registry := DefaultRegistry()

	for _, entityType := range registry.EntityTypes() {
		rule := registry.Rule(entityType)
		for _, field := range rule.ServerAuthoritative.Names() {
			client := models.Payload{field: "client-value"}
			prior := models.Payload{field: "server-value"}

			merged := r.Merge(prior, client, entityType)
			assert.Equal(t, "server-value", merged[field], "%s.%s default merge", entityType, field)

			for _, side := range []models.Side{models.SideClient, models.SideMerge, models.SideServer} {
				directed := r.MergeWithDirective(prior, client, entityType, map[string]models.Side{field: side})
				assert.Equal(t, "server-value", directed[field], "%s.%s directive %s", entityType, field, side)
			}

			undirected := r.MergeWithDirective(models.Payload{}, client, entityType, map[string]models.Side{})
			_, present := undirected[field]
			assert.False(t, present, "%s.%s undirected add", entityType, field)
		}
	}
}

func TestResolver_MergeWithDirective(t *testing.T) {
	tests := []struct {
		name   string
		prior  models.Payload
		client models.Payload
		fields map[string]models.Side
		want   models.Payload
	}{
		{
			name:   "server keeps prior value",
			prior:  models.Payload{"title": "server"},
			client: models.Payload{"title": "client"},
			fields: map[string]models.Side{"title": models.SideServer},
			want:   models.Payload{"title": "server"},
		},
		{
			name:   "client takes client value even when empty",
			prior:  models.Payload{"title": "server"},
			client: models.Payload{"title": ""},
			fields: map[string]models.Side{"title": models.SideClient},
			want:   models.Payload{"title": ""},
		},
		{
			name:   "client side missing in client keeps prior",
			prior:  models.Payload{"title": "server"},
			client: models.Payload{},
			fields: map[string]models.Side{"title": models.SideClient},
			want:   models.Payload{"title": "server"},
		},
		{
			name:   "merge deep-merges maps",
			prior:  models.Payload{"meta": map[string]any{"a": 1}},
			client: models.Payload{"meta": map[string]any{"b": 2}},
			fields: map[string]models.Side{"meta": models.SideMerge},
			want:   models.Payload{"meta": map[string]any{"a": 1, "b": 2}},
		},
		{
			name:   "merge unions sequences",
			prior:  models.Payload{"list": []any{1, 2}},
			client: models.Payload{"list": []any{2, 3}},
			fields: map[string]models.Side{"list": models.SideMerge},
			want:   models.Payload{"list": []any{1, 2, 3}},
		},
		{
			name:   "merge of scalars takes client",
			prior:  models.Payload{"n": 1},
			client: models.Payload{"n": 2},
			fields: map[string]models.Side{"n": models.SideMerge},
			want:   models.Payload{"n": 2},
		},
		{
			name:   "undirected client field absent from prior is added",
			prior:  models.Payload{"a": 1},
			client: models.Payload{"a": 9, "b": 2},
			fields: map[string]models.Side{},
			want:   models.Payload{"a": 1, "b": 2},
		},
		{
			name:   "nil prior",
			prior:  nil,
			client: models.Payload{"a": 1},
			fields: map[string]models.Side{"a": models.SideServer},
			want:   models.Payload{},
		},
	}

	r := newTestResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.MergeWithDirective(tt.prior, tt.client, models.EntityWizardStep, tt.fields)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_NilRegistryUsesDefaultRule(t *testing.T) {
	r := NewResolver(nil)

	got := r.Merge(models.Payload{"status": "approved"}, models.Payload{"status": "draft"}, models.EntityReport)

	assert.Equal(t, models.Payload{"status": "draft"}, got)
}
