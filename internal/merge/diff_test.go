package merge

import (
	"testing"

	"github.com/MKhiriev/go-sync-keeper/models"
	"github.com/stretchr/testify/assert"
)

func TestDiff_FourWayPartition(t *testing.T) {
	got := Diff(models.Payload{"a": 1, "b": 2}, models.Payload{"b": 3, "c": 4})

	assert.Equal(t, map[string]models.DiffPair{"c": {Client: 4, Server: nil}}, got.Added)
	assert.Equal(t, map[string]models.DiffPair{"a": {Client: nil, Server: 1}}, got.Removed)
	assert.Equal(t, map[string]models.DiffPair{"b": {Client: 3, Server: 2}}, got.Modified)
	assert.Empty(t, got.Unchanged)
}

func TestDiff_Unchanged(t *testing.T) {
	got := Diff(
		map[string]any{"n": 2.0, "nested": map[string]any{"k": []any{1, 2}}},
		map[string]any{"n": 2, "nested": map[string]any{"k": []any{1.0, 2.0}}},
	)

	assert.Empty(t, got.Added)
	assert.Empty(t, got.Removed)
	assert.Empty(t, got.Modified)
	assert.Len(t, got.Unchanged, 2)
}

func TestDiff_NonMapInputs(t *testing.T) {
	tests := []struct {
		name           string
		server, client any
	}{
		{name: "both nil", server: nil, client: nil},
		{name: "server scalar", server: 1, client: models.Payload{"a": 1}},
		{name: "client list", server: models.Payload{"a": 1}, client: []any{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.server, tt.client)
			assert.NotNil(t, got.Added)
			assert.Empty(t, got.Added)
			assert.Empty(t, got.Removed)
			assert.Empty(t, got.Modified)
			assert.Empty(t, got.Unchanged)
		})
	}
}
