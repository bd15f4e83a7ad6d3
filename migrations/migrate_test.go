// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// no expectations: every statement goose issues is rejected
	err = Migrate(db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error")
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	assert.ErrorIs(t, Migrate(db), errNilDB)
	assert.ErrorIs(t, MigrateOutbox(db), errNilDB)
}

func TestEmbeddedMigrations(t *testing.T) {
	server, err := fs.Glob(embedMigrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_sync_sessions.sql", "00002_create_sync_items.sql"}, server)

	outbox, err := fs.Glob(embedMigrations, "outbox/*.sql")
	require.NoError(t, err)
	assert.Len(t, outbox, 1)

	raw, err := fs.ReadFile(embedMigrations, "00002_create_sync_items.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "WHERE entity_type <> '' AND entity_id <> ''")
}
