package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_entries (id INTEGER PRIMARY KEY, unique_key TEXT, entity_id TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_entries")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["unique_key"])
	assert.Equal(t, "text", colMap["entity_id"])

	// PRAGMA table_info returns an empty result for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE entries (id INTEGER PRIMARY KEY, unique_key TEXT)").Error)

	missing, err := MissingColumns(db, "entries", []string{"id", "UNIQUE_KEY", "entity_id", "platform"})
	require.NoError(t, err)
	assert.Equal(t, []string{"entity_id", "platform"}, missing)

	missing, err = MissingColumns(db, "nothing_here", []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}
