package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booktracker/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	// Migrations ran for every table.
	for _, table := range []string{"users", "authors", "tags", "books", "reviews", "reading_sessions", "book_tags"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	user := &entities.User{Name: "Reader", Email: "reader@example.com"}
	require.NoError(t, db.DB.Create(user).Error)

	var loaded entities.User
	require.NoError(t, db.DB.First(&loaded, user.ID).Error)
	assert.Equal(t, "reader@example.com", loaded.Email)
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}
