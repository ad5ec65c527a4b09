package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booknet/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "booknet.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Migrator().HasTable(&entities.AuditEvent{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.Rating{}))
	assert.True(t, db.DB.Migrator().HasIndex(&entities.Rating{}, "idx_rating_book_user"))
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewDatabase_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "booknet.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.DB.Create(&entities.Rating{BookID: "b1", Username: "ana", Score: 4}).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.DB.Model(&entities.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPingAfterClose(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "booknet.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping(context.Background()))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "data/booknet.db?_journal=WAL&_timeout=5000&_busy_timeout=5000", DSN("data/booknet.db"))
	assert.Equal(t, "file::memory:?cache=shared", DSN("file::memory:?cache=shared"))
}
