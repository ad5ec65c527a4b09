package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/booknet/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.AuditEvent{
		UserID:      "u1",
		Username:    "admin",
		EventType:   entities.AuditEventCreate,
		Action:      "author_create",
		Description: "Created author Miguel de Cervantes",
		EntityType:  "author",
		EntityID:    "a1",
		Status:      entities.AuditStatusSuccess,
	}

	err := repo.LogEvent(event)
	require.NoError(t, err)
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_ListEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 15; i++ {
		event := &entities.AuditEvent{
			UserID:     "u1",
			EventType:  entities.AuditEventCreate,
			Action:     "book_create",
			EntityType: "book",
			Status:     entities.AuditStatusSuccess,
			CreatedAt:  time.Now().Add(time.Duration(-i) * time.Hour),
		}
		require.NoError(t, repo.LogEvent(event))
	}

	for i := 0; i < 5; i++ {
		event := &entities.AuditEvent{
			UserID:     "u2",
			EventType:  entities.AuditEventDelete,
			Action:     "tag_delete",
			EntityType: "tag",
			Status:     entities.AuditStatusFailed,
			ErrorMsg:   "La etiqueta no existe",
		}
		require.NoError(t, repo.LogEvent(event))
	}

	t.Run("all events", func(t *testing.T) {
		events, total, err := repo.ListEvents(Filter{}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("by user", func(t *testing.T) {
		events, total, err := repo.ListEvents(Filter{UserID: "u1"}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("by type and entity", func(t *testing.T) {
		events, total, err := repo.ListEvents(Filter{EventType: entities.AuditEventDelete, EntityType: "tag"}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, e := range events {
			assert.Equal(t, entities.AuditEventDelete, e.EventType)
		}
	})

	t.Run("by status", func(t *testing.T) {
		_, total, err := repo.ListEvents(Filter{Status: entities.AuditStatusFailed}, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.ListEvents(Filter{UserID: "u1"}, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		events2, _, err := repo.ListEvents(Filter{UserID: "u1"}, 5, 5)
		require.NoError(t, err)
		assert.Len(t, events2, 5)
		assert.NotEqual(t, events[0].ID, events2[0].ID)
	})

	t.Run("default limit", func(t *testing.T) {
		events, _, err := repo.ListEvents(Filter{}, 0, -3)
		require.NoError(t, err)
		assert.Len(t, events, 20)
	})

	t.Run("order by created_at desc", func(t *testing.T) {
		events, _, err := repo.ListEvents(Filter{UserID: "u1"}, 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].CreatedAt.Before(events[i].CreatedAt))
		}
	})
}

func TestRepository_GetRecentEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventImport,
		Action:    "books_import",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventDelete,
		Action:    "genre_delete",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	events, err := repo.GetRecentEvents("u1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "genre_delete", events[0].Action)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventImport,
		Action:    "old_import",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventDelete,
		Action:    "new_delete",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-1 * time.Hour),
	}))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.ListEvents(Filter{}, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new_delete", events[0].Action)
}

func TestRepository_GetEventByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	event := &entities.AuditEvent{
		UserID:    "u1",
		EventType: entities.AuditEventUpdate,
		Action:    "user_update",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, repo.LogEvent(event))

	t.Run("existing event", func(t *testing.T) {
		found, err := repo.GetEventByID(event.ID)
		require.NoError(t, err)
		assert.Equal(t, "user_update", found.Action)
	})

	t.Run("non-existing event", func(t *testing.T) {
		_, err := repo.GetEventByID(999)
		assert.Error(t, err)
	})
}
