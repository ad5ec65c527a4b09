package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:3000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3, cfg.Backend.MaxRetries)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.True(t, cfg.Auth.SecureCookies)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, "full", cfg.Genres.HierarchyCheck)
	assert.Equal(t, 30*24*time.Hour, cfg.Audit.Retention())
	assert.Equal(t, "30 3 * * *", cfg.Audit.CleanupSchedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.False(t, cfg.Global.ReadOnly)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "https://api.booknet.es")
	t.Setenv("BACKEND_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("AUTH_SECURE_COOKIES", "false")
	t.Setenv("GENRE_HIERARCHY_CHECK", "shallow")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("READ_ONLY", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "https://api.booknet.es", cfg.Backend.BaseURL)
	assert.InDelta(t, 2.5, cfg.Backend.RequestsPerSecond, 0.0001)
	assert.False(t, cfg.Auth.SecureCookies)
	assert.Equal(t, "shallow", cfg.Genres.HierarchyCheck)
	assert.Equal(t, 7*24*time.Hour, cfg.Audit.Retention())
	assert.True(t, cfg.Global.ReadOnly)
}
