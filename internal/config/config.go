package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Backend
		Database
		Tasks
		Auth
		Audit
		Genres
		Import
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		ReadOnly                 bool // Blocks admin writes during backend maintenance
	}
	Backend struct {
		BaseURL           string
		Timeout           time.Duration
		MaxRetries        int
		RequestsPerSecond float64 // 0 disables outbound rate limiting
		Burst             int
	}
	Database struct {
		Path string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		SessionSecret   string // base64 or raw, at least 32 bytes; generated per process if empty
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Audit struct {
		RetentionDays   int // Days to keep audit events (default: 30)
		CleanupEnabled  bool
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Genres struct {
		HierarchyCheck string // "full" (default) or "shallow"
	}
	Import struct {
		ArchiveDir string
	}
)

// NewConfig reads configuration from the environment. Values from a .env
// file in the working directory are loaded first; real environment
// variables win.
func NewConfig() *Config {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("read_only", false)

	// Backend defaults
	v.SetDefault("backend_url", DefaultBackendURL)
	v.SetDefault("backend_timeout", "15s")
	v.SetDefault("backend_max_retries", 3)
	v.SetDefault("backend_requests_per_second", 20)
	v.SetDefault("backend_burst", 40)

	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Audit defaults
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_enabled", true)
	v.SetDefault("audit_cleanup_schedule", "30 3 * * *")

	v.SetDefault("genre_hierarchy_check", "full")

	v.SetDefault("import_archive_dir", DefaultImportArchiveDir)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			ReadOnly:                 v.GetBool("READ_ONLY"),
		},
		Backend: Backend{
			BaseURL:           v.GetString("BACKEND_URL"),
			Timeout:           v.GetDuration("BACKEND_TIMEOUT"),
			MaxRetries:        v.GetInt("BACKEND_MAX_RETRIES"),
			RequestsPerSecond: v.GetFloat64("BACKEND_REQUESTS_PER_SECOND"),
			Burst:             v.GetInt("BACKEND_BURST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupEnabled:  v.GetBool("AUDIT_CLEANUP_ENABLED"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Genres: Genres{
			HierarchyCheck: v.GetString("GENRE_HIERARCHY_CHECK"),
		},
		Import: Import{
			ArchiveDir: v.GetString("IMPORT_ARCHIVE_DIR"),
		},
	}
}

// Retention returns the retention period as a duration.
func (c Audit) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
