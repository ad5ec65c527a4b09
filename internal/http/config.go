package http

import (
	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/catalog"
	"github.com/mrlokans/booknet/internal/services"
	"github.com/mrlokans/booknet/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Backend-backed entity services
	Services *services.Registry

	// Storefront
	Catalog *catalog.Catalog
	Ratings RatingStore

	// Authentication
	Sessions       *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController
	CSRFKey        []byte
	SecureCookies  bool
	HSTSMaxAge     int

	// Audit trail and import archive
	Auditor *audit.Service
	Archive ImportArchive

	// Task queue client (optional). Without it async imports are rejected.
	TaskClient   *tasks.Client
	AuditCleanup CleanupRunner

	// ReadOnly freezes admin writes except audit maintenance
	ReadOnly bool

	// Health checks by name
	Checks map[string]Pinger

	// Application info
	Version string
}
