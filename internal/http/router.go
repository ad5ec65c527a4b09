package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/guard"
	"github.com/mrlokans/booknet/internal/readonly"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Route groups whose dependencies are missing from cfg are not registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies && cfg.HSTSMaxAge > 0 {
		router.Use(auth.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFKey) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFKey, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}

	// Without a session layer every caller is anonymous and guarded routes
	// reject them.
	guards := cfg.AuthMiddleware
	if guards != nil {
		router.Use(guards.Handler())
	} else {
		guards = auth.NewMiddleware(nil)
	}
	authenticated := guards.Require(guard.Authenticated)
	adminOnly := guards.Require(guard.AdminOnly)

	health := NewHealthController(cfg.Checks, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	api := router.Group("/api")

	// Storefront and reader
	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog, cfg.Ratings)
		storefront := api.Group("/catalog")
		storefront.GET("", catalogController.Home)
		storefront.GET("/search", catalogController.Search)
		storefront.GET("/carousels/:key", catalogController.Carousel)
		storefront.GET("/books/:id", catalogController.Book)
		if cfg.Ratings != nil {
			storefront.POST("/books/:id/rating", authenticated, catalogController.Rate)
			storefront.DELETE("/books/:id/rating", authenticated, catalogController.Unrate)
		}

		if cfg.Sessions != nil {
			NewReaderController(cfg.Catalog, cfg.Sessions).RegisterRoutes(api.Group("/reader", authenticated))
		}
	}

	admin := api.Group("/admin", adminOnly, readonly.NewMiddleware(cfg.ReadOnly, "/api/admin/audit/").Handler())

	var mutations MutationAuditor
	var imports ImportAuditor
	if cfg.Auditor != nil {
		mutations = cfg.Auditor
		imports = cfg.Auditor
	}

	// Entity management
	if svc := cfg.Services; svc != nil {
		NewEntityController[entities.Author, entities.AuthorInput, entities.AuthorPatch](AuthorResource, svc.Authors, mutations).
			RegisterRoutes(admin.Group("/authors"))

		books := admin.Group("/books")
		var queue TaskEnqueuer
		if cfg.TaskClient != nil {
			queue = cfg.TaskClient
		}
		var tokens SealedTokenSource
		if cfg.Sessions != nil {
			tokens = cfg.Sessions
		}
		importController := NewImportController(svc.Books, cfg.Archive, queue, tokens, imports)
		books.POST("/import", importController.Import)
		NewEntityController[entities.Book, entities.BookInput, entities.BookPatch](BookResource, svc.Books, mutations).
			RegisterRoutes(books)

		genres := admin.Group("/genres")
		NewGenreController(svc.Genres).RegisterRoutes(genres)
		NewEntityController[entities.Genre, entities.GenreInput, entities.GenrePatch](GenreResource, svc.Genres, mutations).
			RegisterRoutes(genres)

		NewEntityController[entities.Tag, entities.TagInput, entities.TagPatch](TagResource, svc.Tags, mutations).
			RegisterRoutes(admin.Group("/tags"))
		NewEntityController[entities.User, entities.UserInput, entities.UserPatch](UserResource, svc.Users, mutations).
			RegisterRoutes(admin.Group("/users"))
	}

	// Audit trail
	if cfg.Auditor != nil {
		NewAuditController(cfg.Auditor, cfg.AuditCleanup).RegisterRoutes(admin.Group("/audit"))
	}

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", adminOnly, tasksController.GetTaskStatus)
	}

	return router
}
