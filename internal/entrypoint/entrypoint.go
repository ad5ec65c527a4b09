package entrypoint

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/catalog"
	"github.com/mrlokans/booknet/internal/config"
	"github.com/mrlokans/booknet/internal/crypto"
	"github.com/mrlokans/booknet/internal/database"
	auditRepo "github.com/mrlokans/booknet/internal/database/audit"
	"github.com/mrlokans/booknet/internal/database/ratings"
	http_controllers "github.com/mrlokans/booknet/internal/http"
	"github.com/mrlokans/booknet/internal/scheduler"
	"github.com/mrlokans/booknet/internal/services"
	"github.com/mrlokans/booknet/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work stops after in-flight requests have finished
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// NewServices builds the backend client and the entity services on top of it.
func NewServices(cfg *config.Config) (*services.Registry, error) {
	api, err := backend.NewClient(backend.Config{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           cfg.Backend.Timeout,
		MaxRetries:        cfg.Backend.MaxRetries,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Burst:             cfg.Backend.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	check, err := services.ParseHierarchyCheck(cfg.Genres.HierarchyCheck)
	if err != nil {
		return nil, err
	}

	return services.NewRegistry(api, services.Options{GenreHierarchy: check}), nil
}

// SessionSecret decodes the configured secret, accepted as base64 or as
// raw text. An empty value yields a fresh secret, so sessions do not
// survive a restart.
func SessionSecret(configured string) ([]byte, error) {
	if configured == "" {
		generated, err := crypto.GenerateSecret()
		if err != nil {
			return nil, err
		}
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist sessions across restarts)")
		configured = generated
	}

	secret := []byte(configured)
	if decoded, err := base64.StdEncoding.DecodeString(configured); err == nil && len(decoded) >= crypto.MinSecretSize {
		secret = decoded
	}
	if len(secret) < crypto.MinSecretSize {
		return nil, fmt.Errorf("AUTH_SESSION_SECRET must be at least %d bytes", crypto.MinSecretSize)
	}
	return secret, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting BookNet v%s", version)

	registry, err := NewServices(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	log.Printf("Backend: %s", cfg.Backend.BaseURL)
	if cfg.Global.ReadOnly {
		log.Printf("Read-only mode: admin writes are disabled")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	secret, err := SessionSecret(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Invalid session secret: %v", err)
	}
	keys, err := crypto.DeriveKeys(secret)
	if err != nil {
		log.Fatalf("Failed to derive keys: %v", err)
	}
	sealer, err := crypto.NewEncryptor(keys.SessionToken)
	if err != nil {
		log.Fatalf("Failed to create token sealer: %v", err)
	}

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	defer auditService.Wait()
	archive := audit.NewArchive(cfg.Import.ArchiveDir)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessions, err := auth.NewSessionManager(sqlDB, cfg.Auth, sealer)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authController := auth.NewAuthController(registry.Auth, sessions, auditService, cfg.Auth)
	defer authController.Stop()

	checks := map[string]http_controllers.Pinger{"database": db}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(tasks.CleanupDeps{Events: auditService, Uploads: archive}),
			tasks.NewImportBooksQueue(tasks.ImportBooksDeps{
				Books:   registry.Books,
				Archive: archive,
				Tokens:  sealer,
				Auditor: auditService,
			}),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)
		checks["tasks"] = taskClient

		if cfg.Audit.CleanupEnabled {
			cleanupScheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
			if err := cleanupScheduler.Start(taskCtx); err != nil {
				log.Printf("WARNING: audit cleanup disabled: %v", err)
				cleanupScheduler = nil
			}
		}
	} else {
		log.Printf("Task queue disabled: imports run synchronously and audit events are kept forever")
	}

	routerCfg := http_controllers.RouterConfig{
		Services:       registry,
		Catalog:        catalog.Default(),
		Ratings:        ratings.NewRepository(db.DB),
		Sessions:       sessions,
		AuthMiddleware: auth.NewMiddleware(sessions),
		AuthController: authController,
		CSRFKey:        keys.CSRF,
		SecureCookies:  cfg.Auth.SecureCookies,
		HSTSMaxAge:     int((365 * 24 * time.Hour).Seconds()),
		Auditor:        auditService,
		Archive:        archive,
		ReadOnly:       cfg.Global.ReadOnly,
		Checks:         checks,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}
	if cleanupScheduler != nil {
		routerCfg.AuditCleanup = cleanupScheduler
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
