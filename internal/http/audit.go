package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	auditRepo "github.com/mrlokans/booknet/internal/database/audit"
	"github.com/mrlokans/booknet/internal/entities"
)

const (
	defaultAuditPageSize = 25
	maxAuditPageSize     = 100

	MsgAuditCleanupQueued = "Limpieza de auditoría en cola"
)

// AuditEventLister reads the audit trail.
type AuditEventLister interface {
	ListEvents(filter auditRepo.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// CleanupRunner triggers and reports the audit retention job.
type CleanupRunner interface {
	RunNow(ctx context.Context) (string, error)
	IsRunning() bool
	NextRunTime() *time.Time
}

type AuditController struct {
	events  AuditEventLister
	cleanup CleanupRunner
}

func NewAuditController(events AuditEventLister, cleanup CleanupRunner) *AuditController {
	return &AuditController{events: events, cleanup: cleanup}
}

func (ac *AuditController) RegisterRoutes(group gin.IRouter) {
	group.GET("", ac.GetAuditEvents)
	if ac.cleanup != nil {
		group.GET("/cleanup", ac.CleanupStatus)
		group.POST("/cleanup", ac.RunCleanup)
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/admin/audit?page=&limit=&type=&user_id=&entity_type=&status=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxAuditPageSize {
		limit = defaultAuditPageSize
	}
	offset := (page - 1) * limit

	filter := auditRepo.Filter{
		UserID:     c.Query("user_id"),
		EventType:  entities.AuditEventType(c.Query("type")),
		EntityType: c.Query("entity_type"),
		Status:     entities.AuditStatus(c.Query("status")),
	}

	events, total, err := ac.events.ListEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"page":         page,
		"limit":        limit,
		"total_pages":  totalPages,
		"total_events": total,
		"event_types":  eventTypes,
	})
}

// CleanupStatus handles GET /api/admin/audit/cleanup
func (ac *AuditController) CleanupStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":  ac.cleanup.IsRunning(),
		"next_run": ac.cleanup.NextRunTime(),
	})
}

// RunCleanup handles POST /api/admin/audit/cleanup
func (ac *AuditController) RunCleanup(c *gin.Context) {
	id, err := ac.cleanup.RunNow(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}
	respondAccepted(c, MsgAuditCleanupQueued, gin.H{"task_id": id})
}

var eventTypes = []entities.AuditEventType{
	entities.AuditEventCreate,
	entities.AuditEventUpdate,
	entities.AuditEventDelete,
	entities.AuditEventImport,
	entities.AuditEventAuth,
	entities.AuditEventMaintenance,
}
