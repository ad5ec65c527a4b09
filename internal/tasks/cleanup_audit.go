package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"
)

const defaultAuditRetentionDays = 30

// AuditEventCleaner deletes expired audit events and records maintenance runs.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
	LogMaintenance(action, description string, err error)
}

// UploadSweeper removes import files abandoned in the archive.
type UploadSweeper interface {
	RemoveOlderThan(age time.Duration) (int, error)
}

// CleanupDeps are the collaborators of the cleanup processor. Uploads is optional.
type CleanupDeps struct {
	Events  AuditEventCleaner
	Uploads UploadSweeper
}

// CleanupAuditEventsTask applies the audit retention period and clears
// import uploads older than ArchiveMaxAge.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) retentionDays() int {
	if t.RetentionDays <= 0 {
		return defaultAuditRetentionDays
	}
	return t.RetentionDays
}

// Config returns the queue configuration for audit cleanup tasks.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_audit_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// cleanupReport collects what one cleanup run did.
type cleanupReport struct {
	days      int
	events    int64
	uploads   int
	eventsErr error
	uploadErr error
}

func (r cleanupReport) description() string {
	var parts []string
	if r.eventsErr == nil {
		parts = append(parts, fmt.Sprintf("Eliminados %d eventos con más de %d días", r.events, r.days))
	}
	if r.uploads > 0 {
		parts = append(parts, fmt.Sprintf("%d archivos de importación abandonados", r.uploads))
	}
	return strings.Join(parts, "; ")
}

func (r cleanupReport) err() error {
	var errs []error
	if r.eventsErr != nil {
		errs = append(errs, fmt.Errorf("cleanup audit events: %w", r.eventsErr))
	}
	if r.uploadErr != nil {
		errs = append(errs, fmt.Errorf("sweep import uploads: %w", r.uploadErr))
	}
	return errors.Join(errs...)
}

// CleanupAuditEventsProcessor creates a processor function for
// CleanupAuditEventsTask. Each run is reported through LogMaintenance,
// and the task fails if either step failed.
func CleanupAuditEventsProcessor(deps CleanupDeps) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(ctx context.Context, task CleanupAuditEventsTask) error {
		if deps.Events == nil {
			return fmt.Errorf("audit event cleaner not configured")
		}

		report := cleanupReport{days: task.retentionDays()}
		report.events, report.eventsErr = deps.Events.DeleteOldEvents(time.Duration(report.days) * 24 * time.Hour)
		if deps.Uploads != nil {
			report.uploads, report.uploadErr = deps.Uploads.RemoveOlderThan(ArchiveMaxAge)
		}

		err := report.err()
		if err != nil {
			log.Printf("[TASK ERROR] Cleanup: %v", err)
		} else {
			log.Printf("[TASK] Cleanup removed %d audit events and %d stale uploads", report.events, report.uploads)
		}
		deps.Events.LogMaintenance("audit_cleanup", report.description(), err)
		return err
	}
}

// NewCleanupAuditEventsQueue creates a backlite queue for audit cleanup tasks.
func NewCleanupAuditEventsQueue(deps CleanupDeps) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(deps))
}
