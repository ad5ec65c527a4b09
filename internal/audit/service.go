package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/booknet/internal/database/audit"
	"github.com/mrlokans/booknet/internal/entities"
)

const maxErrorLen = 500

// Actor identifies who performed an audited action.
type Actor struct {
	UserID   string
	Username string
	IP       string
}

// SystemActor is used for scheduled maintenance.
var SystemActor = Actor{Username: "system"}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("[AUDIT] Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Wait blocks until every LogAsync call has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogMutation records a create, update or delete on a backend entity.
// A non-nil err marks the event as failed.
func (s *Service) LogMutation(actor Actor, eventType entities.AuditEventType, entityType, entityID, description string, err error) {
	event := newEvent(actor, eventType, entityType+"_"+string(eventType), description, err)
	event.EntityType = entityType
	event.EntityID = entityID
	s.LogAsync(event)
}

// LogImport records a bulk book import.
func (s *Service) LogImport(actor Actor, filename string, result *entities.ImportResult, err error) {
	description := fmt.Sprintf("Importación de libros desde %s", filename)
	event := newEvent(actor, entities.AuditEventImport, "books_import", description, err)
	event.EntityType = "book"

	metadata := map[string]any{"filename": filename}
	if result != nil {
		metadata["imported"] = result.Imported
		metadata["failed"] = result.Failed
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(event)
}

// LogAuth records a login or logout.
func (s *Service) LogAuth(actor Actor, action string, success bool) {
	event := newEvent(actor, entities.AuditEventAuth, action, "", nil)
	if !success {
		event.Status = entities.AuditStatusFailed
	}
	s.LogAsync(event)
}

// LogMaintenance records a scheduled cleanup.
func (s *Service) LogMaintenance(action, description string, err error) {
	s.LogAsync(newEvent(SystemActor, entities.AuditEventMaintenance, action, description, err))
}

func (s *Service) ListEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.ListEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the retention period.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func newEvent(actor Actor, eventType entities.AuditEventType, action, description string, err error) *entities.AuditEvent {
	event := &entities.AuditEvent{
		UserID:      actor.UserID,
		Username:    actor.Username,
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		IPAddress:   actor.IP,
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
	return event
}

// truncate shortens s to at most maxLen characters.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
