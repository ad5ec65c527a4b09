package tasks

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/entities"
)

// ArchiveMaxAge is how long an uploaded file may sit in the archive before
// the cleanup task treats it as abandoned. It matches the import queue
// retention.
const ArchiveMaxAge = 24 * time.Hour

// BookImporter uploads a bulk import file to the backend.
type BookImporter interface {
	ImportFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*entities.ImportResult, error)
}

// ImportArchive gives access to import files spooled at upload time.
type ImportArchive interface {
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}

// TokenOpener decrypts the backend token sealed into the task payload.
type TokenOpener interface {
	Open(encoded, additional string) (string, error)
}

// ImportAuditor records the outcome of an import.
type ImportAuditor interface {
	LogImport(actor audit.Actor, filename string, result *entities.ImportResult, err error)
}

// ImportBooksTask forwards a previously uploaded JSON file to the backend
// import endpoint on behalf of the admin who submitted it.
type ImportBooksTask struct {
	ArchiveName string `json:"archive_name"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	IP          string `json:"ip,omitempty"`
	// SealedToken is the admin's backend token, sealed with the username
	// as additional data.
	SealedToken string `json:"sealed_token"`
}

// Config returns the queue configuration for book import tasks. A single
// attempt is made; transient backend failures are retried by backend.Client
// inside that attempt.
func (t ImportBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_books",
		MaxAttempts: 1,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   ArchiveMaxAge,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBooksDeps are the collaborators of the import processor.
type ImportBooksDeps struct {
	Books   BookImporter
	Archive ImportArchive
	Tokens  TokenOpener
	Auditor ImportAuditor
}

// ImportBooksProcessor creates a processor function for ImportBooksTask.
// Every outcome is audited and the archived upload removed, so the task only
// fails when the processor itself is misconfigured.
func ImportBooksProcessor(deps ImportBooksDeps) backlite.QueueProcessor[ImportBooksTask] {
	return func(ctx context.Context, task ImportBooksTask) error {
		if deps.Books == nil || deps.Archive == nil {
			return fmt.Errorf("book importer not configured")
		}

		actor := audit.Actor{UserID: task.UserID, Username: task.Username, IP: task.IP}

		if task.SealedToken != "" && deps.Tokens != nil {
			token, err := deps.Tokens.Open(task.SealedToken, task.Username)
			if err != nil {
				finishImport(deps, task, actor, nil, fmt.Errorf("failed to open backend token: %w", err))
				return nil
			}
			ctx = backend.WithToken(ctx, token)
		}

		f, err := deps.Archive.Open(task.ArchiveName)
		if err != nil {
			finishImport(deps, task, actor, nil, fmt.Errorf("failed to open import file: %w", err))
			return nil
		}
		result, err := deps.Books.ImportFile(ctx, task.Filename, task.ContentType, task.Size, f)
		f.Close()

		finishImport(deps, task, actor, result, err)
		return nil
	}
}

// NewImportBooksQueue creates a backlite queue for book import tasks.
func NewImportBooksQueue(deps ImportBooksDeps) backlite.Queue {
	return backlite.NewQueue(ImportBooksProcessor(deps))
}

func finishImport(deps ImportBooksDeps, task ImportBooksTask, actor audit.Actor, result *entities.ImportResult, err error) {
	if err != nil {
		log.Printf("[TASK] Import of %s by %s failed: %v", task.Filename, task.Username, err)
	} else if result != nil {
		log.Printf("[TASK] Imported %d books from %s (%d failed)", result.Imported, task.Filename, result.Failed)
	}
	if deps.Auditor != nil {
		deps.Auditor.LogImport(actor, task.Filename, result, err)
	}
	if err := deps.Archive.Remove(task.ArchiveName); err != nil {
		log.Printf("[TASK] Failed to remove import file %s: %v", task.ArchiveName, err)
	}
}
