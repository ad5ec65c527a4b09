package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
	"github.com/mrlokans/booknet/internal/tasks"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgAsyncImportUnavailable = "La importación en segundo plano no está disponible"
	MsgImportQueued           = "Importación en cola"
)

// multipart overhead allowed on top of the file itself
const importFormSlack = 1 << 20

// BookImporter uploads a bulk import file to the backend.
type BookImporter interface {
	ImportFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*entities.ImportResult, error)
}

// ImportArchive spools uploads for background processing.
type ImportArchive interface {
	Save(r io.Reader) (string, error)
	Remove(name string) error
}

// TaskEnqueuer adds tasks to the background queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error)
}

// SealedTokenSource returns the caller's backend token as stored in the
// session, still sealed.
type SealedTokenSource interface {
	SealedToken(ctx context.Context) string
}

// ImportAuditor records import outcomes.
type ImportAuditor interface {
	LogImport(actor audit.Actor, filename string, result *entities.ImportResult, err error)
}

// ImportController handles POST /api/admin/books/import.
type ImportController struct {
	books   BookImporter
	archive ImportArchive
	queue   TaskEnqueuer
	tokens  SealedTokenSource
	auditor ImportAuditor
}

// NewImportController creates the import controller. Archive, queue and
// tokens are only needed for ?async=true and may be nil.
func NewImportController(books BookImporter, archive ImportArchive, queue TaskEnqueuer, tokens SealedTokenSource, auditor ImportAuditor) *ImportController {
	return &ImportController{
		books:   books,
		archive: archive,
		queue:   queue,
		tokens:  tokens,
		auditor: auditor,
	}
}

func (ic *ImportController) asyncEnabled() bool {
	return ic.archive != nil && ic.queue != nil && ic.tokens != nil
}

// Import validates the uploaded file and either forwards it to the backend
// right away or, with ?async=true, queues it.
func (ic *ImportController) Import(c *gin.Context) {
	async := c.Query("async") == "true"
	if async && !ic.asyncEnabled() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: MsgAsyncImportUnavailable, Code: "unavailable"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImportBytes+importFormSlack)
	header, err := c.FormFile(services.ImportField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondBadRequest(c, services.MsgImportFileSize)
			return
		}
		respondBadRequest(c, services.MsgImportFileRequired)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := services.ValidateImportFile(header.Filename, contentType, header.Size); err != nil {
		respondServiceError(c, err, "import books")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondInternalError(c, err, "open uploaded file")
		return
	}
	defer file.Close()

	if async {
		ic.enqueue(c, header.Filename, contentType, header.Size, file)
		return
	}

	result, err := ic.books.ImportFile(c.Request.Context(), header.Filename, contentType, header.Size, file)
	if ic.auditor != nil && !validation.IsValidationError(err) {
		ic.auditor.LogImport(auth.Actor(c), header.Filename, result, err)
	}
	if err != nil {
		respondServiceError(c, err, "import books")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ic *ImportController) enqueue(c *gin.Context, filename, contentType string, size int64, file io.Reader) {
	name, err := ic.archive.Save(file)
	if err != nil {
		respondInternalError(c, err, "archive import file")
		return
	}

	actor := auth.Actor(c)
	ctx := c.Request.Context()
	ids, err := ic.queue.Enqueue(ctx, tasks.ImportBooksTask{
		ArchiveName: name,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UserID:      actor.UserID,
		Username:    actor.Username,
		IP:          actor.IP,
		SealedToken: ic.tokens.SealedToken(ctx),
	})
	if err != nil {
		if rmErr := ic.archive.Remove(name); rmErr != nil {
			log.Printf("[TASK] Failed to remove archived import %s: %v", name, rmErr)
		}
		respondInternalError(c, err, "enqueue import")
		return
	}

	log.Printf("[TASK] Queued import of %s by %s as task %s", filename, actor.Username, ids[0])
	respondAccepted(c, MsgImportQueued, gin.H{"task_id": ids[0]})
}
