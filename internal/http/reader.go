package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/catalog"
	"github.com/mrlokans/booknet/internal/reader"
)

const (
	MsgReaderNotReading  = "Debe comenzar la lectura antes de cambiar de capítulo"
	MsgChapterOutOfRange = "El capítulo solicitado no existe"
)

// ReaderStateStore keeps the reader position of the current session.
type ReaderStateStore interface {
	ReaderState(ctx context.Context, bookID string) (reader.State, bool)
	PutReaderState(ctx context.Context, state reader.State)
	ClearReaderState(ctx context.Context, bookID string)
}

// ReaderController drives the book reader for catalog books. Positions
// live in the caller's session and end with it.
type ReaderController struct {
	catalog *catalog.Catalog
	states  ReaderStateStore
}

func NewReaderController(cat *catalog.Catalog, states ReaderStateStore) *ReaderController {
	return &ReaderController{catalog: cat, states: states}
}

type gotoRequest struct {
	Chapter int `json:"chapter" form:"chapter" binding:"required"`
}

func (rc *ReaderController) RegisterRoutes(group gin.IRouter) {
	group.GET("/:bookId", rc.Show)
	group.POST("/:bookId/open", rc.Open)
	group.POST("/:bookId/start", rc.step(func(r *reader.Reader) { r.Start() }))
	group.POST("/:bookId/next", rc.step(func(r *reader.Reader) { r.Next() }))
	group.POST("/:bookId/previous", rc.step(func(r *reader.Reader) { r.Previous() }))
	group.POST("/:bookId/goto", rc.GoTo)
	group.POST("/:bookId/close", rc.Close)
}

// Show returns the saved position, or a fresh preview when there is none.
func (rc *ReaderController) Show(c *gin.Context) {
	r, ok := rc.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r.View(rc.catalog))
}

// Open starts the book over in preview.
func (rc *ReaderController) Open(c *gin.Context) {
	book, ok := rc.book(c)
	if !ok {
		return
	}
	r, err := reader.Open(book.ID, book.Title, book.TotalChapters)
	if err != nil {
		respondInternalError(c, err, "open reader")
		return
	}
	rc.states.PutReaderState(c.Request.Context(), r.State())
	c.JSON(http.StatusOK, r.View(rc.catalog))
}

func (rc *ReaderController) GoTo(c *gin.Context) {
	var req gotoRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MsgInvalidBody)
		return
	}

	r, ok := rc.load(c)
	if !ok {
		return
	}
	if err := r.GoTo(req.Chapter); err != nil {
		switch {
		case errors.Is(err, reader.ErrNotReading):
			c.JSON(http.StatusConflict, ErrorResponse{Error: MsgReaderNotReading, Code: "not_reading"})
		case errors.Is(err, reader.ErrChapterOutOfRange):
			respondBadRequest(c, MsgChapterOutOfRange)
		default:
			respondInternalError(c, err, "reader goto")
		}
		return
	}
	rc.states.PutReaderState(c.Request.Context(), r.State())
	c.JSON(http.StatusOK, r.View(rc.catalog))
}

// Close returns to preview at chapter 1 and forgets the saved position.
func (rc *ReaderController) Close(c *gin.Context) {
	r, ok := rc.load(c)
	if !ok {
		return
	}
	r.Close()
	rc.states.ClearReaderState(c.Request.Context(), r.BookID)
	c.JSON(http.StatusOK, r.View(rc.catalog))
}

// step applies a navigation action and saves the result. Navigation that
// does not apply in the current mode leaves the reader unchanged.
func (rc *ReaderController) step(action func(*reader.Reader)) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := rc.load(c)
		if !ok {
			return
		}
		action(r)
		rc.states.PutReaderState(c.Request.Context(), r.State())
		c.JSON(http.StatusOK, r.View(rc.catalog))
	}
}

func (rc *ReaderController) book(c *gin.Context) (catalog.Book, bool) {
	book, ok := rc.catalog.Book(c.Param("bookId"))
	if !ok {
		respondNotFound(c, MsgBookNotInCatalog)
	}
	return book, ok
}

func (rc *ReaderController) load(c *gin.Context) (*reader.Reader, bool) {
	book, ok := rc.book(c)
	if !ok {
		return nil, false
	}

	var (
		r   *reader.Reader
		err error
	)
	if state, found := rc.states.ReaderState(c.Request.Context(), book.ID); found {
		r, err = reader.Restore(state, book.Title, book.TotalChapters)
	} else {
		r, err = reader.Open(book.ID, book.Title, book.TotalChapters)
	}
	if err != nil {
		respondInternalError(c, err, "load reader")
		return nil, false
	}
	return r, true
}
