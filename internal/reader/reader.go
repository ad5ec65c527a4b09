// Package reader implements the book content reader: a book opens in
// preview, switches to reading, and pages through chapters that always
// stay within [1, TotalChapters].
package reader

import (
	"encoding/gob"
	"errors"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
)

type Mode string

const (
	ModePreviewing Mode = "previewing"
	ModeReading    Mode = "reading"
)

var (
	ErrNoChapters        = errors.New("book has no chapters")
	ErrChapterOutOfRange = errors.New("chapter out of range")
	ErrNotReading        = errors.New("reader is not in reading mode")
)

const MsgChapterUnavailable = "El contenido de este capítulo todavía no está disponible. Vuelve pronto para seguir leyendo."

// ContentSource looks up the stored text of a chapter.
type ContentSource interface {
	ChapterContent(bookID string, n int) (title, body string, ok bool)
}

// State is the persisted part of a Reader. It is stored in the user's
// session and dropped at logout or expiry.
type State struct {
	BookID         string
	Mode           Mode
	CurrentChapter int
}

func init() {
	gob.Register(State{})
}

type Reader struct {
	BookID         string
	Title          string
	TotalChapters  int
	Mode           Mode
	CurrentChapter int
}

// Open starts a reader in preview at chapter 1.
func Open(bookID, title string, totalChapters int) (*Reader, error) {
	if totalChapters < 1 {
		return nil, ErrNoChapters
	}
	return &Reader{
		BookID:         bookID,
		Title:          title,
		TotalChapters:  totalChapters,
		Mode:           ModePreviewing,
		CurrentChapter: 1,
	}, nil
}

// Restore rebuilds a reader from a saved state. A state that does not fit
// the book falls back to a fresh preview.
func Restore(state State, title string, totalChapters int) (*Reader, error) {
	r, err := Open(state.BookID, title, totalChapters)
	if err != nil {
		return nil, err
	}
	if state.Mode == ModeReading && state.CurrentChapter >= 1 && state.CurrentChapter <= totalChapters {
		r.Mode = ModeReading
		r.CurrentChapter = state.CurrentChapter
	}
	return r, nil
}

func (r *Reader) State() State {
	return State{BookID: r.BookID, Mode: r.Mode, CurrentChapter: r.CurrentChapter}
}

// Start switches from preview to reading. Calling it while reading is a no-op.
func (r *Reader) Start() {
	r.Mode = ModeReading
}

// Next advances one chapter. It does nothing at the last chapter or in
// preview and reports whether the chapter changed.
func (r *Reader) Next() bool {
	if r.Mode != ModeReading || r.CurrentChapter >= r.TotalChapters {
		return false
	}
	r.CurrentChapter++
	return true
}

// Previous goes back one chapter. It does nothing at chapter 1 or in preview.
func (r *Reader) Previous() bool {
	if r.Mode != ModeReading || r.CurrentChapter <= 1 {
		return false
	}
	r.CurrentChapter--
	return true
}

// GoTo jumps to chapter n. On error the reader is unchanged.
func (r *Reader) GoTo(n int) error {
	if r.Mode != ModeReading {
		return ErrNotReading
	}
	if n < 1 || n > r.TotalChapters {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrChapterOutOfRange, n, r.TotalChapters)
	}
	r.CurrentChapter = n
	return nil
}

// Close returns to preview and rewinds to chapter 1.
func (r *Reader) Close() {
	r.Mode = ModePreviewing
	r.CurrentChapter = 1
}

func (r *Reader) HasNext() bool {
	return r.Mode == ModeReading && r.CurrentChapter < r.TotalChapters
}

func (r *Reader) HasPrevious() bool {
	return r.Mode == ModeReading && r.CurrentChapter > 1
}

// Page is the current chapter ready for display.
type Page struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Placeholder bool   `json:"placeholder"`
}

var contentPolicy = bluemonday.UGCPolicy()

// Content returns the current chapter, or a generated placeholder when the
// source has no text for it. Stored text is sanitized.
func (r *Reader) Content(src ContentSource) Page {
	n := r.CurrentChapter
	if src != nil {
		if title, body, ok := src.ChapterContent(r.BookID, n); ok && body != "" {
			if title == "" {
				title = defaultChapterTitle(n)
			}
			return Page{
				Number:  n,
				Title:   contentPolicy.Sanitize(title),
				Content: contentPolicy.Sanitize(body),
			}
		}
	}
	return Placeholder(r.Title, n)
}

// Placeholder generates the page shown for a chapter without content.
func Placeholder(bookTitle string, n int) Page {
	return Page{
		Number:      n,
		Title:       defaultChapterTitle(n),
		Content:     contentPolicy.Sanitize(fmt.Sprintf("<p>Capítulo %d de «%s».</p><p>%s</p>", n, html.EscapeString(bookTitle), MsgChapterUnavailable)),
		Placeholder: true,
	}
}

func defaultChapterTitle(n int) string {
	return fmt.Sprintf("Capítulo %d", n)
}

// View is the JSON representation of the reader.
type View struct {
	BookID         string `json:"bookId"`
	Title          string `json:"title"`
	Mode           Mode   `json:"mode"`
	CurrentChapter int    `json:"currentChapter"`
	TotalChapters  int    `json:"totalChapters"`
	HasNext        bool   `json:"hasNext"`
	HasPrevious    bool   `json:"hasPrevious"`
	Page           *Page  `json:"page,omitempty"`
}

// View renders the reader. The page is included only while reading.
func (r *Reader) View(src ContentSource) View {
	v := View{
		BookID:         r.BookID,
		Title:          r.Title,
		Mode:           r.Mode,
		CurrentChapter: r.CurrentChapter,
		TotalChapters:  r.TotalChapters,
		HasNext:        r.HasNext(),
		HasPrevious:    r.HasPrevious(),
	}
	if r.Mode == ModeReading {
		page := r.Content(src)
		v.Page = &page
	}
	return v
}
