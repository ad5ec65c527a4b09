package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource map[int][2]string

func (s staticSource) ChapterContent(bookID string, n int) (string, string, bool) {
	ch, ok := s[n]
	return ch[0], ch[1], ok
}

func TestOpen(t *testing.T) {
	r, err := Open("b1", "Niebla", 3)
	require.NoError(t, err)
	assert.Equal(t, ModePreviewing, r.Mode)
	assert.Equal(t, 1, r.CurrentChapter)

	_, err = Open("b1", "Vacío", 0)
	assert.ErrorIs(t, err, ErrNoChapters)
}

func TestNavigationStaysInBounds(t *testing.T) {
	r, err := Open("b1", "Niebla", 3)
	require.NoError(t, err)

	assert.False(t, r.Next(), "next is ignored while previewing")
	assert.Equal(t, 1, r.CurrentChapter)

	r.Start()
	assert.Equal(t, ModeReading, r.Mode)
	assert.False(t, r.Previous())
	assert.Equal(t, 1, r.CurrentChapter)

	assert.True(t, r.Next())
	assert.True(t, r.Next())
	assert.Equal(t, 3, r.CurrentChapter)
	assert.False(t, r.HasNext())
	assert.False(t, r.Next())
	assert.Equal(t, 3, r.CurrentChapter)

	assert.True(t, r.Previous())
	assert.Equal(t, 2, r.CurrentChapter)
	assert.True(t, r.HasPrevious())
}

func TestCloseResets(t *testing.T) {
	r, _ := Open("b1", "Niebla", 5)
	r.Start()
	require.NoError(t, r.GoTo(4))

	r.Close()
	assert.Equal(t, ModePreviewing, r.Mode)
	assert.Equal(t, 1, r.CurrentChapter)

	r.Start()
	assert.Equal(t, 1, r.CurrentChapter)
}

func TestGoTo(t *testing.T) {
	r, _ := Open("b1", "Niebla", 5)
	assert.ErrorIs(t, r.GoTo(2), ErrNotReading)

	r.Start()
	assert.ErrorIs(t, r.GoTo(0), ErrChapterOutOfRange)
	assert.ErrorIs(t, r.GoTo(6), ErrChapterOutOfRange)
	assert.Equal(t, 1, r.CurrentChapter)

	require.NoError(t, r.GoTo(5))
	assert.Equal(t, 5, r.CurrentChapter)
}

func TestSingleChapterBook(t *testing.T) {
	r, _ := Open("b1", "Relato", 1)
	r.Start()
	assert.False(t, r.Next())
	assert.False(t, r.Previous())
	assert.Equal(t, 1, r.CurrentChapter)
}

func TestRestore(t *testing.T) {
	r, err := Restore(State{BookID: "b1", Mode: ModeReading, CurrentChapter: 3}, "Niebla", 5)
	require.NoError(t, err)
	assert.Equal(t, ModeReading, r.Mode)
	assert.Equal(t, 3, r.CurrentChapter)
	assert.Equal(t, State{BookID: "b1", Mode: ModeReading, CurrentChapter: 3}, r.State())

	// Saved chapter no longer fits the book.
	r, err = Restore(State{BookID: "b1", Mode: ModeReading, CurrentChapter: 9}, "Niebla", 5)
	require.NoError(t, err)
	assert.Equal(t, ModePreviewing, r.Mode)
	assert.Equal(t, 1, r.CurrentChapter)
}

func TestContent(t *testing.T) {
	src := staticSource{
		1: {"Inicio", `<p>Había una vez</p><script>alert("x")</script>`},
		2: {"", "<p>Sin título</p>"},
	}
	r, _ := Open("b1", "Cuentos", 3)
	r.Start()

	page := r.Content(src)
	assert.Equal(t, "Inicio", page.Title)
	assert.Equal(t, "<p>Había una vez</p>", page.Content)
	assert.False(t, page.Placeholder)

	r.Next()
	page = r.Content(src)
	assert.Equal(t, "Capítulo 2", page.Title)

	r.Next()
	page = r.Content(src)
	assert.True(t, page.Placeholder)
	assert.Equal(t, 3, page.Number)
	assert.Contains(t, page.Content, "Capítulo 3 de «Cuentos»")
}

func TestPlaceholderEscapesTitle(t *testing.T) {
	page := Placeholder(`<img src=x onerror=alert(1)>`, 1)
	assert.NotContains(t, page.Content, "<img")
	assert.True(t, page.Placeholder)
}

func TestView(t *testing.T) {
	r, _ := Open("b1", "Cuentos", 2)

	v := r.View(nil)
	assert.Nil(t, v.Page)
	assert.Equal(t, ModePreviewing, v.Mode)
	assert.False(t, v.HasNext)

	r.Start()
	v = r.View(nil)
	require.NotNil(t, v.Page)
	assert.True(t, v.Page.Placeholder)
	assert.True(t, v.HasNext)
	assert.False(t, v.HasPrevious)
}
