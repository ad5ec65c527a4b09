// Package catalog holds the static storefront data: books with their
// chapters, the featured hero, carousels and the author showcase. The
// catalog is read-only after construction and safe for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mrlokans/booknet/internal/entities"
)

// Chapter is one readable chapter. Body may contain basic HTML.
type Chapter struct {
	Number int
	Title  string
	Body   string
}

type Book struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Author        string             `json:"author"`
	Description   string             `json:"description"`
	CoverImage    string             `json:"coverImage"`
	Year          int                `json:"year"`
	Genres        []string           `json:"genres"`
	AgeRating     entities.AgeRating `json:"ageRating"`
	TotalChapters int                `json:"totalChapters"`
	Chapters      []Chapter          `json:"-"`
}

type Author struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Nacionalidad string `json:"nacionalidad"`
	Foto         string `json:"foto"`
}

// Carousel is a named row of books.
type Carousel struct {
	Key     string
	Title   string
	BookIDs []string
}

// CarouselView is a carousel with its books resolved.
type CarouselView struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Books []Book `json:"books"`
}

// Catalog indexes the static data.
type Catalog struct {
	books     map[string]Book
	order     []string
	carousels []Carousel
	featured  string
	authors   []Author
}

// New validates and indexes the data. Every carousel entry and the featured
// book must reference a known book.
func New(books []Book, carousels []Carousel, featured string, authors []Author) (*Catalog, error) {
	if len(books) == 0 {
		return nil, errors.New("catalog has no books")
	}

	policy := bluemonday.StrictPolicy()
	c := &Catalog{
		books:    make(map[string]Book, len(books)),
		featured: featured,
		authors:  authors,
	}

	for _, b := range books {
		if b.ID == "" {
			return nil, fmt.Errorf("book %q has no id", b.Title)
		}
		if _, dup := c.books[b.ID]; dup {
			return nil, fmt.Errorf("duplicate book id %q", b.ID)
		}
		if b.TotalChapters < 1 {
			return nil, fmt.Errorf("book %q must have at least one chapter", b.ID)
		}
		for _, ch := range b.Chapters {
			if ch.Number < 1 || ch.Number > b.TotalChapters {
				return nil, fmt.Errorf("book %q: chapter %d out of range", b.ID, ch.Number)
			}
		}
		b.Description = policy.Sanitize(b.Description)
		c.books[b.ID] = b
		c.order = append(c.order, b.ID)
	}

	if _, ok := c.books[featured]; !ok {
		return nil, fmt.Errorf("featured book %q not found", featured)
	}
	for _, car := range carousels {
		for _, id := range car.BookIDs {
			if _, ok := c.books[id]; !ok {
				return nil, fmt.Errorf("carousel %q references unknown book %q", car.Key, id)
			}
		}
	}
	c.carousels = carousels

	return c, nil
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	c, err := New(defaultBooks, defaultCarousels, defaultFeatured, defaultAuthors)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Book(id string) (Book, bool) {
	b, ok := c.books[id]
	return b, ok
}

// Books returns all books in declaration order.
func (c *Catalog) Books() []Book {
	out := make([]Book, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.books[id])
	}
	return out
}

func (c *Catalog) Featured() Book {
	return c.books[c.featured]
}

func (c *Catalog) Authors() []Author {
	return c.authors
}

func (c *Catalog) Carousels() []CarouselView {
	out := make([]CarouselView, 0, len(c.carousels))
	for _, car := range c.carousels {
		out = append(out, c.view(car))
	}
	return out
}

func (c *Catalog) Carousel(key string) (CarouselView, bool) {
	for _, car := range c.carousels {
		if car.Key == key {
			return c.view(car), true
		}
	}
	return CarouselView{}, false
}

// Search matches term against titles and author names, ignoring case.
func (c *Catalog) Search(term string) []Book {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []Book
	for _, id := range c.order {
		b := c.books[id]
		if strings.Contains(strings.ToLower(b.Title), term) || strings.Contains(strings.ToLower(b.Author), term) {
			out = append(out, b)
		}
	}
	return out
}

// ChapterContent returns the stored text of chapter n of a book.
func (c *Catalog) ChapterContent(bookID string, n int) (title, body string, ok bool) {
	b, found := c.books[bookID]
	if !found {
		return "", "", false
	}
	for _, ch := range b.Chapters {
		if ch.Number == n {
			return ch.Title, ch.Body, true
		}
	}
	return "", "", false
}

func (c *Catalog) view(car Carousel) CarouselView {
	v := CarouselView{Key: car.Key, Title: car.Title, Books: make([]Book, 0, len(car.BookIDs))}
	for _, id := range car.BookIDs {
		v.Books = append(v.Books, c.books[id])
	}
	return v
}
