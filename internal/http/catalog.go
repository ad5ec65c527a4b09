package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/catalog"
	"github.com/mrlokans/booknet/internal/database/ratings"
	"github.com/mrlokans/booknet/internal/entities"
)

var (
	MsgInvalidScore      = fmt.Sprintf("La puntuación debe estar entre %d y %d", entities.MinRatingScore, entities.MaxRatingScore)
	MsgCarouselNotFound  = "El carrusel no existe"
	MsgSearchTermMissing = "Debe indicar un término de búsqueda"
)

// RatingStore persists reader scores for catalog books.
type RatingStore interface {
	Rate(bookID, username string, score int) (*entities.Rating, error)
	Get(bookID, username string) (*entities.Rating, error)
	Delete(bookID, username string) error
	Summary(bookID string) (entities.RatingSummary, error)
	Summaries(bookIDs []string) (map[string]entities.RatingSummary, error)
}

// CatalogController serves the storefront built from the static catalog.
type CatalogController struct {
	catalog *catalog.Catalog
	ratings RatingStore
}

func NewCatalogController(cat *catalog.Catalog, ratings RatingStore) *CatalogController {
	return &CatalogController{catalog: cat, ratings: ratings}
}

// HomeResponse is the storefront landing page.
type HomeResponse struct {
	Featured  catalog.Book                      `json:"featured"`
	Carousels []catalog.CarouselView            `json:"carousels"`
	Authors   []catalog.Author                  `json:"authors"`
	Ratings   map[string]entities.RatingSummary `json:"ratings,omitempty"`
}

type BookDetailResponse struct {
	Book     catalog.Book           `json:"book"`
	Rating   entities.RatingSummary `json:"rating"`
	MyRating *entities.Rating       `json:"myRating,omitempty"`
}

type rateRequest struct {
	Score int `json:"score" form:"score"`
}

// Home handles GET /api/catalog
func (cc *CatalogController) Home(c *gin.Context) {
	carousels := cc.catalog.Carousels()
	featured := cc.catalog.Featured()

	ids := []string{featured.ID}
	for _, car := range carousels {
		for _, b := range car.Books {
			ids = append(ids, b.ID)
		}
	}

	resp := HomeResponse{
		Featured:  featured,
		Carousels: carousels,
		Authors:   cc.catalog.Authors(),
	}
	if cc.ratings != nil {
		summaries, err := cc.ratings.Summaries(ids)
		if err != nil {
			respondInternalError(c, err, "load rating summaries")
			return
		}
		resp.Ratings = summaries
	}
	c.JSON(http.StatusOK, resp)
}

// Carousel handles GET /api/catalog/carousels/:key
func (cc *CatalogController) Carousel(c *gin.Context) {
	view, ok := cc.catalog.Carousel(c.Param("key"))
	if !ok {
		respondNotFound(c, MsgCarouselNotFound)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Search handles GET /api/catalog/search?q=
func (cc *CatalogController) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		respondBadRequest(c, MsgSearchTermMissing)
		return
	}
	books := cc.catalog.Search(term)
	if books == nil {
		books = []catalog.Book{}
	}
	c.JSON(http.StatusOK, gin.H{"items": books, "total": len(books)})
}

// Book handles GET /api/catalog/books/:id
func (cc *CatalogController) Book(c *gin.Context) {
	book, ok := cc.catalog.Book(c.Param("id"))
	if !ok {
		respondNotFound(c, MsgBookNotInCatalog)
		return
	}

	resp := BookDetailResponse{Book: book, Rating: entities.RatingSummary{BookID: book.ID}}
	if cc.ratings != nil {
		summary, err := cc.ratings.Summary(book.ID)
		if err != nil {
			respondInternalError(c, err, "load rating summary")
			return
		}
		resp.Rating = summary

		if session := auth.GetSession(c); session.Authenticated {
			mine, err := cc.ratings.Get(book.ID, session.Username)
			if err != nil {
				respondInternalError(c, err, "load rating")
				return
			}
			resp.MyRating = mine
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Rate handles POST /api/catalog/books/:id/rating
func (cc *CatalogController) Rate(c *gin.Context) {
	book, ok := cc.catalog.Book(c.Param("id"))
	if !ok {
		respondNotFound(c, MsgBookNotInCatalog)
		return
	}

	var req rateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MsgInvalidBody)
		return
	}

	username := auth.GetSession(c).Username
	rating, err := cc.ratings.Rate(book.ID, username, req.Score)
	if errors.Is(err, ratings.ErrInvalidScore) {
		respondBadRequest(c, MsgInvalidScore)
		return
	}
	if err != nil {
		respondInternalError(c, err, "rate book")
		return
	}

	summary, err := cc.ratings.Summary(book.ID)
	if err != nil {
		respondInternalError(c, err, "load rating summary")
		return
	}
	c.JSON(http.StatusOK, BookDetailResponse{Book: book, Rating: summary, MyRating: rating})
}

// Unrate handles DELETE /api/catalog/books/:id/rating
func (cc *CatalogController) Unrate(c *gin.Context) {
	book, ok := cc.catalog.Book(c.Param("id"))
	if !ok {
		respondNotFound(c, MsgBookNotInCatalog)
		return
	}

	if err := cc.ratings.Delete(book.ID, auth.GetSession(c).Username); err != nil {
		respondInternalError(c, err, "delete rating")
		return
	}

	summary, err := cc.ratings.Summary(book.ID)
	if err != nil {
		respondInternalError(c, err, "load rating summary")
		return
	}
	c.JSON(http.StatusOK, BookDetailResponse{Book: book, Rating: summary})
}
