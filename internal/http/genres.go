package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
)

// GenreTree is the hierarchy surface of the genre service.
type GenreTree interface {
	Children(ctx context.Context, parentID string, params entities.ListParams) (*entities.Page[entities.Genre], error)
	ListAll(ctx context.Context) ([]entities.Genre, error)
}

// GenreController adds the hierarchy routes next to the genre CRUD routes.
type GenreController struct {
	genres GenreTree
}

func NewGenreController(genres GenreTree) *GenreController {
	return &GenreController{genres: genres}
}

type HierarchyResponse struct {
	OK      bool       `json:"ok"`
	Genres  int        `json:"genres"`
	Cycles  [][]string `json:"cycles"`
	Orphans []string   `json:"orphans"`
}

func (gc *GenreController) RegisterRoutes(group gin.IRouter) {
	group.GET("/hierarchy", gc.Hierarchy)
	group.GET("/:id/children", gc.Children)
}

// Children handles GET /api/admin/genres/:id/children
func (gc *GenreController) Children(c *gin.Context) {
	params, ok := parseListParams(c)
	if !ok {
		return
	}
	page, err := gc.genres.Children(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondServiceError(c, err, "list genre children")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Hierarchy handles GET /api/admin/genres/hierarchy. It walks every genre
// and reports parent cycles and dangling parents.
func (gc *GenreController) Hierarchy(c *gin.Context) {
	genres, err := gc.genres.ListAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "list genres")
		return
	}

	report := services.AnalyzeHierarchy(genres)
	resp := HierarchyResponse{
		OK:      report.OK(),
		Genres:  len(genres),
		Cycles:  report.Cycles,
		Orphans: report.Orphans,
	}
	if resp.Cycles == nil {
		resp.Cycles = [][]string{}
	}
	if resp.Orphans == nil {
		resp.Orphans = []string{}
	}
	c.JSON(http.StatusOK, resp)
}
