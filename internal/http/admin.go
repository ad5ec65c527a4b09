package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknet/internal/audit"
	"github.com/mrlokans/booknet/internal/auth"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/services"
	"github.com/mrlokans/booknet/internal/validation"
)

// EntityService is the CRUD surface shared by the backend entity services.
type EntityService[T, I, P any] interface {
	List(ctx context.Context, params entities.ListParams) (*entities.Page[T], error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Searcher is implemented by services with a free-text search endpoint.
type Searcher[T any] interface {
	Search(ctx context.Context, term string, params entities.ListParams) (*entities.Page[T], error)
}

// MutationAuditor records admin changes.
type MutationAuditor interface {
	LogMutation(actor audit.Actor, eventType entities.AuditEventType, entityType, entityID, description string, err error)
}

// Resource describes how one entity type is exposed.
type Resource[T any] struct {
	// Kind is the audit entity type, e.g. "author".
	Kind    string
	Filters []string
	// Label names an entity in audit descriptions.
	Label func(*T) string
	ID    func(*T) string
}

// EntityController serves the admin CRUD routes of one entity type.
type EntityController[T, I, P any] struct {
	resource Resource[T]
	svc      EntityService[T, I, P]
	auditor  MutationAuditor
}

func NewEntityController[T, I, P any](resource Resource[T], svc EntityService[T, I, P], auditor MutationAuditor) *EntityController[T, I, P] {
	return &EntityController[T, I, P]{resource: resource, svc: svc, auditor: auditor}
}

func (ec *EntityController[T, I, P]) RegisterRoutes(group gin.IRouter) {
	group.GET("", ec.List)
	group.GET("/:id", ec.Get)
	group.POST("", ec.Create)
	group.PATCH("/:id", ec.Update)
	group.DELETE("/:id", ec.Delete)
}

// List handles GET with limit, offset, the resource filters and q. A
// non-blank q switches to the search endpoint when the service has one.
func (ec *EntityController[T, I, P]) List(c *gin.Context) {
	params, ok := parseListParams(c, ec.resource.Filters...)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var (
		page *entities.Page[T]
		err  error
	)
	term := strings.TrimSpace(c.Query("q"))
	if searcher, canSearch := ec.svc.(Searcher[T]); canSearch && term != "" {
		page, err = searcher.Search(ctx, term, params)
	} else {
		page, err = ec.svc.List(ctx, params)
	}
	if err != nil {
		respondServiceError(c, err, "list "+ec.resource.Kind)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ec *EntityController[T, I, P]) Get(c *gin.Context) {
	item, err := ec.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get "+ec.resource.Kind)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ec *EntityController[T, I, P]) Create(c *gin.Context) {
	var in I
	if !bindJSON(c, &in) {
		return
	}

	item, err := ec.svc.Create(c.Request.Context(), in)
	if err != nil {
		ec.audit(c, entities.AuditEventCreate, "", "", err)
		respondServiceError(c, err, "create "+ec.resource.Kind)
		return
	}
	ec.audit(c, entities.AuditEventCreate, ec.resource.ID(item), ec.resource.Label(item), nil)
	c.JSON(http.StatusCreated, item)
}

func (ec *EntityController[T, I, P]) Update(c *gin.Context) {
	var patch P
	if !bindJSON(c, &patch) {
		return
	}

	id := c.Param("id")
	item, err := ec.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		ec.audit(c, entities.AuditEventUpdate, id, "", err)
		respondServiceError(c, err, "update "+ec.resource.Kind)
		return
	}
	ec.audit(c, entities.AuditEventUpdate, id, ec.resource.Label(item), nil)
	c.JSON(http.StatusOK, item)
}

func (ec *EntityController[T, I, P]) Delete(c *gin.Context) {
	id := c.Param("id")
	err := ec.svc.Delete(c.Request.Context(), id)
	ec.audit(c, entities.AuditEventDelete, id, "", err)
	if err != nil {
		respondServiceError(c, err, "delete "+ec.resource.Kind)
		return
	}
	c.Status(http.StatusNoContent)
}

// audit records a mutation. Requests rejected by validation never reached
// the backend and are not recorded.
func (ec *EntityController[T, I, P]) audit(c *gin.Context, eventType entities.AuditEventType, id, description string, err error) {
	if ec.auditor == nil || validation.IsValidationError(err) {
		return
	}
	ec.auditor.LogMutation(auth.Actor(c), eventType, ec.resource.Kind, id, description, err)
}

// Resources for the five managed entity types.
var (
	AuthorResource = Resource[entities.Author]{
		Kind:    "author",
		Filters: services.AuthorFilters,
		Label:   func(a *entities.Author) string { return a.Nombre },
		ID:      func(a *entities.Author) string { return a.ID },
	}
	BookResource = Resource[entities.Book]{
		Kind:    "book",
		Filters: services.BookFilters,
		Label:   func(b *entities.Book) string { return b.Title },
		ID:      func(b *entities.Book) string { return b.ID },
	}
	GenreResource = Resource[entities.Genre]{
		Kind:    "genre",
		Filters: services.GenreFilters,
		Label:   func(g *entities.Genre) string { return g.Nombre },
		ID:      func(g *entities.Genre) string { return g.ID },
	}
	TagResource = Resource[entities.Tag]{
		Kind:    "tag",
		Filters: services.TagFilters,
		Label:   func(t *entities.Tag) string { return t.Nombre },
		ID:      func(t *entities.Tag) string { return t.ID },
	}
	UserResource = Resource[entities.User]{
		Kind:    "user",
		Filters: services.UserFilters,
		Label:   func(u *entities.User) string { return u.Username },
		ID:      func(u *entities.User) string { return u.ID },
	}
)
