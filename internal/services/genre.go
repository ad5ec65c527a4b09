package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/booknet/internal/backend"
	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgGenreIDRequired          = "El ID del género es requerido"
	MsgGenreNameRequired        = "El nombre del género es requerido"
	MsgGenreDescriptionRequired = "La descripción del género es requerida"
	MsgGenreSelfParent          = "Un género no puede ser su propio padre"
	MsgGenreCycle               = "La asignación crearía un ciclo en la jerarquía de géneros"
	MsgGenreParentNotFound      = "El género padre no existe"
	MsgGenreHierarchyTooDeep    = "La jerarquía de géneros es demasiado profunda"
)

// HierarchyCheck selects how a new parent genre is verified on update.
type HierarchyCheck string

const (
	// HierarchyFull walks the ancestors of the proposed parent and rejects
	// any assignment that would close a loop.
	HierarchyFull HierarchyCheck = "full"
	// HierarchyShallow only rejects a genre being its own parent.
	HierarchyShallow HierarchyCheck = "shallow"
)

// MaxHierarchyDepth bounds the ancestor walk.
const MaxHierarchyDepth = 64

// ParseHierarchyCheck accepts "full" or "shallow"; empty means full.
func ParseHierarchyCheck(s string) (HierarchyCheck, error) {
	switch HierarchyCheck(strings.ToLower(strings.TrimSpace(s))) {
	case "", HierarchyFull:
		return HierarchyFull, nil
	case HierarchyShallow:
		return HierarchyShallow, nil
	default:
		return "", fmt.Errorf("unknown genre hierarchy check %q", s)
	}
}

const genresPath = "/genres"

// GenreFilters are the query filters accepted by List.
var GenreFilters = []string{"parentId"}

type GenreService struct {
	api   Requester
	check HierarchyCheck
}

func NewGenreService(api Requester, check HierarchyCheck) *GenreService {
	if check == "" {
		check = HierarchyFull
	}
	return &GenreService{api: api, check: check}
}

func (s *GenreService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Genre], error) {
	q, err := listQuery(params, GenreFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Genre]
	if err := s.api.Get(ctx, genresPath, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Children lists the direct subgenres of parentID.
func (s *GenreService) Children(ctx context.Context, parentID string, params entities.ListParams) (*entities.Page[entities.Genre], error) {
	if err := requireID(parentID, MsgGenreIDRequired); err != nil {
		return nil, err
	}
	filters := make(map[string]string, len(params.Filters)+1)
	for k, v := range params.Filters {
		filters[k] = v
	}
	filters["parentId"] = parentID
	params.Filters = filters
	return s.List(ctx, params)
}

func (s *GenreService) GetByID(ctx context.Context, id string) (*entities.Genre, error) {
	if err := requireID(id, MsgGenreIDRequired); err != nil {
		return nil, err
	}
	var genre entities.Genre
	if err := s.api.Get(ctx, itemPath(genresPath, id), nil, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (s *GenreService) Create(ctx context.Context, in entities.GenreInput) (*entities.Genre, error) {
	if err := validation.First(
		validation.Required("nombre", in.Nombre, MsgGenreNameRequired),
		validation.Required("descripcion", in.Descripcion, MsgGenreDescriptionRequired),
	); err != nil {
		return nil, err
	}

	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Descripcion = strings.TrimSpace(in.Descripcion)
	in.GeneroPadre = trimPtr(in.GeneroPadre)
	if in.GeneroPadre != nil && *in.GeneroPadre == "" {
		in.GeneroPadre = nil
	}

	var genre entities.Genre
	if err := s.api.Post(ctx, genresPath, in, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (s *GenreService) Update(ctx context.Context, id string, patch entities.GenrePatch) (*entities.Genre, error) {
	if err := requireID(id, MsgGenreIDRequired); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, validation.New("", validation.MsgEmptyPatch)
	}

	id = strings.TrimSpace(id)
	patch.GeneroPadre = trimPtr(patch.GeneroPadre)
	parent := ""
	if patch.GeneroPadre != nil {
		parent = *patch.GeneroPadre
	}

	if err := validation.First(
		validation.RequiredIfSet("nombre", patch.Nombre, MsgGenreNameRequired),
		validation.RequiredIfSet("descripcion", patch.Descripcion, MsgGenreDescriptionRequired),
		validateParent(id, parent),
	); err != nil {
		return nil, err
	}
	if parent != "" && s.check == HierarchyFull {
		if err := s.checkAncestors(ctx, id, parent); err != nil {
			return nil, err
		}
	}

	patch.Nombre = trimPtr(patch.Nombre)
	patch.Descripcion = trimPtr(patch.Descripcion)

	var genre entities.Genre
	if err := s.api.Patch(ctx, itemPath(genresPath, id), patch, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

func (s *GenreService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgGenreIDRequired); err != nil {
		return err
	}
	return s.api.Delete(ctx, itemPath(genresPath, id), nil)
}

// ListAll fetches every genre page by page.
func (s *GenreService) ListAll(ctx context.Context) ([]entities.Genre, error) {
	return collectAll(ctx, entities.ListParams{}, s.List)
}

func validateParent(id, parent string) error {
	if parent != "" && parent == id {
		return validation.New("genero_padre", MsgGenreSelfParent)
	}
	return nil
}

// checkAncestors follows the parent chain starting at parent. Reaching id
// means the assignment would close a loop. A missing direct parent is an
// error; a dangling link further up simply ends the chain.
func (s *GenreService) checkAncestors(ctx context.Context, id, parent string) error {
	seen := map[string]bool{parent: true}
	current := parent

	for depth := 0; depth < MaxHierarchyDepth; depth++ {
		genre, err := s.GetByID(ctx, current)
		if err != nil {
			if backend.IsNotFound(err) {
				if depth == 0 {
					return validation.New("genero_padre", MsgGenreParentNotFound)
				}
				return nil
			}
			return err
		}

		next := genre.ParentID()
		switch {
		case next == "":
			return nil
		case next == id:
			return validation.New("genero_padre", MsgGenreCycle)
		case seen[next]:
			// The existing hierarchy already loops without passing through id.
			return nil
		}
		seen[next] = true
		current = next
	}

	return validation.New("genero_padre", MsgGenreHierarchyTooDeep)
}
