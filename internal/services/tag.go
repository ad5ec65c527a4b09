package services

import (
	"context"
	"strings"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgTagIDRequired       = "El ID de la etiqueta es requerido"
	MsgTagNameRequired     = "El nombre de la etiqueta es requerido"
	MsgTagCategoryRequired = "La categoría de la etiqueta es requerida"
)

const tagsPath = "/tags"

var TagFilters = []string{"categoria"}

type TagService struct {
	api Requester
}

func NewTagService(api Requester) *TagService {
	return &TagService{api: api}
}

func (s *TagService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Tag], error) {
	q, err := listQuery(params, TagFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Tag]
	if err := s.api.Get(ctx, tagsPath, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *TagService) Search(ctx context.Context, term string, params entities.ListParams) (*entities.Page[entities.Tag], error) {
	q, err := searchQuery(term, params, TagFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Tag]
	if err := s.api.Get(ctx, tagsPath+"/search", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *TagService) GetByID(ctx context.Context, id string) (*entities.Tag, error) {
	if err := requireID(id, MsgTagIDRequired); err != nil {
		return nil, err
	}
	var tag entities.Tag
	if err := s.api.Get(ctx, itemPath(tagsPath, id), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) Create(ctx context.Context, in entities.TagInput) (*entities.Tag, error) {
	if err := validation.First(
		validation.Required("nombre", in.Nombre, MsgTagNameRequired),
		validation.Required("categoria", in.Categoria, MsgTagCategoryRequired),
	); err != nil {
		return nil, err
	}

	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Categoria = strings.TrimSpace(in.Categoria)

	var tag entities.Tag
	if err := s.api.Post(ctx, tagsPath, in, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) Update(ctx context.Context, id string, patch entities.TagPatch) (*entities.Tag, error) {
	if err := requireID(id, MsgTagIDRequired); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, validation.New("", validation.MsgEmptyPatch)
	}
	if err := validation.First(
		validation.RequiredIfSet("nombre", patch.Nombre, MsgTagNameRequired),
		validation.RequiredIfSet("categoria", patch.Categoria, MsgTagCategoryRequired),
	); err != nil {
		return nil, err
	}

	patch.Nombre = trimPtr(patch.Nombre)
	patch.Categoria = trimPtr(patch.Categoria)

	var tag entities.Tag
	if err := s.api.Patch(ctx, itemPath(tagsPath, id), patch, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgTagIDRequired); err != nil {
		return err
	}
	return s.api.Delete(ctx, itemPath(tagsPath, id), nil)
}
