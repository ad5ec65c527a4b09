package services

import (
	"context"
	"strings"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgAuthorIDRequired          = "El ID del autor es requerido"
	MsgAuthorNameRequired        = "El nombre del autor es requerido"
	MsgAuthorBioRequired         = "La biografía del autor (acerca de) es requerida"
	MsgAuthorBirthDateRequired   = "La fecha de nacimiento es requerida"
	MsgAuthorBirthDateInvalid    = "La fecha de nacimiento debe tener el formato YYYY-MM-DD y ser una fecha válida"
	MsgAuthorDeathDateInvalid    = "La fecha de fallecimiento debe tener el formato YYYY-MM-DD y ser una fecha válida"
	MsgAuthorDeathBeforeBirth    = "La fecha de fallecimiento no puede ser anterior a la fecha de nacimiento"
	MsgAuthorNationalityRequired = "La nacionalidad del autor es requerida"
	MsgAuthorPhotoInvalid        = "La foto del autor debe ser una URL válida"
)

const authorsPath = "/authors"

// AuthorFilters are the query filters accepted by List and Search.
var AuthorFilters = []string{"nacionalidad"}

type AuthorService struct {
	api Requester
}

func NewAuthorService(api Requester) *AuthorService {
	return &AuthorService{api: api}
}

func (s *AuthorService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Author], error) {
	q, err := listQuery(params, AuthorFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Author]
	if err := s.api.Get(ctx, authorsPath, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *AuthorService) Search(ctx context.Context, term string, params entities.ListParams) (*entities.Page[entities.Author], error) {
	q, err := searchQuery(term, params, AuthorFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Author]
	if err := s.api.Get(ctx, authorsPath+"/search", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *AuthorService) GetByID(ctx context.Context, id string) (*entities.Author, error) {
	if err := requireID(id, MsgAuthorIDRequired); err != nil {
		return nil, err
	}
	var author entities.Author
	if err := s.api.Get(ctx, itemPath(authorsPath, id), nil, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (s *AuthorService) Create(ctx context.Context, in entities.AuthorInput) (*entities.Author, error) {
	if err := ValidateAuthorInput(in); err != nil {
		return nil, err
	}

	in.Nombre = strings.TrimSpace(in.Nombre)
	in.AcercaDe = strings.TrimSpace(in.AcercaDe)
	in.Nacionalidad = strings.TrimSpace(in.Nacionalidad)
	in.Foto = strings.TrimSpace(in.Foto)
	if in.FechaMuerte != nil && validation.IsBlank(*in.FechaMuerte) {
		in.FechaMuerte = nil
	}

	var author entities.Author
	if err := s.api.Post(ctx, authorsPath, in, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (s *AuthorService) Update(ctx context.Context, id string, patch entities.AuthorPatch) (*entities.Author, error) {
	if err := requireID(id, MsgAuthorIDRequired); err != nil {
		return nil, err
	}
	if err := ValidateAuthorPatch(patch); err != nil {
		return nil, err
	}

	patch.Nombre = trimPtr(patch.Nombre)
	patch.AcercaDe = trimPtr(patch.AcercaDe)
	patch.Nacionalidad = trimPtr(patch.Nacionalidad)
	patch.Foto = trimPtr(patch.Foto)

	var author entities.Author
	if err := s.api.Patch(ctx, itemPath(authorsPath, id), patch, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgAuthorIDRequired); err != nil {
		return err
	}
	return s.api.Delete(ctx, itemPath(authorsPath, id), nil)
}

// ListAll fetches every author page by page.
func (s *AuthorService) ListAll(ctx context.Context, filters map[string]string) ([]entities.Author, error) {
	return collectAll(ctx, entities.ListParams{Filters: filters}, s.List)
}

// ValidateAuthorInput checks a create payload.
func ValidateAuthorInput(in entities.AuthorInput) error {
	return validation.First(
		validation.Required("nombre", in.Nombre, MsgAuthorNameRequired),
		validation.Required("acerca_de", in.AcercaDe, MsgAuthorBioRequired),
		validation.Required("fechaNacimiento", in.FechaNacimiento, MsgAuthorBirthDateRequired),
		validateBirthDate(in.FechaNacimiento),
		validateDeathDate(in.FechaMuerte, in.FechaNacimiento),
		validation.Required("nacionalidad", in.Nacionalidad, MsgAuthorNationalityRequired),
		validatePhoto(&in.Foto),
	)
}

// ValidateAuthorPatch checks the fields present in a partial update.
func ValidateAuthorPatch(p entities.AuthorPatch) error {
	if p.IsEmpty() {
		return validation.New("", validation.MsgEmptyPatch)
	}

	birth := ""
	var birthErr error
	if p.FechaNacimiento != nil {
		birth = *p.FechaNacimiento
		birthErr = validation.First(
			validation.Required("fechaNacimiento", birth, MsgAuthorBirthDateRequired),
			validateBirthDate(birth),
		)
	}

	return validation.First(
		validation.RequiredIfSet("nombre", p.Nombre, MsgAuthorNameRequired),
		validation.RequiredIfSet("acerca_de", p.AcercaDe, MsgAuthorBioRequired),
		birthErr,
		validateDeathDate(p.FechaMuerte, birth),
		validation.RequiredIfSet("nacionalidad", p.Nacionalidad, MsgAuthorNationalityRequired),
		validatePhoto(p.Foto),
	)
}

// validatePhoto allows an empty photo; otherwise it must be an absolute URL.
func validatePhoto(foto *string) error {
	if foto == nil || validation.IsBlank(*foto) {
		return nil
	}
	if !validation.IsValidURL(strings.TrimSpace(*foto)) {
		return validation.New("foto", MsgAuthorPhotoInvalid)
	}
	return nil
}

func validateBirthDate(date string) error {
	if validation.IsBlank(date) || validation.IsValidDate(date) {
		return nil
	}
	return validation.New("fechaNacimiento", MsgAuthorBirthDateInvalid)
}

// validateDeathDate accepts a missing or blank death date. When both dates
// are valid the death date must not precede the birth date.
func validateDeathDate(death *string, birth string) error {
	if death == nil || validation.IsBlank(*death) {
		return nil
	}
	if !validation.IsValidDate(*death) {
		return validation.New("fechaMuerte", MsgAuthorDeathDateInvalid)
	}
	if !validation.IsValidDate(birth) {
		return nil
	}

	d, _ := validation.ParseDate(*death)
	b, _ := validation.ParseDate(birth)
	if d.Before(b) {
		return validation.New("fechaMuerte", MsgAuthorDeathBeforeBirth)
	}
	return nil
}
