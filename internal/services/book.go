package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mrlokans/booknet/internal/entities"
	"github.com/mrlokans/booknet/internal/validation"
)

const (
	MsgBookIDRequired          = "El ID del libro es requerido"
	MsgBookTitleRequired       = "El título del libro es requerido"
	MsgBookISBNRequired        = "El ISBN es requerido"
	MsgBookISBNInvalid         = "El ISBN debe ser un ISBN-10 o ISBN-13 válido"
	MsgBookDescriptionRequired = "La descripción del libro es requerida"
	MsgBookYearRange           = "El año de publicación debe estar entre 1000 y 2100"
	MsgBookPagesRange          = "El número de páginas debe estar entre 1 y 50000"
	MsgBookLanguageInvalid     = "El idioma debe ser uno de: es, en, fr, de, it, pt"
	MsgBookCoverRequired       = "La imagen de portada es requerida"
	MsgBookAgeRatingInvalid    = "La clasificación por edad debe ser una de: ALL, 7+, 12+, 16+, 18+"
	MsgBookDifficultyInvalid   = "La dificultad de lectura debe ser una de: BEGINNER, INTERMEDIATE, ADVANCED"
	MsgBookAuthorsRequired     = "Debe seleccionar al menos un autor"
	MsgBookAuthorIDBlank       = "Los IDs de autor no pueden estar vacíos"
	MsgBookGenresRequired      = "Debe seleccionar al menos un género"
	MsgBookGenreIDBlank        = "Los IDs de género no pueden estar vacíos"
	MsgBookTagIDBlank          = "Los IDs de etiqueta no pueden estar vacíos"
	MsgBookOrderInSeries       = "El orden en la serie debe ser mayor o igual a 1"
	MsgBookOrderNeedsSeries    = "El orden en la serie requiere indicar una serie"

	MsgImportFileRequired = "Debe seleccionar un archivo"
	MsgImportFileType     = "El archivo debe ser de tipo JSON"
	MsgImportFileSize     = "El archivo no puede superar los 10MB"
	MsgImportFileInvalid  = "El archivo no contiene JSON válido"
)

const (
	MinPublicationYear = 1000
	MaxPublicationYear = 2100
	MinPageCount       = 1
	MaxPageCount       = 50000

	// MaxImportBytes is the largest accepted bulk import file.
	MaxImportBytes int64 = 10 << 20

	// ImportField is the multipart field carrying the import file.
	ImportField = "file"
)

const booksPath = "/books"

// BookFilters are the query filters accepted by List and Search.
var BookFilters = []string{"language", "genreId", "authorId", "tagId", "ageRating", "readingDifficulty"}

type BookService struct {
	api Requester
}

func NewBookService(api Requester) *BookService {
	return &BookService{api: api}
}

func (s *BookService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Book], error) {
	q, err := listQuery(params, BookFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Book]
	if err := s.api.Get(ctx, booksPath, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *BookService) Search(ctx context.Context, term string, params entities.ListParams) (*entities.Page[entities.Book], error) {
	q, err := searchQuery(term, params, BookFilters...)
	if err != nil {
		return nil, err
	}
	var page entities.Page[entities.Book]
	if err := s.api.Get(ctx, booksPath+"/search", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *BookService) GetByID(ctx context.Context, id string) (*entities.Book, error) {
	if err := requireID(id, MsgBookIDRequired); err != nil {
		return nil, err
	}
	var book entities.Book
	if err := s.api.Get(ctx, itemPath(booksPath, id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *BookService) Create(ctx context.Context, in entities.BookInput) (*entities.Book, error) {
	if err := ValidateBookInput(in); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.ISBN = validation.NormalizeISBN(in.ISBN)
	in.Description = strings.TrimSpace(in.Description)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
	in.AuthorIDs = trimIDs(in.AuthorIDs)
	in.GenreIDs = trimIDs(in.GenreIDs)
	in.TagIDs = trimIDs(in.TagIDs)
	if in.TagIDs == nil {
		in.TagIDs = []string{}
	}
	in.SeriesID = trimPtr(in.SeriesID)
	if in.SeriesID != nil && *in.SeriesID == "" {
		in.SeriesID = nil
	}

	var book entities.Book
	if err := s.api.Post(ctx, booksPath, in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *BookService) Update(ctx context.Context, id string, patch entities.BookPatch) (*entities.Book, error) {
	if err := requireID(id, MsgBookIDRequired); err != nil {
		return nil, err
	}
	if err := ValidateBookPatch(patch); err != nil {
		return nil, err
	}

	patch.Title = trimPtr(patch.Title)
	if patch.ISBN != nil {
		isbn := validation.NormalizeISBN(*patch.ISBN)
		patch.ISBN = &isbn
	}
	patch.Description = trimPtr(patch.Description)
	patch.CoverImage = trimPtr(patch.CoverImage)
	patch.SeriesID = trimPtr(patch.SeriesID)
	patch.AuthorIDs = trimIDsPtr(patch.AuthorIDs)
	patch.GenreIDs = trimIDsPtr(patch.GenreIDs)
	patch.TagIDs = trimIDsPtr(patch.TagIDs)

	var book entities.Book
	if err := s.api.Patch(ctx, itemPath(booksPath, id), patch, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := requireID(id, MsgBookIDRequired); err != nil {
		return err
	}
	return s.api.Delete(ctx, itemPath(booksPath, id), nil)
}

// ListAll fetches every book matching filters page by page.
func (s *BookService) ListAll(ctx context.Context, filters map[string]string) ([]entities.Book, error) {
	return collectAll(ctx, entities.ListParams{Filters: filters}, s.List)
}

// ImportFile validates a bulk import file and uploads it as the multipart
// "file" field. The whole file is read so that its JSON can be checked
// before anything is sent.
func (s *BookService) ImportFile(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*entities.ImportResult, error) {
	if err := ValidateImportFile(filename, contentType, size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	if int64(len(data)) > MaxImportBytes {
		return nil, validation.New(ImportField, MsgImportFileSize)
	}
	if len(data) == 0 {
		return nil, validation.New(ImportField, MsgImportFileRequired)
	}
	if !json.Valid(data) {
		return nil, validation.New(ImportField, MsgImportFileInvalid)
	}

	var result entities.ImportResult
	if err := s.api.Upload(ctx, booksPath+"/import", ImportField, filepath.Base(filename), bytes.NewReader(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateImportFile checks the declared name, type and size of an import
// file. The file is accepted when either its MIME type or its extension is
// JSON.
func ValidateImportFile(filename, contentType string, size int64) error {
	if validation.IsBlank(filename) || size <= 0 {
		return validation.New(ImportField, MsgImportFileRequired)
	}
	if !isJSONFile(filename, contentType) {
		return validation.New(ImportField, MsgImportFileType)
	}
	if size > MaxImportBytes {
		return validation.New(ImportField, MsgImportFileSize)
	}
	return nil
}

func isJSONFile(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// ValidateBookInput checks a create payload.
func ValidateBookInput(in entities.BookInput) error {
	return validation.First(
		validation.Required("title", in.Title, MsgBookTitleRequired),
		validation.Required("isbn", in.ISBN, MsgBookISBNRequired),
		validateISBN(in.ISBN),
		validation.Required("description", in.Description, MsgBookDescriptionRequired),
		validation.IntRange("publicationYear", in.PublicationYear, MinPublicationYear, MaxPublicationYear, MsgBookYearRange),
		validation.IntRange("pageCount", in.PageCount, MinPageCount, MaxPageCount, MsgBookPagesRange),
		validation.OneOf("language", in.Language, entities.Languages, MsgBookLanguageInvalid),
		validation.Required("coverImage", in.CoverImage, MsgBookCoverRequired),
		validation.OneOf("ageRating", in.AgeRating, entities.AgeRatings, MsgBookAgeRatingInvalid),
		validation.OneOf("readingDifficulty", in.ReadingDifficulty, entities.ReadingDifficulties, MsgBookDifficultyInvalid),
		validation.IDs("authorIds", in.AuthorIDs, true, MsgBookAuthorsRequired, MsgBookAuthorIDBlank),
		validation.IDs("genreIds", in.GenreIDs, true, MsgBookGenresRequired, MsgBookGenreIDBlank),
		validation.IDs("tagIds", in.TagIDs, false, "", MsgBookTagIDBlank),
		validateSeries(in.SeriesID, in.OrderInSeries, true),
	)
}

// ValidateBookPatch checks the fields present in a partial update. A patch
// may set orderInSeries alone for a book already in a series, but not
// together with a blank seriesId. A blank seriesId alone removes the book
// from its series.
func ValidateBookPatch(p entities.BookPatch) error {
	if p.IsEmpty() {
		return validation.New("", validation.MsgEmptyPatch)
	}

	var errs []error
	if p.Title != nil {
		errs = append(errs, validation.Required("title", *p.Title, MsgBookTitleRequired))
	}
	if p.ISBN != nil {
		errs = append(errs,
			validation.Required("isbn", *p.ISBN, MsgBookISBNRequired),
			validateISBN(*p.ISBN))
	}
	if p.Description != nil {
		errs = append(errs, validation.Required("description", *p.Description, MsgBookDescriptionRequired))
	}
	if p.PublicationYear != nil {
		errs = append(errs, validation.IntRange("publicationYear", *p.PublicationYear, MinPublicationYear, MaxPublicationYear, MsgBookYearRange))
	}
	if p.PageCount != nil {
		errs = append(errs, validation.IntRange("pageCount", *p.PageCount, MinPageCount, MaxPageCount, MsgBookPagesRange))
	}
	if p.Language != nil {
		errs = append(errs, validation.OneOf("language", *p.Language, entities.Languages, MsgBookLanguageInvalid))
	}
	if p.CoverImage != nil {
		errs = append(errs, validation.Required("coverImage", *p.CoverImage, MsgBookCoverRequired))
	}
	if p.AgeRating != nil {
		errs = append(errs, validation.OneOf("ageRating", *p.AgeRating, entities.AgeRatings, MsgBookAgeRatingInvalid))
	}
	if p.ReadingDifficulty != nil {
		errs = append(errs, validation.OneOf("readingDifficulty", *p.ReadingDifficulty, entities.ReadingDifficulties, MsgBookDifficultyInvalid))
	}
	if p.AuthorIDs != nil {
		errs = append(errs, validation.IDs("authorIds", *p.AuthorIDs, true, MsgBookAuthorsRequired, MsgBookAuthorIDBlank))
	}
	if p.GenreIDs != nil {
		errs = append(errs, validation.IDs("genreIds", *p.GenreIDs, true, MsgBookGenresRequired, MsgBookGenreIDBlank))
	}
	if p.TagIDs != nil {
		errs = append(errs, validation.IDs("tagIds", *p.TagIDs, false, "", MsgBookTagIDBlank))
	}
	errs = append(errs, validateSeries(p.SeriesID, p.OrderInSeries, false))

	return validation.First(errs...)
}

func validateISBN(isbn string) error {
	if validation.IsBlank(isbn) || validation.IsValidISBN(isbn) {
		return nil
	}
	return validation.New("isbn", MsgBookISBNInvalid)
}

// validateSeries checks orderInSeries. On create the order needs a series;
// on update only an explicitly blank series conflicts with an order.
func validateSeries(seriesID *string, order *int, create bool) error {
	if order == nil {
		return nil
	}
	if *order < 1 {
		return validation.New("orderInSeries", MsgBookOrderInSeries)
	}
	missing := seriesID == nil || validation.IsBlank(*seriesID)
	if missing && (create || seriesID != nil) {
		return validation.New("orderInSeries", MsgBookOrderNeedsSeries)
	}
	return nil
}
