package entities

// Book is a catalog book as served by the backend.
type Book struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	ISBN              string            `json:"isbn"`
	Description       string            `json:"description"`
	PublicationYear   int               `json:"publicationYear"`
	PageCount         int               `json:"pageCount"`
	Language          Language          `json:"language"`
	CoverImage        string            `json:"coverImage"`
	AgeRating         AgeRating         `json:"ageRating"`
	ReadingDifficulty ReadingDifficulty `json:"readingDifficulty"`
	AuthorIDs         []string          `json:"authorIds"`
	GenreIDs          []string          `json:"genreIds"`
	TagIDs            []string          `json:"tagIds"`
	SeriesID          *string           `json:"seriesId,omitempty"`
	OrderInSeries     *int              `json:"orderInSeries,omitempty"`
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title             string            `json:"title"`
	ISBN              string            `json:"isbn"`
	Description       string            `json:"description"`
	PublicationYear   int               `json:"publicationYear"`
	PageCount         int               `json:"pageCount"`
	Language          Language          `json:"language"`
	CoverImage        string            `json:"coverImage"`
	AgeRating         AgeRating         `json:"ageRating"`
	ReadingDifficulty ReadingDifficulty `json:"readingDifficulty"`
	AuthorIDs         []string          `json:"authorIds"`
	GenreIDs          []string          `json:"genreIds"`
	TagIDs            []string          `json:"tagIds"`
	SeriesID          *string           `json:"seriesId,omitempty"`
	OrderInSeries     *int              `json:"orderInSeries,omitempty"`
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title             *string            `json:"title,omitempty"`
	ISBN              *string            `json:"isbn,omitempty"`
	Description       *string            `json:"description,omitempty"`
	PublicationYear   *int               `json:"publicationYear,omitempty"`
	PageCount         *int               `json:"pageCount,omitempty"`
	Language          *Language          `json:"language,omitempty"`
	CoverImage        *string            `json:"coverImage,omitempty"`
	AgeRating         *AgeRating         `json:"ageRating,omitempty"`
	ReadingDifficulty *ReadingDifficulty `json:"readingDifficulty,omitempty"`
	AuthorIDs         *[]string          `json:"authorIds,omitempty"`
	GenreIDs          *[]string          `json:"genreIds,omitempty"`
	TagIDs            *[]string          `json:"tagIds,omitempty"`
	SeriesID          *string            `json:"seriesId,omitempty"`
	OrderInSeries     *int               `json:"orderInSeries,omitempty"`
}

func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.ISBN == nil && p.Description == nil &&
		p.PublicationYear == nil && p.PageCount == nil && p.Language == nil &&
		p.CoverImage == nil && p.AgeRating == nil && p.ReadingDifficulty == nil &&
		p.AuthorIDs == nil && p.GenreIDs == nil && p.TagIDs == nil &&
		p.SeriesID == nil && p.OrderInSeries == nil
}

// ImportResult is what the backend reports after a bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
