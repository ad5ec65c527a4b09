// Package ratings stores reader scores for catalog books. A reader has at
// most one rating per book; rating again replaces the previous score.
package ratings

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/booknet/internal/entities"
)

var ErrInvalidScore = fmt.Errorf("score must be between %d and %d", entities.MinRatingScore, entities.MaxRatingScore)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Rate inserts or replaces the username's score for bookID.
func (r *Repository) Rate(bookID, username string, score int) (*entities.Rating, error) {
	if score < entities.MinRatingScore || score > entities.MaxRatingScore {
		return nil, ErrInvalidScore
	}

	rating := &entities.Rating{BookID: bookID, Username: username, Score: score}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_id"}, {Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return nil, err
	}
	return r.Get(bookID, username)
}

// Get returns the username's rating for bookID, or nil when there is none.
func (r *Repository) Get(bookID, username string) (*entities.Rating, error) {
	var rating entities.Rating
	err := r.db.Where("book_id = ? AND username = ?", bookID, username).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Delete removes the username's rating. Deleting a missing rating is not an error.
func (r *Repository) Delete(bookID, username string) error {
	return r.db.Where("book_id = ? AND username = ?", bookID, username).Delete(&entities.Rating{}).Error
}

// Summary returns the average and count for one book.
func (r *Repository) Summary(bookID string) (entities.RatingSummary, error) {
	summaries, err := r.Summaries([]string{bookID})
	if err != nil {
		return entities.RatingSummary{}, err
	}
	return summaries[bookID], nil
}

// Summaries returns a summary for each requested book. Books without
// ratings get a zero summary.
func (r *Repository) Summaries(bookIDs []string) (map[string]entities.RatingSummary, error) {
	out := make(map[string]entities.RatingSummary, len(bookIDs))
	for _, id := range bookIDs {
		out[id] = entities.RatingSummary{BookID: id}
	}
	if len(bookIDs) == 0 {
		return out, nil
	}

	var rows []entities.RatingSummary
	err := r.db.Model(&entities.Rating{}).
		Select("book_id, AVG(score) AS average, COUNT(*) AS count").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.BookID] = row
	}
	return out, nil
}
