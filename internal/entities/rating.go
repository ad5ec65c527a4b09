package entities

import "time"

// Rating is a reader's score for a catalog book, stored locally.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    string    `gorm:"uniqueIndex:idx_rating_book_user;size:64" json:"book_id"`
	Username  string    `gorm:"uniqueIndex:idx_rating_book_user;size:100" json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

// RatingSummary aggregates all ratings of one book.
type RatingSummary struct {
	BookID  string  `json:"book_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
