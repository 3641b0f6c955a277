package models

import (
	"time"
)

// Rate records a user's rating of an article. Each (article, rater) pair
// keeps a single row; re-rating overwrites the value and bumps the counter.
// A rater gets at most four attempts per article.
type Rate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_rate_article_rater" json:"-"`
	Article   Article   `gorm:"foreignKey:ArticleID" json:"-"`
	RaterID   uint      `gorm:"not null;uniqueIndex:idx_rate_article_rater" json:"-"`
	Rater     Profile   `gorm:"foreignKey:RaterID" json:"-"`
	Rating    int       `gorm:"not null" json:"rate"`
	Counter   int       `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxRateAttempts is the number of times a user may rate the same article.
const MaxRateAttempts = 4

// MaxRating is the top of the accepted rating scale.
const MaxRating = 5
