package models

import (
	"time"

	"gorm.io/gorm"
)

// Article represents a published article in the Inkwell application. The slug
// is the public identifier: derived from the title plus a random suffix, and
// regenerated whenever the title changes.
type Article struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Slug        string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"size:255;not null;index" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	ImageURL    string         `json:"image_url,omitempty"`
	AuthorID    uint           `gorm:"not null;index" json:"-"`
	Author      Profile        `gorm:"foreignKey:AuthorID" json:"author"`
	Tags        []Tag          `gorm:"many2many:article_tags;" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// TagList flattens Tags to their text for the response envelope.
	TagList []string `gorm:"-" json:"tags"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// DislikesCount is not persisted; computed at query time
	DislikesCount int `gorm:"->;-:migration" json:"dislikes_count"`
	// FavoritesCount is not persisted; computed at query time
	FavoritesCount int `gorm:"->;-:migration" json:"favorites_count"`
	// AverageRating is not persisted; computed at query time
	AverageRating float64 `gorm:"->;-:migration" json:"average_rating"`
	// Favorited reports whether the requesting profile favorited this article.
	// Always false for anonymous readers.
	Favorited bool `gorm:"-" json:"favorited"`
}

// String implements fmt.Stringer. An article prints as its title.
func (a Article) String() string {
	return a.Title
}

// ArticleLike marks that a user likes an article. A user never holds a like
// and a dislike on the same article at once; the repository toggle keeps the
// two tables mutually exclusive.
type ArticleLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_like_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}

// TableName specifies the table name for GORM
func (ArticleLike) TableName() string {
	return "likes"
}

// ArticleDislike is the negative counterpart of ArticleLike.
type ArticleDislike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_dislike_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_dislike_user_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Article Article `gorm:"foreignKey:ArticleID" json:"-"`
}

// TableName specifies the table name for GORM
func (ArticleDislike) TableName() string {
	return "dislikes"
}
