package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on an article. Comments form a tree: a
// top-level comment has a nil ParentID, replies point at their parent.
// Deleting a comment removes its whole subtree.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	ArticleID uint           `gorm:"not null;index" json:"-"`
	Article   Article        `gorm:"foreignKey:ArticleID" json:"-"`
	AuthorID  uint           `gorm:"not null" json:"-"`
	Author    Profile        `gorm:"foreignKey:AuthorID" json:"author"`
	ParentID  *uint          `gorm:"index" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Thread holds the replies to this comment, loaded recursively when a
	// thread is listed. Not a GORM association; the repository fills it.
	Thread []Comment `gorm:"-" json:"thread"`
}
