package models

import "time"

// Tag is a label attached to articles. Tags are created on demand when an
// article first uses them and shared across articles afterwards.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Tag       string    `gorm:"size:100;uniqueIndex;not null" json:"tag"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return t.Tag
}
