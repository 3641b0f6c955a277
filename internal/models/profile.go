package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the public extension of a User: bio, avatar image, the follow
// graph and the article favorites. Exactly one Profile exists per User and it
// is created in the same transaction as the account.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"-"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Bio       string         `gorm:"type:text;not null;default:''" json:"bio"`
	Image     string         `json:"image"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Username and Email are not persisted on the profiles table; the
	// repository selects them from the joined users row.
	Username string `gorm:"->;-:migration" json:"username"`
	Email    string `gorm:"->;-:migration" json:"email,omitempty"`

	// FollowersCount and FollowingCount are computed at query time.
	FollowersCount int `gorm:"->;-:migration" json:"followers_count"`
	FollowingCount int `gorm:"->;-:migration" json:"following_count"`
	// Following reports whether the requesting profile follows this one.
	Following bool `gorm:"->;-:migration" json:"following"`
}

// Follow is one directed edge of the follow graph: follower follows followed.
// The relation is asymmetric; the reverse edge is a separate row.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower Profile `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed Profile `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// Favorite records that a profile favorited an article.
// The combination of ProfileID and ArticleID must be unique.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_profile_article" json:"profile_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_profile_article" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`

	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
	Article Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
}
