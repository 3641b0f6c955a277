// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile and follow-graph operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint, viewerProfileID uint) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string, viewerProfileID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, profileID uint, viewerProfileID uint) ([]*models.Profile, error)
	Following(ctx context.Context, profileID uint, viewerProfileID uint) ([]*models.Profile, error)
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// applyProfileDetails adds subqueries to fetch identity fields, follower
// counts and the viewer's follow state in a single query. Shared with the
// article repository for hydrating authors.
func applyProfileDetails(db *gorm.DB, viewerProfileID uint) *gorm.DB {
	selectQuery := "profiles.*, " +
		"(SELECT username FROM users WHERE users.id = profiles.user_id) as username, " +
		"(SELECT email FROM users WHERE users.id = profiles.user_id) as email, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.followed_id = profiles.id) as followers_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = profiles.id) as following_count"

	if viewerProfileID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followed_id = profiles.id) as following", viewerProfileID)
	}

	return db.Select(selectQuery + ", false as following")
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint, viewerProfileID uint) (*models.Profile, error) {
	var profile models.Profile
	err := applyProfileDetails(r.db.WithContext(ctx), viewerProfileID).
		Where("profiles.user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("The requested profile does not exist.")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// profileCacheEntry restores the user id the response shape hides, mirroring
// articleCacheEntry.
type profileCacheEntry struct {
	Profile models.Profile `json:"profile"`
	UserID  uint           `json:"user_id"`
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string, viewerProfileID uint) (*models.Profile, error) {
	var profile models.Profile

	fetch := func() error {
		err := applyProfileDetails(r.db.WithContext(ctx), viewerProfileID).
			Joins("JOIN users ON users.id = profiles.user_id").
			Where("users.username = ?", username).
			First(&profile).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("The requested profile does not exist.")
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Anonymous reads share a cache entry; follow state is viewer-specific
	// so signed-in reads always hit the database.
	if viewerProfileID != 0 {
		if err := fetch(); err != nil {
			return nil, err
		}
		return &profile, nil
	}

	var entry profileCacheEntry
	err := cache.Aside(ctx, cache.ProfileKey(username), &entry, cache.ProfileTTL, func() error {
		if err := fetch(); err != nil {
			return err
		}
		entry = profileCacheEntry{Profile: profile, UserID: profile.UserID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	profile = entry.Profile
	profile.UserID = entry.UserID
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	if profile.Username != "" {
		cache.InvalidateProfile(ctx, profile.Username)
	}
	return nil
}

func (r *profileRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps the edge idempotent under
	// concurrent requests.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *profileRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileRepository) Followers(ctx context.Context, profileID uint, viewerProfileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := applyProfileDetails(r.db.WithContext(ctx), viewerProfileID).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.followed_id = ?", profileID).
		Order("follows.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Following(ctx context.Context, profileID uint, viewerProfileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := applyProfileDetails(r.db.WithContext(ctx), viewerProfileID).
		Joins("JOIN follows ON follows.followed_id = profiles.id").
		Where("follows.follower_id = ?", profileID).
		Order("follows.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
