// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Ensure(ctx context.Context, tags []models.Tag) ([]models.Tag, error)
	List(ctx context.Context) ([]string, error)
}

// tagRepository implements TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Ensure get-or-creates every tag by its text and returns the persisted rows.
func (r *tagRepository) Ensure(ctx context.Context, tags []models.Tag) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		var row models.Tag
		if err := r.db.WithContext(ctx).
			Where(models.Tag{Tag: t.Tag}).
			Attrs(models.Tag{Slug: t.Slug}).
			FirstOrCreate(&row).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *tagRepository) List(ctx context.Context) ([]string, error) {
	var tags []string
	err := cache.Aside(ctx, cache.TagListKey, &tags, cache.TagListTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.Tag{}).
			Order("tag ASC").
			Pluck("tag", &tags).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
