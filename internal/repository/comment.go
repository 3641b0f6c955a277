// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListThreads(ctx context.Context, articleID uint, viewerProfileID uint) ([]*models.Comment, int, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.hydrateAuthors(ctx, []*models.Comment{comment}, 0); err != nil {
		return err
	}
	if comment.Thread == nil {
		comment.Thread = []models.Comment{}
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("A comment with this ID does not exist.")
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListThreads loads every comment of the article in one query and assembles
// the reply trees in memory. The second return value is the number of
// top-level comments.
func (r *commentRepository) ListThreads(ctx context.Context, articleID uint, viewerProfileID uint) ([]*models.Comment, int, error) {
	all, err := r.listByArticle(ctx, articleID, viewerProfileID)
	if err != nil {
		return nil, 0, err
	}

	children := make(map[uint][]*models.Comment)
	var roots []*models.Comment
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var attach func(c *models.Comment)
	attach = func(c *models.Comment) {
		c.Thread = []models.Comment{}
		for _, reply := range children[c.ID] {
			attach(reply)
			c.Thread = append(c.Thread, *reply)
		}
	}
	for _, root := range roots {
		attach(root)
	}

	if roots == nil {
		roots = []*models.Comment{}
	}
	return roots, len(roots), nil
}

func (r *commentRepository) listByArticle(ctx context.Context, articleID uint, viewerProfileID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.hydrateAuthors(ctx, comments, viewerProfileID); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) hydrateAuthors(ctx context.Context, comments []*models.Comment, viewerProfileID uint) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(comments))
	seen := map[uint]struct{}{}
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; ok {
			continue
		}
		seen[c.AuthorID] = struct{}{}
		ids = append(ids, c.AuthorID)
	}

	var profiles []models.Profile
	if err := applyProfileDetails(r.db.WithContext(ctx), viewerProfileID).
		Where("profiles.id IN ?", ids).
		Find(&profiles).Error; err != nil {
		return models.NewInternalError(err)
	}

	byID := make(map[uint]*models.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	for _, c := range comments {
		if p := byID[c.AuthorID]; p != nil {
			c.Author = *p
		}
	}
	return nil
}

// Delete removes the comment and its whole reply subtree.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	var all []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("article_id = ?", comment.ArticleID).
		Find(&all).Error; err != nil {
		return models.NewInternalError(err)
	}

	children := make(map[uint][]uint)
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	// Breadth-first walk collecting the subtree ids.
	ids := []uint{comment.ID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}

	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, ids).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
