package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentTestArticles() *stubArticleRepo {
	return &stubArticleRepo{
		getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
			if slug != "known-slug" {
				return nil, models.NewNotFoundError("An article with this slug does not exist")
			}
			return &models.Article{ID: 10, Slug: slug, AuthorID: 999}, nil
		},
	}
}

func TestCommentService_Create(t *testing.T) {
	t.Run("Top Level", func(t *testing.T) {
		comments := &stubCommentRepo{
			create: func(ctx context.Context, comment *models.Comment) error {
				comment.ID = 1
				return nil
			},
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		comment, err := svc.Create(context.Background(), CreateCommentInput{
			UserID: 1, Slug: "known-slug", Body: "His name was my name too.",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(10), comment.ArticleID)
		assert.Equal(t, uint(101), comment.AuthorID)
		assert.Nil(t, comment.ParentID)
	})

	t.Run("Unknown Slug", func(t *testing.T) {
		svc := NewCommentService(&stubCommentRepo{}, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Create(context.Background(), CreateCommentInput{UserID: 1, Slug: "nope", Body: "hi"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Empty Body", func(t *testing.T) {
		svc := NewCommentService(&stubCommentRepo{}, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Create(context.Background(), CreateCommentInput{UserID: 1, Slug: "known-slug", Body: "   "})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})

	t.Run("Reply", func(t *testing.T) {
		parentID := uint(5)
		comments := &stubCommentRepo{
			getByID: func(ctx context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, ArticleID: 10}, nil
			},
			create: func(ctx context.Context, comment *models.Comment) error {
				comment.ID = 6
				return nil
			},
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		comment, err := svc.Create(context.Background(), CreateCommentInput{
			UserID: 1, Slug: "known-slug", Body: "a reply", ParentID: &parentID,
		})

		require.NoError(t, err)
		require.NotNil(t, comment.ParentID)
		assert.Equal(t, uint(5), *comment.ParentID)
	})

	t.Run("Parent On Another Article", func(t *testing.T) {
		parentID := uint(5)
		comments := &stubCommentRepo{
			getByID: func(ctx context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, ArticleID: 77}, nil
			},
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Create(context.Background(), CreateCommentInput{
			UserID: 1, Slug: "known-slug", Body: "a reply", ParentID: &parentID,
		})

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
		assert.Equal(t, "A comment with this ID does not exist.", appErr.Message)
	})
}

func TestCommentService_List(t *testing.T) {
	comments := &stubCommentRepo{
		listThreads: func(ctx context.Context, articleID, viewer uint) ([]*models.Comment, int, error) {
			assert.Equal(t, uint(10), articleID)
			return []*models.Comment{{ID: 1, Thread: []models.Comment{{ID: 2}}}}, 1, nil
		},
	}
	svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

	result, count, err := svc.List(context.Background(), "known-slug", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, result, 1)
	assert.Len(t, result[0].Thread, 1)
}

func TestCommentService_Delete(t *testing.T) {
	stored := func() *models.Comment {
		return &models.Comment{ID: 5, ArticleID: 10, AuthorID: 101}
	}

	t.Run("Author", func(t *testing.T) {
		deleted := false
		comments := &stubCommentRepo{
			getByID: func(ctx context.Context, id uint) (*models.Comment, error) { return stored(), nil },
			delete: func(ctx context.Context, comment *models.Comment) error {
				deleted = true
				return nil
			},
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		require.NoError(t, svc.Delete(context.Background(), 1, "known-slug", 5))
		assert.True(t, deleted)
	})

	t.Run("Non-Author", func(t *testing.T) {
		comments := &stubCommentRepo{
			getByID: func(ctx context.Context, id uint) (*models.Comment, error) { return stored(), nil },
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		err := svc.Delete(context.Background(), 2, "known-slug", 5)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodePermission, appErr.Code)
	})

	t.Run("Comment On Another Article", func(t *testing.T) {
		comments := &stubCommentRepo{
			getByID: func(ctx context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: 5, ArticleID: 77, AuthorID: 101}, nil
			},
		}
		svc := NewCommentService(comments, commentTestArticles(), &stubProfileRepo{getByUserID: profileByUser})

		err := svc.Delete(context.Background(), 1, "known-slug", 5)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	})
}
