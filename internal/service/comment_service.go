package service

import (
	"context"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// CommentService implements threaded comments on articles.
type CommentService struct {
	comments repository.CommentRepository
	articles repository.ArticleRepository
	profiles repository.ProfileRepository
}

func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, profiles repository.ProfileRepository) *CommentService {
	return &CommentService{comments: comments, articles: articles, profiles: profiles}
}

func (s *CommentService) viewerProfileID(ctx context.Context, userID uint) uint {
	if userID == 0 {
		return 0
	}
	profile, err := s.profiles.GetByUserID(ctx, userID, 0)
	if err != nil || profile == nil {
		return 0
	}
	return profile.ID
}

// List returns the article's top-level comments, each carrying its reply
// thread, plus the top-level count.
func (s *CommentService) List(ctx context.Context, slug string, userID uint) ([]*models.Comment, int, error) {
	viewer := s.viewerProfileID(ctx, userID)
	article, err := s.articles.GetBySlug(ctx, slug, viewer)
	if err != nil {
		return nil, 0, err
	}
	return s.comments.ListThreads(ctx, article.ID, viewer)
}

type CreateCommentInput struct {
	UserID   uint
	Slug     string
	Body     string
	ParentID *uint
}

// Create posts a comment, optionally as a reply. A reply's parent must exist
// on the same article.
func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}

	author, err := s.profiles.GetByUserID(ctx, input.UserID, 0)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetBySlug(ctx, input.Slug, author.ID)
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != article.ID {
			return nil, models.NewNotFoundError("A comment with this ID does not exist.")
		}
	}

	comment := &models.Comment{
		Body:      input.Body,
		ArticleID: article.ID,
		AuthorID:  author.ID,
		ParentID:  input.ParentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsPosted.Inc()
	return comment, nil
}

// Delete removes the author's own comment along with its reply thread.
func (s *CommentService) Delete(ctx context.Context, userID uint, slug string, commentID uint) error {
	author, err := s.profiles.GetByUserID(ctx, userID, 0)
	if err != nil {
		return err
	}
	article, err := s.articles.GetBySlug(ctx, slug, author.ID)
	if err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID != article.ID {
		return models.NewNotFoundError("A comment with this ID does not exist.")
	}
	if comment.AuthorID != author.ID {
		return models.NewPermissionError("You do not have permission to delete this comment")
	}
	return s.comments.Delete(ctx, comment)
}
