package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// ArticlePageSize is the fixed page size for article listings.
const ArticlePageSize = 12

// ArticleService implements article CRUD, reactions, favorites, rating and
// the public tag list.
type ArticleService struct {
	articles repository.ArticleRepository
	tags     repository.TagRepository
	rates    repository.RateRepository
	profiles repository.ProfileRepository
}

func NewArticleService(articles repository.ArticleRepository, tags repository.TagRepository, rates repository.RateRepository, profiles repository.ProfileRepository) *ArticleService {
	return &ArticleService{articles: articles, tags: tags, rates: rates, profiles: profiles}
}

// viewerProfileID resolves the profile id used for viewer-specific fields.
// Anonymous requests resolve to zero.
func (s *ArticleService) viewerProfileID(ctx context.Context, userID uint) uint {
	if userID == 0 {
		return 0
	}
	profile, err := s.profiles.GetByUserID(ctx, userID, 0)
	if err != nil || profile == nil {
		return 0
	}
	return profile.ID
}

// authorProfile resolves the caller's profile, failing loud since every
// authenticated user owns exactly one.
func (s *ArticleService) authorProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

type CreateArticleInput struct {
	UserID      uint
	Title       string
	Description string
	Body        string
	ImageURL    string
	Tags        []string
}

func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput) (*models.Article, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, models.NewValidationError("Body is required")
	}

	author, err := s.authorProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	tags, err := s.ensureTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		ImageURL:    input.ImageURL,
		AuthorID:    author.ID,
		Tags:        tags,
	}

	// One retry in case the random suffix collides.
	for attempt := 0; attempt < 2; attempt++ {
		article.Slug = newSlug(input.Title)
		err = s.articles.Create(ctx, article)
		if err == nil || !isSlugConflict(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	observability.ArticlesPublished.Inc()
	return s.articles.GetBySlug(ctx, article.Slug, author.ID)
}

type ListArticlesInput struct {
	UserID   uint
	Title    string
	AuthorID uint
	Tag      string
	Search   string
	Page     int
}

func (s *ArticleService) List(ctx context.Context, input ListArticlesInput) ([]*models.Article, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	filter := repository.ArticleFilter{
		Title:    input.Title,
		AuthorID: input.AuthorID,
		Tag:      input.Tag,
		Search:   input.Search,
		Limit:    ArticlePageSize,
		Offset:   (page - 1) * ArticlePageSize,
	}
	return s.articles.List(ctx, filter, s.viewerProfileID(ctx, input.UserID))
}

func (s *ArticleService) Get(ctx context.Context, slug string, userID uint) (*models.Article, error) {
	viewer := s.viewerProfileID(ctx, userID)
	article, err := s.articles.GetBySlug(ctx, slug, viewer)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodeNotFound {
			return nil, models.NewNotFoundError("Article not found")
		}
		return nil, err
	}
	if viewer != 0 {
		favorited, err := s.articles.IsFavorited(ctx, viewer, article.ID)
		if err != nil {
			return nil, err
		}
		article.Favorited = favorited
	}
	return article, nil
}

type UpdateArticleInput struct {
	UserID      uint
	Slug        string
	Title       *string
	Description *string
	Body        *string
	ImageURL    *string
	Tags        []string
}

// Update partially updates an owned article. A title change regenerates the
// slug.
func (s *ArticleService) Update(ctx context.Context, input UpdateArticleInput) (*models.Article, error) {
	author, err := s.authorProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetBySlug(ctx, input.Slug, author.ID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != author.ID {
		return nil, models.NewPermissionError("You do not have permission to edit this article")
	}

	if input.Title != nil && *input.Title != article.Title {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, models.NewValidationError("Title is required")
		}
		article.Title = *input.Title
		article.Slug = newSlug(*input.Title)
	}
	if input.Description != nil {
		article.Description = *input.Description
	}
	if input.Body != nil {
		article.Body = *input.Body
	}
	if input.ImageURL != nil {
		article.ImageURL = *input.ImageURL
	}
	if input.Tags != nil {
		tags, err := s.ensureTags(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		article.Tags = tags
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.GetBySlug(ctx, article.Slug, author.ID)
}

func (s *ArticleService) Delete(ctx context.Context, userID uint, slug string) error {
	author, err := s.authorProfile(ctx, userID)
	if err != nil {
		return err
	}
	article, err := s.articles.GetBySlug(ctx, slug, author.ID)
	if err != nil {
		return err
	}
	if article.AuthorID != author.ID {
		return models.NewPermissionError("You do not have permission to delete this article")
	}
	return s.articles.Delete(ctx, article)
}

// Like records the caller's like, displacing any dislike, and returns the
// refreshed article.
func (s *ArticleService) Like(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.react(ctx, userID, slug, s.articles.Like, "like")
}

// Dislike mirrors Like in the opposite direction.
func (s *ArticleService) Dislike(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.react(ctx, userID, slug, s.articles.Dislike, "dislike")
}

func (s *ArticleService) react(ctx context.Context, userID uint, slug string, apply func(context.Context, uint, *models.Article) error, kind string) (*models.Article, error) {
	viewer := s.viewerProfileID(ctx, userID)
	article, err := s.articles.GetBySlug(ctx, slug, viewer)
	if err != nil {
		return nil, err
	}
	if err := apply(ctx, userID, article); err != nil {
		return nil, err
	}
	observability.ReactionsRecorded.WithLabelValues(kind).Inc()
	return s.articles.GetBySlug(ctx, slug, viewer)
}

func (s *ArticleService) Favorite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.setFavorite(ctx, userID, slug, s.articles.Favorite)
}

func (s *ArticleService) Unfavorite(ctx context.Context, userID uint, slug string) (*models.Article, error) {
	return s.setFavorite(ctx, userID, slug, s.articles.Unfavorite)
}

func (s *ArticleService) setFavorite(ctx context.Context, userID uint, slug string, apply func(context.Context, uint, *models.Article) error) (*models.Article, error) {
	profile, err := s.authorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetBySlug(ctx, slug, profile.ID)
	if err != nil {
		return nil, err
	}
	if err := apply(ctx, profile.ID, article); err != nil {
		return nil, err
	}
	article, err = s.articles.GetBySlug(ctx, slug, profile.ID)
	if err != nil {
		return nil, err
	}
	favorited, err := s.articles.IsFavorited(ctx, profile.ID, article.ID)
	if err != nil {
		return nil, err
	}
	article.Favorited = favorited
	return article, nil
}

type RateArticleInput struct {
	UserID uint
	Slug   string
	Rating int
}

// Rate records or updates the caller's rating and returns the new average.
// Re-rating is capped per the rate counter.
func (s *ArticleService) Rate(ctx context.Context, input RateArticleInput) (float64, error) {
	if input.Rating < 0 || input.Rating > models.MaxRating {
		return 0, models.NewValidationError("Rate should be from 0 to 5.")
	}

	profile, err := s.authorProfile(ctx, input.UserID)
	if err != nil {
		return 0, err
	}
	article, err := s.articles.GetBySlug(ctx, input.Slug, profile.ID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodeNotFound {
			return 0, models.NewNotFoundError("Article doesnt exist.")
		}
		return 0, err
	}

	if _, err := s.rates.Upsert(ctx, article, profile.ID, input.Rating); err != nil {
		return 0, err
	}
	return s.rates.Average(ctx, article.ID)
}

// Tags returns every tag text ever used.
func (s *ArticleService) Tags(ctx context.Context) ([]string, error) {
	return s.tags.List(ctx)
}

func (s *ArticleService) ensureTags(ctx context.Context, texts []string) ([]models.Tag, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	tags := make([]models.Tag, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		tags = append(tags, models.Tag{Tag: text, Slug: slugify(text)})
	}
	return s.tags.Ensure(ctx, tags)
}

func isSlugConflict(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) &&
		appErr.Code == models.ErrCodeValidation &&
		strings.Contains(appErr.Message, "slug")
}
