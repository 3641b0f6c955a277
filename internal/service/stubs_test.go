package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// Hand-rolled repository stubs. Each method delegates to an optional function
// field so tests only wire what they exercise.

type stubUserRepo struct {
	getByID    func(ctx context.Context, id uint) (*models.User, error)
	getByEmail func(ctx context.Context, email string) (*models.User, error)
	create     func(ctx context.Context, user *models.User) error
	update     func(ctx context.Context, user *models.User) error
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByID(ctx, id)
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmail(ctx, email)
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	return s.create(ctx, user)
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	return s.update(ctx, user)
}

func (s *stubUserRepo) Delete(ctx context.Context, id uint) error { return nil }

type stubProfileRepo struct {
	getByUserID   func(ctx context.Context, userID, viewerProfileID uint) (*models.Profile, error)
	getByUsername func(ctx context.Context, username string, viewerProfileID uint) (*models.Profile, error)
	update        func(ctx context.Context, profile *models.Profile) error
	follow        func(ctx context.Context, followerID, followedID uint) error
	unfollow      func(ctx context.Context, followerID, followedID uint) error
	isFollowing   func(ctx context.Context, followerID, followedID uint) (bool, error)
	followers     func(ctx context.Context, profileID, viewerProfileID uint) ([]*models.Profile, error)
	following     func(ctx context.Context, profileID, viewerProfileID uint) ([]*models.Profile, error)
}

func (s *stubProfileRepo) GetByUserID(ctx context.Context, userID, viewerProfileID uint) (*models.Profile, error) {
	return s.getByUserID(ctx, userID, viewerProfileID)
}

func (s *stubProfileRepo) GetByUsername(ctx context.Context, username string, viewerProfileID uint) (*models.Profile, error) {
	return s.getByUsername(ctx, username, viewerProfileID)
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	if s.update == nil {
		return nil
	}
	return s.update(ctx, profile)
}

func (s *stubProfileRepo) Follow(ctx context.Context, followerID, followedID uint) error {
	return s.follow(ctx, followerID, followedID)
}

func (s *stubProfileRepo) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.unfollow(ctx, followerID, followedID)
}

func (s *stubProfileRepo) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	if s.isFollowing == nil {
		return false, nil
	}
	return s.isFollowing(ctx, followerID, followedID)
}

func (s *stubProfileRepo) Followers(ctx context.Context, profileID, viewerProfileID uint) ([]*models.Profile, error) {
	return s.followers(ctx, profileID, viewerProfileID)
}

func (s *stubProfileRepo) Following(ctx context.Context, profileID, viewerProfileID uint) ([]*models.Profile, error) {
	return s.following(ctx, profileID, viewerProfileID)
}

type stubArticleRepo struct {
	create    func(ctx context.Context, article *models.Article) error
	getBySlug func(ctx context.Context, slug string, viewerProfileID uint) (*models.Article, error)
	list      func(ctx context.Context, filter repository.ArticleFilter, viewerProfileID uint) ([]*models.Article, int64, error)
	update    func(ctx context.Context, article *models.Article) error
	delete    func(ctx context.Context, article *models.Article) error
	like      func(ctx context.Context, userID uint, article *models.Article) error
	dislike   func(ctx context.Context, userID uint, article *models.Article) error
	favorite    func(ctx context.Context, profileID uint, article *models.Article) error
	unfav       func(ctx context.Context, profileID uint, article *models.Article) error
	isFavorited func(ctx context.Context, profileID, articleID uint) (bool, error)
}

func (s *stubArticleRepo) Create(ctx context.Context, article *models.Article) error {
	return s.create(ctx, article)
}

func (s *stubArticleRepo) GetBySlug(ctx context.Context, slug string, viewerProfileID uint) (*models.Article, error) {
	return s.getBySlug(ctx, slug, viewerProfileID)
}

func (s *stubArticleRepo) List(ctx context.Context, filter repository.ArticleFilter, viewerProfileID uint) ([]*models.Article, int64, error) {
	return s.list(ctx, filter, viewerProfileID)
}

func (s *stubArticleRepo) Update(ctx context.Context, article *models.Article) error {
	return s.update(ctx, article)
}

func (s *stubArticleRepo) Delete(ctx context.Context, article *models.Article) error {
	return s.delete(ctx, article)
}

func (s *stubArticleRepo) Like(ctx context.Context, userID uint, article *models.Article) error {
	return s.like(ctx, userID, article)
}

func (s *stubArticleRepo) Dislike(ctx context.Context, userID uint, article *models.Article) error {
	return s.dislike(ctx, userID, article)
}

func (s *stubArticleRepo) Favorite(ctx context.Context, profileID uint, article *models.Article) error {
	return s.favorite(ctx, profileID, article)
}

func (s *stubArticleRepo) Unfavorite(ctx context.Context, profileID uint, article *models.Article) error {
	return s.unfav(ctx, profileID, article)
}

func (s *stubArticleRepo) IsFavorited(ctx context.Context, profileID, articleID uint) (bool, error) {
	if s.isFavorited == nil {
		return false, nil
	}
	return s.isFavorited(ctx, profileID, articleID)
}

type stubCommentRepo struct {
	create      func(ctx context.Context, comment *models.Comment) error
	getByID     func(ctx context.Context, id uint) (*models.Comment, error)
	listThreads func(ctx context.Context, articleID, viewerProfileID uint) ([]*models.Comment, int, error)
	delete      func(ctx context.Context, comment *models.Comment) error
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return s.create(ctx, comment)
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByID(ctx, id)
}

func (s *stubCommentRepo) ListThreads(ctx context.Context, articleID, viewerProfileID uint) ([]*models.Comment, int, error) {
	return s.listThreads(ctx, articleID, viewerProfileID)
}

func (s *stubCommentRepo) Delete(ctx context.Context, comment *models.Comment) error {
	return s.delete(ctx, comment)
}

type stubTagRepo struct {
	ensure func(ctx context.Context, tags []models.Tag) ([]models.Tag, error)
	list   func(ctx context.Context) ([]string, error)
}

func (s *stubTagRepo) Ensure(ctx context.Context, tags []models.Tag) ([]models.Tag, error) {
	if s.ensure == nil {
		return tags, nil
	}
	return s.ensure(ctx, tags)
}

func (s *stubTagRepo) List(ctx context.Context) ([]string, error) {
	return s.list(ctx)
}

type stubRateRepo struct {
	upsert  func(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error)
	average func(ctx context.Context, articleID uint) (float64, error)
}

func (s *stubRateRepo) Upsert(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error) {
	return s.upsert(ctx, article, raterID, rating)
}

func (s *stubRateRepo) Average(ctx context.Context, articleID uint) (float64, error) {
	return s.average(ctx, articleID)
}

type stubMailer struct {
	sent []string
	err  error
}

func (s *stubMailer) SendVerificationEmail(to, username, link string) error {
	s.sent = append(s.sent, link)
	return s.err
}

// profileByUser returns a deterministic profile for any user id, keeping
// profile ids distinct from user ids.
func profileByUser(ctx context.Context, userID, viewerProfileID uint) (*models.Profile, error) {
	return &models.Profile{ID: userID + 100, UserID: userID}, nil
}
