// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample `models.User` together with
// its profile. Optional override functions may modify the generated user
// before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		IsActive:    true,
		IsConfirmed: true,
		Profile: &models.Profile{
			Bio:   gofakeit.Sentence(10),
			Image: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		},
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateArticle constructs and persists a sample `models.Article` authored
// by the given profile, tagged with the given tag texts.
func (f *Factory) CreateArticle(author *models.Profile, tags []string, overrides ...func(*models.Article)) (*models.Article, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(5), ".")
	article := &models.Article{
		Slug:        articleSlug(title),
		Title:       title,
		Description: gofakeit.Sentence(12),
		Body:        gofakeit.Paragraph(2, 4, 8, "\n\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/450", gofakeit.UUID()),
		AuthorID:    author.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	article.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, tag := range tags {
		var t models.Tag
		err := f.db.Where(models.Tag{Tag: tag}).
			Attrs(models.Tag{Slug: strings.ToLower(strings.ReplaceAll(tag, " ", "-"))}).
			FirstOrCreate(&t).Error
		if err != nil {
			return nil, err
		}
		article.Tags = append(article.Tags, t)
	}

	for _, override := range overrides {
		override(article)
	}

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided article. A non-nil parent makes the comment a reply.
func (f *Factory) CreateComment(author *models.Profile, article *models.Article, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Body:      gofakeit.Sentence(8),
		ArticleID: article.ID,
		AuthorID:  author.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge from `follower` to `followed`.
func (f *Factory) CreateFollow(follower, followed *models.Profile) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
	}
	return f.db.Create(follow).Error
}

// CreateLike persists a like from `user` on `article`.
func (f *Factory) CreateLike(user *models.User, article *models.Article) error {
	like := &models.ArticleLike{
		UserID:    user.ID,
		ArticleID: article.ID,
	}
	return f.db.Create(like).Error
}

// CreateDislike persists a dislike from `user` on `article`.
func (f *Factory) CreateDislike(user *models.User, article *models.Article) error {
	dislike := &models.ArticleDislike{
		UserID:    user.ID,
		ArticleID: article.ID,
	}
	return f.db.Create(dislike).Error
}

// CreateFavorite persists a favorite from `profile` on `article`.
func (f *Factory) CreateFavorite(profile *models.Profile, article *models.Article) error {
	favorite := &models.Favorite{
		ProfileID: profile.ID,
		ArticleID: article.ID,
	}
	return f.db.Create(favorite).Error
}

// CreateRate persists a rating of `article` by `profile`.
func (f *Factory) CreateRate(profile *models.Profile, article *models.Article, rating int) error {
	rate := &models.Rate{
		ArticleID: article.ID,
		RaterID:   profile.ID,
		Rating:    rating,
		Counter:   1,
	}
	return f.db.Create(rate).Error
}

// articleSlug builds a unique slug for seeded articles: the lowercased
// hyphenated title plus a short random suffix.
func articleSlug(title string) string {
	words := strings.Fields(strings.ToLower(title))
	base := strings.Join(words, "-")
	return fmt.Sprintf("%s-%s", base, strings.ToLower(gofakeit.LetterN(10)))
}
