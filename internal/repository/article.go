// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ArticleFilter narrows article listings. Zero values mean "no filter".
type ArticleFilter struct {
	Title    string // substring match on title
	AuthorID uint   // exact author profile id
	Tag      string // exact tag text
	Search   string // free text across title, body, description, author, tags
	Limit    int
	Offset   int
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, slug string, viewerProfileID uint) (*models.Article, error)
	List(ctx context.Context, filter ArticleFilter, viewerProfileID uint) ([]*models.Article, int64, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, article *models.Article) error
	Like(ctx context.Context, userID uint, article *models.Article) error
	Dislike(ctx context.Context, userID uint, article *models.Article) error
	Favorite(ctx context.Context, profileID uint, article *models.Article) error
	Unfavorite(ctx context.Context, profileID uint, article *models.Article) error
	IsFavorited(ctx context.Context, profileID, articleID uint) (bool, error)
}

// articleRepository implements ArticleRepository
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// applyArticleDetails adds subqueries to fetch reaction counts and the average
// rating in a single query.
func (r *articleRepository) applyArticleDetails(db *gorm.DB) *gorm.DB {
	selectQuery := "articles.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.article_id = articles.id) as likes_count, " +
		"(SELECT COUNT(*) FROM dislikes WHERE dislikes.article_id = articles.id) as dislikes_count, " +
		"(SELECT COUNT(*) FROM favorites WHERE favorites.article_id = articles.id) as favorites_count, " +
		"(SELECT COALESCE(AVG(rating), 0) FROM rates WHERE rates.article_id = articles.id) as average_rating"

	return db.Select(selectQuery)
}

// hydrate fills the non-column fields of loaded articles: the flattened tag
// list and the author profile's identity and follow counts.
func (r *articleRepository) hydrate(ctx context.Context, articles []*models.Article, viewerProfileID uint) error {
	if len(articles) == 0 {
		return nil
	}

	for _, a := range articles {
		a.TagList = make([]string, 0, len(a.Tags))
		for _, t := range a.Tags {
			a.TagList = append(a.TagList, t.Tag)
		}
	}

	ids := make([]uint, 0, len(articles))
	seen := map[uint]struct{}{}
	for _, a := range articles {
		if _, ok := seen[a.AuthorID]; ok {
			continue
		}
		seen[a.AuthorID] = struct{}{}
		ids = append(ids, a.AuthorID)
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
	for _, a := range articles {
		if p := byID[a.AuthorID]; p != nil {
			a.Author = *p
		}
	}
	return nil
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("An article with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTags(ctx)
	return nil
}

// articleCacheEntry carries the columns the response shape hides (id, author
// id) so a cache hit returns the same row a database read would.
type articleCacheEntry struct {
	Article  models.Article `json:"article"`
	ID       uint           `json:"id"`
	AuthorID uint           `json:"author_id"`
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string, viewerProfileID uint) (*models.Article, error) {
	var article models.Article

	fetch := func() error {
		err := r.applyArticleDetails(r.db.WithContext(ctx)).
			Preload("Tags").
			Where("articles.slug = ?", slug).
			First(&article).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("An article with this slug does not exist")
			}
			return models.NewInternalError(err)
		}
		return r.hydrate(ctx, []*models.Article{&article}, viewerProfileID)
	}

	// Anonymous reads share a cache entry; reaction state is viewer-specific
	// so signed-in reads always hit the database.
	if viewerProfileID != 0 {
		if err := fetch(); err != nil {
			return nil, err
		}
		return &article, nil
	}

	var entry articleCacheEntry
	err := cache.Aside(ctx, cache.ArticleKey(slug), &entry, cache.ArticleTTL, func() error {
		if err := fetch(); err != nil {
			return err
		}
		entry = articleCacheEntry{Article: article, ID: article.ID, AuthorID: article.AuthorID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	article = entry.Article
	article.ID = entry.ID
	article.AuthorID = entry.AuthorID
	return &article, nil
}

// applyFilter appends WHERE clauses for the requested listing filters.
// Substring matches go through LOWER(...) LIKE so they behave the same on
// PostgreSQL and the sqlite driver used in handler tests.
func (r *articleRepository) applyFilter(db *gorm.DB, filter ArticleFilter) *gorm.DB {
	if filter.Title != "" {
		db = db.Where("LOWER(articles.title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.AuthorID != 0 {
		db = db.Where("articles.author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		db = db.Where(
			"EXISTS(SELECT 1 FROM article_tags JOIN tags ON tags.id = article_tags.tag_id WHERE article_tags.article_id = articles.id AND tags.tag = ?)",
			filter.Tag,
		)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		db = db.Where(
			"LOWER(articles.title) LIKE ? OR LOWER(articles.description) LIKE ? OR LOWER(articles.body) LIKE ? "+
				"OR EXISTS(SELECT 1 FROM article_tags JOIN tags ON tags.id = article_tags.tag_id WHERE article_tags.article_id = articles.id AND LOWER(tags.tag) LIKE ?) "+
				"OR EXISTS(SELECT 1 FROM profiles JOIN users ON users.id = profiles.user_id WHERE profiles.id = articles.author_id AND LOWER(users.username) LIKE ?)",
			like, like, like, like, like,
		)
	}
	return db
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter, viewerProfileID uint) ([]*models.Article, int64, error) {
	var total int64
	counted := r.applyFilter(r.db.WithContext(ctx).Model(&models.Article{}), filter)
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var articles []*models.Article
	query := r.applyFilter(r.applyArticleDetails(r.db.WithContext(ctx)), filter).
		Preload("Tags").
		Order("articles.created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&articles).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := r.hydrate(ctx, articles, viewerProfileID); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("An article with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(article).Association("Tags").Replace(article.Tags); err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	cache.InvalidateTags(ctx)
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Delete(&models.Article{}, article.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Like(ctx context.Context, userID uint, article *models.Article) error {
	// Removing the opposite reaction and inserting the new one happen in one
	// transaction so a user never holds both.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.ArticleDislike{}).Error; err != nil {
			return err
		}
		// INSERT ... ON CONFLICT DO NOTHING keeps the add idempotent under races.
		return tx.Exec(
			`INSERT INTO likes (user_id, article_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (user_id, article_id) DO NOTHING`,
			userID, article.ID,
		).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Dislike(ctx context.Context, userID uint, article *models.Article) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND article_id = ?", userID, article.ID).
			Delete(&models.ArticleLike{}).Error; err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO dislikes (user_id, article_id, created_at)
			 VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (user_id, article_id) DO NOTHING`,
			userID, article.ID,
		).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Favorite(ctx context.Context, profileID uint, article *models.Article) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO favorites (profile_id, article_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (profile_id, article_id) DO NOTHING`,
		profileID, article.ID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) Unfavorite(ctx context.Context, profileID uint, article *models.Article) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND article_id = ?", profileID, article.ID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.Slug)
	return nil
}

func (r *articleRepository) IsFavorited(ctx context.Context, profileID, articleID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("profile_id = ? AND article_id = ?", profileID, articleID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
