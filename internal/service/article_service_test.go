package service

import (
	"context"
	"regexp"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var created *models.Article
		articles := &stubArticleRepo{
			create: func(ctx context.Context, article *models.Article) error {
				article.ID = 1
				created = article
				return nil
			},
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return created, nil
			},
		}
		profiles := &stubProfileRepo{getByUserID: profileByUser}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, profiles)

		article, err := svc.Create(context.Background(), CreateArticleInput{
			UserID:      1,
			Title:       "My Awesome Title",
			Description: "about things",
			Body:        "the body",
			Tags:        []string{"dragons", "training"},
		})

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^my-awesome-title-[a-z0-9]{10}$`), article.Slug)
		assert.Equal(t, uint(101), article.AuthorID)
		assert.Len(t, article.Tags, 2)
	})

	t.Run("Missing Title", func(t *testing.T) {
		svc := NewArticleService(&stubArticleRepo{}, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Create(context.Background(), CreateArticleInput{UserID: 1, Description: "d", Body: "b"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	})

	t.Run("Slug Conflict Retried", func(t *testing.T) {
		attempts := 0
		seen := map[string]bool{}
		var created *models.Article
		articles := &stubArticleRepo{
			create: func(ctx context.Context, article *models.Article) error {
				attempts++
				seen[article.Slug] = true
				if attempts == 1 {
					return models.NewValidationError("An article with this slug already exists")
				}
				created = article
				return nil
			},
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return created, nil
			},
		}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Create(context.Background(), CreateArticleInput{
			UserID: 1, Title: "Title", Description: "d", Body: "b",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Len(t, seen, 2)
	})
}

func TestArticleService_List(t *testing.T) {
	var gotFilter repository.ArticleFilter
	articles := &stubArticleRepo{
		list: func(ctx context.Context, filter repository.ArticleFilter, viewer uint) ([]*models.Article, int64, error) {
			gotFilter = filter
			return []*models.Article{{ID: 1}}, 30, nil
		},
	}
	svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	result, total, err := svc.List(context.Background(), ListArticlesInput{Title: "django", Page: 3})

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(30), total)
	assert.Equal(t, "django", gotFilter.Title)
	assert.Equal(t, ArticlePageSize, gotFilter.Limit)
	assert.Equal(t, 2*ArticlePageSize, gotFilter.Offset)
}

func TestArticleService_Get(t *testing.T) {
	articles := &stubArticleRepo{
		getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
			return nil, models.NewNotFoundError("An article with this slug does not exist")
		},
	}
	svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	_, err := svc.Get(context.Background(), "nope", 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "Article not found", appErr.Message)
}

func TestArticleService_Update(t *testing.T) {
	stored := func() *models.Article {
		return &models.Article{ID: 1, Slug: "old-title-abcde12345", Title: "Old Title", AuthorID: 101}
	}

	t.Run("Non-Owner Rejected", func(t *testing.T) {
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return stored(), nil
			},
		}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		// User 2 resolves to profile 102, not the author profile 101.
		title := "New Title"
		_, err := svc.Update(context.Background(), UpdateArticleInput{UserID: 2, Slug: "old-title-abcde12345", Title: &title})

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodePermission, appErr.Code)
		assert.Equal(t, "You do not have permission to edit this article", appErr.Message)
	})

	t.Run("Title Change Regenerates Slug", func(t *testing.T) {
		article := stored()
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return article, nil
			},
			update: func(ctx context.Context, a *models.Article) error { return nil },
		}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		title := "Brand New Title"
		updated, err := svc.Update(context.Background(), UpdateArticleInput{UserID: 1, Slug: "old-title-abcde12345", Title: &title})

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^brand-new-title-[a-z0-9]{10}$`), updated.Slug)
	})

	t.Run("Body Only Keeps Slug", func(t *testing.T) {
		article := stored()
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return article, nil
			},
			update: func(ctx context.Context, a *models.Article) error { return nil },
		}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		body := "reworked body"
		updated, err := svc.Update(context.Background(), UpdateArticleInput{UserID: 1, Slug: "old-title-abcde12345", Body: &body})

		require.NoError(t, err)
		assert.Equal(t, "old-title-abcde12345", updated.Slug)
		assert.Equal(t, "reworked body", updated.Body)
	})
}

func TestArticleService_Delete(t *testing.T) {
	deleted := false
	articles := &stubArticleRepo{
		getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
			return &models.Article{ID: 1, Slug: slug, AuthorID: 101}, nil
		},
		delete: func(ctx context.Context, a *models.Article) error {
			deleted = true
			return nil
		},
	}
	svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	t.Run("Owner", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), 1, "some-slug"))
		assert.True(t, deleted)
	})

	t.Run("Non-Owner", func(t *testing.T) {
		err := svc.Delete(context.Background(), 2, "some-slug")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "You do not have permission to delete this article", appErr.Message)
	})
}

func TestArticleService_Like(t *testing.T) {
	var likedBy uint
	articles := &stubArticleRepo{
		getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
			return &models.Article{ID: 1, Slug: slug, AuthorID: 101, LikesCount: 1}, nil
		},
		like: func(ctx context.Context, userID uint, a *models.Article) error {
			likedBy = userID
			return nil
		},
	}
	svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	article, err := svc.Like(context.Background(), 5, "some-slug")
	require.NoError(t, err)
	// Like edges hang off the user, not the profile.
	assert.Equal(t, uint(5), likedBy)
	assert.Equal(t, 1, article.LikesCount)
}

func TestArticleService_Favorite(t *testing.T) {
	var favoritedBy uint
	articles := &stubArticleRepo{
		getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
			return &models.Article{ID: 1, Slug: slug, AuthorID: 101}, nil
		},
		favorite: func(ctx context.Context, profileID uint, a *models.Article) error {
			favoritedBy = profileID
			return nil
		},
		isFavorited: func(ctx context.Context, profileID, articleID uint) (bool, error) {
			return profileID == 105 && articleID == 1, nil
		},
	}
	svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	article, err := svc.Favorite(context.Background(), 5, "some-slug")
	require.NoError(t, err)
	// Favorites hang off the profile.
	assert.Equal(t, uint(105), favoritedBy)
	assert.True(t, article.Favorited)
}

func TestArticleService_Rate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotRater uint
		var gotRating int
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return &models.Article{ID: 1, Slug: slug}, nil
			},
		}
		rates := &stubRateRepo{
			upsert: func(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error) {
				gotRater, gotRating = raterID, rating
				return &models.Rate{Rating: rating, Counter: 1}, nil
			},
			average: func(ctx context.Context, articleID uint) (float64, error) { return 2.0, nil },
		}
		svc := NewArticleService(articles, &stubTagRepo{}, rates, &stubProfileRepo{getByUserID: profileByUser})

		avg, err := svc.Rate(context.Background(), RateArticleInput{UserID: 1, Slug: "some-slug", Rating: 2})
		require.NoError(t, err)
		assert.Equal(t, 2.0, avg)
		assert.Equal(t, uint(101), gotRater)
		assert.Equal(t, 2, gotRating)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		svc := NewArticleService(&stubArticleRepo{}, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		for _, rating := range []int{-1, 6} {
			_, err := svc.Rate(context.Background(), RateArticleInput{UserID: 1, Slug: "some-slug", Rating: rating})
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Rate should be from 0 to 5.", appErr.Message)
		}
	})

	t.Run("Unknown Slug", func(t *testing.T) {
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return nil, models.NewNotFoundError("An article with this slug does not exist")
			},
		}
		svc := NewArticleService(articles, &stubTagRepo{}, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Rate(context.Background(), RateArticleInput{UserID: 1, Slug: "nope", Rating: 2})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Article doesnt exist.", appErr.Message)
	})

	t.Run("Attempt Ceiling Propagates", func(t *testing.T) {
		articles := &stubArticleRepo{
			getBySlug: func(ctx context.Context, slug string, viewer uint) (*models.Article, error) {
				return &models.Article{ID: 1, Slug: slug}, nil
			},
		}
		rates := &stubRateRepo{
			upsert: func(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error) {
				return nil, models.NewRateLimitError("You are only allowed to rate 3 times")
			},
		}
		svc := NewArticleService(articles, &stubTagRepo{}, rates, &stubProfileRepo{getByUserID: profileByUser})

		_, err := svc.Rate(context.Background(), RateArticleInput{UserID: 1, Slug: "some-slug", Rating: 4})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeRateLimit, appErr.Code)
	})
}

func TestArticleService_Tags(t *testing.T) {
	tags := &stubTagRepo{
		list: func(ctx context.Context) ([]string, error) { return []string{"dragons", "training"}, nil },
	}
	svc := NewArticleService(&stubArticleRepo{}, tags, &stubRateRepo{}, &stubProfileRepo{getByUserID: profileByUser})

	result, err := svc.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dragons", "training"}, result)
}
