// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateRepository defines the interface for article rating operations
type RateRepository interface {
	Upsert(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error)
	Average(ctx context.Context, articleID uint) (float64, error)
}

// rateRepository implements RateRepository
type rateRepository struct {
	db *gorm.DB
}

// NewRateRepository creates a new rate repository
func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

// Upsert records a rating for the (article, rater) pair. The existing row is
// locked for the duration of the transaction so concurrent re-rates cannot
// race the attempt counter. A rater is cut off after MaxRateAttempts saves.
func (r *rateRepository) Upsert(ctx context.Context, article *models.Article, raterID uint, rating int) (*models.Rate, error) {
	var rate models.Rate

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("article_id = ? AND rater_id = ?", article.ID, raterID)
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := query.First(&rate).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rate = models.Rate{
				ArticleID: article.ID,
				RaterID:   raterID,
				Rating:    rating,
				Counter:   1,
			}
			return tx.Create(&rate).Error
		case err != nil:
			return err
		}

		if rate.Counter >= models.MaxRateAttempts {
			return models.NewRateLimitError("You are only allowed to rate 3 times")
		}
		rate.Rating = rating
		rate.Counter++
		return tx.Save(&rate).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateArticle(ctx, article.Slug)
	return &rate, nil
}

func (r *rateRepository) Average(ctx context.Context, articleID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Rate{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("article_id = ?", articleID).
		Scan(&avg).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return avg, nil
}
