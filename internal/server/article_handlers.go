package server

import (
	"encoding/json"
	"strconv"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseTags enforces that the tags field, when present, is a JSON list of
// strings. A bare string is a validation error, not a single-element list.
func parseTags(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, models.NewValidationError("Tags must be a list of strings")
	}
	return tags, nil
}

// CreateArticle handles POST /api/articles/
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Article struct {
			Title       string          `json:"title"`
			Description string          `json:"description"`
			Body        string          `json:"body"`
			ImageURL    string          `json:"image_url"`
			Tags        json.RawMessage `json:"tags"`
		} `json:"article"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tags, err := parseTags(req.Article.Tags)
	if err != nil {
		return respondError(c, err)
	}

	article, err := s.articleService.Create(c.UserContext(), service.CreateArticleInput{
		UserID:      currentUserID(c),
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		ImageURL:    req.Article.ImageURL,
		Tags:        tags,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// ListArticles handles GET /api/articles/
func (s *Server) ListArticles(c *fiber.Ctx) error {
	authorID, _ := strconv.ParseUint(c.Query("author__id"), 10, 32)

	articles, total, err := s.articleService.List(c.UserContext(), service.ListArticlesInput{
		UserID:   currentUserID(c),
		Title:    c.Query("title"),
		AuthorID: uint(authorID),
		Tag:      c.Query("tags__tag"),
		Search:   c.Query("search"),
		Page:     parsePage(c),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"articles":      articles,
		"articlesCount": total,
	})
}

// GetArticle handles GET /api/articles/:slug/
func (s *Server) GetArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Get(c.UserContext(), c.Params("slug"), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// UpdateArticle handles PUT /api/articles/:slug/
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	var req struct {
		Article struct {
			Title       *string         `json:"title"`
			Description *string         `json:"description"`
			Body        *string         `json:"body"`
			ImageURL    *string         `json:"image_url"`
			Tags        json.RawMessage `json:"tags"`
		} `json:"article"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.UpdateArticleInput{
		UserID:      currentUserID(c),
		Slug:        c.Params("slug"),
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		ImageURL:    req.Article.ImageURL,
	}
	if len(req.Article.Tags) > 0 && string(req.Article.Tags) != "null" {
		tags, err := parseTags(req.Article.Tags)
		if err != nil {
			return respondError(c, err)
		}
		input.Tags = tags
	}

	article, err := s.articleService.Update(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"article": article})
}

// DeleteArticle handles DELETE /api/articles/:slug/
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	if err := s.articleService.Delete(c.UserContext(), currentUserID(c), c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeArticle handles PUT /api/articles/:slug/like/
func (s *Server) LikeArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Like(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// DislikeArticle handles PUT /api/articles/:slug/dislike/
func (s *Server) DislikeArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Dislike(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// FavoriteArticle handles POST /api/articles/:slug/favorite/
func (s *Server) FavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Favorite(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"article": article})
}

// UnfavoriteArticle handles DELETE /api/articles/:slug/favorite/
func (s *Server) UnfavoriteArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Unfavorite(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"article": article})
}

// RateArticle handles POST /api/articles/:slug/rate/
func (s *Server) RateArticle(c *fiber.Ctx) error {
	var req struct {
		Rate struct {
			Rate *int `json:"rate"`
		} `json:"rate"`
	}
	if err := c.BodyParser(&req); err != nil || req.Rate.Rate == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Rate should be from 0 to 5."))
	}

	avg, err := s.articleService.Rate(c.UserContext(), service.RateArticleInput{
		UserID: currentUserID(c),
		Slug:   c.Params("slug"),
		Rating: *req.Rate.Rate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"rate": fiber.Map{
			"message":    "Successfull.",
			"avg_rating": avg,
		},
	})
}

// ListTags handles GET /api/tags/
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.articleService.Tags(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}
