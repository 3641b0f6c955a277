package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
	// SkipBcrypt stores plain-text passwords for speed in dev fast mode.
	SkipBcrypt bool
	// MaxDays spreads article timestamps over the last N days.
	MaxDays int
}

var tagPool = []string{
	"programming", "go", "web", "databases", "devops", "cloud",
	"testing", "security", "linux", "frontend", "backend", "api",
	"writing", "productivity", "career", "opensource", "tutorials",
	"architecture", "performance", "ai",
}

// seededTables lists every table the seeder writes, ordered so that
// clearing them respects foreign keys.
var seededTables = []string{
	"rates", "favorites", "likes", "dislikes", "comments",
	"article_tags", "tags", "articles", "follows", "profiles", "users",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d articles...", opts.NumUsers, opts.NumArticles)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	// Create test users
	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	// Create articles for users
	articles, err := createArticles(f, users, opts.NumArticles)
	if err != nil {
		return fmt.Errorf("failed to create articles: %w", err)
	}
	log.Printf("✓ %d articles created", len(articles))

	// Comments, follows and reactions on top of the base data
	if err := createEngagement(f, users, articles); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Println("✓ comments, follows and reactions created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		sql := "TRUNCATE TABLE rates, favorites, likes, dislikes, comments, article_tags, tags, articles, follows, profiles, users RESTART IDENTITY CASCADE;"
		return db.Exec(sql).Error
	}
	// SQLite has no TRUNCATE; delete table by table in FK order.
	for _, table := range seededTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(f *Factory, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []string{"jacob", "jill", "test"}
		for _, u := range baseUsers {
			username := u
			user, err := f.CreateUser(func(user *models.User) {
				user.Username = username
				user.Email = fmt.Sprintf("%s@example.com", username)
				user.Profile.Bio = "One of the founding authors."
			})
			if err == nil {
				users = append(users, *user)
			}
		}
	}

	for attempts := 0; len(users) < count && attempts < count*2; attempts++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, *user)

		if len(users)%100 == 0 {
			log.Printf("Created %d users...", len(users))
		}
	}

	return users, nil
}

func createArticles(f *Factory, users []models.User, count int) ([]models.Article, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	articles := make([]models.Article, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]

		numTags := r.Intn(4)
		tags := make([]string, 0, numTags)
		for len(tags) < numTags {
			tag := tagPool[r.Intn(len(tagPool))]
			if !contains(tags, tag) {
				tags = append(tags, tag)
			}
		}

		article, err := f.CreateArticle(author.Profile, tags)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d articles...", i)
		}
	}

	return articles, nil
}

func createEngagement(f *Factory, users []models.User, articles []models.Article) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := range articles {
		article := &articles[i]

		// comments with the occasional reply thread
		numComments := r.Intn(5)
		var lastComment *models.Comment
		for j := 0; j < numComments; j++ {
			commenter := users[r.Intn(len(users))]
			var parent *models.Comment
			if lastComment != nil && r.Float32() < 0.3 {
				parent = lastComment
			}
			comment, err := f.CreateComment(commenter.Profile, article, parent)
			if err != nil {
				return err
			}
			lastComment = comment
		}

		// likes and dislikes are mutually exclusive per user
		for _, user := range pickUsers(r, users, r.Intn(6)) {
			var err error
			if r.Float32() < 0.8 {
				err = f.CreateLike(&user, article)
			} else {
				err = f.CreateDislike(&user, article)
			}
			if err != nil {
				return err
			}
		}

		for _, user := range pickUsers(r, users, r.Intn(3)) {
			if err := f.CreateFavorite(user.Profile, article); err != nil {
				return err
			}
		}

		for _, user := range pickUsers(r, users, r.Intn(4)) {
			if err := f.CreateRate(user.Profile, article, r.Intn(models.MaxRating+1)); err != nil {
				return err
			}
		}
	}

	// a sparse follow graph
	for i := range users {
		for _, followed := range pickUsers(r, users, r.Intn(4)) {
			if followed.ID == users[i].ID {
				continue
			}
			if err := f.CreateFollow(users[i].Profile, followed.Profile); err != nil {
				return err
			}
		}
	}

	return nil
}

// pickUsers returns up to n distinct users chosen at random.
func pickUsers(r *rand.Rand, users []models.User, n int) []models.User {
	if n > len(users) {
		n = len(users)
	}
	picked := make([]models.User, 0, n)
	seen := make(map[uint]bool, n)
	for len(picked) < n {
		u := users[r.Intn(len(users))]
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		picked = append(picked, u)
	}
	return picked
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
