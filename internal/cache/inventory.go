package cache

import (
	"context"
	"fmt"
	"time"
)

// Users are never cached: auth middleware reads the row on every request and
// the active flag must be current.
const (
	ArticleKeyPrefix = "article:%s"
	ProfileKeyPrefix = "profile:%s"
	TagListKey       = "tags"
)

const (
	ArticleTTL = 30 * time.Minute
	ProfileTTL = 10 * time.Minute
	TagListTTL = 2 * time.Minute
)

func ArticleKey(slug string) string {
	return fmt.Sprintf(ArticleKeyPrefix, slug)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateArticle(ctx context.Context, slug string) {
	Invalidate(ctx, ArticleKey(slug))
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}

func InvalidateTags(ctx context.Context) {
	Invalidate(ctx, TagListKey)
}
