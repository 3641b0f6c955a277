package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple title", "My Awesome Title", "my-awesome-title"},
		{"punctuation collapses", "Hello,   World!!!", "hello-world"},
		{"leading and trailing junk", "  --Django?  ", "django"},
		{"digits survive", "Top 10 Things", "top-10-things"},
		{"empty", "", ""},
		{"all punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.title))
		})
	}
}

func TestNewSlug(t *testing.T) {
	pattern := regexp.MustCompile(`^my-awesome-title-[a-z0-9]{10}$`)
	slug := newSlug("My Awesome Title")
	assert.Regexp(t, pattern, slug)

	// Two calls should not collide on the suffix.
	assert.NotEqual(t, slug, newSlug("My Awesome Title"))
}

func TestNewSlugEmptyTitle(t *testing.T) {
	slug := newSlug("???")
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{10}$`), slug)
}

func TestNewSlugLongTitle(t *testing.T) {
	long := strings.Repeat("word ", 100) // 499 chars slugified
	slug := newSlug(long)
	assert.LessOrEqual(t, len(slug), slugMaxLen)
	// Whole words are dropped, so no word is cut mid-way.
	assert.Regexp(t, regexp.MustCompile(`^(word-)+[a-z0-9]{10}$`), slug)
}

func TestNewSlugUnbreakableTitle(t *testing.T) {
	long := strings.Repeat("a", 300)
	slug := newSlug(long)
	assert.Len(t, slug, slugMaxLen)
	assert.Regexp(t, regexp.MustCompile(`^a+-[a-z0-9]{10}$`), slug)
}
