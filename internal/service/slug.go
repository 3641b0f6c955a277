package service

import (
	"math/rand"
	"strings"
)

const (
	slugSuffixLen = 10
	slugMaxLen    = 255

	slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

func randomSuffix() string {
	b := make([]byte, slugSuffixLen)
	for i := range b {
		b[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return string(b)
}

// newSlug builds "<slugified-title>-<random suffix>" capped at slugMaxLen.
// Overlong slugs shed whole hyphen-separated words from the tail before
// falling back to a plain character cut.
func newSlug(title string) string {
	base := slugify(title)
	suffix := randomSuffix()
	max := slugMaxLen - slugSuffixLen - 1
	if len(base) > max {
		words := strings.Split(base, "-")
		for len(words) > 1 && len(strings.Join(words, "-")) > max {
			words = words[:len(words)-1]
		}
		base = strings.Join(words, "-")
		if len(base) > max {
			base = base[:max]
		}
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
