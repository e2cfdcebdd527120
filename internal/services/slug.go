package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// slugExistsFunc probes one slug namespace (a table+column pair)
type slugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify normalizes a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug returns the normalized slug, probing the namespace with -2,
// -3, ... suffixes until a free one is found
func UniqueSlug(ctx context.Context, base string, exists slugExistsFunc) (string, error) {
	slug := Slugify(base)
	if slug == "" {
		slug = "untitled"
	}

	candidate := slug
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "failed to probe slug namespace")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}
