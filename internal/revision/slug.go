package revision

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

const fallbackSlug = "untitled"

// BaseSlug turns a title into a URL-friendly slug
func BaseSlug(title string) string {
	s := slug.Make(title)
	if s == "" {
		return fallbackSlug
	}
	return s
}

// ProvisionalSlug is assigned at creation. The creation time token keeps it unique
// until verification assigns the canonical slug.
func ProvisionalSlug(title string, createdAt time.Time) string {
	t := createdAt.UTC()
	return fmt.Sprintf("%s-%s%09d", BaseSlug(title), t.Format("20060102150405"), t.Nanosecond())
}

// CanonicalSlug returns base if it is free, otherwise base-N with the smallest unused N >= 1
func CanonicalSlug(base string, taken func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
