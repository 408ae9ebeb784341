package utils

import (
	"regexp"
	"slices"
	"strings"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,58}[a-z0-9])?$`)

// Slugs that would shadow application routes or infrastructure paths.
var reservedSlugs = []string{"api", "health", "assets", "static", "admin", "www"}

func IsValidSlug(s string) bool {
	if !slugRegex.MatchString(s) {
		return false
	}

	return !slices.Contains(reservedSlugs, s)
}

// Slugify derives a URL slug from free text. It only handles ASCII; names
// that slugify to nothing must be given an explicit slug by the user.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	re := regexp.MustCompile(`[^a-z0-9]+`)
	s = re.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > 60 {
		s = strings.Trim(s[:60], "-")
	}

	return s
}
