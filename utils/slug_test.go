package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSlug(t *testing.T) {
	valid := []string{"sakura-juku", "a", "juku2026", "a1-b2-c3"}
	for _, s := range valid {
		assert.True(t, IsValidSlug(s), "expected '%s' to be valid", s)
	}

	invalid := []string{
		"",
		"-leading",
		"trailing-",
		"UPPER",
		"under_score",
		"spa ce",
		"dotted.name",
		"api",
		"admin",
		"www",
		strings.Repeat("a", 61),
	}
	for _, s := range invalid {
		assert.False(t, IsValidSlug(s), "expected '%s' to be invalid", s)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"Sakura Juku", "sakura-juku"},
		{"  Hello   World  ", "hello-world"},
		{"Math & Science!", "math-science"},
		{"already-a-slug", "already-a-slug"},
		{strings.Repeat("a", 80), strings.Repeat("a", 60)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.out, Slugify(tt.in), "input '%s'", tt.in)
	}
}

func TestSlugifyProducesValidSlugs(t *testing.T) {
	for _, in := range []string{"Sakura Juku", "A B C", "Tokyo 2026", "x"} {
		assert.True(t, IsValidSlug(Slugify(in)), "input '%s'", in)
	}
}
