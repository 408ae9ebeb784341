package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCustomDomain(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare hostname", "juku.example.com", "juku.example.com"},
		{"mixed case", "Juku.Example.COM", "juku.example.com"},
		{"url with path", "https://x.com/some/path", "x.com"},
		{"scheme and port", "http://example.com:8080", "example.com"},
		{"surrounding space", "  example.com  ", "example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			host, err := NormalizeCustomDomain(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, host)
		})
	}
}

func TestNormalizeCustomDomainRejectsInvalid(t *testing.T) {
	for _, input := range []string{"not a domain", "localhost", "com"} {
		t.Run(input, func(t *testing.T) {
			_, err := NormalizeCustomDomain(input)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeCustomDomainEmptyIsClear(t *testing.T) {
	for _, input := range []string{"", "   "} {
		host, err := NormalizeCustomDomain(input)
		require.NoError(t, err)
		assert.Empty(t, host)
	}
}
