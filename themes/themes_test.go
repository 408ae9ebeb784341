package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	assert.Len(t, IDs(), len(all))

	for _, theme := range all {
		assert.True(t, IsValid(theme.ID))
		assert.NotEmpty(t, theme.Name)
		assert.NotEmpty(t, theme.Style.FontFamily)

		got, ok := Get(theme.ID)
		require.True(t, ok)
		assert.Equal(t, theme.ID, got.ID)
	}
}

func TestUnknownTheme(t *testing.T) {
	_, ok := Get("does-not-exist")
	assert.False(t, ok)
	assert.False(t, IsValid("does-not-exist"))
	assert.False(t, IsValid(""))
}
