package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jukusite.app/builder/sections"
	"jukusite.app/builder/themes"
)

func TestCatalogIsConsistent(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)

	seen := map[string]bool{}

	for _, tpl := range all {
		assert.False(t, seen[tpl.ID], "duplicated template id '%s'", tpl.ID)
		seen[tpl.ID] = true

		assert.NotEmpty(t, tpl.Name)
		assert.True(t, themes.IsValid(tpl.ThemeID), "template '%s' references unknown theme '%s'", tpl.ID, tpl.ThemeID)
		require.NotEmpty(t, tpl.Kinds, "template '%s' has no sections", tpl.ID)

		for _, k := range tpl.Kinds {
			assert.True(t, sections.IsValidKind(k), "template '%s' references unknown kind '%s'", tpl.ID, k)
		}
	}
}

func TestGet(t *testing.T) {
	tpl, ok := Get("modern-simple")
	require.True(t, ok)
	assert.Equal(t, "modern-simple", tpl.ID)

	_, ok = Get("does-not-exist")
	assert.False(t, ok)
}

func TestByTheme(t *testing.T) {
	for _, tpl := range ByTheme("modern") {
		assert.Equal(t, "modern", tpl.ThemeID)
	}

	assert.Empty(t, ByTheme("does-not-exist"))
}

func TestInstantiateModernSimple(t *testing.T) {
	tpl, ok := Get("modern-simple")
	require.True(t, ok)
	require.Equal(t, []sections.Kind{sections.KindHero, sections.KindFeatures, sections.KindPricing, sections.KindContact}, tpl.Kinds)

	seeds := Instantiate(tpl)
	require.Len(t, seeds, 4)

	for i, seed := range seeds {
		assert.Equal(t, tpl.Kinds[i], seed.Kind)
		assert.Equal(t, i+1, seed.Position)
		assert.True(t, seed.Visible)

		fieldErrs, err := sections.Validate(seed.Kind, json.RawMessage(seed.Content))
		require.NoError(t, err)
		assert.True(t, fieldErrs.Empty(), "seed %d: %v", i, fieldErrs)
	}
}

func TestInstantiateSeedsAreIndependent(t *testing.T) {
	tpl, ok := Get("modern-full")
	require.True(t, ok)

	first := Instantiate(tpl)
	second := Instantiate(tpl)

	require.Equal(t, len(first), len(second))

	// Mutating one instantiation must not leak into the next.
	first[0].Content = []byte(`{}`)
	assert.NotEqual(t, string(first[0].Content), string(second[0].Content))
}
