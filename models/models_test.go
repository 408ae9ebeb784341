package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jukusite.app/builder/sections"
)

func TestSectionBeforeSaveGate(t *testing.T) {
	sec := &Section{
		Kind:    sections.KindHero,
		Content: JSONB(`{"title":"Welcome"}`),
	}
	assert.NoError(t, sec.BeforeSave(nil))

	// Schema violations never reach the store, whatever the write path.
	sec.Content = JSONB(`{"subtitle":"no title"}`)
	assert.Error(t, sec.BeforeSave(nil))

	sec.Content = JSONB(`{"title":"Hi","unknown_field":1}`)
	assert.Error(t, sec.BeforeSave(nil))

	sec = &Section{Kind: sections.Kind("carousel"), Content: JSONB(`{}`)}
	assert.Error(t, sec.BeforeSave(nil))
}

func TestBlogPostBeforeSaveGate(t *testing.T) {
	post := &BlogPost{
		Title:  "Hello",
		Slug:   "hello",
		Blocks: JSONB(`[{"kind":"paragraph","data":{"text":"Hi"}}]`),
	}
	assert.NoError(t, post.BeforeSave(nil))

	post.Blocks = JSONB(`[{"kind":"header","data":{"text":"","level":7}}]`)
	assert.Error(t, post.BeforeSave(nil))

	post.Blocks = JSONB(`not json`)
	assert.Error(t, post.BeforeSave(nil))
}

func TestBlogPostIsPublished(t *testing.T) {
	yes := true
	no := false
	now := time.Now()

	assert.False(t, BlogPost{}.IsPublished())
	assert.False(t, BlogPost{Published: &yes}.IsPublished())
	assert.False(t, BlogPost{Published: &no, PublishedAt: &now}.IsPublished())
	assert.True(t, BlogPost{Published: &yes, PublishedAt: &now}.IsPublished())
}

func TestSectionIsVisible(t *testing.T) {
	yes := true
	no := false

	assert.False(t, Section{}.IsVisible())
	assert.False(t, Section{Visible: &no}.IsVisible())
	assert.True(t, Section{Visible: &yes}.IsVisible())
}

func TestBlogPostBlockList(t *testing.T) {
	post := BlogPost{Blocks: JSONB(`[{"kind":"paragraph","data":{"text":"Hi"}},{"kind":"delimiter"}]`)}

	list, err := post.BlockList()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "paragraph", string(list[0].Kind))

	empty := BlogPost{}
	list, err = empty.BlockList()
	require.NoError(t, err)
	assert.Empty(t, list)
}
