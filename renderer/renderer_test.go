package renderer

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jukusite.app/builder/models"
	"jukusite.app/builder/sections"
)

func makeSite() models.Site {
	published := true

	return models.Site{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Name:           "Sakura Juku",
		Slug:           "sakura-juku",
		ThemeID:        "modern",
		PrimaryColor:   "#2563eb",
		SecondaryColor: "#f59e0b",
		Published:      &published,
	}
}

func makeSection(siteID uuid.UUID, kind sections.Kind, position int, visible bool) models.Section {
	return models.Section{
		ID:       uuid.New(),
		SiteID:   siteID,
		Kind:     kind,
		Position: position,
		Visible:  &visible,
		Content:  models.JSONB(sections.DefaultRaw(kind)),
	}
}

func TestRenderSite(t *testing.T) {
	site := makeSite()
	secs := []models.Section{
		makeSection(site.ID, sections.KindContact, 3, true),
		makeSection(site.ID, sections.KindHero, 1, true),
		makeSection(site.ID, sections.KindFeatures, 2, true),
	}

	html, err := RenderSite(site, secs)
	require.NoError(t, err)

	assert.Contains(t, html, "Sakura Juku")
	assert.Contains(t, html, "Learning that sticks")
	assert.Contains(t, html, "Why choose us")
	assert.Contains(t, html, "Contact us")

	// Position order, not input order.
	assert.Less(t, indexOf(t, html, "Learning that sticks"), indexOf(t, html, "Why choose us"))
	assert.Less(t, indexOf(t, html, "Why choose us"), indexOf(t, html, "Contact us"))
}

func indexOf(t *testing.T, haystack string, needle string) int {
	t.Helper()

	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}

	t.Fatalf("%q not found in rendered output", needle)

	return -1
}

func TestRenderSiteSkipsHiddenSections(t *testing.T) {
	site := makeSite()
	secs := []models.Section{
		makeSection(site.ID, sections.KindHero, 1, true),
		makeSection(site.ID, sections.KindPricing, 2, false),
	}

	html, err := RenderSite(site, secs)
	require.NoError(t, err)

	assert.Contains(t, html, "Learning that sticks")
	assert.NotContains(t, html, "Tuition")
}

func TestRenderSiteSkipsBrokenSections(t *testing.T) {
	site := makeSite()

	visible := true
	broken := models.Section{
		ID:       uuid.New(),
		SiteID:   site.ID,
		Kind:     sections.Kind("carousel"),
		Position: 2,
		Visible:  &visible,
		Content:  models.JSONB(`{}`),
	}
	undecodable := models.Section{
		ID:       uuid.New(),
		SiteID:   site.ID,
		Kind:     sections.KindAbout,
		Position: 3,
		Visible:  &visible,
		Content:  models.JSONB(`{"title":`),
	}

	secs := []models.Section{
		makeSection(site.ID, sections.KindHero, 1, true),
		broken,
		undecodable,
	}

	html, err := RenderSite(site, secs)
	require.NoError(t, err)
	assert.Contains(t, html, "Learning that sticks")
}

func TestRenderSiteEscapesUserContent(t *testing.T) {
	site := makeSite()

	visible := true
	sec := models.Section{
		ID:       uuid.New(),
		SiteID:   site.ID,
		Kind:     sections.KindHero,
		Position: 1,
		Visible:  &visible,
		Content:  models.JSONB(`{"title":"<script>alert(1)</script>"}`),
	}

	html, err := RenderSite(site, []models.Section{sec})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRenderSiteUnknownThemeDegrades(t *testing.T) {
	site := makeSite()
	site.ThemeID = "does-not-exist"

	html, err := RenderSite(site, []models.Section{makeSection(site.ID, sections.KindHero, 1, true)})
	require.NoError(t, err)
	assert.Contains(t, html, "Learning that sticks")
}

func TestRenderBlogList(t *testing.T) {
	site := makeSite()

	published := true
	now := time.Now()
	posts := []models.BlogPost{
		{
			ID:          uuid.New(),
			SiteID:      site.ID,
			Title:       "Open house this spring",
			Slug:        "open-house",
			Blocks:      models.JSONB(`[]`),
			Published:   &published,
			PublishedAt: &now,
		},
	}

	html, err := RenderBlogList(site, posts)
	require.NoError(t, err)
	assert.Contains(t, html, "Open house this spring")
	assert.Contains(t, html, "/sakura-juku/blog/open-house")
}

func TestRenderBlogPost(t *testing.T) {
	site := makeSite()

	published := true
	now := time.Now()
	post := models.BlogPost{
		ID:          uuid.New(),
		SiteID:      site.ID,
		Title:       "Exam season tips",
		Slug:        "exam-season-tips",
		Blocks:      models.JSONB(`[{"kind":"header","data":{"text":"Sleep matters","level":2}},{"kind":"paragraph","data":{"text":"Eight hours beats cramming."}},{"kind":"delimiter"}]`),
		Published:   &published,
		PublishedAt: &now,
	}

	html, err := RenderBlogPost(site, post)
	require.NoError(t, err)
	assert.Contains(t, html, "Exam season tips")
	assert.Contains(t, html, "Sleep matters")
	assert.Contains(t, html, "Eight hours beats cramming.")
}

func TestRenderBlogPostWithBrokenBlocksStillRenders(t *testing.T) {
	site := makeSite()

	published := true
	now := time.Now()
	post := models.BlogPost{
		ID:          uuid.New(),
		SiteID:      site.ID,
		Title:       "Broken body",
		Slug:        "broken-body",
		Blocks:      models.JSONB(`not json`),
		Published:   &published,
		PublishedAt: &now,
	}

	html, err := RenderBlogPost(site, post)
	require.NoError(t, err)
	assert.Contains(t, html, "Broken body")
}
