package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"sort"

	"jukusite.app/builder/models"
	"jukusite.app/builder/sections"
	"jukusite.app/builder/themes"
)

type pageData struct {
	Site           models.Site
	Theme          themes.Theme
	PrimaryColor   string
	SecondaryColor string
	Sections       []template.HTML
}

type sectionData struct {
	Site  models.Site
	Theme themes.Theme
	C     sections.Content
}

func resolveTheme(site models.Site) themes.Theme {
	theme, ok := themes.Get(site.ThemeID)
	if !ok {
		// The theme set is closed; an unknown ID is a configuration error.
		// Degrade to the first registered theme instead of failing the page.
		slog.Error(fmt.Sprintf("Unknown theme '%s' for site '%s'.", site.ThemeID, site.Slug))
		theme = themes.All()[0]
	}

	return theme
}

// renderSection dispatches one section to its kind's view. A section that
// cannot be decoded or belongs to an unknown kind renders nothing; the
// page never fails because of one broken block.
func renderSection(site models.Site, theme themes.Theme, sec models.Section) (template.HTML, bool) {
	if !sections.IsValidKind(sec.Kind) {
		slog.Warn(fmt.Sprintf("Skipping section '%s' with unknown kind '%s'.", sec.ID, sec.Kind))
		return "", false
	}

	content, err := sections.Decode(sec.Kind, json.RawMessage(sec.Content))
	if err != nil {
		slog.Warn(fmt.Sprintf("Skipping section '%s' with undecodable content: %v", sec.ID, err))
		return "", false
	}

	buf := bytes.Buffer{}

	if err := tpls().ExecuteTemplate(&buf, string(sec.Kind), sectionData{Site: site, Theme: theme, C: content}); err != nil {
		slog.Error(fmt.Sprintf("Could not render section '%s' of kind '%s': %v", sec.ID, sec.Kind, err))
		return "", false
	}

	return template.HTML(buf.String()), true
}

// RenderSite produces the full public page for a site: header, the visible
// sections in position order, footer.
func RenderSite(site models.Site, secs []models.Section) (string, error) {
	theme := resolveTheme(site)

	visible := make([]models.Section, 0, len(secs))

	for _, sec := range secs {
		if sec.IsVisible() {
			visible = append(visible, sec)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Position < visible[j].Position
	})

	rendered := make([]template.HTML, 0, len(visible))

	for _, sec := range visible {
		if html, ok := renderSection(site, theme, sec); ok {
			rendered = append(rendered, html)
		}
	}

	data := pageData{
		Site:           site,
		Theme:          theme,
		PrimaryColor:   site.PrimaryColor,
		SecondaryColor: site.SecondaryColor,
		Sections:       rendered,
	}

	buf := bytes.Buffer{}

	if err := tpls().ExecuteTemplate(&buf, "page", data); err != nil {
		return "", fmt.Errorf("could not render site '%s': %w", site.Slug, err)
	}

	return buf.String(), nil
}
