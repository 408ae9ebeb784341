package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"

	"jukusite.app/builder/blocks"
	"jukusite.app/builder/models"
	"jukusite.app/builder/themes"
)

type blogListData struct {
	Site           models.Site
	Theme          themes.Theme
	PrimaryColor   string
	SecondaryColor string
	Posts          []models.BlogPost
}

type blogPostData struct {
	Site           models.Site
	Theme          themes.Theme
	PrimaryColor   string
	SecondaryColor string
	Post           models.BlogPost
	Blocks         []template.HTML
}

// renderBlock dispatches one content block to its kind's view, the same
// closed-dispatch pattern the section renderer uses. Broken blocks render
// nothing.
func renderBlock(b blocks.Block) (template.HTML, bool) {
	if !blocks.IsValidKind(b.Kind) {
		slog.Warn(fmt.Sprintf("Skipping block with unknown kind '%s'.", b.Kind))
		return "", false
	}

	var data interface{}

	switch b.Kind {
	case blocks.KindParagraph:
		data = &blocks.ParagraphData{}
	case blocks.KindHeader:
		data = &blocks.HeaderData{}
	case blocks.KindImage:
		data = &blocks.ImageData{}
	case blocks.KindList:
		data = &blocks.ListData{}
	case blocks.KindQuote:
		data = &blocks.QuoteData{}
	case blocks.KindDelimiter:
		data = struct{}{}
	}

	if len(b.Data) > 0 && b.Kind != blocks.KindDelimiter {
		if err := json.Unmarshal(b.Data, data); err != nil {
			slog.Warn(fmt.Sprintf("Skipping undecodable '%s' block: %v", b.Kind, err))
			return "", false
		}
	}

	buf := bytes.Buffer{}

	if err := tpls().ExecuteTemplate(&buf, "block_"+string(b.Kind), data); err != nil {
		slog.Error(fmt.Sprintf("Could not render '%s' block: %v", b.Kind, err))
		return "", false
	}

	return template.HTML(buf.String()), true
}

// RenderBlogList produces the public list page. Callers pass only
// published posts, ordered by publish timestamp descending.
func RenderBlogList(site models.Site, posts []models.BlogPost) (string, error) {
	theme := resolveTheme(site)

	data := blogListData{
		Site:           site,
		Theme:          theme,
		PrimaryColor:   site.PrimaryColor,
		SecondaryColor: site.SecondaryColor,
		Posts:          posts,
	}

	buf := bytes.Buffer{}

	if err := tpls().ExecuteTemplate(&buf, "blog_list", data); err != nil {
		return "", fmt.Errorf("could not render blog list for site '%s': %w", site.Slug, err)
	}

	return buf.String(), nil
}

// RenderBlogPost produces the public single-post page.
func RenderBlogPost(site models.Site, post models.BlogPost) (string, error) {
	theme := resolveTheme(site)

	list, err := post.BlockList()
	if err != nil {
		slog.Error(fmt.Sprintf("Could not decode blocks for post '%s': %v", post.Slug, err))
		list = nil
	}

	rendered := make([]template.HTML, 0, len(list))

	for _, b := range list {
		if html, ok := renderBlock(b); ok {
			rendered = append(rendered, html)
		}
	}

	data := blogPostData{
		Site:           site,
		Theme:          theme,
		PrimaryColor:   site.PrimaryColor,
		SecondaryColor: site.SecondaryColor,
		Post:           post,
		Blocks:         rendered,
	}

	buf := bytes.Buffer{}

	if err := tpls().ExecuteTemplate(&buf, "blog_post", data); err != nil {
		return "", fmt.Errorf("could not render post '%s' for site '%s': %w", post.Slug, site.Slug, err)
	}

	return buf.String(), nil
}
