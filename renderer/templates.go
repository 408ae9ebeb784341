package renderer

import (
	"fmt"
	"html/template"
	"log/slog"
	"sync"
)

var (
	pageTpl  *template.Template
	onceTpls sync.Once
)

// Templates are compiled in-process once; the set is closed at build time
// like the section registry itself.
func tpls() *template.Template {
	onceTpls.Do(func() {
		tpl, err := template.New("page").Parse(pageTemplate)
		if err != nil {
			// Parse failure of a compile-time constant is a build defect.
			slog.Error(fmt.Sprintf("Could not parse page templates: %v", err))
			panic(err)
		}

		pageTpl = tpl
	})

	return pageTpl
}

const pageTemplate = `
{{define "page"}}<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Site.Name}}</title>
{{if .Site.FaviconURL}}<link rel="icon" href="{{.Site.FaviconURL}}">{{end}}
<style>:root{--primary:{{.PrimaryColor}};--secondary:{{.SecondaryColor}};}</style>
</head>
<body class="theme-{{.Theme.ID}} font-{{.Theme.Style.FontFamily}} radius-{{.Theme.Style.RadiusScale}} spacing-{{.Theme.Style.SectionSpacing}}">
{{template "header" .}}
<main>
{{range .Sections}}{{.}}{{end}}
</main>
{{template "footer" .}}
</body>
</html>{{end}}

{{define "header"}}<header class="site-header">
<div class="branding">
{{if .Site.LogoURL}}<img class="logo" src="{{.Site.LogoURL}}" alt="{{.Site.Name}}">{{end}}
<span class="site-name title-{{.Theme.Style.TitleStyle}}">{{.Site.Name}}</span>
</div>
<div class="header-contact">
{{if .Site.ContactPhone}}<a class="phone" href="tel:{{.Site.ContactPhone}}">{{.Site.ContactPhone}}</a>{{end}}
{{if .Site.OpeningHours}}<span class="hours">{{.Site.OpeningHours}}</span>{{end}}
</div>
</header>{{end}}

{{define "footer"}}<footer class="site-footer">
<div class="footer-contact">
{{if .Site.Address}}<p class="address">{{.Site.Address}}</p>{{end}}
{{if .Site.ContactEmail}}<p class="email">{{.Site.ContactEmail}}</p>{{end}}
</div>
<div class="footer-social">
{{if .Site.LineURL}}<a href="{{.Site.LineURL}}" rel="noopener">LINE</a>{{end}}
{{if .Site.InstagramURL}}<a href="{{.Site.InstagramURL}}" rel="noopener">Instagram</a>{{end}}
{{if .Site.TwitterURL}}<a href="{{.Site.TwitterURL}}" rel="noopener">X</a>{{end}}
{{if .Site.YouTubeURL}}<a href="{{.Site.YouTubeURL}}" rel="noopener">YouTube</a>{{end}}
</div>
<p class="copyright">&copy; {{.Site.Name}}</p>
</footer>{{end}}

{{define "hero"}}<section class="section section-hero hero-{{.Theme.Style.HeroLayout}}">
{{if .C.ImageURL}}<img class="hero-image" src="{{.C.ImageURL}}" alt="">{{end}}
<h1 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h1>
{{if .C.Subtitle}}<p class="subtitle">{{.C.Subtitle}}</p>{{end}}
{{if .C.Button}}<a class="button button-{{.Theme.Style.ButtonStyle}}" href="{{.C.Button.URL}}">{{.C.Button.Label}}</a>{{end}}
</section>{{end}}

{{define "about"}}<section class="section section-about">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{if .C.ImageURL}}<img src="{{.C.ImageURL}}" alt="">{{end}}
{{if .C.Body}}<p>{{.C.Body}}</p>{{end}}
</section>{{end}}

{{define "courses"}}<section class="section section-courses">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
<div class="cards">
{{range .C.Courses}}<div class="card card-{{$.Theme.Style.CardStyle}}">
<h3>{{.Name}}</h3>
{{if .Target}}<p class="target">{{.Target}}</p>{{end}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .Schedule}}<p class="schedule">{{.Schedule}}</p>{{end}}
</div>{{end}}
</div>
</section>{{end}}

{{define "instructors"}}<section class="section section-instructors">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
<div class="cards">
{{range .C.Instructors}}<div class="card card-{{$.Theme.Style.CardStyle}}">
{{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="{{.Name}}">{{end}}
<h3>{{.Name}}</h3>
{{if .Role}}<p class="role">{{.Role}}</p>{{end}}
{{if .Bio}}<p>{{.Bio}}</p>{{end}}
</div>{{end}}
</div>
</section>{{end}}

{{define "features"}}<section class="section section-features">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
<div class="cards">
{{range .C.Features}}<div class="card card-{{$.Theme.Style.CardStyle}}">
{{if .Icon}}<span class="icon icon-{{.Icon}}"></span>{{end}}
<h3>{{.Title}}</h3>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>{{end}}
</div>
</section>{{end}}

{{define "pricing"}}<section class="section section-pricing">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
<div class="cards">
{{range .C.Plans}}<div class="card card-{{$.Theme.Style.CardStyle}}{{if .Featured}} featured{{end}}">
<h3>{{.Name}}</h3>
<p class="price">{{.Price}}{{if .Period}}<span class="period">/{{.Period}}</span>{{end}}</p>
{{if .Includes}}<ul>{{range .Includes}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>{{end}}
</div>
{{if .C.Note}}<p class="note">{{.C.Note}}</p>{{end}}
</section>{{end}}

{{define "testimonials"}}<section class="section section-testimonials">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{range .C.Testimonials}}<blockquote class="card card-{{$.Theme.Style.CardStyle}}">
<p>{{.Quote}}</p>
{{if .Author}}<cite>{{.Author}}{{if .Detail}} · {{.Detail}}{{end}}</cite>{{end}}
</blockquote>{{end}}
</section>{{end}}

{{define "gallery"}}<section class="section section-gallery">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
<div class="gallery-grid">
{{range .C.Images}}<figure>
<img src="{{.URL}}" alt="{{.Caption}}">
{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}
</figure>{{end}}
</div>
</section>{{end}}

{{define "faq"}}<section class="section section-faq">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{range .C.Items}}<details class="card card-{{$.Theme.Style.CardStyle}}">
<summary>{{.Question}}</summary>
{{if .Answer}}<p>{{.Answer}}</p>{{end}}
</details>{{end}}
</section>{{end}}

{{define "access"}}<section class="section section-access">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{if .C.Address}}<p class="address">{{.C.Address}}</p>{{end}}
{{if .C.Station}}<p class="station">{{.C.Station}}</p>{{end}}
{{if .C.MapEmbedURL}}<iframe src="{{.C.MapEmbedURL}}" loading="lazy"></iframe>{{end}}
{{if .C.Notes}}<p class="notes">{{.C.Notes}}</p>{{end}}
</section>{{end}}

{{define "contact"}}<section class="section section-contact" id="contact">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{if .C.Message}}<p>{{.C.Message}}</p>{{end}}
{{if and .C.ShowPhone .Site.ContactPhone}}<p class="phone"><a href="tel:{{.Site.ContactPhone}}">{{.Site.ContactPhone}}</a></p>{{end}}
{{if and .C.ShowEmail .Site.ContactEmail}}<p class="email">{{.Site.ContactEmail}}</p>{{end}}
<form method="post" action="/{{.Site.Slug}}/contact">
<input type="text" name="name" placeholder="Name" required>
<input type="email" name="email" placeholder="Email" required>
<input type="tel" name="phone" placeholder="Phone">
<textarea name="message" placeholder="Message" required></textarea>
<button class="button button-{{.Theme.Style.ButtonStyle}}" type="submit">{{if .C.ButtonLabel}}{{.C.ButtonLabel}}{{else}}Send{{end}}</button>
</form>
</section>{{end}}

{{define "cta"}}<section class="section section-cta">
<h2 class="title-{{.Theme.Style.TitleStyle}}">{{.C.Title}}</h2>
{{if .C.Subtitle}}<p>{{.C.Subtitle}}</p>{{end}}
<a class="button button-{{.Theme.Style.ButtonStyle}}" href="{{.C.Button.URL}}">{{.C.Button.Label}}</a>
</section>{{end}}

{{define "blog_list"}}<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Blog • {{.Site.Name}}</title>
<style>:root{--primary:{{.PrimaryColor}};--secondary:{{.SecondaryColor}};}</style>
</head>
<body class="theme-{{.Theme.ID}} font-{{.Theme.Style.FontFamily}}">
{{template "header" .}}
<main class="blog-list">
<h1 class="title-{{.Theme.Style.TitleStyle}}">Blog</h1>
{{range .Posts}}<article class="card card-{{$.Theme.Style.CardStyle}}">
{{if .FeaturedImageURL}}<img src="{{.FeaturedImageURL}}" alt="">{{end}}
<h2><a href="/{{$.Site.Slug}}/blog/{{.Slug}}">{{.Title}}</a></h2>
{{if .PublishedAt}}<time datetime="{{.PublishedAt.Format "2006-01-02"}}">{{.PublishedAt.Format "2006-01-02"}}</time>{{end}}
</article>{{else}}<p class="empty">No posts yet.</p>{{end}}
</main>
{{template "footer" .}}
</body>
</html>{{end}}

{{define "blog_post"}}<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Post.Title}} • {{.Site.Name}}</title>
<style>:root{--primary:{{.PrimaryColor}};--secondary:{{.SecondaryColor}};}</style>
</head>
<body class="theme-{{.Theme.ID}} font-{{.Theme.Style.FontFamily}}">
{{template "header" .}}
<main class="blog-post">
<article>
{{if .Post.FeaturedImageURL}}<img class="featured" src="{{.Post.FeaturedImageURL}}" alt="">{{end}}
<h1 class="title-{{.Theme.Style.TitleStyle}}">{{.Post.Title}}</h1>
{{if .Post.PublishedAt}}<time datetime="{{.Post.PublishedAt.Format "2006-01-02"}}">{{.Post.PublishedAt.Format "2006-01-02"}}</time>{{end}}
{{range .Blocks}}{{.}}{{end}}
</article>
</main>
{{template "footer" .}}
</body>
</html>{{end}}

{{define "block_paragraph"}}<p>{{.Text}}</p>{{end}}

{{define "block_header"}}{{if eq .Level 1}}<h1>{{.Text}}</h1>{{else if eq .Level 2}}<h2>{{.Text}}</h2>{{else if eq .Level 3}}<h3>{{.Text}}</h3>{{else}}<h4>{{.Text}}</h4>{{end}}{{end}}

{{define "block_image"}}<figure><img src="{{.URL}}" alt="{{.Caption}}">{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>{{end}}

{{define "block_list"}}{{if .Ordered}}<ol>{{range .Items}}<li>{{.}}</li>{{end}}</ol>{{else}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>{{end}}{{end}}

{{define "block_quote"}}<blockquote><p>{{.Text}}</p>{{if .Author}}<cite>{{.Author}}</cite>{{end}}</blockquote>{{end}}

{{define "block_delimiter"}}<hr>{{end}}
`
