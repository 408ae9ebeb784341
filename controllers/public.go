package controllers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"jukusite.app/builder/app"
	"jukusite.app/builder/helpers"
	"jukusite.app/builder/models"
	"jukusite.app/builder/renderer"
	"jukusite.app/builder/tasks"
	"jukusite.app/builder/utils"
)

type leadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func pageNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
		"error": []string{"The requested page could not be found."},
	})
}

func sendHTML(c *fiber.Ctx, html string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(html)
}

// GetPublicSite serves the rendered page of a published site. Unpublished
// and unknown slugs are indistinguishable.
func GetPublicSite(c *fiber.Ctx) error {
	slug := c.Params("siteSlug")
	if !utils.IsValidSlug(slug) {
		return pageNotFound(c)
	}

	if html := helpers.CachedPage(c.Context(), slug, "page"); len(html) > 0 {
		return sendHTML(c, html)
	}

	site, err := helpers.GetPublishedSite(c.Context(), slug)
	if err != nil {
		return pageNotFound(c)
	}

	return renderSitePage(c, site)
}

// GetPublicSiteByDomain serves a site mounted at the root of its custom
// domain, resolved from the Host header.
func GetPublicSiteByDomain(c *fiber.Ctx) error {
	site, err := helpers.GetSiteByDomain(c.Context(), c.Hostname())
	if err != nil {
		return pageNotFound(c)
	}

	if html := helpers.CachedPage(c.Context(), site.Slug, "page"); len(html) > 0 {
		return sendHTML(c, html)
	}

	return renderSitePage(c, site)
}

func renderSitePage(c *fiber.Ctx, site models.Site) error {
	secs, err := helpers.GetVisibleSections(c.Context(), site.ID)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error loading site sections: %v", err))

		return pageNotFound(c)
	}

	html, err := renderer.RenderSite(site, secs)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error rendering site '%s': %v", site.Slug, err))

		return pageNotFound(c)
	}

	helpers.CachePage(c.Context(), site.Slug, "page", html)

	return sendHTML(c, html)
}

func GetPublicBlog(c *fiber.Ctx) error {
	slug := c.Params("siteSlug")
	if !utils.IsValidSlug(slug) {
		return pageNotFound(c)
	}

	if html := helpers.CachedPage(c.Context(), slug, "blog"); len(html) > 0 {
		return sendHTML(c, html)
	}

	site, err := helpers.GetPublishedSite(c.Context(), slug)
	if err != nil {
		return pageNotFound(c)
	}

	posts, err := helpers.ListPublishedPosts(c.Context(), site.ID)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error loading blog posts: %v", err))

		return pageNotFound(c)
	}

	html, err := renderer.RenderBlogList(site, posts)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error rendering blog list '%s': %v", slug, err))

		return pageNotFound(c)
	}

	helpers.CachePage(c.Context(), slug, "blog", html)

	return sendHTML(c, html)
}

func GetPublicBlogPost(c *fiber.Ctx) error {
	slug := c.Params("siteSlug")
	postSlug := c.Params("postSlug")

	if !utils.IsValidSlug(slug) || !utils.IsValidSlug(postSlug) {
		return pageNotFound(c)
	}

	cacheSuffix := "blog:" + postSlug

	if html := helpers.CachedPage(c.Context(), slug, cacheSuffix); len(html) > 0 {
		return sendHTML(c, html)
	}

	site, err := helpers.GetPublishedSite(c.Context(), slug)
	if err != nil {
		return pageNotFound(c)
	}

	post, err := helpers.GetPublishedPost(c.Context(), site.ID, postSlug)
	if err != nil {
		return pageNotFound(c)
	}

	html, err := renderer.RenderBlogPost(site, post)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error rendering blog post '%s/%s': %v", slug, postSlug, err))

		return pageNotFound(c)
	}

	helpers.CachePage(c.Context(), slug, cacheSuffix, html)

	return sendHTML(c, html)
}

// CreateLead stores a contact-form submission and notifies the site owner
// by email in the background. The submitter only learns whether the site
// exists, never whether delivery worked.
func CreateLead(c *fiber.Ctx) error {
	slug := c.Params("siteSlug")
	if !utils.IsValidSlug(slug) {
		return pageNotFound(c)
	}

	site, err := helpers.GetPublishedSite(c.Context(), slug)
	if err != nil {
		return pageNotFound(c)
	}

	input := &leadInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid contact data."},
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)

	errs := fiber.Map{}

	if len(input.Name) < 1 {
		errs = utils.AddError(errs, "name", "Please, provide your name.")
	}

	if !utils.IsValidEmail(input.Email) {
		errs = utils.AddError(errs, "email", "Please, provide a valid email address.")
	}

	if len(input.Message) < 1 {
		errs = utils.AddError(errs, "message", "Please, provide a message.")
	}

	if len(input.Message) > 5000 {
		errs = utils.AddError(errs, "message", "The message is too long.")
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	lead := &models.Lead{
		SiteID:  site.ID,
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	}

	if len(input.Phone) > 0 {
		lead.Phone = &input.Phone
	}

	if err := app.DB().WithContext(c.Context()).Create(&lead).Error; err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error saving lead: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not submit your message."},
		})
	}

	owner := &models.User{ID: site.OwnerID}
	if err := app.DB().WithContext(c.Context()).Where(&owner).First(&owner).Error; err != nil {
		slog.Error(fmt.Sprintf("Error getting site owner: %v", err))
	} else {
		opts := helpers.EmailOpts{
			Subject:      fmt.Sprintf("New inquiry on %s", site.Name),
			TemplateName: "lead_notification",
			ToList:       []string{owner.Email},
		}
		data := map[string]interface{}{
			"SiteName":    site.Name,
			"LeadName":    lead.Name,
			"LeadEmail":   lead.Email,
			"LeadPhone":   input.Phone,
			"LeadMessage": lead.Message,
		}

		if err := tasks.NewEmail(opts, data); err != nil {
			slog.Error(fmt.Sprintf("Error queueing lead notification: %v", err))
		}
	}

	msg := app.Translate(c, &i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    "lead.submitted",
			Other: "Thank you for your message. We will get back to you soon.",
		},
	})

	return c.Status(fiber.StatusCreated).JSON(&fiber.Map{
		"message": []string{msg},
	})
}
