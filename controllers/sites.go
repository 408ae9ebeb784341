package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"jukusite.app/builder/app"
	"jukusite.app/builder/catalog"
	"jukusite.app/builder/editor"
	"jukusite.app/builder/helpers"
	"jukusite.app/builder/models"
	"jukusite.app/builder/themes"
	"jukusite.app/builder/utils"
)

var (
	editorManager     *editor.Manager
	editorManagerOnce sync.Once
)

// Editor returns the shared editing session manager. Sessions serialize all
// edits to a site, so every controller must go through the same instance.
func Editor() *editor.Manager {
	editorManagerOnce.Do(func() {
		stores := editor.NewGormStores(app.DB())
		editorManager = editor.NewManager(stores, stores, helpers.InvalidateSiteCache)
	})

	return editorManager
}

type siteCreateInput struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	TemplateID string `json:"template_id"`
}

func parseSiteID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil || !utils.IsValidUuid(id) {
		return uuid.Nil, errors.New("invalid site ID")
	}

	return id, nil
}

func siteNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
		"error": []string{helpers.ErrSiteNotFound.Error()},
	})
}

// openSession resolves the editing session for the requested site, treating
// ownership failures as not-found.
func openSession(c *fiber.Ctx) (*editor.Session, error) {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return nil, c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	sess, err := Editor().Session(c.Context(), siteID, helpers.GetUserID(c))
	if err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			return nil, siteNotFound(c)
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error opening editing session: %v", err))

		return nil, c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not open the site for editing."},
		})
	}

	return sess, nil
}

func GetAllSites(c *fiber.Ctx) error {
	sites := []models.Site{}
	query := app.DB().Model(&models.Site{}).Where(&models.Site{OwnerID: helpers.GetUserID(c)})
	opts := helpers.PaginatedItemOpts{RouteName: "api.sites.index", TableAlias: helpers.GetModelSchema(&models.Site{}).Table}

	return helpers.PaginateQuery(sites, query, c, opts)
}

func CreateSite(c *fiber.Ctx) error {
	input := &siteCreateInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid site data."},
		})
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))

	if len(input.Slug) < 1 {
		input.Slug = utils.Slugify(input.Name)
	}

	errs := fiber.Map{}

	if len(input.Name) < 1 {
		errs = utils.AddError(errs, "name", "Please, provide the site name.")
	}

	if len(input.Name) > 120 {
		errs = utils.AddError(errs, "name", "The site name is too long.")
	}

	if !utils.IsValidSlug(input.Slug) {
		errs = utils.AddError(errs, "slug", "The slug may only contain lowercase letters, digits and hyphens.")
	}

	if _, ok := catalog.Get(input.TemplateID); !ok {
		errs = utils.AddError(errs, "template_id", helpers.ErrUnknownTemplate.Error())
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	site, err := helpers.CreateSiteFromTemplate(c.Context(), helpers.GetUserID(c), input.Name, input.Slug, input.TemplateID)
	if err != nil {
		if errors.Is(err, helpers.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "slug", helpers.ErrSlugTaken.Error()),
			})
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error creating site: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not create the site."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&fiber.Map{
		"site": site,
	})
}

func GetSite(c *fiber.Ctx) error {
	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"site":     sess.Site(),
		"sections": sess.Sections(),
		"dirty":    sess.Dirty(),
	})
}

func UpdateSite(c *fiber.Ctx) error {
	input := editor.SiteChanges{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid site data."},
		})
	}

	errs := fiber.Map{}

	if input.Name != nil && len(strings.TrimSpace(*input.Name)) < 1 {
		errs = utils.AddError(errs, "name", "The site name cannot be empty.")
	}

	if input.ThemeID != nil && !themes.IsValid(*input.ThemeID) {
		errs = utils.AddError(errs, "theme_id", "The requested theme does not exist.")
	}

	if input.ContactEmail != nil && len(*input.ContactEmail) > 0 && !utils.IsValidEmail(*input.ContactEmail) {
		errs = utils.AddError(errs, "contact_email", "The contact email is invalid.")
	}

	if input.CustomDomain != nil {
		host, err := utils.NormalizeCustomDomain(*input.CustomDomain)
		if err != nil {
			errs = utils.AddError(errs, "custom_domain", "Please, enter a valid domain name.")
		} else {
			// Staged as a bare hostname; the empty string clears the domain.
			input.CustomDomain = &host
		}
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	sess.StageSiteFields(input)

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"site":  sess.Site(),
		"dirty": sess.Dirty(),
	})
}

// GetSitePending reports whether the session holds unsaved edits, so
// clients can warn before navigating away.
func GetSitePending(c *fiber.Ctx) error {
	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"dirty": sess.Dirty(),
	})
}

func SaveSite(c *fiber.Ctx) error {
	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	result := sess.Commit(c.Context())

	status := fiber.StatusOK
	if !result.OK() {
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(&fiber.Map{
		"result": result,
		"dirty":  sess.Dirty(),
	})
}

func ToggleSitePublish(c *fiber.Ctx) error {
	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	published, err := sess.TogglePublish(c.Context())
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error toggling site publication: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not update the site publication status."},
		})
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"published": published,
	})
}

// CloseSiteEditor discards the editing session along with any staged edits.
func CloseSiteEditor(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	Editor().Close(siteID, helpers.GetUserID(c))

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

func GetAllTemplates(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"items": catalog.All(),
	})
}

func GetAllThemes(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"items": themes.All(),
	})
}
