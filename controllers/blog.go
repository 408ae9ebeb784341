package controllers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"jukusite.app/builder/app"
	"jukusite.app/builder/blocks"
	"jukusite.app/builder/helpers"
	"jukusite.app/builder/models"
	"jukusite.app/builder/utils"
)

type blogPostInput struct {
	Title            *string         `json:"title"`
	Slug             *string         `json:"slug"`
	Blocks           json.RawMessage `json:"blocks"`
	FeaturedImageURL *string         `json:"featured_image_url"`
}

func parsePostID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("postId"))
	if err != nil || !utils.IsValidUuid(id) {
		return uuid.Nil, errors.New("invalid post ID")
	}

	return id, nil
}

func postNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
		"error": []string{helpers.ErrPostNotFound.Error()},
	})
}

// validateBlocks rejects malformed or invalid block sequences before
// anything touches the store. An absent list is an empty list.
func validateBlocks(raw json.RawMessage) (models.JSONB, fiber.Map) {
	if len(raw) < 1 {
		raw = json.RawMessage("[]")
	}

	list := []blocks.Block{}
	if err := json.Unmarshal(raw, &list); err != nil {
		slog.Error(fmt.Sprintf("Error parsing post blocks: %v", err))
		return nil, utils.AddError(fiber.Map{}, "blocks", "The post content is malformed.")
	}

	if fieldErrs := blocks.ValidateAll(list); !fieldErrs.Empty() {
		errs := fiber.Map{}
		for _, fe := range fieldErrs {
			errs = utils.AddError(errs, fe.Field, fe.Message)
		}

		return nil, errs
	}

	return models.JSONB(raw), nil
}

func GetAllPosts(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	posts := []models.BlogPost{}
	query := app.DB().Model(&models.BlogPost{}).Where(
		"site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
		sql.Named("site_id", siteID), sql.Named("owner_id", helpers.GetUserID(c)),
	)
	opts := helpers.PaginatedItemOpts{RouteName: "api.posts.index", TableAlias: helpers.GetModelSchema(&models.BlogPost{}).Table}

	return helpers.PaginateQuery(posts, query, c, opts)
}

func CreatePost(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	if _, err := helpers.GetOwnedSite(c.Context(), siteID, helpers.GetUserID(c)); err != nil {
		return siteNotFound(c)
	}

	input := &blogPostInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid post data."},
		})
	}

	title := ""
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
	}

	slug := ""
	if input.Slug != nil {
		slug = strings.TrimSpace(strings.ToLower(*input.Slug))
	}

	if len(slug) < 1 {
		slug = utils.Slugify(title)
	}

	errs := fiber.Map{}

	if len(title) < 1 {
		errs = utils.AddError(errs, "title", "Please, provide the post title.")
	}

	if len(title) > 200 {
		errs = utils.AddError(errs, "title", "The post title is too long.")
	}

	if !utils.IsValidSlug(slug) {
		errs = utils.AddError(errs, "slug", "The slug may only contain lowercase letters, digits and hyphens.")
	}

	content, blockErrs := validateBlocks(input.Blocks)
	for k, v := range blockErrs {
		errs[k] = v
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	published := false
	post := &models.BlogPost{
		SiteID:           siteID,
		Title:            title,
		Slug:             slug,
		Blocks:           content,
		FeaturedImageURL: input.FeaturedImageURL,
		Published:        &published,
	}

	if err := app.DB().WithContext(c.Context()).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "slug", helpers.ErrSlugTaken.Error()),
			})
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error creating post: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not create the post."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&fiber.Map{
		"post": post,
	})
}

func GetPost(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	postID, err := parsePostID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested post is invalid."},
		})
	}

	post, err := helpers.GetOwnedPost(c.Context(), siteID, helpers.GetUserID(c), postID)
	if err != nil {
		return postNotFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"post": post,
	})
}

func UpdatePost(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	postID, err := parsePostID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested post is invalid."},
		})
	}

	site, err := helpers.GetOwnedSite(c.Context(), siteID, helpers.GetUserID(c))
	if err != nil {
		return siteNotFound(c)
	}

	post, err := helpers.GetOwnedPost(c.Context(), siteID, helpers.GetUserID(c), postID)
	if err != nil {
		return postNotFound(c)
	}

	input := &blogPostInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid post data."},
		})
	}

	errs := fiber.Map{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)

		if len(title) < 1 {
			errs = utils.AddError(errs, "title", "The post title cannot be empty.")
		}

		if len(title) > 200 {
			errs = utils.AddError(errs, "title", "The post title is too long.")
		}

		post.Title = title
	}

	if input.Slug != nil {
		slug := strings.TrimSpace(strings.ToLower(*input.Slug))

		if !utils.IsValidSlug(slug) {
			errs = utils.AddError(errs, "slug", "The slug may only contain lowercase letters, digits and hyphens.")
		}

		post.Slug = slug
	}

	if input.Blocks != nil {
		content, blockErrs := validateBlocks(input.Blocks)
		for k, v := range blockErrs {
			errs[k] = v
		}

		post.Blocks = content
	}

	if input.FeaturedImageURL != nil {
		post.FeaturedImageURL = input.FeaturedImageURL
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	if err := app.DB().WithContext(c.Context()).Save(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(&fiber.Map{
				"error": utils.AddError(fiber.Map{}, "slug", helpers.ErrSlugTaken.Error()),
			})
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error updating post: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not update the post."},
		})
	}

	helpers.InvalidateSiteCache(c.Context(), site.Slug)

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"post": post,
	})
}

func DeletePost(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	postID, err := parsePostID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested post is invalid."},
		})
	}

	site, err := helpers.GetOwnedSite(c.Context(), siteID, helpers.GetUserID(c))
	if err != nil {
		return siteNotFound(c)
	}

	post, err := helpers.GetOwnedPost(c.Context(), siteID, helpers.GetUserID(c), postID)
	if err != nil {
		return postNotFound(c)
	}

	if err := app.DB().WithContext(c.Context()).Delete(&post).Error; err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error deleting post: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not delete the post."},
		})
	}

	helpers.InvalidateSiteCache(c.Context(), site.Slug)

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// TogglePostPublish flips the publication flag. The publish timestamp is
// set on the first publication and kept afterwards, so republishing does
// not reshuffle the public list.
func TogglePostPublish(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	postID, err := parsePostID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested post is invalid."},
		})
	}

	site, err := helpers.GetOwnedSite(c.Context(), siteID, helpers.GetUserID(c))
	if err != nil {
		return siteNotFound(c)
	}

	post, err := helpers.GetOwnedPost(c.Context(), siteID, helpers.GetUserID(c), postID)
	if err != nil {
		return postNotFound(c)
	}

	published := !(post.Published != nil && *post.Published)
	post.Published = &published

	if published && post.PublishedAt == nil {
		now := time.Now().In(utils.DefaultLocation())
		post.PublishedAt = &now
	}

	if err := app.DB().WithContext(c.Context()).Save(&post).Error; err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error toggling post publication: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not update the post publication status."},
		})
	}

	helpers.InvalidateSiteCache(c.Context(), site.Slug)

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"published": published,
		"post":      post,
	})
}
