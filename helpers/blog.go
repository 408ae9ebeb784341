package helpers

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"jukusite.app/builder/app"
	"jukusite.app/builder/models"
)

var ErrPostNotFound = errors.New("The requested post could not be found.")

// GetOwnedPost resolves a post for the site owner, scoped by both site and
// owner so foreign rows answer as not found.
func GetOwnedPost(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID, postID uuid.UUID) (models.BlogPost, error) {
	post := models.BlogPost{}

	if err := app.DB().WithContext(ctx).Model(&models.BlogPost{}).
		Where(
			"id = @id AND site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
			sql.Named("id", postID), sql.Named("site_id", siteID), sql.Named("owner_id", ownerID),
		).First(&post).Error; err != nil {
		return models.BlogPost{}, ErrPostNotFound
	}

	return post, nil
}

func ListOwnedPosts(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}

	if err := app.DB().WithContext(ctx).Model(&models.BlogPost{}).
		Where(
			"site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
			sql.Named("site_id", siteID), sql.Named("owner_id", ownerID),
		).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// ListPublishedPosts returns the externally visible posts of a site,
// ordered by publish timestamp descending.
func ListPublishedPosts(ctx context.Context, siteID uuid.UUID) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	published := true

	if err := app.DB().WithContext(ctx).Model(&models.BlogPost{}).
		Where(&models.BlogPost{SiteID: siteID, Published: &published}).
		Where("published_at IS NOT NULL").
		Order("published_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// GetPublishedPost resolves a public post by its per-site slug. Unpublished
// posts answer as not found.
func GetPublishedPost(ctx context.Context, siteID uuid.UUID, slug string) (models.BlogPost, error) {
	post := models.BlogPost{}
	published := true

	if err := app.DB().WithContext(ctx).Model(&models.BlogPost{}).
		Where(&models.BlogPost{SiteID: siteID, Slug: slug, Published: &published}).
		Where("published_at IS NOT NULL").
		First(&post).Error; err != nil {
		return models.BlogPost{}, ErrPostNotFound
	}

	return post, nil
}
