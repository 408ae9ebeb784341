package helpers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"gorm.io/gorm"
	"jukusite.app/builder/app"
	"jukusite.app/builder/catalog"
	"jukusite.app/builder/models"
)

var (
	ErrSiteNotFound    = errors.New("The requested site could not be found.")
	ErrSlugTaken       = errors.New("This slug has been taken.")
	ErrUnknownTemplate = errors.New("The requested template does not exist.")
)

// CreateSiteFromTemplate creates the site row and its seed sections in one
// transaction: one section per template kind, in declared order, each with
// its kind's default content.
func CreateSiteFromTemplate(ctx context.Context, ownerID uuid.UUID, name string, slug string, templateID string) (models.Site, error) {
	tpl, ok := catalog.Get(templateID)
	if !ok {
		return models.Site{}, ErrUnknownTemplate
	}

	site := models.Site{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Name:           name,
		Slug:           slug,
		ThemeID:        tpl.ThemeID,
		PrimaryColor:   tpl.PrimaryColor,
		SecondaryColor: tpl.SecondaryColor,
	}

	if err := app.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&site).Error; err != nil {
			return err
		}

		for _, seed := range catalog.Instantiate(tpl) {
			visible := seed.Visible
			section := models.Section{
				ID:       uuid.New(),
				SiteID:   site.ID,
				Kind:     seed.Kind,
				Position: seed.Position,
				Visible:  &visible,
				Content:  models.JSONB(seed.Content),
			}

			if err := tx.Create(&section).Error; err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Site{}, ErrSlugTaken
		}

		slog.Error(fmt.Sprintf("Could not create site from template '%s': %v", templateID, err))

		return models.Site{}, err
	}

	return site, nil
}

// GetOwnedSite resolves a site for its owner. Sites owned by someone else
// answer as not found.
func GetOwnedSite(ctx context.Context, siteID uuid.UUID, ownerID uuid.UUID) (models.Site, error) {
	site := models.Site{}

	if err := app.DB().WithContext(ctx).Model(&models.Site{}).
		Where("id = @site_id AND owner_id = @owner_id", sql.Named("site_id", siteID), sql.Named("owner_id", ownerID)).
		First(&site).Error; err != nil {
		return models.Site{}, ErrSiteNotFound
	}

	return site, nil
}

func ListOwnedSites(ctx context.Context, ownerID uuid.UUID) ([]models.Site, error) {
	sites := []models.Site{}

	if err := app.DB().WithContext(ctx).Model(&models.Site{}).
		Where("owner_id = @owner_id", sql.Named("owner_id", ownerID)).
		Order("created_at ASC").Find(&sites).Error; err != nil {
		return nil, err
	}

	return sites, nil
}

// GetPublishedSite resolves a public site by slug. Unpublished sites answer
// as not found, the same as missing ones.
func GetPublishedSite(ctx context.Context, slug string) (models.Site, error) {
	site := models.Site{}
	published := true

	if err := app.DB().WithContext(ctx).Model(&models.Site{}).
		Where(&models.Site{Slug: slug, Published: &published}).
		First(&site).Error; err != nil {
		return models.Site{}, ErrSiteNotFound
	}

	return site, nil
}

// GetVisibleSections returns the renderable sections of a site, visible
// only, ordered by position.
func GetVisibleSections(ctx context.Context, siteID uuid.UUID) ([]models.Section, error) {
	secs := []models.Section{}

	if err := app.DB().WithContext(ctx).Model(&models.Section{}).
		Where("site_id = @site_id AND visible = @visible", sql.Named("site_id", siteID), sql.Named("visible", true)).
		Order("position ASC").Find(&secs).Error; err != nil {
		return nil, err
	}

	return secs, nil
}

const renderCacheTTL = 5 * time.Minute

func renderCacheKey(slug string, suffix string) string {
	key := fmt.Sprintf("render:%s", slug)

	if len(suffix) > 0 {
		key += ":" + suffix
	}

	return key
}

// CachedPage returns a previously rendered page, or "" on a miss. Cache
// problems only log; rendering always has the fallback of doing the work.
func CachedPage(ctx context.Context, slug string, suffix string) string {
	html, err := app.Cache().DoCache(ctx, app.Cache().B().Get().Key(renderCacheKey(slug, suffix)).Cache(), time.Minute).ToString()
	if err != nil && !errors.Is(err, rueidis.Nil) {
		slog.Warn(fmt.Sprintf("Could not read render cache: %v", err))
	}

	return html
}

func CachePage(ctx context.Context, slug string, suffix string, html string) {
	if err := app.Cache().Do(ctx, app.Cache().B().Set().Key(renderCacheKey(slug, suffix)).Value(html).Ex(renderCacheTTL).Build()).Error(); err != nil {
		slog.Warn(fmt.Sprintf("Could not write render cache: %v", err))
	}
}

// InvalidateSiteCache drops every cached page of a site after a commit,
// publish toggle or section mutation.
func InvalidateSiteCache(ctx context.Context, slug string) {
	keys := []string{}

	cursor := uint64(0)

	for {
		entry, err := app.Cache().Do(ctx, app.Cache().B().Scan().Cursor(cursor).Match(renderCacheKey(slug, "*")).Count(100).Build()).AsScanEntry()
		if err != nil {
			slog.Warn(fmt.Sprintf("Could not scan render cache: %v", err))
			break
		}

		keys = append(keys, entry.Elements...)

		if entry.Cursor == 0 {
			break
		}

		cursor = entry.Cursor
	}

	keys = append(keys, renderCacheKey(slug, ""))

	if err := app.Cache().Do(ctx, app.Cache().B().Del().Key(keys...).Build()).Error(); err != nil {
		slog.Warn(fmt.Sprintf("Could not invalidate render cache: %v", err))
	}
}
