package helpers

import (
	"context"
	"database/sql"
	"strings"

	"jukusite.app/builder/app"
	"jukusite.app/builder/models"
	"jukusite.app/builder/utils"
)

// GetSiteByDomain resolves a published site by its custom domain. The
// lookup is case-insensitive and tolerates a scheme or path in the input.
func GetSiteByDomain(ctx context.Context, d string) (models.Site, error) {
	d = strings.TrimSpace(d)

	if h, err := utils.GetDomainHostname(d); err == nil && len(h) > 0 {
		d = h
	}

	if len(d) < 1 {
		return models.Site{}, ErrSiteNotFound
	}

	site := models.Site{}

	if err := app.DB().WithContext(ctx).Model(&models.Site{}).
		Where("unaccent(lower(custom_domain)) = unaccent(lower(@domain)) AND published = true", sql.Named("domain", d)).
		First(&site).Error; err != nil {
		return models.Site{}, ErrSiteNotFound
	}

	return site, nil
}
