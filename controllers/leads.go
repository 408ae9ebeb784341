package controllers

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"jukusite.app/builder/app"
	"jukusite.app/builder/helpers"
	"jukusite.app/builder/models"
)

func GetAllLeads(c *fiber.Ctx) error {
	siteID, err := parseSiteID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested site is invalid."},
		})
	}

	leads := []models.Lead{}
	query := app.DB().Model(&models.Lead{}).Where(
		"site_id = @site_id AND site_id IN (SELECT id FROM sites WHERE id = @site_id AND owner_id = @owner_id AND deleted_at IS NULL)",
		sql.Named("site_id", siteID), sql.Named("owner_id", helpers.GetUserID(c)),
	)
	opts := helpers.PaginatedItemOpts{RouteName: "api.leads.index", TableAlias: helpers.GetModelSchema(&models.Lead{}).Table}

	return helpers.PaginateQuery(leads, query, c, opts)
}
