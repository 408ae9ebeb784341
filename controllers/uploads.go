package controllers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"jukusite.app/builder/helpers"
)

func UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		slog.Error(fmt.Sprintf("Error reading uploaded file: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Please, provide a file to upload."},
		})
	}

	url, err := helpers.SaveUpload(c.Context(), fh, helpers.GetUserID(c).String())
	if err != nil {
		if errors.Is(err, helpers.ErrInvalidUpload) {
			return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
				"error": []string{helpers.ErrInvalidUpload.Error()},
			})
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error saving uploaded file: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not save the uploaded file."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&fiber.Map{
		"url": url,
	})
}
