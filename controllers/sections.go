package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"jukusite.app/builder/editor"
	"jukusite.app/builder/sections"
	"jukusite.app/builder/utils"
)

type sectionAddInput struct {
	Kind string `json:"kind"`
}

type sectionReorderInput struct {
	Ordered []uuid.UUID `json:"ordered"`
}

type sectionContentInput struct {
	Content json.RawMessage `json:"content"`
}

func parseSectionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("sectionId"))
	if err != nil || !utils.IsValidUuid(id) {
		return uuid.Nil, errors.New("invalid section ID")
	}

	return id, nil
}

func sectionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
		"error": []string{"The requested section could not be found."},
	})
}

func GetAllSections(c *fiber.Ctx) error {
	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"items": sess.Sections(),
		"dirty": sess.Dirty(),
	})
}

func AddSection(c *fiber.Ctx) error {
	input := &sectionAddInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid section data."},
		})
	}

	kind, ok := sections.ParseKind(input.Kind)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": utils.AddError(fiber.Map{}, "kind", "The requested section type does not exist."),
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	sec, err := sess.AddSection(c.Context(), kind)
	if err != nil {
		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error adding section: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not add the section."},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(&fiber.Map{
		"section": sec,
	})
}

func DeleteSection(c *fiber.Ctx) error {
	sectionID, err := parseSectionID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested section is invalid."},
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	if err := sess.DeleteSection(c.Context(), sectionID); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			return sectionNotFound(c)
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error deleting section: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not delete the section."},
		})
	}

	return c.Status(fiber.StatusNoContent).JSON(&fiber.Map{})
}

// ReorderSections applies a complete new ordering in one shot. Partial or
// duplicated orderings are rejected before anything is written.
func ReorderSections(c *fiber.Ctx) error {
	input := &sectionReorderInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid section ordering data."},
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	if err := sess.Reorder(c.Context(), input.Ordered); err != nil {
		slog.Error(fmt.Sprintf("Error reordering sections: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": utils.AddError(fiber.Map{}, "ordered", "The section ordering is invalid."),
		})
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"items": sess.Sections(),
	})
}

func ToggleSectionVisibility(c *fiber.Ctx) error {
	sectionID, err := parseSectionID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested section is invalid."},
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	visible, err := sess.ToggleVisibility(c.Context(), sectionID)
	if err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			return sectionNotFound(c)
		}

		sentry.CaptureException(err)
		slog.Error(fmt.Sprintf("Error toggling section visibility: %v", err))

		return c.Status(fiber.StatusInternalServerError).JSON(&fiber.Map{
			"error": []string{"Could not update the section visibility."},
		})
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"visible": visible,
	})
}

// StageSectionContent validates and stages a content edit. The store is
// only touched on save.
func StageSectionContent(c *fiber.Ctx) error {
	sectionID, err := parseSectionID(c)
	if err != nil {
		slog.Error(fmt.Sprintf("Error parsing ID: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The requested section is invalid."},
		})
	}

	input := &sectionContentInput{}
	if err := c.BodyParser(&input); err != nil {
		slog.Error(fmt.Sprintf("Error parsing input data: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"Invalid section content data."},
		})
	}

	sess, err := openSession(c)
	if sess == nil {
		return err
	}

	fieldErrs, err := sess.StageContent(sectionID, input.Content)
	if err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			return sectionNotFound(c)
		}

		slog.Error(fmt.Sprintf("Error staging section content: %v", err))

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": []string{"The section content is malformed."},
		})
	}

	if !fieldErrs.Empty() {
		errs := fiber.Map{}
		for _, fe := range fieldErrs {
			errs = utils.AddError(errs, fe.Field, fe.Message)
		}

		return c.Status(fiber.StatusBadRequest).JSON(&fiber.Map{
			"error": errs,
		})
	}

	return c.Status(fiber.StatusOK).JSON(&fiber.Map{
		"dirty": sess.Dirty(),
	})
}
