package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"suratapi/internal/service"
)

// UploadTemplate accepts a multipart docx upload (field name: file) and
// registers it as a letter template.
func UploadTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		tpl, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(tpl)
	}
}

// ListTemplates returns all registered templates.
func ListTemplates(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		templates, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": templates})
	}
}

// GetTemplate returns one template by ID.
func GetTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tpl, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrTemplateNotFound) {
				return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(tpl)
	}
}

// DeleteTemplate removes a template and its stored file.
func DeleteTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrTemplateNotFound) {
				return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// TemplateFields extracts a template's tags and returns the classified input
// form with the candidate next document number pre-filled.
func TemplateFields(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		spec, err := svc.Fields(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTemplateNotFound):
				return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
			case errors.Is(err, service.ErrNoFieldsFound):
				return writeError(c, fiber.StatusUnprocessableEntity, "NO_FIELDS_FOUND", "template has no recognizable tags")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(spec)
	}
}

type numberingRequest struct {
	NumberFormat string `json:"number_format"`
	LastNumber   int64  `json:"last_number"`
}

// UpdateTemplateNumbering sets a template's number format and counter.
func UpdateTemplateNumbering(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req numberingRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := svc.UpdateNumbering(c.UserContext(), id, req.NumberFormat, req.LastNumber); err != nil {
			if errors.Is(err, service.ErrTemplateNotFound) {
				return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
