package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"suratapi/internal/docx"
	"suratapi/internal/pdf"
	"suratapi/internal/service"
	"suratapi/internal/storage"
)

type generateRequest struct {
	TemplateID string            `json:"template_id"`
	LetterType string            `json:"letter_type"`
	Values     map[string]string `json:"values"`
}

// GenerateLetter merges submitted values into a template and issues the
// letter: stored file, archive row, advanced counter.
func GenerateLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.TemplateID == "" {
			return writeError(c, fiber.StatusBadRequest, "TEMPLATE_ID_REQUIRED", "template_id is required")
		}

		letter, err := svc.Generate(c.UserContext(), service.GenerateInput{
			TemplateID: req.TemplateID,
			LetterType: req.LetterType,
			Values:     req.Values,
		})
		if err != nil {
			var mv *docx.MissingValueError
			switch {
			case errors.Is(err, service.ErrTemplateNotFound):
				return writeError(c, fiber.StatusNotFound, "TEMPLATE_NOT_FOUND", "template not found")
			case errors.As(err, &mv):
				return writeError(c, fiber.StatusUnprocessableEntity, "MISSING_VALUE", "no value submitted for tag "+mv.Tag)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(letter)
	}
}

// ArchiveLetter records an externally produced letter (multipart: file plus
// letter_type, applicant, number form fields).
func ArchiveLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		letterType := c.FormValue("letter_type")
		if letterType == "" {
			return writeError(c, fiber.StatusBadRequest, "LETTER_TYPE_REQUIRED", "letter_type is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		letter, err := svc.Archive(c.UserContext(), f, fh.Size, service.ArchiveInput{
			LetterType: letterType,
			Applicant:  c.FormValue("applicant"),
			Number:     c.FormValue("number"),
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(letter)
	}
}

// ListLetters returns archive rows with limit & offset.
func ListLetters(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetLetter returns one archive row by ID.
func GetLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		letter, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "letter not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(letter)
	}
}

// DeleteLetter removes a letter's file and its archive row.
func DeleteLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "letter not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadLetter streams the stored docx.
func DownloadLetter(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, letter, err := svc.Download(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "letter not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		c.Set(fiber.HeaderContentType, storage.ContentTypeDocx)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+letter.Filename+`"`)
		return c.SendStream(rc)
	}
}

// DownloadLetterPDF converts the stored docx to PDF on the fly.
func DownloadLetterPDF(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, letter, err := svc.RenderPDF(c.UserContext(), c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "letter not found")
			case errors.Is(err, pdf.ErrUnavailable):
				return writeError(c, fiber.StatusServiceUnavailable, "CONVERSION_UNAVAILABLE", "pdf conversion is not available")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		name := letter.Filename
		if ext := ".docx"; len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			name = name[:len(name)-len(ext)]
		}
		c.Set(fiber.HeaderContentType, storage.ContentTypePDF)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`.pdf"`)
		return c.Send(out)
	}
}

// SearchArchive matches letters by type, applicant, or number, and templates
// by name, under a single query.
func SearchArchive(letterSvc service.LetterService, tplSvc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		letters, err := letterSvc.Search(c.UserContext(), q)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		templates, err := tplSvc.Search(c.UserContext(), q)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"letters": letters, "templates": templates})
	}
}

// ArchiveStats returns dashboard numbers: monthly volume and per-type totals.
func ArchiveStats(svc service.LetterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(stats)
	}
}
