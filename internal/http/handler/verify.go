package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"suratapi/internal/service"
)

// VerifyLetter is the public endpoint behind the QR code. It resolves a
// letter ID to its ledger entry plus the issuing office identity. A deleted
// letter is indistinguishable from one that never existed.
func VerifyLetter(letterSvc service.LetterService, settingsSvc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		letter, err := letterSvc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrIDRequired) {
				return writeError(c, fiber.StatusNotFound, "DOCUMENT_NOT_REGISTERED", "document is not registered")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		cfg, err := settingsSvc.Get(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{
			"valid": true,
			"letter": fiber.Map{
				"id":          letter.ID,
				"letter_type": letter.LetterType,
				"applicant":   letter.Applicant,
				"number":      letter.Number,
				"issued_at":   letter.IssuedAt,
			},
			"office": fiber.Map{
				"name":    cfg.OfficeName,
				"address": cfg.OfficeAddress,
				"phone":   cfg.Phone,
				"website": cfg.Website,
			},
		})
	}
}
