package handler

import (
	"github.com/gofiber/fiber/v2"

	"suratapi/internal/model"
	"suratapi/internal/service"
)

// GetSettings returns the office configuration.
func GetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := svc.Get(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(cfg)
	}
}

// UpdateSettings replaces the office configuration.
func UpdateSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Settings
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cfg, err := svc.Update(c.UserContext(), &req)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(cfg)
	}
}
