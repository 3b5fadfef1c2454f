package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"suratapi/internal/http/middleware"
	"suratapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; all business rules live in the services.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	tplSvc service.TemplateService,
	letterSvc service.LetterService,
	settingsSvc service.SettingsService,
) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/templates", UploadTemplate(tplSvc))
	app.Get("/templates", ListTemplates(tplSvc))
	app.Get("/templates/:id", GetTemplate(tplSvc))
	app.Delete("/templates/:id", DeleteTemplate(tplSvc))
	app.Get("/templates/:id/fields", TemplateFields(tplSvc))
	app.Put("/templates/:id/numbering", UpdateTemplateNumbering(tplSvc))

	app.Post("/letters", GenerateLetter(letterSvc))
	app.Post("/letters/archive", ArchiveLetter(letterSvc))
	app.Get("/letters", ListLetters(letterSvc))
	app.Get("/letters/:id", GetLetter(letterSvc))
	app.Delete("/letters/:id", DeleteLetter(letterSvc))
	app.Get("/letters/:id/download", DownloadLetter(letterSvc))
	app.Get("/letters/:id/pdf", DownloadLetterPDF(letterSvc))

	// Public verification endpoint; everything the QR code resolves to.
	// Never cached, so a deleted letter stops validating immediately.
	app.Get("/verify/:id", middleware.NoCache(), VerifyLetter(letterSvc, settingsSvc))

	app.Get("/search", SearchArchive(letterSvc, tplSvc))
	app.Get("/stats", ArchiveStats(letterSvc))

	app.Get("/settings", GetSettings(settingsSvc))
	app.Put("/settings", UpdateSettings(settingsSvc))
}
