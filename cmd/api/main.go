package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"suratapi/docs"
	"suratapi/internal/config"
	"suratapi/internal/database"
	"suratapi/internal/database/migration"
	handlers "suratapi/internal/http/handler"
	"suratapi/internal/http/middleware"
	"suratapi/internal/otel"
	"suratapi/internal/pdf"
	"suratapi/internal/repository/postgres"
	"suratapi/internal/service"
	"suratapi/internal/storage"
)

// @title Surat API
// @version 1.0
// @description Village letter issuance, numbering and archive service.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.Local

	// Initialize OpenTelemetry tracing (no-op unless OTEL_TRACES_ENABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("failed to shut down tracing: %v", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create schema on first boot; a no-op when the tables already exist
	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// PDF conversion is optional; without a converter binary the PDF endpoint
	// reports itself unavailable and everything else keeps working.
	var converter pdf.Converter
	if cfg.ConverterBin != "" {
		converter = pdf.NewLibreOffice(cfg.ConverterBin)
	}

	// Initialize repositories and services
	tplRepo := postgres.NewTemplatePostgres(db)
	letterRepo := postgres.NewLetterPostgres(db)
	settingsRepo := postgres.NewSettingsPostgres(db)

	tplSvc := service.NewTemplateService(objStore, tplRepo)
	letterSvc := service.NewLetterService(objStore, letterRepo, tplRepo, settingsRepo, converter, cfg.BaseURL)
	settingsSvc := service.NewSettingsService(settingsRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Server-side spans per request, exported only when tracing is enabled
	app.Use(otelfiber.Middleware())

	// Request metrics on a dedicated registry, exposed on /metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, tplSvc, letterSvc, settingsSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
