package handler

import (
	"database/sql"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docintake/internal/config"
	"docintake/internal/http/middleware"
	"docintake/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Document routes require the X-Organization-ID header.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, uploads config.UploadConfig, gatherer prometheus.Gatherer, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	docs := app.Group("/documents", middleware.Organization())
	docs.Get("/", ListDocuments(docSvc, log))
	docs.Post("/", UploadDocument(docSvc, uploads, log))
	docs.Get("/:id", GetDocument(docSvc, log))
	docs.Delete("/:id", DeleteDocument(docSvc, log))
	docs.Get("/:id/pages/:page", GetDocumentPage(docSvc, log))
}
