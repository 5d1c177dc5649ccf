package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"docintake/docs"
	"docintake/internal/config"
	"docintake/internal/database"
	"docintake/internal/database/migration"
	"docintake/internal/extraction"
	handlers "docintake/internal/http/handler"
	"docintake/internal/http/middleware"
	"docintake/internal/intake"
	"docintake/internal/logging"
	"docintake/internal/otel"
	"docintake/internal/repository/postgres"
	"docintake/internal/service"
	"docintake/internal/storage"
)

// multipart overhead on top of the page payloads
const bodyLimitSlack = 1 << 20

// @title       Document Intake API
// @version     1.0
// @description Turns batches of scanned pages into one structured document per batch.
// @BasePath    /
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.TimeLocation())
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server.exit", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	// scan archiving is optional
	var objStore storage.Storage
	if cfg.MinIO.Enabled() {
		objStore, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("storage.disabled", "reason", "MINIO_ENDPOINT not set; page scans will not be archived")
	}

	extractor, err := extraction.New(ctx, cfg.Extraction, logger)
	if err != nil {
		return err
	}
	if c, ok := extractor.(io.Closer); ok {
		defer c.Close()
	}

	metrics, err := intake.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	orchestrator := intake.NewOrchestrator(extractor,
		intake.WithTimeout(cfg.Extraction.Timeout()),
		intake.WithConcurrencyLimit(cfg.Extraction.MaxConcurrency),
		intake.WithMetrics(metrics),
		intake.WithLogger(logger),
	)

	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(orchestrator, objStore, docRepo, logger)

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit(cfg.Upload),
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())
	app.Use(middleware.Logger(logger))

	handlers.RegisterRoutes(app, db, docSvc, cfg.Upload, prometheus.DefaultGatherer, logger)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		logger.Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("server.start",
		"addr", ":"+cfg.Port,
		"extraction_provider", cfg.Extraction.Provider,
		"archive_enabled", objStore != nil,
	)
	return app.Listen(":" + cfg.Port)
}

// bodyLimit sizes the request body cap to a full batch. Zero keeps Fiber's default.
func bodyLimit(u config.UploadConfig) int {
	if u.MaxFileBytes <= 0 || u.MaxPages <= 0 {
		return 0
	}
	return int(u.MaxFileBytes)*u.MaxPages + bodyLimitSlack
}
