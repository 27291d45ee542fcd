package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	funnelHttp "funnel-forecast-service/internal/funnel/adapters/http/fiber"
	funnelUsecase "funnel-forecast-service/internal/funnel/core/usecase"

	oppHttp "funnel-forecast-service/internal/opportunities/adapters/http/fiber"
	oppRepoPg "funnel-forecast-service/internal/opportunities/adapters/postgres"
	"funnel-forecast-service/internal/opportunities/adapters/spreadsheet"
	"funnel-forecast-service/internal/opportunities/core/ports"
	oppUsecase "funnel-forecast-service/internal/opportunities/core/usecase"

	"funnel-forecast-service/internal/platform/config"
	"funnel-forecast-service/internal/platform/logger"
	"funnel-forecast-service/internal/platform/observability"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "funnel-forecast-service/docs"
)

// @title Funnel Forecast API
// @version 1.0
// @description Conversion funnel metrics and revenue projections from opportunity spreadsheets.
// @host localhost:8080
// @BasePath /
func main() {
	// Config
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if !envLoaded {
		log.Info("No .env file found, using environment")
	}

	schema, err := spreadsheet.LoadSchema(cfg.SchemaFile)
	if err != nil {
		log.Fatal("failed to load schema file", zap.String("path", cfg.SchemaFile), zap.Error(err))
	}

	// Optional DB source for GET /forecast
	var reader ports.OpportunityReaderPort
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open postgres", zap.Error(err))
		}
		defer db.Close()

		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			log.Fatal("failed to ping postgres", zap.Error(err))
		}

		reader = oppRepoPg.NewOpportunityRepository(oppRepoPg.NewSQLDB(db), schema.StageLabels)
	} else {
		log.Warn("POSTGRES_DSN is not set, GET /forecast is disabled")
	}

	// Metrics registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	// Usecases
	parser := spreadsheet.NewParser(schema)
	previewUC := oppUsecase.NewPreviewUseCase(cfg.PreviewRows)
	forecastUC := funnelUsecase.NewForecastUseCase(reader)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB * 1024 * 1024,
	})
	observability.Use(app, log, metrics)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", observability.Handler(reg))

	// opportunities endpoints
	oppHandler := oppHttp.NewOpportunityHandler(previewUC, parser, log, metrics)
	app.Post("/opportunities/preview", oppHandler.Preview)

	// forecast endpoints
	forecastHandler := funnelHttp.NewForecastHandler(forecastUC, parser, log, metrics)
	app.Post("/forecast", forecastHandler.ForecastUpload)
	app.Get("/forecast", forecastHandler.ForecastStored)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	addr := ":" + cfg.Port
	go func() {
		if err := app.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("fiber stopped", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("fiber shutdown error", zap.Error(err))
	}

	log.Info("server exiting")
}
