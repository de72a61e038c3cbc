package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/cloudstore-cbd/stock-api/internal/application/alert"
	"github.com/cloudstore-cbd/stock-api/internal/application/category"
	"github.com/cloudstore-cbd/stock-api/internal/application/movement"
	appstock "github.com/cloudstore-cbd/stock-api/internal/application/stock"
	syncapp "github.com/cloudstore-cbd/stock-api/internal/application/sync"
	"github.com/cloudstore-cbd/stock-api/internal/domain/catalog"
	domstock "github.com/cloudstore-cbd/stock-api/internal/domain/stock"
	"github.com/cloudstore-cbd/stock-api/internal/infrastructure/filestore"
	"github.com/cloudstore-cbd/stock-api/internal/infrastructure/shopify"
	slackinfra "github.com/cloudstore-cbd/stock-api/internal/infrastructure/slack"
	httpRouter "github.com/cloudstore-cbd/stock-api/internal/interfaces/http"
	"github.com/cloudstore-cbd/stock-api/pkg/config"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("dataDir", cfg.Storage.DataDir).
		Msg("iniciando aplicación")

	snapshotRepo := filestore.NewSnapshotRepository(cfg.Storage.DataDir, log)
	categoryRepo := filestore.NewCategoryRepository(cfg.Storage.DataDir)
	movementRepo := filestore.NewMovementRepository(cfg.Storage.DataDir, log)

	categoryUC := category.NewUseCase(categoryRepo)

	var baseline catalog.Baseline
	if cfg.Stock.BaselineEnabled {
		baseline = catalog.Default()
	}
	engine := appstock.NewEngine(
		appstock.Config{
			BaselineEnabled:     cfg.Stock.BaselineEnabled,
			AllowBaselineDelete: cfg.Stock.AllowBaselineDelete,
		},
		baseline,
		domstock.NewRegistry(),
		snapshotRepo,
		categoryUC,
		log,
	)
	projector := appstock.NewProjector(engine, categoryUC)
	movementUC := movement.NewUseCase(movementRepo, log)

	// Sincronización de niveles: solo con credenciales completas.
	var gateway syncapp.InventoryGateway
	if cfg.Shopify.AdminToken != "" && cfg.Shopify.LocationID != "" {
		gw, err := shopify.NewClient(cfg.Shopify, log)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de sincronización de inventario")
		}
		gateway = gw
	} else {
		log.Warn().Msg("sincronización de inventario desactivada (credenciales incompletas)")
	}
	syncUC := syncapp.NewUseCase(gateway, log)

	// Alertas de stock bajo: solo con canal y umbral configurados.
	var notifier alert.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.AlertChannel != "" {
		notifier = slackinfra.New(cfg.Slack.Token, cfg.Slack.AlertChannel)
	}
	alertUC := alert.NewUseCase(decimal.NewFromFloat(cfg.Stock.LowStockThreshold), notifier, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Pool API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Cfg:        cfg,
		Log:        log,
		Engine:     engine,
		Projector:  projector,
		CategoryUC: categoryUC,
		MovementUC: movementUC,
		SyncUC:     syncUC,
		AlertUC:    alertUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
