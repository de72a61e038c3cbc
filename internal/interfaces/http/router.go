package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/cloudstore-cbd/stock-api/internal/application/alert"
	"github.com/cloudstore-cbd/stock-api/internal/application/category"
	"github.com/cloudstore-cbd/stock-api/internal/application/movement"
	appstock "github.com/cloudstore-cbd/stock-api/internal/application/stock"
	syncapp "github.com/cloudstore-cbd/stock-api/internal/application/sync"
	"github.com/cloudstore-cbd/stock-api/pkg/config"
	"github.com/cloudstore-cbd/stock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Cfg        *config.Config
	Log        *logger.Logger
	Engine     *appstock.Engine
	Projector  *appstock.Projector
	CategoryUC *category.UseCase
	MovementUC *movement.UseCase
	SyncUC     *syncapp.UseCase
	AlertUC    *alert.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	stockHandler := NewStockHandler(deps.Engine, deps.Projector, deps.MovementUC, deps.SyncUC, deps.AlertUC,
		deps.Cfg.App.Name, deps.Cfg.App.Env)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	movementHandler := NewMovementHandler(deps.MovementUC)
	authHandler := NewAuthHandler(deps.Cfg)
	webhookHandler := NewWebhookHandler(deps.Engine, deps.MovementUC, deps.SyncUC, deps.AlertUC,
		deps.Cfg.Shopify.WebhookSecret, deps.Cfg.Shopify.SkipHMACVerify, deps.Log)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        deps.Cfg.RateLimit.APIMax,
		Expiration: 15 * time.Minute,
	}))

	// Público
	api.Post("/auth/token", authHandler.Token)
	api.Get("/stock", stockHandler.List)
	api.Get("/categories", categoryHandler.List)
	api.Get("/server-info", stockHandler.ServerInfo)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Cfg.JWT.Secret))
	protected.Post("/restock", stockHandler.Restock)
	protected.Post("/set-total-stock", stockHandler.SetTotalStock)
	protected.Post("/stock/import", stockHandler.Import)
	protected.Delete("/stock/:productId", stockHandler.Remove)
	protected.Put("/stock/:productId/categories", stockHandler.AssignCategories)
	protected.Post("/categories", categoryHandler.Create)
	protected.Put("/categories/:id", categoryHandler.Rename)
	protected.Delete("/categories/:id", categoryHandler.Delete)
	protected.Get("/movements", movementHandler.List)
	protected.Get("/movements/export", movementHandler.ExportCSV)

	// Webhooks (firmados con HMAC, límite propio)
	webhooks := app.Group("/webhooks", limiter.New(limiter.Config{
		Max:        deps.Cfg.RateLimit.WebhookMax,
		Expiration: time.Minute,
	}))
	webhooks.Post("/orders/create", webhookHandler.OrderCreated)
}
