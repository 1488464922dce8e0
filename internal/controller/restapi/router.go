package restapi

import (
	"github.com/andreyxaxa/asset-pipeline/config"
	v1 "github.com/andreyxaxa/asset-pipeline/internal/controller/restapi/v1"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title Asset pipeline
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, assets usecase.AssetUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewAssetRoutes(apiV1Group, assets, l)
	}
}
