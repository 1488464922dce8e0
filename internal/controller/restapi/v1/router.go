package v1

import (
	"github.com/andreyxaxa/asset-pipeline/internal/usecase"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewAssetRoutes(apiV1Group fiber.Router, assets usecase.AssetUseCase, l logger.Interface) {
	r := &V1{assets: assets, logger: l}

	{
		apiV1Group.Post("/owners/:ownerId/assets", r.issueUploadGrant)
		apiV1Group.Get("/owners/:ownerId/assets", r.listAssets)
		apiV1Group.Get("/owners/:ownerId/assets/:assetId", r.getAsset)
		apiV1Group.Delete("/owners/:ownerId/assets/:assetId", r.deleteAsset)
	}
}
