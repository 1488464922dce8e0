package v1

import (
	"github.com/andreyxaxa/asset-pipeline/internal/usecase"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
)

type V1 struct {
	assets usecase.AssetUseCase
	logger logger.Interface
}
