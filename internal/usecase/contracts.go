package usecase

import (
	"context"

	"github.com/andreyxaxa/asset-pipeline/internal/dto"
	"github.com/andreyxaxa/asset-pipeline/internal/entity"
)

type (
	AssetUseCase interface {
		// IssueUploadGrant mints a presigned upload target for the raw key and
		// resets the record to PENDING_UPLOAD. Empty assetID generates a fresh one;
		// an explicit assetID must reference an existing record.
		IssueUploadGrant(ctx context.Context, ownerID, assetID string) (*entity.Asset, *entity.UploadGrant, error)
		GetAsset(ctx context.Context, ownerID, assetID string, withURLs bool) (*dto.Asset, error)
		ListAssets(ctx context.Context, ownerID string, pageSize int, cursor string, withURLs bool) (*dto.AssetPage, error)
		DeleteAsset(ctx context.Context, ownerID, assetID string) error
	}

	IngestUseCase interface {
		Ingest(ctx context.Context, ownerID, assetID string) error
	}
)
