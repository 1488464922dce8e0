package repo

import (
	"context"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
)

type (
	// BlobRepo - хранилище объектов (S3).
	BlobRepo interface {
		Download(ctx context.Context, key string) ([]byte, error)
		Upload(ctx context.Context, key string, data []byte, contentType string) error
		Copy(ctx context.Context, srcKey, dstKey string) error
		Delete(ctx context.Context, key string) error
		Head(ctx context.Context, key string) (size int64, exists bool, err error)
		PresignUpload(ctx context.Context, key string, maxBytes int64, ttl time.Duration) (*entity.UploadGrant, error)
		PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error)
	}

	// AssetRecordRepo - хранилище записей об ассетах (DynamoDB).
	AssetRecordRepo interface {
		Get(ctx context.Context, ownerID, assetID string) (*entity.Asset, error)
		Upsert(ctx context.Context, asset *entity.Asset) error
		// UpdateStatusIfExists commits status/metadata only when the record
		// still exists; returns errs.ErrRecordNotFound when it was deleted.
		UpdateStatusIfExists(ctx context.Context, asset *entity.Asset) error
		// DeleteReturning removes the record and returns its previous state;
		// errs.ErrRecordNotFound when there was nothing to delete.
		DeleteReturning(ctx context.Context, ownerID, assetID string) (*entity.Asset, error)
		ListByOwner(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*entity.Asset, string, error)
	}
)
