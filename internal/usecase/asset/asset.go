package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/dto"
	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/internal/repo"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
	"github.com/google/uuid"
)

type AssetUseCase struct {
	blobRepo   repo.BlobRepo
	recordRepo repo.AssetRecordRepo

	logger logger.Interface

	grantTTL       time.Duration
	downloadTTL    time.Duration
	maxUploadBytes int64
	maxPageSize    int
}

func New(
	blobRepo repo.BlobRepo,
	recordRepo repo.AssetRecordRepo,
	l logger.Interface,
	grantTTL time.Duration,
	downloadTTL time.Duration,
	maxUploadBytes int64,
	maxPageSize int,
) *AssetUseCase {
	return &AssetUseCase{
		blobRepo:       blobRepo,
		recordRepo:     recordRepo,
		logger:         l,
		grantTTL:       grantTTL,
		downloadTTL:    downloadTTL,
		maxUploadBytes: maxUploadBytes,
		maxPageSize:    maxPageSize,
	}
}

func (uc *AssetUseCase) IssueUploadGrant(ctx context.Context, ownerID, assetID string) (*entity.Asset, *entity.UploadGrant, error) {
	if assetID == "" {
		// новый ассет - генерируем идентификатор
		assetID = uuid.NewString()
	} else {
		// явный идентификатор обязан ссылаться на существующую запись
		cur, err := uc.recordRepo.Get(ctx, ownerID, assetID)
		if err != nil {
			return nil, nil, fmt.Errorf("AssetUseCase - IssueUploadGrant - uc.recordRepo.Get: %w", err)
		}

		if cur.Status != entity.StatusPendingUpload && !cur.Status.CanTransitionTo(entity.StatusPendingUpload) {
			return nil, nil, fmt.Errorf("AssetUseCase - IssueUploadGrant - %s -> %s: %w",
				cur.Status, entity.StatusPendingUpload, errs.ErrInvalidTransition)
		}
	}

	// запись сбрасывается в PENDING_UPLOAD, прежние метаданные затираются
	asset := &entity.Asset{
		OwnerID:        ownerID,
		ID:             assetID,
		Status:         entity.StatusPendingUpload,
		LastModifiedAt: time.Now(),
	}

	err := uc.recordRepo.Upsert(ctx, asset)
	if err != nil {
		return nil, nil, fmt.Errorf("AssetUseCase - IssueUploadGrant - uc.recordRepo.Upsert: %w", err)
	}

	// грант целится в raw-префикс; ограничение размера проверяет
	// само хранилище в момент загрузки
	grant, err := uc.blobRepo.PresignUpload(ctx, entity.RawKey(ownerID, assetID), uc.maxUploadBytes, uc.grantTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("AssetUseCase - IssueUploadGrant - uc.blobRepo.PresignUpload: %w", err)
	}

	return asset, grant, nil
}

func (uc *AssetUseCase) GetAsset(ctx context.Context, ownerID, assetID string, withURLs bool) (*dto.Asset, error) {
	asset, err := uc.recordRepo.Get(ctx, ownerID, assetID)
	if err != nil {
		return nil, fmt.Errorf("AssetUseCase - GetAsset - uc.recordRepo.Get: %w", err)
	}

	result := &dto.Asset{Asset: asset}

	if withURLs {
		result.URLs, err = uc.presignURLs(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("AssetUseCase - GetAsset: %w", err)
		}
	}

	return result, nil
}

func (uc *AssetUseCase) ListAssets(ctx context.Context, ownerID string, pageSize int, cursor string, withURLs bool) (*dto.AssetPage, error) {
	if pageSize <= 0 || pageSize > uc.maxPageSize {
		pageSize = uc.maxPageSize
	}

	assets, next, err := uc.recordRepo.ListByOwner(ctx, ownerID, pageSize, cursor)
	if err != nil {
		return nil, fmt.Errorf("AssetUseCase - ListAssets - uc.recordRepo.ListByOwner: %w", err)
	}

	page := &dto.AssetPage{
		Assets:     make([]*dto.Asset, 0, len(assets)),
		NextCursor: next,
	}

	for _, a := range assets {
		item := &dto.Asset{Asset: a}

		if withURLs {
			item.URLs, err = uc.presignURLs(ctx, a)
			if err != nil {
				return nil, fmt.Errorf("AssetUseCase - ListAssets: %w", err)
			}
		}

		page.Assets = append(page.Assets, item)
	}

	return page, nil
}

func (uc *AssetUseCase) DeleteAsset(ctx context.Context, ownerID, assetID string) error {
	// 1. сначала удаляем запись - иначе параллельная обработка может
	// воскресить статус после того, как объекты уже удалены
	_, err := uc.recordRepo.DeleteReturning(ctx, ownerID, assetID)
	if err != nil {
		return fmt.Errorf("AssetUseCase - DeleteAsset - uc.recordRepo.DeleteReturning: %w", err)
	}

	// 2. запись существовала - зачищаем все возможные объекты,
	// отсутствие ключа не считается ошибкой
	for _, key := range []string{
		entity.BaseKey(ownerID, assetID),
		entity.RawKey(ownerID, assetID),
		entity.HiResKey(ownerID, assetID),
	} {
		if err := uc.blobRepo.Delete(ctx, key); err != nil {
			uc.logger.Warn("failed to delete key=%s, error=%v", key, err)
		}
	}

	return nil
}

func (uc *AssetUseCase) presignURLs(ctx context.Context, asset *entity.Asset) (*dto.AssetURLs, error) {
	urls := &dto.AssetURLs{}

	var err error
	urls.URL, err = uc.blobRepo.PresignDownload(ctx, entity.BaseKey(asset.OwnerID, asset.ID), uc.downloadTTL)
	if err != nil {
		return nil, fmt.Errorf("uc.blobRepo.PresignDownload: %w", err)
	}

	if asset.IsHiResAvailable {
		urls.HiResURL, err = uc.blobRepo.PresignDownload(ctx, entity.HiResKey(asset.OwnerID, asset.ID), uc.downloadTTL)
		if err != nil {
			return nil, fmt.Errorf("uc.blobRepo.PresignDownload: %w", err)
		}
	}

	return urls, nil
}
