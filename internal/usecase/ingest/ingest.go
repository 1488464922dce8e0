package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/internal/infrastructure"
	"github.com/andreyxaxa/asset-pipeline/internal/repo"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase/derivative"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
)

type IngestUseCase struct {
	blobRepo    repo.BlobRepo
	recordRepo  repo.AssetRecordRepo
	transformer infrastructure.ImageTransformer

	logger logger.Interface

	threshold int
}

func New(
	blobRepo repo.BlobRepo,
	recordRepo repo.AssetRecordRepo,
	transformer infrastructure.ImageTransformer,
	l logger.Interface,
	threshold int,
) *IngestUseCase {
	return &IngestUseCase{
		blobRepo:    blobRepo,
		recordRepo:  recordRepo,
		transformer: transformer,
		logger:      l,
		threshold:   threshold,
	}
}

type result struct {
	isHiRes       bool
	metadata      *entity.ImageMetadata
	hiResMetadata *entity.ImageMetadata
}

// Ingest обрабатывает загруженный raw-объект: считает производную,
// раскладывает объекты по префиксам и коммитит терминальный статус.
// Повторная доставка того же события сходится к тому же состоянию.
func (uc *IngestUseCase) Ingest(ctx context.Context, ownerID, assetID string) error {
	rawKey := entity.RawKey(ownerID, assetID)

	// 1. забираем raw-объект
	data, err := uc.blobRepo.Download(ctx, rawKey)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			// raw уже удалён - хвост предыдущего прогона,
			// восстанавливаем статус по имеющимся объектам
			return uc.reDerive(ctx, ownerID, assetID)
		}
		return fmt.Errorf("IngestUseCase - Ingest - uc.blobRepo.Download: %w", err)
	}

	// 2. интринсики изображения
	meta, err := uc.transformer.Probe(data)
	if err != nil {
		return fmt.Errorf("IngestUseCase - Ingest - uc.transformer.Probe: %w", err)
	}

	// 3. политика даунскейла
	decision, err := derivative.Decide(meta.Width, meta.Height, uc.threshold)
	if err != nil {
		return fmt.Errorf("IngestUseCase - Ingest - derivative.Decide: %w", err)
	}

	var res result
	if decision.NeedsDownscale {
		res, err = uc.downscale(ctx, ownerID, assetID, data, meta, decision)
	} else {
		res, err = uc.passthrough(ctx, ownerID, assetID, meta)
	}
	if err != nil {
		return fmt.Errorf("IngestUseCase - Ingest: %w", err)
	}

	// 4. raw удаляется только после того, как производные легли на место:
	// упавший посередине прогон оставляет либо raw, либо копии
	err = uc.blobRepo.Delete(ctx, rawKey)
	if err != nil {
		return fmt.Errorf("IngestUseCase - Ingest - uc.blobRepo.Delete: %w", err)
	}

	// 5. единственная точка линеаризации - условная запись статуса
	return uc.commit(ctx, ownerID, assetID, res)
}

// passthrough - изображение уже в пределах порога, копия raw становится базовой.
func (uc *IngestUseCase) passthrough(ctx context.Context, ownerID, assetID string, meta entity.ImageMetadata) (result, error) {
	// прежний hiRes больше не соответствует текущему raw
	err := uc.blobRepo.Delete(ctx, entity.HiResKey(ownerID, assetID))
	if err != nil {
		return result{}, fmt.Errorf("uc.blobRepo.Delete: %w", err)
	}

	err = uc.blobRepo.Copy(ctx, entity.RawKey(ownerID, assetID), entity.BaseKey(ownerID, assetID))
	if err != nil {
		return result{}, fmt.Errorf("uc.blobRepo.Copy: %w", err)
	}

	return result{
		metadata: &meta,
	}, nil
}

func (uc *IngestUseCase) downscale(
	ctx context.Context,
	ownerID, assetID string,
	data []byte,
	meta entity.ImageMetadata,
	decision derivative.Decision,
) (result, error) {
	// 1. оригинал сохраняется как hiRes до любых удалений
	err := uc.blobRepo.Copy(ctx, entity.RawKey(ownerID, assetID), entity.HiResKey(ownerID, assetID))
	if err != nil {
		return result{}, fmt.Errorf("uc.blobRepo.Copy: %w", err)
	}

	// 2. уменьшенная копия
	resized, resizedMeta, err := uc.transformer.Downscale(ctx, data, decision.TargetWidth, decision.TargetHeight)
	if err != nil {
		return result{}, fmt.Errorf("uc.transformer.Downscale: %w", err)
	}

	err = uc.blobRepo.Upload(ctx, entity.BaseKey(ownerID, assetID), resized, contentTypeFor(resizedMeta.Format))
	if err != nil {
		return result{}, fmt.Errorf("uc.blobRepo.Upload: %w", err)
	}

	return result{
		isHiRes:       true,
		metadata:      &resizedMeta,
		hiResMetadata: &meta,
	}, nil
}

// reDerive восстанавливает результат по лежащим в хранилище объектам,
// когда raw уже удалён предыдущим прогоном.
func (uc *IngestUseCase) reDerive(ctx context.Context, ownerID, assetID string) error {
	baseData, err := uc.blobRepo.Download(ctx, entity.BaseKey(ownerID, assetID))
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			// ни raw, ни базового объекта - ассет удалили, доделывать нечего
			uc.logger.Debug("nothing to re-derive for owner=%s asset=%s", ownerID, assetID)
			return nil
		}
		return fmt.Errorf("IngestUseCase - reDerive - uc.blobRepo.Download: %w", err)
	}

	meta, err := uc.transformer.Probe(baseData)
	if err != nil {
		return fmt.Errorf("IngestUseCase - reDerive - uc.transformer.Probe: %w", err)
	}

	res := result{metadata: &meta}

	_, hiResExists, err := uc.blobRepo.Head(ctx, entity.HiResKey(ownerID, assetID))
	if err != nil {
		return fmt.Errorf("IngestUseCase - reDerive - uc.blobRepo.Head: %w", err)
	}

	if hiResExists {
		hiResData, err := uc.blobRepo.Download(ctx, entity.HiResKey(ownerID, assetID))
		if err != nil {
			return fmt.Errorf("IngestUseCase - reDerive - uc.blobRepo.Download: %w", err)
		}

		hiResMeta, err := uc.transformer.Probe(hiResData)
		if err != nil {
			return fmt.Errorf("IngestUseCase - reDerive - uc.transformer.Probe: %w", err)
		}

		res.isHiRes = true
		res.hiResMetadata = &hiResMeta
	}

	return uc.commit(ctx, ownerID, assetID, res)
}

func (uc *IngestUseCase) commit(ctx context.Context, ownerID, assetID string, res result) error {
	err := uc.recordRepo.UpdateStatusIfExists(ctx, &entity.Asset{
		OwnerID:          ownerID,
		ID:               assetID,
		Status:           entity.StatusUploaded,
		IsHiResAvailable: res.isHiRes,
		Metadata:         res.metadata,
		HiResMetadata:    res.hiResMetadata,
		LastModifiedAt:   time.Now(),
	})
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			// запись удалили, пока шла обработка - не воскрешаем
			uc.logger.Debug("record gone before status commit, owner=%s asset=%s", ownerID, assetID)
			return nil
		}
		return fmt.Errorf("IngestUseCase - commit - uc.recordRepo.UpdateStatusIfExists: %w", err)
	}

	return nil
}

func contentTypeFor(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
