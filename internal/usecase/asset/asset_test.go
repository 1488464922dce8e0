package asset_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase/asset"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
)

type fakeBlobRepo struct {
	deleted      []string
	presignedKey string
}

func (f *fakeBlobRepo) Download(context.Context, string) ([]byte, error) {
	return nil, errs.ErrObjectNotFound
}

func (f *fakeBlobRepo) Upload(context.Context, string, []byte, string) error { return nil }

func (f *fakeBlobRepo) Copy(context.Context, string, string) error { return nil }

func (f *fakeBlobRepo) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobRepo) Head(context.Context, string) (int64, bool, error) { return 0, false, nil }

func (f *fakeBlobRepo) PresignUpload(_ context.Context, key string, maxBytes int64, _ time.Duration) (*entity.UploadGrant, error) {
	f.presignedKey = key

	return &entity.UploadGrant{
		URL: "http://storage/upload",
		Fields: map[string]string{
			"key":    key,
			"policy": fmt.Sprintf("max=%d", maxBytes),
		},
	}, nil
}

func (f *fakeBlobRepo) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "http://storage/" + key, nil
}

type fakeRecordRepo struct {
	records map[string]*entity.Asset
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[string]*entity.Asset{}}
}

func recordKey(ownerID, assetID string) string {
	return ownerID + "/" + assetID
}

func (f *fakeRecordRepo) Get(_ context.Context, ownerID, assetID string) (*entity.Asset, error) {
	a, ok := f.records[recordKey(ownerID, assetID)]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	cp := *a

	return &cp, nil
}

func (f *fakeRecordRepo) Upsert(_ context.Context, a *entity.Asset) error {
	cp := *a
	f.records[recordKey(a.OwnerID, a.ID)] = &cp

	return nil
}

func (f *fakeRecordRepo) UpdateStatusIfExists(_ context.Context, a *entity.Asset) error {
	if _, ok := f.records[recordKey(a.OwnerID, a.ID)]; !ok {
		return errs.ErrRecordNotFound
	}

	cp := *a
	f.records[recordKey(a.OwnerID, a.ID)] = &cp

	return nil
}

func (f *fakeRecordRepo) DeleteReturning(_ context.Context, ownerID, assetID string) (*entity.Asset, error) {
	a, ok := f.records[recordKey(ownerID, assetID)]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	delete(f.records, recordKey(ownerID, assetID))

	return a, nil
}

func (f *fakeRecordRepo) ListByOwner(_ context.Context, ownerID string, pageSize int, _ string) ([]*entity.Asset, string, error) {
	var out []*entity.Asset
	for _, a := range f.records {
		if a.OwnerID != ownerID {
			continue
		}
		cp := *a
		out = append(out, &cp)
		if len(out) == pageSize {
			break
		}
	}

	return out, "", nil
}

func newUseCase(blobs *fakeBlobRepo, records *fakeRecordRepo) *asset.AssetUseCase {
	return asset.New(blobs, records, logger.New("error"), 5*time.Minute, 10*time.Minute, 10<<20, 25)
}

func TestIssueUploadGrantNewAsset(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobRepo{}
	records := newFakeRecordRepo()
	uc := newUseCase(blobs, records)

	a, grant, err := uc.IssueUploadGrant(ctx, "u1", "")
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, entity.StatusPendingUpload, a.Status)
	require.Equal(t, "http://storage/upload", grant.URL)
	require.Equal(t, entity.RawKey("u1", a.ID), blobs.presignedKey)

	// запись легла в хранилище до выдачи гранта
	stored, err := records.Get(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPendingUpload, stored.Status)
}

func TestIssueUploadGrantExplicitMissing(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(&fakeBlobRepo{}, newFakeRecordRepo())

	// явный идентификатор обязан ссылаться на существующую запись
	_, _, err := uc.IssueUploadGrant(ctx, "u1", "no-such-asset")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestIssueUploadGrantReuploadResetsRecord(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobRepo{}
	records := newFakeRecordRepo()
	uc := newUseCase(blobs, records)

	require.NoError(t, records.Upsert(ctx, &entity.Asset{
		OwnerID:          "u1",
		ID:               "a1",
		Status:           entity.StatusUploaded,
		IsHiResAvailable: true,
		Metadata:         &entity.ImageMetadata{Width: 1024, Height: 512, Format: "png"},
		HiResMetadata:    &entity.ImageMetadata{Width: 4000, Height: 2000, Format: "png"},
	}))

	a, _, err := uc.IssueUploadGrant(ctx, "u1", "a1")
	require.NoError(t, err)
	require.Equal(t, entity.StatusPendingUpload, a.Status)

	// прежние метаданные затираются до прихода новой версии
	stored, err := records.Get(ctx, "u1", "a1")
	require.NoError(t, err)
	require.Equal(t, entity.StatusPendingUpload, stored.Status)
	require.False(t, stored.IsHiResAvailable)
	require.Nil(t, stored.Metadata)
	require.Nil(t, stored.HiResMetadata)
}

func TestGetAssetWithURLs(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo()
	uc := newUseCase(&fakeBlobRepo{}, records)

	require.NoError(t, records.Upsert(ctx, &entity.Asset{
		OwnerID:          "u1",
		ID:               "a1",
		Status:           entity.StatusUploaded,
		IsHiResAvailable: true,
	}))
	require.NoError(t, records.Upsert(ctx, &entity.Asset{
		OwnerID: "u1",
		ID:      "a2",
		Status:  entity.StatusUploaded,
	}))

	withHiRes, err := uc.GetAsset(ctx, "u1", "a1", true)
	require.NoError(t, err)
	require.Equal(t, "http://storage/"+entity.BaseKey("u1", "a1"), withHiRes.URLs.URL)
	require.Equal(t, "http://storage/"+entity.HiResKey("u1", "a1"), withHiRes.URLs.HiResURL)

	// hiRes-ссылка выдаётся только при наличии hiRes-объекта
	withoutHiRes, err := uc.GetAsset(ctx, "u1", "a2", true)
	require.NoError(t, err)
	require.Equal(t, "http://storage/"+entity.BaseKey("u1", "a2"), withoutHiRes.URLs.URL)
	require.Empty(t, withoutHiRes.URLs.HiResURL)

	plain, err := uc.GetAsset(ctx, "u1", "a1", false)
	require.NoError(t, err)
	require.Nil(t, plain.URLs)
}

func TestGetAssetNotFound(t *testing.T) {
	uc := newUseCase(&fakeBlobRepo{}, newFakeRecordRepo())

	_, err := uc.GetAsset(context.Background(), "u1", "missing", false)
	require.ErrorIs(t, err, errs.ErrRecordNotFound)
}

func TestListAssetsClampsPageSize(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo()
	uc := newUseCase(&fakeBlobRepo{}, records)

	for i := 0; i < 30; i++ {
		require.NoError(t, records.Upsert(ctx, &entity.Asset{
			OwnerID: "u1",
			ID:      fmt.Sprintf("a%d", i),
			Status:  entity.StatusUploaded,
		}))
	}

	page, err := uc.ListAssets(ctx, "u1", 1000, "", false)
	require.NoError(t, err)
	require.Len(t, page.Assets, 25)

	page, err = uc.ListAssets(ctx, "u1", -1, "", false)
	require.NoError(t, err)
	require.Len(t, page.Assets, 25)

	page, err = uc.ListAssets(ctx, "u1", 5, "", false)
	require.NoError(t, err)
	require.Len(t, page.Assets, 5)
}

func TestDeleteAssetRemovesRecordAndObjects(t *testing.T) {
	ctx := context.Background()
	blobs := &fakeBlobRepo{}
	records := newFakeRecordRepo()
	uc := newUseCase(blobs, records)

	require.NoError(t, records.Upsert(ctx, &entity.Asset{
		OwnerID: "u1",
		ID:      "a1",
		Status:  entity.StatusUploaded,
	}))

	require.NoError(t, uc.DeleteAsset(ctx, "u1", "a1"))

	_, err := records.Get(ctx, "u1", "a1")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	// зачищаются все три возможных объекта
	require.ElementsMatch(t, []string{
		entity.BaseKey("u1", "a1"),
		entity.RawKey("u1", "a1"),
		entity.HiResKey("u1", "a1"),
	}, blobs.deleted)
}

func TestDeleteAssetMissingRecord(t *testing.T) {
	blobs := &fakeBlobRepo{}
	uc := newUseCase(blobs, newFakeRecordRepo())

	err := uc.DeleteAsset(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, errs.ErrRecordNotFound)

	// без записи объекты не трогаем
	require.Empty(t, blobs.deleted)
}
