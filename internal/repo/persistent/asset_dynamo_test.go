package persistent

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
)

func TestRecordRoundtrip(t *testing.T) {
	src := &entity.Asset{
		OwnerID:          "u1",
		ID:               "a1",
		Status:           entity.StatusUploaded,
		IsHiResAvailable: true,
		Metadata:         &entity.ImageMetadata{Width: 1024, Height: 512, Format: "png"},
		HiResMetadata:    &entity.ImageMetadata{Width: 4000, Height: 2000, Format: "png"},
		LastModifiedAt:   time.UnixMilli(1756700000000),
	}

	item, err := attributevalue.MarshalMap(toRecord(src))
	require.NoError(t, err)

	got, err := unmarshalAsset(item)
	require.NoError(t, err)
	require.Equal(t, src, got)
}

func TestRecordKeys(t *testing.T) {
	rec := toRecord(&entity.Asset{OwnerID: "u1", ID: "a1", Status: entity.StatusPendingUpload})

	require.Equal(t, "owner#u1", rec.PK)
	require.Equal(t, "asset#a1", rec.SK)
	require.Equal(t, entity.EntityTypeAsset, rec.EntityType)

	// индексный ключ собирает все ассеты владельца
	require.Equal(t, "asset#u1", rec.GSIPK)
	require.Equal(t, "a1", rec.GSISK)
}

func TestRecordOmitsEmptyMetadata(t *testing.T) {
	item, err := attributevalue.MarshalMap(toRecord(&entity.Asset{
		OwnerID: "u1",
		ID:      "a1",
		Status:  entity.StatusPendingUpload,
	}))
	require.NoError(t, err)

	require.NotContains(t, item, metadataAttr)
	require.NotContains(t, item, hiResMetadataAttr)
}

func TestCursorRoundtrip(t *testing.T) {
	lastKey := map[string]types.AttributeValue{
		"pk":     &types.AttributeValueMemberS{Value: "owner#u1"},
		"sk":     &types.AttributeValueMemberS{Value: "asset#a7"},
		"gsi_pk": &types.AttributeValueMemberS{Value: "asset#u1"},
		"gsi_sk": &types.AttributeValueMemberS{Value: "a7"},
	}

	cursor, err := encodeCursor(lastKey)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	got, err := decodeCursor(cursor)
	require.NoError(t, err)
	require.Equal(t, lastKey, got)
}

func TestCursorEmptyLastKey(t *testing.T) {
	cursor, err := encodeCursor(nil)
	require.NoError(t, err)
	require.Empty(t, cursor)
}

func TestCursorInvalid(t *testing.T) {
	_, err := decodeCursor("not-base64!!!")
	require.Error(t, err)

	// валидный base64, но не JSON
	_, err = decodeCursor("bm90LWpzb24")
	require.Error(t, err)
}
