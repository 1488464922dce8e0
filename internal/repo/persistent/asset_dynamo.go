package persistent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/pkg/dynamoclient"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// Index
	entityOwnerIndex = "entity_owner"

	// Attributes
	pkAttr            = "pk"
	skAttr            = "sk"
	gsiPKAttr         = "gsi_pk"
	gsiSKAttr         = "gsi_sk"
	statusAttr        = "status"
	isHiResAttr       = "isAssetHiRes"
	metadataAttr      = "metadata"
	hiResMetadataAttr = "hiResMetadata"
	lastModifiedAttr  = "lastModifiedTS"
)

// assetRecord - то, что лежит в таблице. entityType - явный дискриминант
// типа записи, gsi_pk = "{entityType}#{ownerId}" - ключ индекса для
// выборки всех ассетов владельца.
type assetRecord struct {
	PK         string `dynamodbav:"pk"`
	SK         string `dynamodbav:"sk"`
	EntityType string `dynamodbav:"entityType"`
	GSIPK      string `dynamodbav:"gsi_pk"`
	GSISK      string `dynamodbav:"gsi_sk"`

	OwnerID string `dynamodbav:"ownerId"`
	ID      string `dynamodbav:"id"`

	Status       string `dynamodbav:"status"`
	IsAssetHiRes bool   `dynamodbav:"isAssetHiRes"`

	Metadata      *metadataRecord `dynamodbav:"metadata,omitempty"`
	HiResMetadata *metadataRecord `dynamodbav:"hiResMetadata,omitempty"`

	LastModifiedTS int64 `dynamodbav:"lastModifiedTS"`
}

type metadataRecord struct {
	Width  int    `dynamodbav:"width"`
	Height int    `dynamodbav:"height"`
	Format string `dynamodbav:"format"`
}

type AssetRecordRepo struct {
	*dynamoclient.DynamoClient
	table string
}

func NewAssetRecordRepo(dc *dynamoclient.DynamoClient, table string) *AssetRecordRepo {
	return &AssetRecordRepo{dc, table}
}

func (r *AssetRecordRepo) Get(ctx context.Context, ownerID, assetID string) (*entity.Asset, error) {
	result, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       recordKey(ownerID, assetID),
	})
	if err != nil {
		return nil, fmt.Errorf("AssetRecordRepo - Get - r.Client.GetItem: %w", err)
	}

	if len(result.Item) == 0 {
		return nil, fmt.Errorf("AssetRecordRepo - Get: %w", errs.ErrRecordNotFound)
	}

	asset, err := unmarshalAsset(result.Item)
	if err != nil {
		return nil, fmt.Errorf("AssetRecordRepo - Get: %w", err)
	}

	return asset, nil
}

func (r *AssetRecordRepo) Upsert(ctx context.Context, asset *entity.Asset) error {
	item, err := attributevalue.MarshalMap(toRecord(asset))
	if err != nil {
		return fmt.Errorf("AssetRecordRepo - Upsert - attributevalue.MarshalMap: %w", err)
	}

	_, err = r.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("AssetRecordRepo - Upsert - r.Client.PutItem: %w", err)
	}

	return nil
}

func (r *AssetRecordRepo) UpdateStatusIfExists(ctx context.Context, asset *entity.Asset) error {
	values := map[string]types.AttributeValue{
		":status":       &types.AttributeValueMemberS{Value: string(asset.Status)},
		":isAssetHiRes": &types.AttributeValueMemberBOOL{Value: asset.IsHiResAvailable},
		":lastModifiedTS": &types.AttributeValueMemberN{
			Value: fmt.Sprintf("%d", asset.LastModifiedAt.UnixMilli()),
		},
	}

	var err error
	values[":metadata"], err = marshalMetadata(asset.Metadata)
	if err != nil {
		return fmt.Errorf("AssetRecordRepo - UpdateStatusIfExists: %w", err)
	}
	values[":hiResMetadata"], err = marshalMetadata(asset.HiResMetadata)
	if err != nil {
		return fmt.Errorf("AssetRecordRepo - UpdateStatusIfExists: %w", err)
	}

	_, err = r.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key:       recordKey(asset.OwnerID, asset.ID),
		UpdateExpression: aws.String("SET #status = :status, #isAssetHiRes = :isAssetHiRes, " +
			"#metadata = :metadata, #hiResMetadata = :hiResMetadata, #lastModifiedTS = :lastModifiedTS"),
		// запись могла быть удалена владельцем, пока шла обработка -
		// в этом случае не воскрешаем её
		ConditionExpression: aws.String("attribute_exists(pk) AND attribute_exists(sk)"),
		ExpressionAttributeNames: map[string]string{
			"#status":         statusAttr,
			"#isAssetHiRes":   isHiResAttr,
			"#metadata":       metadataAttr,
			"#hiResMetadata":  hiResMetadataAttr,
			"#lastModifiedTS": lastModifiedAttr,
		},
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return fmt.Errorf("AssetRecordRepo - UpdateStatusIfExists: %w", errs.ErrRecordNotFound)
		}
		return fmt.Errorf("AssetRecordRepo - UpdateStatusIfExists - r.Client.UpdateItem: %w", err)
	}

	return nil
}

func (r *AssetRecordRepo) DeleteReturning(ctx context.Context, ownerID, assetID string) (*entity.Asset, error) {
	result, err := r.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          recordKey(ownerID, assetID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("AssetRecordRepo - DeleteReturning - r.Client.DeleteItem: %w", err)
	}

	if len(result.Attributes) == 0 {
		return nil, fmt.Errorf("AssetRecordRepo - DeleteReturning: %w", errs.ErrRecordNotFound)
	}

	asset, err := unmarshalAsset(result.Attributes)
	if err != nil {
		return nil, fmt.Errorf("AssetRecordRepo - DeleteReturning: %w", err)
	}

	return asset, nil
}

func (r *AssetRecordRepo) ListByOwner(ctx context.Context, ownerID string, pageSize int, cursor string) ([]*entity.Asset, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(entityOwnerIndex),
		KeyConditionExpression: aws.String("#gsi_pk = :gsi_pk"),
		ExpressionAttributeNames: map[string]string{
			"#gsi_pk": gsiPKAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":gsi_pk": &types.AttributeValueMemberS{Value: ownerIndexKey(ownerID)},
		},
		Limit: aws.Int32(int32(pageSize)),
	}

	if cursor != "" {
		startKey, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("AssetRecordRepo - ListByOwner: %w", err)
		}
		input.ExclusiveStartKey = startKey
	}

	result, err := r.Client.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("AssetRecordRepo - ListByOwner - r.Client.Query: %w", err)
	}

	assets := make([]*entity.Asset, 0, len(result.Items))
	for _, item := range result.Items {
		asset, err := unmarshalAsset(item)
		if err != nil {
			return nil, "", fmt.Errorf("AssetRecordRepo - ListByOwner: %w", err)
		}
		assets = append(assets, asset)
	}

	next, err := encodeCursor(result.LastEvaluatedKey)
	if err != nil {
		return nil, "", fmt.Errorf("AssetRecordRepo - ListByOwner: %w", err)
	}

	return assets, next, nil
}

func recordKey(ownerID, assetID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		pkAttr: &types.AttributeValueMemberS{Value: "owner#" + ownerID},
		skAttr: &types.AttributeValueMemberS{Value: entity.EntityTypeAsset + "#" + assetID},
	}
}

func ownerIndexKey(ownerID string) string {
	return entity.EntityTypeAsset + "#" + ownerID
}

func toRecord(asset *entity.Asset) *assetRecord {
	return &assetRecord{
		PK:             "owner#" + asset.OwnerID,
		SK:             entity.EntityTypeAsset + "#" + asset.ID,
		EntityType:     entity.EntityTypeAsset,
		GSIPK:          ownerIndexKey(asset.OwnerID),
		GSISK:          asset.ID,
		OwnerID:        asset.OwnerID,
		ID:             asset.ID,
		Status:         string(asset.Status),
		IsAssetHiRes:   asset.IsHiResAvailable,
		Metadata:       toMetadataRecord(asset.Metadata),
		HiResMetadata:  toMetadataRecord(asset.HiResMetadata),
		LastModifiedTS: asset.LastModifiedAt.UnixMilli(),
	}
}

func toMetadataRecord(m *entity.ImageMetadata) *metadataRecord {
	if m == nil {
		return nil
	}
	return &metadataRecord{Width: m.Width, Height: m.Height, Format: m.Format}
}

func fromMetadataRecord(m *metadataRecord) *entity.ImageMetadata {
	if m == nil {
		return nil
	}
	return &entity.ImageMetadata{Width: m.Width, Height: m.Height, Format: m.Format}
}

func marshalMetadata(m *entity.ImageMetadata) (types.AttributeValue, error) {
	if m == nil {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}

	av, err := attributevalue.Marshal(toMetadataRecord(m))
	if err != nil {
		return nil, fmt.Errorf("attributevalue.Marshal: %w", err)
	}

	return av, nil
}

func unmarshalAsset(item map[string]types.AttributeValue) (*entity.Asset, error) {
	var rec assetRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("attributevalue.UnmarshalMap: %w", err)
	}

	return &entity.Asset{
		OwnerID:          rec.OwnerID,
		ID:               rec.ID,
		Status:           entity.AssetStatus(rec.Status),
		IsHiResAvailable: rec.IsAssetHiRes,
		Metadata:         fromMetadataRecord(rec.Metadata),
		HiResMetadata:    fromMetadataRecord(rec.HiResMetadata),
		LastModifiedAt:   time.UnixMilli(rec.LastModifiedTS),
	}, nil
}

// Курсор пагинации - LastEvaluatedKey, упакованный в base64.
func encodeCursor(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}

	plain := make(map[string]string, len(lastKey))
	for name, av := range lastKey {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("encodeCursor: unexpected attribute type for %q", name)
		}
		plain[name] = s.Value
	}

	b, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("encodeCursor - json.Marshal: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("decodeCursor - base64.Decode: %w", err)
	}

	var plain map[string]string
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, fmt.Errorf("decodeCursor - json.Unmarshal: %w", err)
	}

	key := make(map[string]types.AttributeValue, len(plain))
	for name, value := range plain {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}

	return key, nil
}
