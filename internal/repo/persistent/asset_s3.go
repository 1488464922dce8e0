package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/pkg/s3client"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type AssetBlobRepo struct {
	*s3client.S3Client
	bucket string
}

func NewAssetBlobRepo(s3c *s3client.S3Client, bucket string) *AssetBlobRepo {
	return &AssetBlobRepo{s3c, bucket}
}

func (r *AssetBlobRepo) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("AssetBlobRepo - Download: %w", errs.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("AssetBlobRepo - Download - r.Client.GetObject: %w", err)
	}
	defer result.Body.Close()

	b, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("AssetBlobRepo - Download - io.ReadAll: %w", err)
	}

	return b, nil
}

func (r *AssetBlobRepo) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("AssetBlobRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *AssetBlobRepo) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := r.Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.bucket),
		CopySource: aws.String(r.bucket + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("AssetBlobRepo - Copy: %w", errs.ErrObjectNotFound)
		}
		return fmt.Errorf("AssetBlobRepo - Copy - r.Client.CopyObject: %w", err)
	}

	return nil
}

// Delete is a no-op for keys that do not exist.
func (r *AssetBlobRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("AssetBlobRepo - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}

func (r *AssetBlobRepo) Head(ctx context.Context, key string) (int64, bool, error) {
	result, err := r.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("AssetBlobRepo - Head - r.Client.HeadObject: %w", err)
	}

	return aws.ToInt64(result.ContentLength), true, nil
}

func (r *AssetBlobRepo) PresignUpload(ctx context.Context, key string, maxBytes int64, ttl time.Duration) (*entity.UploadGrant, error) {
	req, err := r.Presign.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = ttl
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", 0, maxBytes},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("AssetBlobRepo - PresignUpload - r.Presign.PresignPostObject: %w", err)
	}

	return &entity.UploadGrant{
		URL:    req.URL,
		Fields: req.Values,
	}, nil
}

func (r *AssetBlobRepo) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := r.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("AssetBlobRepo - PresignDownload - r.Presign.PresignGetObject: %w", err)
	}

	return req.URL, nil
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	var notFound *s3types.NotFound

	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
