package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/webcarros/listing-service/internal/platform/logger"
)

// Storage binds the blob-store port to MinIO. Objects live under
// images/{ownerID}/{imageID}.
type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing MinIO storage", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
		log.Info("Storage: bucket already exists", "bucket", bucketName)
	}

	return &Storage{
		client: client,
		bucket: bucketName,
		logger: log,
	}, nil
}

func objectKey(ownerID, imageID string) string {
	return fmt.Sprintf("images/%s/%s", ownerID, imageID)
}

func (s *Storage) Upload(ctx context.Context, ownerID, imageID string, data []byte, contentType string) (string, error) {
	key := objectKey(ownerID, imageID)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("Storage.Upload: PutObject failed", "bucket", s.bucket, "key", key, "error", err.Error())
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	// MinIO serves objects at <endpoint>/<bucket>/<key>; the endpoint URL
	// carries the scheme matching the Secure option.
	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	s.logger.Info("Storage.Upload: object uploaded", "bucket", s.bucket, "key", key, "size_bytes", len(data))
	return url, nil
}

func (s *Storage) Remove(ctx context.Context, ownerID, imageID string) error {
	key := objectKey(ownerID, imageID)

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("Storage.Remove: RemoveObject failed", "bucket", s.bucket, "key", key, "error", err.Error())
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", key, s.bucket, err)
	}
	return nil
}
