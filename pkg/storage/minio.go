package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AttachmentsBucket holds uploaded incident evidence. Objects are namespaced
// by ticket code: <TICKET>/<timestamp>-<filename>.
const AttachmentsBucket = "incident-attachments"

func ConnectMinio(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}

	log.Println("✅ Successfully connected to MinIO!")
	return client, nil
}

func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Printf("[OK] Created bucket '%s'", bucket)
	return nil
}

// UploadObject stores one attachment and returns its object path. Callers
// treat a failure here as non-fatal to the surrounding submission.
func UploadObject(ctx context.Context, client *minio.Client, bucket, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := client.PutObject(ctx, bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return fmt.Sprintf("%s/%s", bucket, objectName), nil
}
