package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"photoshare/internal/config"
)

// MediaStore is the contract for the cloud media host: raw bytes in, public
// URL out. Image rows only ever hold the URL and the public ID.
type MediaStore interface {
	Upload(ctx context.Context, publicID string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, publicID string) ([]byte, error)
	Delete(ctx context.Context, publicID string) error
}

// MinIOMediaStore stores media objects in a MinIO (S3-compatible) bucket.
type MinIOMediaStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIOMediaStore connects to MinIO and ensures the bucket exists.
func NewMinIOMediaStore(cfg config.Config) (*MinIOMediaStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to media store: %w", err)
	}
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check media bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create media bucket: %w", err)
		}
	}
	return &MinIOMediaStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(cfg.MinioPublicURL, "/"),
	}, nil
}

// Upload stores the object and returns its public URL.
func (s *MinIOMediaStore) Upload(ctx context.Context, publicID string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, publicID, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", publicID, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, publicID), nil
}

// Download fetches the raw object bytes.
func (s *MinIOMediaStore) Download(ctx context.Context, publicID string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, publicID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", publicID, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", publicID, err)
	}
	return data, nil
}

// Delete removes the object from the bucket.
func (s *MinIOMediaStore) Delete(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	return nil
}

// GeneratePublicID derives a fresh object name from the uploader's email,
// mirroring the media host naming the project has always used.
func GeneratePublicID(email string) string {
	sum := sha256.Sum256([]byte(email))
	return fmt.Sprintf("photoshare/%s-%d", hex.EncodeToString(sum[:])[:12], time.Now().UnixNano())
}

// GenerateQRPublicID names a QR code object.
func GenerateQRPublicID() string {
	return "photoshare/qr/" + uuid.New().String()
}
