package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"microchat/internal/config"
	"microchat/internal/models"
)

// Object prefixes per image owner kind.
const (
	PrefixAvatars = "avatars"
	PrefixChats   = "chats"
	PrefixNews    = "news"
)

// Storage mirrors uploaded images to an object store so they can be served
// by URL. The database column stays the source of truth.
type Storage interface {
	UploadImage(ctx context.Context, prefix, ownerID string, image models.Image) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(ctx context.Context, cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета MinIO: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета MinIO: %w", err)
		}
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.MinIO.BucketName,
		publicURL: PublicBaseURL(cfg.MinIO),
	}, nil
}

// PublicBaseURL is the URL prefix objects of the bucket are reachable at.
func PublicBaseURL(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
}

// ObjectName builds the key an image is stored under, e.g.
// avatars/<owner>/2024/03/<uuid>.png.
func ObjectName(prefix, ownerID string, data []byte, now time.Time) string {
	return fmt.Sprintf("%s/%s/%d/%02d/%s%s",
		prefix,
		ownerID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		mimetype.Detect(data).Extension())
}

func (m *MinIOClient) UploadImage(ctx context.Context, prefix, ownerID string, image models.Image) (string, string, error) {
	now := time.Now().UTC()
	objectName := ObjectName(prefix, ownerID, image.Data, now)

	contentType := image.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(image.Data).String()
	}

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(image.Data), int64(len(image.Data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": image.FileName,
				"owner-id":          ownerID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return objectName, m.publicURL + "/" + objectName, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}
