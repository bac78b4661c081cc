package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"contractflow/internal/config"
	"contractflow/pkg/utils"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Asset kinds a client may upload against a contract.
const (
	AssetKindLogo    = "logo"
	AssetKindReceipt = "receipt"
)

// AssetStore keeps client uploads and returns a URL the record can point at.
type AssetStore interface {
	Upload(ctx context.Context, token, kind, filename, contentType string, reader io.Reader, size int64) (string, error)
}

type MinioAssetStore struct {
	client        *minio.Client
	bucket        string
	endpoint      string
	useSSL        bool
	publicBaseURL string
}

func NewMinioAssetStore(cfg config.MinioConfig) (*MinioAssetStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioAssetStore{
		client:        client,
		bucket:        cfg.Bucket,
		endpoint:      cfg.Endpoint,
		useSSL:        cfg.UseSSL,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioAssetStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (s *MinioAssetStore) Upload(ctx context.Context, token, kind, filename, contentType string, reader io.Reader, size int64) (string, error) {
	object := assetObjectName(token, kind, filename)

	_, err := s.client.PutObject(ctx, s.bucket, object, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", kind, err)
	}

	return s.publicURL(object), nil
}

func (s *MinioAssetStore) publicURL(object string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, object)
	}
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, object)
}

// assetObjectName groups uploads by contract and kind; the random name keeps
// re-uploads from overwriting each other.
func assetObjectName(token, kind, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("%s/%s/%s%s", token, kind, uuid.NewString(), ext)
}

type disabledAssetStore struct{}

// NewDisabledAssetStore rejects every upload; clients fall back to links.
func NewDisabledAssetStore() AssetStore {
	return disabledAssetStore{}
}

func (disabledAssetStore) Upload(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", utils.ErrAssetUnavailable
}
