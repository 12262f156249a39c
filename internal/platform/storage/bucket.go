package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

// ObjectStore is the single-bucket object storage used for image originals.
type ObjectStore interface {
	Upload(ctx context.Context, key string, file io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type bucketStore struct {
	log        *logger.Logger
	client     *gcs.Client
	bucketName string
	cdnDomain  string
	// set when running against fake-gcs-server in local dev
	emulatorBase string
}

func NewObjectStore(baseLog *logger.Logger) (ObjectStore, error) {
	bucketName := os.Getenv("IMAGE_GCS_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var IMAGE_GCS_BUCKET_NAME")
	}
	cdnDomain := os.Getenv("IMAGE_CDN_DOMAIN")
	emulatorHost := strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/")

	ctx := context.Background()
	var (
		client *gcs.Client
		err    error
	)
	if emulatorHost != "" {
		client, err = gcs.NewClient(ctx, option.WithoutAuthentication())
	} else {
		client, err = gcs.NewClient(ctx, option.WithScopes(gcs.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	log := baseLog.With("service", "ObjectStore")
	log.Info("Object storage initialized",
		"bucket", bucketName,
		"cdn_domain", cdnDomain,
		"emulator_host", emulatorHost,
	)

	return &bucketStore{
		log:          log,
		client:       client,
		bucketName:   bucketName,
		cdnDomain:    cdnDomain,
		emulatorBase: emulatorHost,
	}, nil
}

func (bs *bucketStore) Upload(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.bucketName, err)
	}
	return nil
}

func (bs *bucketStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	if bs.emulatorBase != "" {
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", bs.emulatorBase, bs.bucketName, strings.ReplaceAll(key, "/", "%2F"))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return ""
	}
}
