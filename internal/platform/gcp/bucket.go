package gcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

// BucketConfig describes the bucket that holds user files.
type BucketConfig struct {
	Name        string
	CDNDomain   string
	PublicBase  string
	Credentials string
	Storage     StorageConfig
}

// AssetBucket serves public URLs and signed uploads for one GCS bucket.
type AssetBucket struct {
	log        *logger.Logger
	client     *storage.Client
	bucket     string
	mode       StorageMode
	emulator   string
	cdnDomain  string
	publicBase string
}

func NewAssetBucket(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*AssetBucket, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("missing bucket name")
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, fmt.Errorf("validate storage config: %w", err)
	}
	publicBase, source, err := resolvePublicBase(cfg.PublicBase, cfg.Storage)
	if err != nil {
		return nil, err
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	b := &AssetBucket{
		log:        log.With("service", "AssetBucket"),
		client:     client,
		bucket:     cfg.Name,
		mode:       cfg.Storage.Mode,
		emulator:   cfg.Storage.EmulatorHost,
		cdnDomain:  strings.TrimSpace(cfg.CDNDomain),
		publicBase: publicBase,
	}
	b.log.Info("Object storage initialized",
		"mode", cfg.Storage.Mode,
		"mode_inferred", cfg.Storage.Inferred,
		"public_base_source", source,
		"bucket", cfg.Name,
	)
	return b, nil
}

func newStorageClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.Storage.IsEmulator() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.Storage.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := ClientOptions(cfg.Credentials)
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func resolvePublicBase(raw string, cfg StorageConfig) (base string, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		u, perr := url.Parse(raw)
		if perr != nil || u.Scheme == "" || u.Host == "" {
			return "", "", fmt.Errorf("invalid public base URL %q; expected absolute URL like http://localhost:4443", raw)
		}
		return strings.TrimRight(raw, "/"), "configured", nil
	}
	if cfg.IsEmulator() {
		return cfg.EmulatorHost, "emulator_host", nil
	}
	return "", "gcs_default", nil
}

// PublicURL prefers the CDN, then the emulator media endpoint, then the public base.
func (b *AssetBucket) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if b.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", b.cdnDomain, key)
	}
	if b.mode == StorageModeGCSEmulator {
		if base := b.emulatorBase(); base != "" {
			return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(b.bucket), url.PathEscape(key))
		}
	}
	if b.publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", b.publicBase, b.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, key)
}

func (b *AssetBucket) emulatorBase() string {
	if b.publicBase != "" {
		return b.publicBase
	}
	return b.emulator
}

// PresignUpload returns a V4 signed PUT URL. The emulator does not verify
// signatures, so it gets its plain media upload endpoint.
func (b *AssetBucket) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if b.mode == StorageModeGCSEmulator {
		q := url.Values{"uploadType": {"media"}, "name": {key}}
		return fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", b.emulatorBase(), url.PathEscape(b.bucket), q.Encode()), nil
	}
	u, err := b.client.Bucket(b.bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign upload url: %w", err)
	}
	return u, nil
}

func (b *AssetBucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
