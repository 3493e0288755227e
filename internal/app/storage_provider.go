package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/materialhub-backend/internal/platform/gcp"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
	"github.com/yungbote/materialhub-backend/internal/platform/s3store"
	"github.com/yungbote/materialhub-backend/internal/services"
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code     StorageProviderBootstrapErrorCode
	Provider string
	Mode     string
	Cause    error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s provider=%q mode=%q): %v", e.Code, e.Provider, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func classifyStorageProviderBootstrapError(provider, mode string, err error) error {
	if err == nil {
		return nil
	}
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.StorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ErrInvalidMode:
			code = StorageProviderBootstrapErrorInvalidMode
		case gcp.ErrMissingEmulatorHost:
			code = StorageProviderBootstrapErrorMissingEmulatorHost
		case gcp.ErrInvalidEmulatorHost:
			code = StorageProviderBootstrapErrorInvalidEmulatorHost
		}
	}
	return &StorageProviderBootstrapError{Code: code, Provider: provider, Mode: mode, Cause: err}
}

type assetStore interface {
	services.AssetStorage
}

// resolveAssetStorage builds the configured object store. close releases its client.
func resolveAssetStorage(ctx context.Context, log *logger.Logger, cfg StorageConfig) (store assetStore, close func() error, err error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	noop := func() error { return nil }
	defer func() {
		if err != nil {
			log.Error("Object storage provider selection failed", "provider", provider, "error", err)
		}
	}()

	switch provider {
	case "", "gcs":
		storageCfg, err := gcp.ResolveStorageConfig(cfg.GCSMode, cfg.GCSEmulatorHost)
		if err != nil {
			return nil, noop, classifyStorageProviderBootstrapError("gcs", cfg.GCSMode, err)
		}
		bucket, err := gcp.NewAssetBucket(ctx, log, gcp.BucketConfig{
			Name:        cfg.Bucket,
			CDNDomain:   cfg.CDNDomain,
			PublicBase:  cfg.PublicBase,
			Credentials: cfg.GCSCredentials,
			Storage:     storageCfg,
		})
		if err != nil {
			return nil, noop, classifyStorageProviderBootstrapError("gcs", string(storageCfg.Mode), err)
		}
		return bucket, bucket.Close, nil
	case "s3":
		s, err := s3store.New(ctx, log, s3store.Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBase:      cfg.PublicBase,
		})
		if err != nil {
			return nil, noop, classifyStorageProviderBootstrapError("s3", "", err)
		}
		return s, noop, nil
	default:
		return nil, noop, &StorageProviderBootstrapError{
			Code:     StorageProviderBootstrapErrorInvalidMode,
			Provider: provider,
			Cause:    fmt.Errorf("unsupported storage provider %q", cfg.Provider),
		}
	}
}
