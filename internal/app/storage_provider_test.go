package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/materialhub-backend/internal/platform/gcp"
	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.StorageConfigError{Code: gcp.ErrInvalidMode, Mode: "bad-mode"}, StorageProviderBootstrapErrorInvalidMode},
		{"missing emulator host", &gcp.StorageConfigError{Code: gcp.ErrMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", &gcp.StorageConfigError{Code: gcp.ErrInvalidEmulatorHost, EmulatorHost: "fake-gcs:4443"}, StorageProviderBootstrapErrorInvalidEmulatorHost},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError("gcs", "gcs", tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("cause not wrapped")
			}
		})
	}
}

func TestResolveAssetStorageRejectsUnknownProvider(t *testing.T) {
	_, _, err := resolveAssetStorage(context.Background(), logger.Nop(), StorageConfig{Provider: "ftp", Bucket: "b"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("want invalid_mode, got %v", err)
	}
}

func TestResolveAssetStorageGCSInvalidEmulatorHost(t *testing.T) {
	_, _, err := resolveAssetStorage(context.Background(), logger.Nop(), StorageConfig{
		Provider:        "gcs",
		Bucket:          "b",
		GCSMode:         "gcs_emulator",
		GCSEmulatorHost: "fake-gcs:4443",
	})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) || got.Code != StorageProviderBootstrapErrorInvalidEmulatorHost {
		t.Fatalf("want invalid_emulator_host, got %v", err)
	}
}

func TestResolveAssetStorageGCSEmulator(t *testing.T) {
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	store, closeFn, err := resolveAssetStorage(context.Background(), logger.Nop(), StorageConfig{
		Provider:        "gcs",
		Bucket:          "assets",
		GCSMode:         "gcs_emulator",
		GCSEmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	defer closeFn()
	if got := store.PublicURL("files/a.png"); !strings.HasPrefix(got, "http://fake-gcs:4443/") {
		t.Fatalf("emulator url: %q", got)
	}
}

func TestResolveAssetStorageS3(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	store, closeFn, err := resolveAssetStorage(context.Background(), logger.Nop(), StorageConfig{
		Provider:          "s3",
		Bucket:            "assets",
		S3Region:          "eu-central-1",
		S3AccessKeyID:     "AKIDEXAMPLE",
		S3SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	defer closeFn()
	if got, want := store.PublicURL("files/a.png"), "https://assets.s3.eu-central-1.amazonaws.com/files/a.png"; got != want {
		t.Fatalf("public url: want %q got %q", want, got)
	}
}
