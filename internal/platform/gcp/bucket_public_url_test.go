package gcp

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestResolvePublicBaseGCSDefault(t *testing.T) {
	base, source, err := resolvePublicBase("", StorageConfig{Mode: StorageModeGCS})
	if err != nil {
		t.Fatalf("resolvePublicBase: %v", err)
	}
	if base != "" {
		t.Fatalf("base: want empty got=%q", base)
	}
	if source != "gcs_default" {
		t.Fatalf("source: want=%q got=%q", "gcs_default", source)
	}
}

func TestResolvePublicBaseEmulatorFallback(t *testing.T) {
	base, source, err := resolvePublicBase("", StorageConfig{Mode: StorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"})
	if err != nil {
		t.Fatalf("resolvePublicBase: %v", err)
	}
	if base != "http://fake-gcs:4443" || source != "emulator_host" {
		t.Fatalf("got base=%q source=%q", base, source)
	}
}

func TestResolvePublicBaseConfigured(t *testing.T) {
	base, source, err := resolvePublicBase("http://localhost:4443/", StorageConfig{Mode: StorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"})
	if err != nil {
		t.Fatalf("resolvePublicBase: %v", err)
	}
	if base != "http://localhost:4443" || source != "configured" {
		t.Fatalf("got base=%q source=%q", base, source)
	}
}

func TestResolvePublicBaseInvalid(t *testing.T) {
	if _, _, err := resolvePublicBase("localhost:4443", StorageConfig{Mode: StorageModeGCS}); err == nil {
		t.Fatalf("resolvePublicBase: expected error, got nil")
	}
}

func TestPublicURLGCSDefault(t *testing.T) {
	b := &AssetBucket{bucket: "files-bucket", mode: StorageModeGCS}
	got := b.PublicURL("files/u1/a1/notes.pdf")
	want := "https://storage.googleapis.com/files-bucket/files/u1/a1/notes.pdf"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
}

func TestPublicURLUsesCDNDomain(t *testing.T) {
	b := &AssetBucket{bucket: "files-bucket", cdnDomain: "cdn.example.com"}
	got := b.PublicURL("/files/u1/a1/notes.pdf")
	want := "https://cdn.example.com/files/u1/a1/notes.pdf"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
}

func TestPublicURLUsesPublicBase(t *testing.T) {
	b := &AssetBucket{bucket: "files-bucket", mode: StorageModeGCS, publicBase: "http://localhost:4443"}
	got := b.PublicURL("files/a.png")
	want := "http://localhost:4443/files-bucket/files/a.png"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
}

func TestPublicURLUsesEmulatorMediaEndpoint(t *testing.T) {
	b := &AssetBucket{bucket: "files-bucket", mode: StorageModeGCSEmulator, emulator: "http://fake-gcs:4443"}
	got := b.PublicURL("files/u1/a b.png")
	want := "http://fake-gcs:4443/storage/v1/b/files-bucket/o/" + url.PathEscape("files/u1/a b.png") + "?alt=media"
	if got != want {
		t.Fatalf("PublicURL: want=%q got=%q", want, got)
	}
}

func TestPresignUploadEmulator(t *testing.T) {
	b := &AssetBucket{bucket: "files-bucket", mode: StorageModeGCSEmulator, emulator: "http://fake-gcs:4443"}
	got, err := b.PresignUpload(context.Background(), "files/u1/a1/notes.pdf", "application/pdf", time.Minute)
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if !strings.HasPrefix(got, "http://fake-gcs:4443/upload/storage/v1/b/files-bucket/o?") {
		t.Fatalf("PresignUpload: unexpected url %q", got)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if name := u.Query().Get("name"); name != "files/u1/a1/notes.pdf" {
		t.Fatalf("name: want=%q got=%q", "files/u1/a1/notes.pdf", name)
	}
}
